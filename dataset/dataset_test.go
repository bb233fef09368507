package dataset

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lekhraj-d/catboost/pool"
)

func testPool() *pool.Pool {
	return &pool.Pool{
		Features: [][]float32{{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9, 10}},
		Targets:  []float32{10, 20, 30, 40, 50},
	}
}

func TestPoolDataset_ExampleAndBatch(t *testing.T) {
	d := New(testPool())

	require.Equal(t, 5, d.Len())

	in, la, err := d.Example(1)
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 4}, in)
	assert.Equal(t, []float32{20}, la)

	_, _, err = d.Example(5)
	assert.Error(t, err)
	_, _, err = d.Example(-1)
	assert.Error(t, err)

	inputs, labels, err := d.Batch([]int{0, 4})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 2}, {9, 10}}, inputs)
	assert.Equal(t, [][]float32{{10}, {50}}, labels)
}

func TestPoolDataset_YieldEpoch(t *testing.T) {
	d := New(testPool())
	d.BatchSize = 2

	var batches int
	for {
		_, inputs, labels, err := d.Yield()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.Len(t, inputs, 1)
		require.Len(t, labels, 1)
		require.NotNil(t, inputs[0])
		require.NotNil(t, labels[0])
		batches++
	}
	// 5 examples at batch size 2: two full batches and one partial.
	assert.Equal(t, 3, batches)

	_, _, _, err := d.Yield()
	assert.Equal(t, io.EOF, err)

	require.NoError(t, d.Restart())
	_, inputs, _, err := d.Yield()
	require.NoError(t, err)
	assert.NotNil(t, inputs[0])
}

func TestPoolDataset_ShuffleDeterministic(t *testing.T) {
	a := New(testPool())
	b := New(testPool())
	a.Shuffle(7)
	b.Shuffle(7)

	// Same seed yields the same order, and the order stays a permutation.
	assert.Equal(t, a.order, b.order)
	seen := make(map[int]bool)
	for _, idx := range a.order {
		assert.False(t, seen[idx])
		seen[idx] = true
	}
	assert.Len(t, seen, a.Len())
}

func TestMakeBatchFlat(t *testing.T) {
	flat, err := MakeBatchFlat(
		[][]float32{{1, 2}, {3, 4}},
		[][]float32{{10}, {20}},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, flat.BatchSize)
	assert.Equal(t, 2, flat.InputDim)
	assert.Equal(t, 1, flat.LabelDim)
	assert.Equal(t, []float32{1, 2, 3, 4}, flat.Inputs)
	assert.Equal(t, []float32{10, 20}, flat.Labels)

	inT, laT, err := flat.ToTensors()
	require.NoError(t, err)
	require.NotNil(t, inT)
	require.NotNil(t, laT)
}

func TestMakeBatchFlat_Errors(t *testing.T) {
	_, err := MakeBatchFlat([][]float32{{1}}, [][]float32{{1}, {2}})
	assert.Error(t, err)

	_, err = MakeBatchFlat([][]float32{{1, 2}, {3}}, [][]float32{{1}, {2}})
	assert.Error(t, err)

	flat, err := MakeBatchFlat(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, flat.BatchSize)
}
