package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPairs(t *testing.T) {
	path := writeFile(t, "pool.pairs", "0\t1\n1\t2\t0.5\n")

	pairs, err := ReadPairs(path, 3)
	require.NoError(t, err)
	assert.Equal(t, []Pair{
		{WinnerIndex: 0, LoserIndex: 1, Weight: 1},
		{WinnerIndex: 1, LoserIndex: 2, Weight: 0.5},
	}, pairs)
}

func TestReadPairs_IndexOutOfRange(t *testing.T) {
	path := writeFile(t, "pool.pairs", "0\t1\n1\t2\t0.5\n")

	_, err := ReadPairs(path, 2)
	var perr *PairIndexError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Index)
	assert.Equal(t, 2, perr.DocCount)
	assert.Equal(t, 2, perr.Line)
}

func TestReadPairs_BlankLinesSkipped(t *testing.T) {
	path := writeFile(t, "pool.pairs", "0\t1\n\n\n2\t0\n")

	pairs, err := ReadPairs(path, 3)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, 2, pairs[1].WinnerIndex)
}

func TestReadPairs_SoftStopOnMalformedLine(t *testing.T) {
	// An unterminated quote is a tokenizer-level failure: reading stops
	// there but the pairs already read are kept.
	path := writeFile(t, "pool.pairs", "0\t1\n\"2\t0\n1\t0\n")

	pairs, err := ReadPairs(path, 3)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{WinnerIndex: 0, LoserIndex: 1, Weight: 1}}, pairs)
}

func TestReadPairs_WrongFieldCount(t *testing.T) {
	path := writeFile(t, "pool.pairs", "0\t1\t0.5\t7\n")

	_, err := ReadPairs(path, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "two or three columns")
}

func TestReadPairs_BadNumbers(t *testing.T) {
	for _, content := range []string{"x\t1\n", "0\ty\n", "0\t1\tz\n"} {
		path := writeFile(t, "pool.pairs", content)
		_, err := ReadPairs(path, 3)
		assert.Error(t, err, content)
	}
}

func TestWeightPairs(t *testing.T) {
	pairs := []Pair{
		{WinnerIndex: 0, LoserIndex: 1, Weight: 1},
		{WinnerIndex: 1, LoserIndex: 0, Weight: 0.5},
	}
	WeightPairs([]float32{2, 3}, pairs)

	assert.Equal(t, float32(2), pairs[0].Weight)
	assert.Equal(t, float32(1.5), pairs[1].Weight)
}
