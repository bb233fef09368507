package dataset

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/lekhraj-d/catboost/pool"
)

// PoolDataset presents a loaded pool as training examples for gomlx-style
// training loops. Inputs are the per-document feature vectors; labels are
// the single target value.
type PoolDataset struct {
	// BatchSize used by Yield.
	BatchSize int

	pool  *pool.Pool
	order []int
	pos   int
	rand  *rand.Rand
}

// New wraps a loaded pool. The iteration order starts out as file order;
// Shuffle permutes it.
func New(p *pool.Pool) *PoolDataset {
	order := make([]int, p.DocCount())
	for i := range order {
		order[i] = i
	}
	return &PoolDataset{
		BatchSize: 32,
		pool:      p,
		order:     order,
		rand:      rand.New(rand.NewSource(0)),
	}
}

// Len returns the number of examples.
func (d *PoolDataset) Len() int {
	return d.pool.DocCount()
}

// Example returns the feature vector and label of one example.
func (d *PoolDataset) Example(i int) (inputs []float32, labels []float32, err error) {
	if i < 0 || i >= d.Len() {
		return nil, nil, fmt.Errorf("index %d out of range [0, %d)", i, d.Len())
	}
	return d.pool.Features[i], []float32{d.pool.Targets[i]}, nil
}

// Batch gathers the examples at the given indices.
func (d *PoolDataset) Batch(indices []int) (inputs [][]float32, labels [][]float32, err error) {
	inputs = make([][]float32, len(indices))
	labels = make([][]float32, len(indices))
	for pos, idx := range indices {
		in, la, err := d.Example(idx)
		if err != nil {
			return nil, nil, err
		}
		inputs[pos] = in
		labels[pos] = la
	}
	return inputs, labels, nil
}

// Shuffle permutes the iteration order used by Yield.
func (d *PoolDataset) Shuffle(seed int64) {
	d.rand.Seed(seed)
	d.rand.Shuffle(len(d.order), func(i, j int) {
		d.order[i], d.order[j] = d.order[j], d.order[i]
	})
}

// Name returns the name of the dataset.
func (d *PoolDataset) Name() string {
	return "PoolDataset"
}

// Yield returns the next batch as gomlx tensors. It returns io.EOF once the
// epoch is exhausted; Restart begins the next epoch.
func (d *PoolDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if d.pos >= d.Len() {
		return nil, nil, nil, io.EOF
	}
	end := d.pos + d.BatchSize
	if end > d.Len() {
		end = d.Len()
	}
	indices := d.order[d.pos:end]
	d.pos = end

	in, la, err := d.Batch(indices)
	if err != nil {
		return nil, nil, nil, err
	}
	flat, err := MakeBatchFlat(in, la)
	if err != nil {
		return nil, nil, nil, err
	}
	inT, laT, err := flat.ToTensors()
	if err != nil {
		return nil, nil, nil, err
	}
	return nil, []*tensors.Tensor{inT}, []*tensors.Tensor{laT}, nil
}

// Restart resets the dataset for a new epoch.
func (d *PoolDataset) Restart() error {
	d.pos = 0
	return nil
}

// BatchFlat stores a batch in flat contiguous buffers along with shape
// metadata, which keeps this package decoupled from any particular tensor
// constructor.
type BatchFlat struct {
	Inputs    []float32
	Labels    []float32
	BatchSize int
	InputDim  int
	LabelDim  int
}

// MakeBatchFlat flattens a batch into contiguous buffers.
func MakeBatchFlat(inputs, labels [][]float32) (*BatchFlat, error) {
	if len(inputs) != len(labels) {
		return nil, fmt.Errorf("inputs and labels batch sizes don't match: %d != %d", len(inputs), len(labels))
	}
	if len(inputs) == 0 {
		return &BatchFlat{}, nil
	}

	batchSize := len(inputs)
	inputDim := len(inputs[0])
	labelDim := len(labels[0])

	flatInputs := make([]float32, batchSize*inputDim)
	flatLabels := make([]float32, batchSize*labelDim)

	for i := range batchSize {
		if len(inputs[i]) != inputDim {
			return nil, fmt.Errorf("inconsistent input dimensions at example %d: expected %d, got %d",
				i, inputDim, len(inputs[i]))
		}
		if len(labels[i]) != labelDim {
			return nil, fmt.Errorf("inconsistent label dimensions at example %d: expected %d, got %d",
				i, labelDim, len(labels[i]))
		}
		copy(flatInputs[i*inputDim:], inputs[i])
		copy(flatLabels[i*labelDim:], labels[i])
	}

	return &BatchFlat{
		Inputs:    flatInputs,
		Labels:    flatLabels,
		BatchSize: batchSize,
		InputDim:  inputDim,
		LabelDim:  labelDim,
	}, nil
}

// ToTensors converts the flat batch to gomlx tensors.
func (b *BatchFlat) ToTensors() (*tensors.Tensor, *tensors.Tensor, error) {
	if b.BatchSize == 0 || b.InputDim == 0 || b.LabelDim == 0 {
		emptyInputs := make([][]float32, 0)
		emptyLabels := make([][]float32, 0)
		return tensors.FromAnyValue(emptyInputs), tensors.FromAnyValue(emptyLabels), nil
	}
	inputs := make([][]float32, b.BatchSize)
	labels := make([][]float32, b.BatchSize)
	for i := range b.BatchSize {
		inputs[i] = b.Inputs[i*b.InputDim : (i+1)*b.InputDim]
		labels[i] = b.Labels[i*b.LabelDim : (i+1)*b.LabelDim]
	}
	return tensors.FromAnyValue(inputs), tensors.FromAnyValue(labels), nil
}
