package pool

import (
	"math"
	"strconv"
)

// Builder accumulates parsed rows into a dataset. The parsing pipeline only
// calls this contract and never owns the storage behind it, so test doubles
// can record calls for assertion.
//
// Row indices passed to the AddXxx methods are block-local; StartNextBlock
// establishes the base offset for the following calls.
type Builder interface {
	// Start is called once before any rows, with the derived metadata, the
	// total document count and the feature-slot indices of categorical
	// features.
	Start(meta *MetaInfo, docCount int, catFeatures []int)
	// SetFeatureIDs provides one id string per feature slot.
	SetFeatureIDs(ids []string)
	// GenerateDocIDs fills in synthetic document ids when the pool has no
	// DocId column.
	GenerateDocIDs(offset int)
	// StartNextBlock announces that the next size rows belong to a new
	// block.
	StartNextBlock(size int)

	// GetCatFeatureValue maps a categorical token to the value stored in
	// its feature slot.
	GetCatFeatureValue(token string) float32

	AddTarget(idx int, value float32)
	AddWeight(idx int, value float32)
	AddQueryID(idx int, id uint64)
	AddSubgroupID(idx int, id uint32)
	AddBaseline(idx, baselineIdx int, value float64)
	AddDocID(idx int, token string)
	AddTimestamp(idx int, value uint64)
	// AddAllFloatFeatures flushes the completed feature buffer for one row.
	AddAllFloatFeatures(idx int, features []float32)

	// Weights exposes the per-document weights accumulated so far; pair
	// weighting reads it keyed by winner index.
	Weights() []float32
	SetPairs(pairs []Pair)
	Finish()
}

// Pool is the in-memory dataset produced by MemoryBuilder. Slices for
// absent columns stay nil; Weights defaults to 1 for every document.
type Pool struct {
	Meta *MetaInfo

	Features    [][]float32
	Targets     []float32
	Weights     []float32
	GroupIDs    []uint64
	SubgroupIDs []uint32
	Baselines   [][]float64
	DocIDs      []string
	Timestamps  []uint64

	FeatureIDs  []string
	CatFeatures []int
	// CatValues maps a stored categorical feature value back to the token
	// it was hashed from.
	CatValues map[float32]string

	Pairs []Pair
}

// DocCount returns the number of documents in the pool.
func (p *Pool) DocCount() int {
	return len(p.Features)
}

// MemoryBuilder implements Builder by materializing a Pool.
type MemoryBuilder struct {
	pool      *Pool
	base      int
	blockSize int
}

var _ Builder = (*MemoryBuilder)(nil)

// NewMemoryBuilder creates an empty in-memory builder.
func NewMemoryBuilder() *MemoryBuilder {
	return &MemoryBuilder{pool: &Pool{CatValues: make(map[float32]string)}}
}

// Pool returns the dataset built so far. Call it after the provider has
// finished.
func (b *MemoryBuilder) Pool() *Pool {
	return b.pool
}

func (b *MemoryBuilder) Start(meta *MetaInfo, docCount int, catFeatures []int) {
	p := b.pool
	p.Meta = meta
	p.CatFeatures = catFeatures
	p.Features = make([][]float32, docCount)
	p.Targets = make([]float32, docCount)
	p.Weights = make([]float32, docCount)
	for i := range p.Weights {
		p.Weights[i] = 1
	}
	p.DocIDs = make([]string, docCount)
	if meta.HasGroupID {
		p.GroupIDs = make([]uint64, docCount)
	}
	if meta.HasSubgroupID {
		p.SubgroupIDs = make([]uint32, docCount)
	}
	if meta.HasTimestamp {
		p.Timestamps = make([]uint64, docCount)
	}
	if meta.BaselineCount > 0 {
		p.Baselines = make([][]float64, meta.BaselineCount)
		for i := range p.Baselines {
			p.Baselines[i] = make([]float64, docCount)
		}
	}
	b.base = 0
	b.blockSize = 0
}

func (b *MemoryBuilder) SetFeatureIDs(ids []string) {
	b.pool.FeatureIDs = ids
}

func (b *MemoryBuilder) GenerateDocIDs(offset int) {
	for i := range b.pool.DocIDs {
		b.pool.DocIDs[i] = strconv.Itoa(offset + i)
	}
}

func (b *MemoryBuilder) StartNextBlock(size int) {
	b.base += b.blockSize
	b.blockSize = size
}

func (b *MemoryBuilder) GetCatFeatureValue(token string) float32 {
	v := CatFeatureValue(token)
	b.pool.CatValues[v] = token
	return v
}

func (b *MemoryBuilder) AddTarget(idx int, value float32) {
	b.pool.Targets[b.base+idx] = value
}

func (b *MemoryBuilder) AddWeight(idx int, value float32) {
	b.pool.Weights[b.base+idx] = value
}

func (b *MemoryBuilder) AddQueryID(idx int, id uint64) {
	b.pool.GroupIDs[b.base+idx] = id
}

func (b *MemoryBuilder) AddSubgroupID(idx int, id uint32) {
	b.pool.SubgroupIDs[b.base+idx] = id
}

func (b *MemoryBuilder) AddBaseline(idx, baselineIdx int, value float64) {
	b.pool.Baselines[baselineIdx][b.base+idx] = value
}

func (b *MemoryBuilder) AddDocID(idx int, token string) {
	b.pool.DocIDs[b.base+idx] = token
}

func (b *MemoryBuilder) AddTimestamp(idx int, value uint64) {
	b.pool.Timestamps[b.base+idx] = value
}

func (b *MemoryBuilder) AddAllFloatFeatures(idx int, features []float32) {
	row := make([]float32, len(features))
	copy(row, features)
	b.pool.Features[b.base+idx] = row
}

func (b *MemoryBuilder) Weights() []float32 {
	return b.pool.Weights
}

func (b *MemoryBuilder) SetPairs(pairs []Pair) {
	b.pool.Pairs = pairs
}

func (b *MemoryBuilder) Finish() {}

// quietNaN32 is the substitute for missing numeric feature values.
func quietNaN32() float32 {
	return float32(math.NaN())
}
