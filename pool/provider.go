package pool

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Options configures pool loading. The zero value selects tab-delimited
// input with no header, no sidecar files and a default block size.
type Options struct {
	// Delimiter is the single-character field separator. Zero means tab.
	Delimiter byte

	// HasHeader marks the first line as a header. It is informational only
	// and feeds feature id generation.
	HasHeader bool

	// ColumnDescriptionPath points to the optional sidecar file declaring
	// column roles. Without it the first column is the label and the rest
	// are numeric features.
	ColumnDescriptionPath string

	// PairsPath points to the optional pairwise-preferences file.
	PairsPath string

	// IgnoredFeatures lists feature-slot indices whose values are not
	// computed. Tokens in ignored columns are still consumed.
	IgnoredFeatures []int

	// ClassNames switches the target to classification mode: the label
	// token must match one of these names and converts to its index.
	ClassNames []string

	// BlockSize is the number of lines read per block. Zero means 10000.
	BlockSize int

	// Logger receives diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

const defaultBlockSize = 10000

// Provider drives one pool file into a Builder.
type Provider interface {
	Do(builder Builder) error
	Close() error
}

// ProviderFactory creates a Provider for one pool file.
type ProviderFactory func(path string, opts Options) (Provider, error)

// providerRegistry maps format names to factories. It is built once at
// package initialization and only read afterwards.
var providerRegistry = map[string]ProviderFactory{
	"":    newDsvProviderAsProvider,
	"dsv": newDsvProviderAsProvider,
}

func newDsvProviderAsProvider(path string, opts Options) (Provider, error) {
	return NewDsvProvider(path, opts)
}

// NewProvider creates a provider for the named format. The empty format name
// and "dsv" both select the delimited-text provider.
func NewProvider(format, path string, opts Options) (Provider, error) {
	factory, ok := providerRegistry[format]
	if !ok {
		return nil, fmt.Errorf("unknown pool format %q", format)
	}
	return factory(path, opts)
}

// LoadPool reads a delimited pool file into memory.
func LoadPool(path string, opts Options) (*Pool, error) {
	provider, err := NewProvider("dsv", path, opts)
	if err != nil {
		return nil, err
	}
	defer provider.Close()

	builder := NewMemoryBuilder()
	if err := provider.Do(builder); err != nil {
		return nil, err
	}
	return builder.Pool(), nil
}

// DsvProvider parses a delimited-text pool. Construction validates the
// schema and primes the async pipeline; Do streams every row into a Builder.
type DsvProvider struct {
	path      string
	opts      Options
	delimiter string
	logger    *slog.Logger

	reader        LineReader
	proc          *AsyncRowProcessor
	convertTarget *TargetConverter

	meta           *MetaInfo
	docCount       int
	featureIgnored []bool
	catFeatures    []int
	featureIDs     []string
}

var _ Provider = (*DsvProvider)(nil)

// NewDsvProvider opens the pool file, derives the column schema from the
// first data line (and the sidecar file, if any), applies the ignore list
// and starts the first background block read.
func NewDsvProvider(path string, opts Options) (*DsvProvider, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = '\t'
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = defaultBlockSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.PairsPath != "" {
		if _, err := os.Stat(opts.PairsPath); err != nil {
			return nil, fmt.Errorf("pairs file %s does not exist: %w", opts.PairsPath, err)
		}
	}

	lineCount, err := CountLines(path)
	if err != nil {
		return nil, fmt.Errorf("failed to count pool lines: %w", err)
	}
	if opts.HasHeader {
		lineCount--
	}

	reader, err := NewLineReader(path, opts.HasHeader)
	if err != nil {
		return nil, err
	}

	p := &DsvProvider{
		path:          path,
		opts:          opts,
		delimiter:     string(opts.Delimiter),
		logger:        opts.Logger,
		reader:        reader,
		convertTarget: NewTargetConverter(opts.ClassNames),
		docCount:      lineCount,
	}

	firstLine, ok, err := reader.ReadLine()
	if err != nil {
		reader.Close()
		return nil, err
	}
	if !ok {
		reader.Close()
		return nil, ErrNoData
	}

	columnCount := strings.Count(firstLine, p.delimiter) + 1
	columns, err := p.createColumns(columnCount)
	if err != nil {
		reader.Close()
		return nil, err
	}
	p.meta = NewMetaInfo(columns)
	if p.meta.FeatureCount == 0 {
		reader.Close()
		return nil, ErrNoFeatures
	}

	if err := p.applyIgnoredFeatures(opts.IgnoredFeatures); err != nil {
		reader.Close()
		return nil, err
	}

	p.catFeatures = p.meta.CatFeatureIndices()
	header, hasHeader := reader.Header()
	p.featureIDs = p.meta.GenerateFeatureIDs(header, hasHeader, p.delimiter)

	p.proc = NewAsyncRowProcessor(opts.BlockSize)
	p.proc.AddFirstLine(firstLine)
	p.proc.ReadBlockAsync(reader.ReadLine)

	p.logger.Debug("pool provider ready",
		"path", path,
		"columns", columnCount,
		"features", p.meta.FeatureCount,
		"docs", lineCount,
	)

	return p, nil
}

func (p *DsvProvider) createColumns(columnCount int) ([]Column, error) {
	if p.opts.ColumnDescriptionPath != "" {
		return ReadColumnDescription(p.opts.ColumnDescriptionPath, columnCount)
	}
	return DefaultColumns(columnCount), nil
}

func (p *DsvProvider) applyIgnoredFeatures(ignored []int) error {
	featureCount := p.meta.FeatureCount
	p.featureIgnored = make([]bool, featureCount)
	ignoredCount := 0
	for _, id := range ignored {
		if id < 0 || id >= featureCount {
			return &IgnoredFeatureError{ID: id, FeatureCount: featureCount}
		}
		if !p.featureIgnored[id] {
			ignoredCount++
		}
		p.featureIgnored[id] = true
	}
	if featureCount-ignoredCount <= 0 {
		return ErrAllFeaturesIgnored
	}
	return nil
}

// MetaInfo returns the pool metadata derived at construction.
func (p *DsvProvider) MetaInfo() *MetaInfo {
	return p.meta
}

// DocCount returns the number of data rows in the pool file.
func (p *DsvProvider) DocCount() int {
	return p.docCount
}

// Do streams the whole pool into the builder: Start, every block of rows in
// file order, then pairs and Finish. Any parse error aborts the load;
// discarding the partially-filled builder is the caller's responsibility.
func (p *DsvProvider) Do(builder Builder) error {
	p.startBuilder(builder)
	for {
		ok, err := p.proc.ReadBlock()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := p.processBlock(builder); err != nil {
			return err
		}
	}
	return p.finalizeBuilder(builder)
}

func (p *DsvProvider) startBuilder(builder Builder) {
	builder.Start(p.meta, p.docCount, p.catFeatures)
	if len(p.featureIDs) > 0 {
		builder.SetFeatureIDs(p.featureIDs)
	}
	if !p.meta.HasDocIDs {
		builder.GenerateDocIDs(0)
	}
}

func (p *DsvProvider) processBlock(builder Builder) error {
	builder.StartNextBlock(p.proc.ParseBufferSize())
	return p.proc.ProcessBlock(func(line string, idx int) error {
		return p.parseLine(builder, line, idx)
	})
}

func (p *DsvProvider) finalizeBuilder(builder Builder) error {
	if p.opts.PairsPath != "" {
		pairs, err := readPairs(p.opts.PairsPath, p.docCount, p.logger)
		if err != nil {
			return err
		}
		if p.meta.HasGroupWeight {
			WeightPairs(builder.Weights(), pairs)
		}
		builder.SetPairs(pairs)
	}
	builder.Finish()
	return nil
}

// rowState is the transient per-row parse state: the feature buffer plus the
// running feature and baseline slot counters.
type rowState struct {
	builder     Builder
	lineIdx     int
	row         int
	featureID   int
	baselineIdx int
	features    []float32
}

// roleHandler consumes one token of the given 1-based column for its role.
type roleHandler func(p *DsvProvider, st *rowState, token string, column int) error

// roleHandlers is the closed dispatch table over Role. A nil entry means the
// enumeration and the table went out of sync, which parseLine surfaces as
// ErrUnknownRole.
var roleHandlers = [roleCount]roleHandler{
	RoleNum:         (*DsvProvider).handleNum,
	RoleCateg:       (*DsvProvider).handleCateg,
	RoleLabel:       (*DsvProvider).handleLabel,
	RoleWeight:      (*DsvProvider).handleWeight,
	RoleGroupWeight: (*DsvProvider).handleWeight,
	RoleGroupID:     (*DsvProvider).handleGroupID,
	RoleSubgroupID:  (*DsvProvider).handleSubgroupID,
	RoleBaseline:    (*DsvProvider).handleBaseline,
	RoleDocID:       (*DsvProvider).handleDocID,
	RoleTimestamp:   (*DsvProvider).handleTimestamp,
	RoleAuxiliary:   (*DsvProvider).handleAuxiliary,
}

// parseLine tokenizes one line and walks the tokens in lockstep with the
// column schema, writing results into the builder. lineIdx is the 0-based
// index within the current block.
func (p *DsvProvider) parseLine(builder Builder, line string, lineIdx int) error {
	st := &rowState{
		builder:  builder,
		lineIdx:  lineIdx,
		row:      p.proc.LinesProcessed() + lineIdx + 1,
		features: make([]float32, p.meta.FeatureCount),
	}

	columns := p.meta.Columns
	tokens := strings.Split(line, p.delimiter)
	for i, token := range tokens {
		if i >= len(columns) {
			break
		}
		role := columns[i].Role
		if role < 0 || role >= roleCount || roleHandlers[role] == nil {
			return fmt.Errorf("%w: %d (column %d)", ErrUnknownRole, int(role), i+1)
		}
		if err := roleHandlers[role](p, st, token, i+1); err != nil {
			return err
		}
	}

	builder.AddAllFloatFeatures(lineIdx, st.features)

	if len(tokens) != len(columns) {
		return &RowWidthMismatchError{Expected: len(columns), Found: len(tokens), Row: st.row}
	}
	return nil
}

func (p *DsvProvider) handleNum(st *rowState, token string, column int) error {
	if !p.featureIgnored[st.featureID] {
		var val float32
		v, err := strconv.ParseFloat(token, 32)
		if err == nil {
			val = float32(v)
		} else if IsNaNValue(token) || token == "" {
			val = quietNaN32()
		} else {
			return &TypeMismatchError{Role: RoleNum, Feature: st.featureID, Column: column, Row: st.row, Value: token}
		}
		if val == 0 {
			val = 0 // remove negative zeros
		}
		st.features[st.featureID] = val
	}
	st.featureID++
	return nil
}

func (p *DsvProvider) handleCateg(st *rowState, token string, column int) error {
	if !p.featureIgnored[st.featureID] {
		if IsNaNValue(token) {
			st.features[st.featureID] = st.builder.GetCatFeatureValue("nan")
		} else {
			st.features[st.featureID] = st.builder.GetCatFeatureValue(token)
		}
	}
	st.featureID++
	return nil
}

func (p *DsvProvider) handleLabel(st *rowState, token string, column int) error {
	if token == "" {
		return &EmptyFieldError{Role: RoleLabel, Column: column, Row: st.row}
	}
	target, err := p.convertTarget.Convert(token)
	if err != nil {
		return err
	}
	st.builder.AddTarget(st.lineIdx, target)
	return nil
}

// handleWeight serves both Weight and GroupWeight: both roles feed the
// same per-document weight slot.
func (p *DsvProvider) handleWeight(st *rowState, token string, column int) error {
	role := p.meta.Columns[column-1].Role
	if token == "" {
		return &EmptyFieldError{Role: role, Column: column, Row: st.row}
	}
	v, err := strconv.ParseFloat(token, 32)
	if err != nil {
		return &TypeMismatchError{Role: role, Feature: -1, Column: column, Row: st.row, Value: token}
	}
	st.builder.AddWeight(st.lineIdx, float32(v))
	return nil
}

func (p *DsvProvider) handleGroupID(st *rowState, token string, column int) error {
	if token == "" {
		return &EmptyFieldError{Role: RoleGroupID, Column: column, Row: st.row}
	}
	st.builder.AddQueryID(st.lineIdx, CalcGroupID(token))
	return nil
}

func (p *DsvProvider) handleSubgroupID(st *rowState, token string, column int) error {
	if token == "" {
		return &EmptyFieldError{Role: RoleSubgroupID, Column: column, Row: st.row}
	}
	st.builder.AddSubgroupID(st.lineIdx, CalcSubgroupID(token))
	return nil
}

func (p *DsvProvider) handleBaseline(st *rowState, token string, column int) error {
	if token == "" {
		return &EmptyFieldError{Role: RoleBaseline, Column: column, Row: st.row}
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return &TypeMismatchError{Role: RoleBaseline, Feature: -1, Column: column, Row: st.row, Value: token}
	}
	st.builder.AddBaseline(st.lineIdx, st.baselineIdx, v)
	st.baselineIdx++
	return nil
}

func (p *DsvProvider) handleDocID(st *rowState, token string, column int) error {
	if token == "" {
		return &EmptyFieldError{Role: RoleDocID, Column: column, Row: st.row}
	}
	st.builder.AddDocID(st.lineIdx, token)
	return nil
}

func (p *DsvProvider) handleTimestamp(st *rowState, token string, column int) error {
	if token == "" {
		return &EmptyFieldError{Role: RoleTimestamp, Column: column, Row: st.row}
	}
	v, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return &TypeMismatchError{Role: RoleTimestamp, Feature: -1, Column: column, Row: st.row, Value: token}
	}
	st.builder.AddTimestamp(st.lineIdx, v)
	return nil
}

func (p *DsvProvider) handleAuxiliary(st *rowState, token string, column int) error {
	return nil
}

// Close releases the underlying line reader.
func (p *DsvProvider) Close() error {
	return p.reader.Close()
}
