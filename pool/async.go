package pool

import "golang.org/x/sync/errgroup"

// ReadLineFunc yields the next line of the input. The second result is false
// once the input is exhausted.
type ReadLineFunc func() (string, bool, error)

// AsyncRowProcessor overlaps reading the next block of lines with parsing
// the current one: while a block is being processed, a background task fills
// the other buffer from the line reader. Parsing itself stays sequential, so
// the per-line callback sees lines strictly in file order and block
// boundaries only affect error-line numbering, which the running
// LinesProcessed counter absorbs.
type AsyncRowProcessor struct {
	blockSize int
	read      ReadLineFunc

	firstLine string
	hasFirst  bool

	parseBuf []string
	readBuf  []string

	pending   *errgroup.Group
	exhausted bool

	linesProcessed int
}

// NewAsyncRowProcessor creates a processor reading up to blockSize lines per
// block.
func NewAsyncRowProcessor(blockSize int) *AsyncRowProcessor {
	return &AsyncRowProcessor{blockSize: blockSize}
}

// AddFirstLine stores an already-consumed data line; it becomes the first
// line of the first block.
func (p *AsyncRowProcessor) AddFirstLine(line string) {
	p.firstLine = line
	p.hasFirst = true
}

// ReadBlockAsync starts fetching the next block in the background. Call it
// once after construction; subsequent fetches are issued by ReadBlock.
func (p *AsyncRowProcessor) ReadBlockAsync(read ReadLineFunc) {
	p.read = read
	p.startFill()
}

func (p *AsyncRowProcessor) startFill() {
	p.readBuf = p.readBuf[:0]
	if p.hasFirst {
		p.readBuf = append(p.readBuf, p.firstLine)
		p.hasFirst = false
	}

	g := new(errgroup.Group)
	g.Go(func() error {
		for len(p.readBuf) < p.blockSize {
			line, ok, err := p.read()
			if err != nil {
				return err
			}
			if !ok {
				p.exhausted = true
				break
			}
			p.readBuf = append(p.readBuf, line)
		}
		return nil
	})
	p.pending = g
}

// ReadBlock waits for the pending background read, makes its lines the
// current block and starts fetching the next one. It returns false when no
// lines remain.
func (p *AsyncRowProcessor) ReadBlock() (bool, error) {
	if p.pending == nil {
		return false, nil
	}
	if err := p.pending.Wait(); err != nil {
		p.pending = nil
		return false, err
	}
	p.pending = nil

	p.parseBuf, p.readBuf = p.readBuf, p.parseBuf
	if !p.exhausted {
		p.startFill()
	}
	return len(p.parseBuf) > 0, nil
}

// ProcessBlock applies fn to every line of the current block in order,
// passing the 0-based in-block index. The first error aborts the block and
// is returned; partially applied side effects are the caller's to discard.
func (p *AsyncRowProcessor) ProcessBlock(fn func(line string, idx int) error) error {
	for i, line := range p.parseBuf {
		if err := fn(line, i); err != nil {
			return err
		}
	}
	p.linesProcessed += len(p.parseBuf)
	return nil
}

// ParseBufferSize returns the number of lines in the current block.
func (p *AsyncRowProcessor) ParseBufferSize() int {
	return len(p.parseBuf)
}

// LinesProcessed returns the number of lines fully processed before the
// current block. Diagnostics add the in-block index to it to report absolute
// row numbers.
func (p *AsyncRowProcessor) LinesProcessed() int {
	return p.linesProcessed
}
