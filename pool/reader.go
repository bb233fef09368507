package pool

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// LineReader yields raw text lines from a pool file and, when the file has
// one, its header line. It abstracts storage and compression from the
// parsing pipeline.
type LineReader interface {
	// Header returns the header line and whether one was present.
	Header() (string, bool)
	// ReadLine returns the next data line. The second result is false once
	// the input is exhausted.
	ReadLine() (string, bool, error)
	Close() error
}

// maxLineSize bounds a single pool line. Wide pools with thousands of
// features fit comfortably.
const maxLineSize = 16 * 1024 * 1024

// openFile opens path for reading, layering a decompressor chosen by file
// extension (.gz, .zst, .lz4). Anything else is read as plain text.
func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch filepath.Ext(path) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
		}
		return &layeredReadCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open zstd stream %s: %w", path, err)
		}
		zrc := zr.IOReadCloser()
		return &layeredReadCloser{Reader: zrc, closers: []io.Closer{zrc, f}}, nil
	case ".lz4":
		return &layeredReadCloser{Reader: lz4.NewReader(f), closers: []io.Closer{f}}, nil
	}
	return f, nil
}

// layeredReadCloser closes a decompressor and its underlying file in order.
type layeredReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (l *layeredReadCloser) Close() error {
	var first error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type fileLineReader struct {
	rc        io.ReadCloser
	scanner   *bufio.Scanner
	header    string
	hasHeader bool
}

// NewLineReader opens a pool file. If hasHeader is true the first line is
// consumed as the header and not returned by ReadLine.
func NewLineReader(path string, hasHeader bool) (LineReader, error) {
	rc, err := openFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pool %s: %w", path, err)
	}

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	r := &fileLineReader{rc: rc, scanner: scanner}
	if hasHeader {
		if scanner.Scan() {
			r.header = scanner.Text()
			r.hasHeader = true
		} else if err := scanner.Err(); err != nil {
			rc.Close()
			return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
		}
	}
	return r, nil
}

func (r *fileLineReader) Header() (string, bool) {
	return r.header, r.hasHeader
}

func (r *fileLineReader) ReadLine() (string, bool, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), true, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", false, err
	}
	return "", false, nil
}

func (r *fileLineReader) Close() error {
	return r.rc.Close()
}

// CountLines counts the lines of a (possibly compressed) file. The document
// count is needed before building so the builder can allocate its storage
// once.
func CountLines(path string) (int, error) {
	rc, err := openFile(path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	count := 0
	for scanner.Scan() {
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return count, nil
}
