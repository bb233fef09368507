package pool

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Pair is a ranking preference relation: the document at WinnerIndex is
// preferred over the one at LoserIndex with the given weight.
type Pair struct {
	WinnerIndex int
	LoserIndex  int
	Weight      float32
}

// ReadPairs loads a pairs file: one tab-separated pair per line, two or
// three fields (winner index, loser index, optional weight defaulting to 1),
// blank lines skipped. Both indices must lie in [0, docCount).
//
// A structural tokenizer failure (for example malformed quoting) stops
// reading at that point: pairs read so far are kept and a warning is logged.
// This leniency is deliberate and differs from data-row parsing, which is
// fatal on any malformed row.
func ReadPairs(path string, docCount int) ([]Pair, error) {
	return readPairs(path, docCount, slog.Default())
}

func readPairs(path string, docCount int, logger *slog.Logger) ([]Pair, error) {
	rc, err := openFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pairs file %s: %w", path, err)
	}
	defer rc.Close()

	return parsePairs(rc, docCount, logger)
}

func parsePairs(r io.Reader, docCount int, logger *slog.Logger) ([]Pair, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1

	var pairs []Pair
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err == nil {
			line, _ = reader.FieldPos(0)
		} else {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				logger.Warn("stopping pairs read on malformed line",
					"line", perr.Line,
					"error", err,
				)
				break
			}
			return nil, fmt.Errorf("failed to read pairs line %d: %w", line, err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) != 2 && len(record) != 3 {
			return nil, fmt.Errorf("pairs line %d: each line should have two or three columns, found %d", line, len(record))
		}

		winner, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("pairs line %d: winner index %q is not an integer", line, record[0])
		}
		loser, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("pairs line %d: loser index %q is not an integer", line, record[1])
		}
		weight := float32(1)
		if len(record) == 3 {
			w, err := strconv.ParseFloat(record[2], 32)
			if err != nil {
				return nil, fmt.Errorf("pairs line %d: weight %q is not a float", line, record[2])
			}
			weight = float32(w)
		}

		if winner < 0 || winner >= docCount {
			return nil, &PairIndexError{Index: winner, DocCount: docCount, Line: line}
		}
		if loser < 0 || loser >= docCount {
			return nil, &PairIndexError{Index: loser, DocCount: docCount, Line: line}
		}
		pairs = append(pairs, Pair{WinnerIndex: winner, LoserIndex: loser, Weight: weight})
	}

	return pairs, nil
}

// WeightPairs scales each pair's weight in place by the group weight of its
// winner. groupWeight must be indexable up to the maximum winner index
// present; anything shorter is a programming error.
func WeightPairs(groupWeight []float32, pairs []Pair) {
	for i := range pairs {
		pairs[i].Weight *= groupWeight[pairs[i].WinnerIndex]
	}
}
