package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/rs/zerolog"
)

const maxLineSize = 1024 * 1024

// InputRecord is one parsed line of a JSONL case file.
type InputRecord struct {
	LineNumber int
	Case       models.TestCase
	Error      error
}

// Reader streams test cases from a JSONL source, one case per line.
type Reader struct {
	src    io.Reader
	logger *zerolog.Logger
}

func NewReader(src io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{src: src, logger: logger}
}

// ReadAll parses the source in a goroutine. Blank lines are skipped; parse
// errors are reported per record with their line number.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r.src)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			record := InputRecord{LineNumber: lineNumber}
			if err := json.Unmarshal([]byte(line), &record.Case); err != nil {
				record.Error = fmt.Errorf("line %d: %w", lineNumber, err)
			} else if record.Case.ID == "" {
				record.Error = fmt.Errorf("line %d: %w", lineNumber, errors.New("test case has no id"))
			}

			select {
			case out <- record:
			case <-ctx.Done():
				r.logger.Warn().Int("line", lineNumber).Msg("reading cancelled")
				return
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Msg("failed to read input")
			select {
			case out <- InputRecord{LineNumber: lineNumber + 1, Error: err}:
			case <-ctx.Done():
			}
		}
	}()

	return out
}

// Collect drains the reader into cases and reports the first invalid record.
func (r *Reader) Collect(ctx context.Context) ([]models.TestCase, error) {
	var (
		cases    []models.TestCase
		firstErr error
	)
	for record := range r.ReadAll(ctx) {
		if record.Error != nil {
			if firstErr == nil {
				firstErr = record.Error
			}
			continue
		}
		cases = append(cases, record.Case)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return cases, ctx.Err()
}
