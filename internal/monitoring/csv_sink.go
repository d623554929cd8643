package monitoring

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

var csvHeader = []string{"timestamp", "case_id", "model", "latency_ms", "symptoms_snippet"}

// CSVSink appends events to a CSV file, writing the header when it creates
// the file.
type CSVSink struct {
	path string
	mu   sync.Mutex
}

// NewCSVSink creates a CSVSink for path. The file is opened per record.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Record implements Sink. It returns once ctx is done even if the write is
// stalled on the lock or the disk; the row is still appended when the write
// finishes.
func (s *CSVSink) Record(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("monitoring csv: %w", err)
	}
	done := make(chan error, 1)
	go func() { done <- s.write(e) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("monitoring csv: %w", ctx.Err())
	}
}

func (s *CSVSink) write(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, statErr := os.Stat(s.path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open monitoring csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("write monitoring csv header: %w", err)
		}
	}
	row := []string{
		e.Timestamp.Format(time.RFC3339Nano),
		e.CaseID,
		e.Model,
		strconv.FormatFloat(e.LatencyMs, 'f', 2, 64),
		e.SymptomsSnippet,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write monitoring csv row: %w", err)
	}
	w.Flush()
	return w.Error()
}
