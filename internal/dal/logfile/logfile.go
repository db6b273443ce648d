package logfile

import (
	"fmt"
	"os"
	"sync"
)

// Sink appends timestamped entries to a local log file. Each background job
// owns one sink; the format of the entries belongs to the job.
type Sink struct {
	mu   sync.Mutex
	path string
}

// NewSink creates a sink writing to path.
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// AppendEntry appends text to the file, adding a trailing newline when the
// entry does not end with one.
func (s *Sink) AppendEntry(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	if len(text) == 0 || text[len(text)-1] != '\n' {
		text += "\n"
	}

	if _, err := f.WriteString(text); err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}

	return nil
}
