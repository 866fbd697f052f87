package audit

import (
	"os"
	"sync"
)

// ErrorSink appends confirmed-missing object paths to a file, one per line,
// syncing after every write so a killed run loses nothing.
type ErrorSink struct {
	mu sync.Mutex
	f  *os.File
}

func NewErrorSink(path string) (*ErrorSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	return &ErrorSink{f: f}, nil
}

func (s *ErrorSink) Append(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.f.WriteString(path + "\n"); err != nil {
		return err
	}

	return s.f.Sync()
}

func (s *ErrorSink) Close() error {
	return s.f.Close()
}
