// Package rawlog provides an append-only file sink for raw feed responses.
// It creates the file if absent and never rotates or truncates it; bounding
// the file is an operational concern outside this service.
package rawlog

import (
	"fmt"
	"os"
	"sync"
)

// File appends raw payloads to a single file, one payload per line.
type File struct {
	mu sync.Mutex
	f  *os.File
}

// Open opens (creating if needed) the file at path for appending.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open raw log: %w", err)
	}
	return &File{f: f}, nil
}

// Append writes p followed by a newline.
func (l *File) Append(p []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Copy before appending the newline so the caller's slice is never mutated.
	line := make([]byte, 0, len(p)+1)
	line = append(line, p...)
	line = append(line, '\n')
	if _, err := l.f.Write(line); err != nil {
		return fmt.Errorf("append raw log: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *File) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}
