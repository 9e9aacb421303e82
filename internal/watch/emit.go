package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/couchcryptid/quake-watch/internal/domain"
)

// Emitter receives each newly seen event, in chronological order within a
// cycle.
type Emitter interface {
	Emit(ctx context.Context, event domain.Event) error
}

// ConsoleEmitter writes one rendered line per event to a writer, typically
// stdout.
type ConsoleEmitter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleEmitter creates a ConsoleEmitter writing to w.
func NewConsoleEmitter(w io.Writer) *ConsoleEmitter {
	return &ConsoleEmitter{w: w}
}

func (c *ConsoleEmitter) Emit(_ context.Context, event domain.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintln(c.w, event.String()); err != nil {
		return fmt.Errorf("write event line: %w", err)
	}
	return nil
}

// NewMultiEmitter fans out to every given emitter. All emitters are invoked
// even when earlier ones fail; failures are joined into one error.
func NewMultiEmitter(emitters ...Emitter) Emitter {
	if len(emitters) == 1 {
		return emitters[0]
	}
	return multiEmitter(emitters)
}

type multiEmitter []Emitter

func (m multiEmitter) Emit(ctx context.Context, event domain.Event) error {
	var errs []error
	for _, e := range m {
		if err := e.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
