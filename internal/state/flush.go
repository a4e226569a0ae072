package state

import (
	"context"

	"go.uber.org/multierr"
)

// Flusher rewrites its blob from memory.
type Flusher interface {
	Flush(ctx context.Context) error
}

// FlushAll flushes every f and returns all failures combined.
func FlushAll(ctx context.Context, fs ...Flusher) error {
	var err error
	for _, f := range fs {
		if f == nil {
			continue
		}
		err = multierr.Append(err, f.Flush(ctx))
	}
	return err
}
