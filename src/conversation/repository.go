package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/mdhdoan/VIVI/internal/storage"
)

// EmptyMemoryNotice is printed when the log starts from scratch
const EmptyMemoryNotice = "Starting with empty memory."

// Repository binds a MemoryLog to its durable store
type Repository struct {
	store storage.MemoryStore
	log   zerolog.Logger
}

func NewRepository(store storage.MemoryStore, log zerolog.Logger) *Repository {
	return &Repository{store: store, log: log}
}

// Load returns the persisted log, or an empty one when nothing usable is stored.
// Falling back to empty prints a notice on console; it never fails.
func (r *Repository) Load(ctx context.Context, console io.Writer) *MemoryLog {
	turns, err := r.store.Load(ctx)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrMemoryNotFound):
			r.log.Info().Err(err).Msg("no memory persisted yet")
		case errors.Is(err, storage.ErrMemoryCorrupt):
			r.log.Warn().Err(err).Msg("memory is corrupt, ignoring it")
		default:
			r.log.Error().Err(err).Msg("failed to load memory")
		}
		fmt.Fprintln(console, EmptyMemoryNotice)
		return NewMemoryLog(nil)
	}

	r.log.Debug().Int("turns", len(turns)).Msg("memory loaded")
	return NewMemoryLog(turns)
}

// Save re-serializes the entire log
func (r *Repository) Save(ctx context.Context, memory *MemoryLog) error {
	if err := r.store.Save(ctx, memory.Turns()); err != nil {
		return fmt.Errorf("failed to persist memory: %w", err)
	}
	return nil
}
