package storage

import (
	"context"
	"errors"

	"github.com/mdhdoan/VIVI/pkg"
)

var (
	// ErrMemoryNotFound is returned by Load when no memory has been persisted yet
	ErrMemoryNotFound = errors.New("memory not found")
	// ErrMemoryCorrupt is returned by Load when the persisted memory cannot be decoded
	ErrMemoryCorrupt = errors.New("memory corrupt")
)

// MemoryStore is the durable home of the conversation memory log.
// Save always receives the whole log and replaces what was stored before.
type MemoryStore interface {
	Load(ctx context.Context) ([]pkg.MemoryTurn, error)
	Save(ctx context.Context, turns []pkg.MemoryTurn) error
	Close() error
}
