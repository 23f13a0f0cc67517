package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/mdhdoan/VIVI/pkg"
)

const memoryIndent = "    "

// JSONMemoryStore keeps the memory log as a pretty-printed JSON array in a single file
type JSONMemoryStore struct {
	path string
}

// NewJSONMemoryStore creates a file-backed memory store rooted at path
func NewJSONMemoryStore(path string) *JSONMemoryStore {
	return &JSONMemoryStore{path: path}
}

// Path returns the memory file location
func (j *JSONMemoryStore) Path() string {
	return j.path
}

// Load reads every persisted turn, oldest first
func (j *JSONMemoryStore) Load(_ context.Context) ([]pkg.MemoryTurn, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMemoryNotFound, j.path)
		}
		return nil, fmt.Errorf("failed to read memory file: %w", err)
	}

	var turns []pkg.MemoryTurn
	if err := sonic.ConfigStd.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMemoryCorrupt, j.path, err)
	}
	if turns == nil {
		turns = []pkg.MemoryTurn{}
	}

	return turns, nil
}

// Save rewrites the whole memory file with the given turns.
// The file is replaced atomically so a crash never leaves a half-written log.
func (j *JSONMemoryStore) Save(_ context.Context, turns []pkg.MemoryTurn) error {
	if turns == nil {
		turns = []pkg.MemoryTurn{}
	}

	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create memory directory: %w", err)
	}

	data, err := sonic.ConfigDefault.MarshalIndent(turns, "", memoryIndent)
	if err != nil {
		return fmt.Errorf("failed to marshal memory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(j.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp memory file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write memory file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write memory file: %w", err)
	}

	if err := os.Rename(tmp.Name(), j.path); err != nil {
		return fmt.Errorf("failed to replace memory file: %w", err)
	}

	return nil
}

func (j *JSONMemoryStore) Close() error {
	return nil
}
