package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// FileStore persists the cache as a pretty-printed JSON object mapping
// raw literals to translated literals. This is the default backend.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the cache file. A missing or corrupted file is treated as
// an empty cache with a warning; the run proceeds.
func (fs *FileStore) Load(_ context.Context) (map[string]string, error) {
	entries := make(map[string]string)

	raw, err := os.ReadFile(fs.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", fs.path).Msg("Cache file unreadable, starting with empty cache")
		}
		return entries, nil
	}

	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Warn().Err(err).Str("path", fs.path).Msg("Cache file corrupted, starting with empty cache")
		return make(map[string]string), nil
	}

	return entries, nil
}

// Flush overwrites the cache file with the given entries.
func (fs *FileStore) Flush(_ context.Context, entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := os.WriteFile(fs.path, data, 0644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}
