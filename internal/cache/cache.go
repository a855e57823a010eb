// Package cache holds the literal → translated-literal mapping that
// lets interrupted runs resume without retranslating.
package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Store persists cache entries across runs. Load returning an empty map
// (for a missing or unreadable backing store) is a recoverable
// condition, not an error.
type Store interface {
	// Load reads all persisted entries.
	Load(ctx context.Context) (map[string]string, error)
	// Flush overwrites the persisted state with the given entries.
	Flush(ctx context.Context, entries map[string]string) error
}

// TranslationCache maps raw string literals to their fully reconstructed
// translations. Entries are content-addressed and write-once within a
// run; persistence happens only at explicit Flush checkpoints.
type TranslationCache struct {
	store   Store
	mu      sync.RWMutex
	entries map[string]string
}

// New creates an empty cache backed by the given store.
func New(store Store) *TranslationCache {
	return &TranslationCache{
		store:   store,
		entries: make(map[string]string),
	}
}

// Load populates the cache from the backing store. A store that cannot
// be read falls back to an empty cache with a warning.
func (c *TranslationCache) Load(ctx context.Context) error {
	entries, err := c.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load cache: %w", err)
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	log.Info().Int("entries", len(entries)).Msg("Loaded translation cache")
	return nil
}

// Get retrieves a cached translation by raw literal content.
func (c *TranslationCache) Get(raw string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[raw]
	return v, ok
}

// Set stores a translation. Entries are write-once: a second Set for the
// same literal is ignored, so a literal is never retranslated within a
// run.
func (c *TranslationCache) Set(raw, translated string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[raw]; exists {
		return
	}
	c.entries[raw] = translated
}

// Len returns the number of cached entries.
func (c *TranslationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot returns a copy of the current entries.
func (c *TranslationCache) Snapshot() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// Flush writes the current in-memory state through to the backing
// store. Called at checkpoints and at end of run.
func (c *TranslationCache) Flush(ctx context.Context) error {
	snapshot := c.Snapshot()
	if err := c.store.Flush(ctx, snapshot); err != nil {
		return fmt.Errorf("flush cache: %w", err)
	}
	log.Debug().Int("entries", len(snapshot)).Msg("Flushed translation cache")
	return nil
}
