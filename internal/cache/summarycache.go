package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// SummaryEntry is a cached remote summary.
type SummaryEntry struct {
	Provider string    `json:"provider"`
	Model    string    `json:"model"`
	Summary  string    `json:"summary"`
	SavedAt  time.Time `json:"saved_at"`
}

// SummaryCache stores remote summaries as <key>.summary.json under Dir.
type SummaryCache struct {
	Dir         string
	StrictPerms bool
}

// SummaryKey derives the cache key for a provider, model and input text.
func SummaryKey(provider, model, text string) string {
	h := sha256.Sum256([]byte(provider + "\n" + model + "\n\n" + text))
	return hex.EncodeToString(h[:])
}

func (c *SummaryCache) pathFor(key string) string {
	return filepath.Join(c.Dir, key+".summary.json")
}

// Get returns the cached entry for key. A missing entry is not an error.
func (c *SummaryCache) Get(_ context.Context, key string) (SummaryEntry, bool, error) {
	var e SummaryEntry
	if err := ensureDir(c.Dir, c.StrictPerms); err != nil {
		return e, false, err
	}
	b, err := os.ReadFile(c.pathFor(key))
	if errors.Is(err, fs.ErrNotExist) {
		return e, false, nil
	}
	if err != nil {
		return e, false, err
	}
	if err := json.Unmarshal(b, &e); err != nil {
		return e, false, fmt.Errorf("decode summary entry: %w", err)
	}
	return e, true, nil
}

// Save writes e under key, stamping SavedAt when unset.
func (c *SummaryCache) Save(_ context.Context, key string, e SummaryEntry) error {
	if err := ensureDir(c.Dir, c.StrictPerms); err != nil {
		return err
	}
	if e.SavedAt.IsZero() {
		e.SavedAt = time.Now().UTC()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return writeAtomic(c.pathFor(key), b, fileMode(c.StrictPerms))
}
