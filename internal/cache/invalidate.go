package cache

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ClearDir removes the directory and all contents, then recreates it empty.
func ClearDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("empty dir")
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// PurgeByAge removes HTTP and summary entries whose SavedAt is older than
// maxAge. Unreadable or malformed entries are left alone. It returns the
// number of entries removed.
func PurgeByAge(dir string, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	removed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		var siblings []string
		switch name := d.Name(); {
		case strings.HasSuffix(name, ".meta.json"):
			siblings = []string{strings.TrimSuffix(path, ".meta.json") + ".body"}
		case strings.HasSuffix(name, ".summary.json"):
		default:
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var stamp struct {
			SavedAt time.Time `json:"saved_at"`
		}
		if err := json.Unmarshal(b, &stamp); err != nil || now.Sub(stamp.SavedAt) <= maxAge {
			return nil
		}
		removed++
		_ = os.Remove(path)
		for _, s := range siblings {
			_ = os.Remove(s)
		}
		return nil
	})
	return removed, err
}
