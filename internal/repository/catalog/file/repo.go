// Package file serves the catalog from a YAML or JSON file on disk.
// Readers take a shared lock and writers an exclusive one on a sidecar
// ".lock" file, so an import never races a refresh.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/kailas-cloud/coursesearch/internal/domain"
	"github.com/kailas-cloud/coursesearch/internal/domain/course"
	"github.com/kailas-cloud/coursesearch/internal/repository/catalog"
)

const lockRetryDelay = 50 * time.Millisecond

// Repo implements the catalog source and writer over a file.
type Repo struct {
	path string
	lock *flock.Flock
}

// New creates a file repository. The file need not exist until Load.
func New(path string) *Repo {
	path = filepath.Clean(path)
	return &Repo{path: path, lock: flock.New(path + ".lock")}
}

// Path returns the catalog file path.
func (r *Repo) Path() string { return r.path }

func (r *Repo) isJSON() bool {
	return strings.EqualFold(filepath.Ext(r.path), ".json")
}

// Load reads and decodes the catalog file.
func (r *Repo) Load(ctx context.Context) ([]course.Record, error) {
	locked, err := r.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock catalog %s: %w", r.path, err)
	}
	if !locked {
		return nil, fmt.Errorf("lock catalog %s: not acquired", r.path)
	}
	defer func() { _ = r.lock.Unlock() }()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", domain.ErrCatalogUnavailable, r.path)
		}
		return nil, fmt.Errorf("read catalog %s: %w", r.path, err)
	}
	if r.isJSON() {
		return catalog.DecodeJSON(data)
	}
	return catalog.DecodeYAML(data)
}

// Replace writes entries to a temporary file and renames it over the catalog.
func (r *Repo) Replace(ctx context.Context, entries []course.Entry) error {
	var (
		data []byte
		err  error
	)
	if r.isJSON() {
		data, err = catalog.EncodeJSON(entries)
	} else {
		data, err = catalog.EncodeYAML(entries)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}

	locked, err := r.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock catalog %s: %w", r.path, err)
	}
	if !locked {
		return fmt.Errorf("lock catalog %s: not acquired", r.path)
	}
	defer func() { _ = r.lock.Unlock() }()

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp catalog: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("rename catalog: %w", err)
	}
	return nil
}

// Version derives a change marker from the file's modification time and
// size. Replace always renames a new file in, so both move on import.
func (r *Repo) Version(_ context.Context) (string, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		return "", fmt.Errorf("stat catalog %s: %w", r.path, err)
	}
	return fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size()), nil
}

// Ping reports whether the catalog file is present.
func (r *Repo) Ping(_ context.Context) error {
	if _, err := os.Stat(r.path); err != nil {
		return fmt.Errorf("stat catalog %s: %w", r.path, err)
	}
	return nil
}
