// Package badger keeps the catalog in an embedded BadgerDB, one key per
// entry under a common prefix. Keys embed the zero-padded position so
// prefix iteration returns catalog order.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"go.uber.org/zap"

	"github.com/kailas-cloud/coursesearch/internal/domain/course"
	"github.com/kailas-cloud/coursesearch/internal/logger"
	"github.com/kailas-cloud/coursesearch/internal/repository/catalog"
)

var entryPrefix = []byte("course/")

func entryKey(pos int) []byte {
	return []byte(fmt.Sprintf("%s%08d", entryPrefix, pos))
}

// Repo implements the catalog source and writer over BadgerDB.
type Repo struct {
	db *badger.DB
}

// Open opens a BadgerDB at dir, creating it if needed. inMemory ignores dir.
func Open(dir string, inMemory bool, log *zap.Logger) (*Repo, error) {
	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(dir)
		switch {
		case errors.Is(err, os.ErrNotExist):
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create badger dir: %w", err)
			}
		case err != nil:
			return nil, fmt.Errorf("stat badger dir: %w", err)
		case !info.IsDir():
			return nil, fmt.Errorf("%s is not a directory", dir)
		}
		opts = badger.DefaultOptions(dir)
	}
	opts.Logger = logger.NewPrintf(log)
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Repo{db: db}, nil
}

// Load iterates the entry prefix in key order.
func (r *Repo) Load(_ context.Context) ([]course.Record, error) {
	var out []course.Record
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = entryPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var row catalog.Row
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &row)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", item.Key(), err)
			}
			out = append(out, row.Record())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return out, nil
}

// Replace drops every stored entry and writes entries in one transaction.
func (r *Repo) Replace(_ context.Context, entries []course.Entry) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = entryPrefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		var stale [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, k := range stale {
			if err := txn.Delete(k); err != nil {
				return fmt.Errorf("delete %s: %w", k, err)
			}
		}
		for i, row := range catalog.Rows(entries) {
			val, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("encode %q: %w", row.Title, err)
			}
			if err := txn.Set(entryKey(i), val); err != nil {
				return fmt.Errorf("set %q: %w", row.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}

// Ping reports whether the database is open.
func (r *Repo) Ping(_ context.Context) error {
	if r.db.IsClosed() {
		return errors.New("badger: database is closed")
	}
	return nil
}

// Close closes the database.
func (r *Repo) Close() error {
	return r.db.Close()
}
