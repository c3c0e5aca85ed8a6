// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"go.uber.org/zap"
)

// Badger keeps records in an embedded BadgerDB under keys "<kind>/<id>".
type Badger struct {
	db *badger.DB
}

// zapBadgerLogger routes badger's internal logging to zap.
type zapBadgerLogger struct {
	sugar *zap.SugaredLogger
}

var _ badger.Logger = (*zapBadgerLogger)(nil)

func (l *zapBadgerLogger) Errorf(msg string, args ...any)   { l.sugar.Errorf(msg, args...) }
func (l *zapBadgerLogger) Warningf(msg string, args ...any) { l.sugar.Warnf(msg, args...) }
func (l *zapBadgerLogger) Infof(msg string, args ...any)    { l.sugar.Debugf(msg, args...) }
func (l *zapBadgerLogger) Debugf(msg string, args ...any)   { l.sugar.Debugf(msg, args...) }

// NewBadger opens a BadgerDB in dir, creating it if needed. An empty dir
// opens an in-memory database.
func NewBadger(dir string, logger *zap.Logger) (*Badger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating badger directory: %w", err)
		}
		opts = badger.DefaultOptions(dir)
	}
	opts.Logger = &zapBadgerLogger{sugar: logger.Named("badger").Sugar()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger: %w", err)
	}
	return &Badger{db: db}, nil
}

func recordKey(kind Kind, id string) []byte {
	return []byte(string(kind) + "/" + id)
}

func (b *Badger) Exists(_ context.Context, kind Kind, id string) (bool, error) {
	if err := validate(kind, id); err != nil {
		return false, err
	}
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(recordKey(kind, id))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s/%s: %w", kind, id, err)
	}
	return true, nil
}

// ListIDs iterates keys only; badger yields them in sorted order.
func (b *Badger) ListIDs(_ context.Context, kind Kind) ([]string, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	prefix := []byte(string(kind) + "/")
	var ids []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}
	return ids, nil
}

func (b *Badger) Read(_ context.Context, kind Kind, id string) ([]byte, error) {
	if err := validate(kind, id); err != nil {
		return nil, err
	}
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(kind, id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s/%s: %w", kind, id, err)
	}
	return data, nil
}

func (b *Badger) Write(_ context.Context, kind Kind, id string, data []byte) error {
	if err := validate(kind, id); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(kind, id), data)
	})
	if err != nil {
		return fmt.Errorf("writing %s/%s: %w", kind, id, err)
	}
	return nil
}

// Close flushes and closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}
