// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists pipeline artifacts (catalog products, research
// documents, articles and digests) behind a small key-value interface with
// filesystem, SQLite, Badger and in-memory implementations.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/HelloWaord1/longivity/pkg/types"
)

// Kind is a record namespace.
type Kind string

const (
	KindProduct  Kind = "product"
	KindResearch Kind = "research"
	KindArticle  Kind = "article"
	KindDigest   Kind = "digest"
)

// Kinds lists every namespace.
var Kinds = []Kind{KindProduct, KindResearch, KindArticle, KindDigest}

var (
	// ErrNotFound is returned by Read for a missing record.
	ErrNotFound = errors.New("record not found")

	// ErrMalformed is returned by ReadJSON when a record cannot be decoded.
	ErrMalformed = errors.New("malformed record")

	// ErrInvalidKind is returned for an unknown namespace.
	ErrInvalidKind = errors.New("invalid record kind")

	// ErrInvalidID is returned for an empty identifier or one containing a path separator.
	ErrInvalidID = errors.New("invalid record id")
)

// Store is the persistence boundary of the pipeline. Implementations need
// not be safe for concurrent writers; the pipeline writes from one goroutine.
type Store interface {
	Exists(ctx context.Context, kind Kind, id string) (bool, error)
	ListIDs(ctx context.Context, kind Kind) ([]string, error)
	Read(ctx context.Context, kind Kind, id string) ([]byte, error)
	Write(ctx context.Context, kind Kind, id string, data []byte) error
	Close() error
}

func validate(kind Kind, id string) error {
	if err := validateKind(kind); err != nil {
		return err
	}
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func validateKind(kind Kind) error {
	for _, k := range Kinds {
		if k == kind {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
}

// ReadJSON reads a record and decodes it into v.
func ReadJSON(ctx context.Context, s Store, kind Kind, id string, v any) error {
	data, err := s.Read(ctx, kind, id)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s/%s: %w", ErrMalformed, kind, id, err)
	}
	return nil
}

// WriteJSON encodes v with two-space indentation and writes it.
func WriteJSON(ctx context.Context, s Store, kind Kind, id string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", kind, id, err)
	}
	return s.Write(ctx, kind, id, data)
}

// LoadProducts reads the whole catalog. Records that cannot be read or
// decoded are skipped with a warning.
func LoadProducts(ctx context.Context, s Store, logger *zap.Logger) ([]types.Product, error) {
	ids, err := s.ListIDs(ctx, KindProduct)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	products := make([]types.Product, 0, len(ids))
	for _, id := range ids {
		var p types.Product
		if err := ReadJSON(ctx, s, KindProduct, id, &p); err != nil {
			logger.Warn("skipping product record", zap.String("id", id), zap.Error(err))
			continue
		}
		if p.ID == "" {
			p.ID = id
		}
		products = append(products, p)
	}
	return products, nil
}

// Open returns the store selected by cfg.
func Open(cfg types.StoreConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case types.StoreFilesystem, "":
		return NewFilesystem(cfg.Path)
	case types.StoreSQLite:
		return NewSQLite(cfg.Path)
	case types.StoreBadger:
		return NewBadger(cfg.Path, logger)
	case types.StoreMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
