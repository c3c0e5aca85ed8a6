// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// kindDirs maps each namespace to its directory under the knowledge base root.
var kindDirs = map[Kind]string{
	KindProduct:  "products",
	KindResearch: "research",
	KindArticle:  "articles",
	KindDigest:   "daily-digests",
}

func kindExt(kind Kind) string {
	if kind == KindDigest {
		return ".md"
	}
	return ".json"
}

// Filesystem stores one file per record: <root>/<kind dir>/<id>.json, or
// .md for digests.
type Filesystem struct {
	root string
}

// NewFilesystem creates the kind directories under root.
func NewFilesystem(root string) (*Filesystem, error) {
	for _, dir := range kindDirs {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return &Filesystem{root: root}, nil
}

func (f *Filesystem) path(kind Kind, id string) string {
	return filepath.Join(f.root, kindDirs[kind], id+kindExt(kind))
}

func (f *Filesystem) Exists(_ context.Context, kind Kind, id string) (bool, error) {
	if err := validate(kind, id); err != nil {
		return false, err
	}
	_, err := os.Stat(f.path(kind, id))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking %s/%s: %w", kind, id, err)
}

func (f *Filesystem) ListIDs(_ context.Context, kind Kind) ([]string, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(f.root, kindDirs[kind]))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}
	ext := kindExt(kind)
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ext {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ext))
	}
	slices.Sort(ids)
	return ids, nil
}

func (f *Filesystem) Read(_ context.Context, kind Kind, id string) ([]byte, error) {
	if err := validate(kind, id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path(kind, id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s/%s: %w", kind, id, err)
	}
	return data, nil
}

// Write replaces the record through a temporary file and rename so readers
// never observe a partial file.
func (f *Filesystem) Write(_ context.Context, kind Kind, id string, data []byte) error {
	if err := validate(kind, id); err != nil {
		return err
	}
	path := f.path(kind, id)
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+id+".*")
	if err != nil {
		return fmt.Errorf("writing %s/%s: %w", kind, id, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s/%s: %w", kind, id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s/%s: %w", kind, id, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s/%s: %w", kind, id, err)
	}
	return nil
}

func (f *Filesystem) Close() error { return nil }
