// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"github.com/HelloWaord1/longivity/pkg/types"
)

// Inbox reads pre-fetched documents from *.json files in Dir. Each file
// holds one document object or an array of them. Files that fail to parse
// are skipped with a warning.
type Inbox struct {
	Dir    string
	Logger *zap.Logger
}

func (in *Inbox) Name() string   { return "inbox:" + in.Dir }
func (in *Inbox) Family() string { return "inbox" }

func (in *Inbox) Fetch(_ context.Context) ([]types.Document, error) {
	logger := in.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(in.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading inbox %s: %w", in.Dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	var docs []types.Document
	for _, name := range names {
		path := filepath.Join(in.Dir, name)
		parsed, err := ReadDocuments(path)
		if err != nil {
			logger.Warn("skipping inbox file", zap.String("path", path), zap.Error(err))
			continue
		}
		docs = append(docs, parsed...)
	}
	return docs, nil
}

// ReadDocuments decodes a JSON file holding one document or an array of them.
func ReadDocuments(path string) ([]types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var docs []types.Document
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		return docs, nil
	}
	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return []types.Document{doc}, nil
}
