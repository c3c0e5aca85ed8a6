// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup removes repeated documents within a batch.
//
// Research documents are fingerprinted by a lower-cased title prefix and web
// or community documents by URL. Two distinct titles sharing the prefix
// collapse into one; the first occurrence wins.
package dedup

import (
	"strings"

	"github.com/HelloWaord1/longivity/internal/textutil"
	"github.com/HelloWaord1/longivity/pkg/types"
)

// DefaultTitlePrefix is the number of title runes compared for research documents.
const DefaultTitlePrefix = 60

// Fingerprint returns the deduplication key of doc using a title prefix of n runes.
// Documents without a kind are treated as research.
func Fingerprint(doc types.Document, n int) string {
	if n <= 0 {
		n = DefaultTitlePrefix
	}
	if doc.Kind != types.KindResearch && doc.Kind != "" && doc.URL != "" {
		return "url:" + doc.URL
	}
	title := strings.ToLower(strings.TrimSpace(doc.Title))
	return "title:" + textutil.Prefix(title, n)
}

// Deduplicator tracks fingerprints seen during one run.
type Deduplicator struct {
	prefix int
	seen   map[string]bool
}

// New returns a Deduplicator comparing title prefixes of n runes.
func New(n int) *Deduplicator {
	if n <= 0 {
		n = DefaultTitlePrefix
	}
	return &Deduplicator{prefix: n, seen: make(map[string]bool)}
}

// IsDuplicate reports whether doc's fingerprint was already seen and records
// it otherwise.
func (d *Deduplicator) IsDuplicate(doc types.Document) bool {
	key := Fingerprint(doc, d.prefix)
	if d.seen[key] {
		return true
	}
	d.seen[key] = true
	return false
}

// Dedupe returns docs with repeats removed, preserving input order, and the
// number of documents dropped.
func (d *Deduplicator) Dedupe(docs []types.Document) ([]types.Document, int) {
	kept := make([]types.Document, 0, len(docs))
	removed := 0
	for _, doc := range docs {
		if d.IsDuplicate(doc) {
			removed++
			continue
		}
		kept = append(kept, doc)
	}
	return kept, removed
}
