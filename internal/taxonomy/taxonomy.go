// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonomy loads the topic taxonomy and keyword tables that drive
// relevance scoring, topic classification and article synthesis.
//
// A Taxonomy is loaded once at process start and shared read-only by every
// component; nothing in the pipeline mutates it after Load returns.
package taxonomy

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Keywords this short always match as whole words.
const maxShortKeyword = 3

// ErrInvalidTaxonomy is returned when a taxonomy document fails validation.
var ErrInvalidTaxonomy = errors.New("invalid taxonomy")

// Topic is a named subject area used to group documents into articles.
type Topic struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`

	// Titles is the pool of article titles for this topic.
	Titles []string `yaml:"titles"`

	// Implications is the "What This Means For You" paragraph.
	Implications string `yaml:"implications"`
}

// RelevanceTable holds the longevity keyword list and the keyword to
// product-slug map used by the relevance scorer.
type RelevanceTable struct {
	Keywords []string            `yaml:"keywords"`
	Entities map[string][]string `yaml:"entities"`
}

// Taxonomy is the immutable topic configuration.
type Taxonomy struct {
	// Topics are kept in declaration order. Classification ties resolve to
	// the topic with the lower index.
	Topics []Topic `yaml:"topics"`

	// HotTopics are always featured.
	HotTopics []string `yaml:"hot_topics"`

	// Ambiguous lists keywords that only match as whole words, in addition
	// to every keyword of three characters or fewer.
	Ambiguous []string `yaml:"ambiguous"`

	DefaultImplications string         `yaml:"default_implications"`
	Relevance           RelevanceTable `yaml:"relevance"`

	byID      map[string]int
	hot       map[string]bool
	ambiguous map[string]bool
}

// Default returns the embedded longevity taxonomy.
func Default() (*Taxonomy, error) {
	return Parse(defaultYAML)
}

// Load reads a taxonomy from path, or returns the embedded default when path is empty.
func Load(path string) (*Taxonomy, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy %s: %w", path, err)
	}
	tx, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading taxonomy %s: %w", path, err)
	}
	return tx, nil
}

// Parse decodes and validates a YAML taxonomy. Keywords are lower-cased.
func Parse(data []byte) (*Taxonomy, error) {
	var tx Taxonomy
	if err := yaml.Unmarshal(data, &tx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTaxonomy, err)
	}
	if err := tx.init(); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (tx *Taxonomy) init() error {
	if len(tx.Topics) == 0 {
		return fmt.Errorf("%w: no topics", ErrInvalidTaxonomy)
	}

	tx.byID = make(map[string]int, len(tx.Topics))
	for i := range tx.Topics {
		t := &tx.Topics[i]
		if t.ID == "" {
			return fmt.Errorf("%w: topic %d has no id", ErrInvalidTaxonomy, i)
		}
		if _, dup := tx.byID[t.ID]; dup {
			return fmt.Errorf("%w: duplicate topic id %q", ErrInvalidTaxonomy, t.ID)
		}
		if len(t.Keywords) == 0 {
			return fmt.Errorf("%w: topic %q has no keywords", ErrInvalidTaxonomy, t.ID)
		}
		if t.Label == "" {
			t.Label = t.ID
		}
		t.Keywords = lowerAll(t.Keywords)
		tx.byID[t.ID] = i
	}

	tx.hot = make(map[string]bool, len(tx.HotTopics))
	for _, id := range tx.HotTopics {
		if _, ok := tx.byID[id]; !ok {
			return fmt.Errorf("%w: hot topic %q is not a declared topic", ErrInvalidTaxonomy, id)
		}
		tx.hot[id] = true
	}

	tx.Ambiguous = lowerAll(tx.Ambiguous)
	tx.ambiguous = make(map[string]bool, len(tx.Ambiguous))
	for _, kw := range tx.Ambiguous {
		tx.ambiguous[kw] = true
	}

	tx.Relevance.Keywords = lowerAll(tx.Relevance.Keywords)
	entities := make(map[string][]string, len(tx.Relevance.Entities))
	for kw, slugs := range tx.Relevance.Entities {
		entities[strings.ToLower(kw)] = slugs
	}
	tx.Relevance.Entities = entities
	return nil
}

// Topic returns the topic with the given id.
func (tx *Taxonomy) Topic(id string) (Topic, bool) {
	i, ok := tx.byID[id]
	if !ok {
		return Topic{}, false
	}
	return tx.Topics[i], true
}

// Index returns the declaration position of a topic, or -1.
func (tx *Taxonomy) Index(id string) int {
	if i, ok := tx.byID[id]; ok {
		return i
	}
	return -1
}

// IsHot reports whether articles on the topic are always featured.
func (tx *Taxonomy) IsHot(id string) bool { return tx.hot[id] }

// IsAmbiguous reports whether kw must match as a whole word.
func (tx *Taxonomy) IsAmbiguous(kw string) bool {
	kw = strings.ToLower(kw)
	return tx.ambiguous[kw] || utf8.RuneCountInString(kw) <= maxShortKeyword
}

// Pattern compiles the case-sensitive match expression for a lower-cased
// keyword. Ambiguous keywords are anchored on word boundaries.
func (tx *Taxonomy) Pattern(kw string) *regexp.Regexp {
	expr := regexp.QuoteMeta(kw)
	if tx.IsAmbiguous(kw) {
		expr = `\b` + expr + `\b`
	}
	return regexp.MustCompile(expr)
}

// Implications returns the topic's reader guidance, or the generic paragraph.
func (tx *Taxonomy) Implications(id string) string {
	if t, ok := tx.Topic(id); ok && strings.TrimSpace(t.Implications) != "" {
		return strings.TrimSpace(t.Implications)
	}
	return strings.TrimSpace(tx.DefaultImplications)
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
