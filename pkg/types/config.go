// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by Validate when a setting is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// HTTPConfig holds shared HTTP settings used by fetchers.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests (e.g. "longivity/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// StoreBackend selects the artifact store implementation.
type StoreBackend string

const (
	StoreFilesystem StoreBackend = "fs"
	StoreSQLite     StoreBackend = "sqlite"
	StoreBadger     StoreBackend = "badger"
	StoreMemory     StoreBackend = "memory"
)

// StoreConfig selects and locates the artifact store.
type StoreConfig struct {
	Backend StoreBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Path is the base directory (fs, badger) or database file (sqlite).
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// DigestGrouping selects how the daily digest groups documents.
type DigestGrouping string

const (
	GroupByEvidence DigestGrouping = "evidence"
	GroupBySource   DigestGrouping = "source"
)

// PipelineConfig holds settings for the classification-and-synthesis run.
type PipelineConfig struct {
	// MinScore drops documents whose relevance score is below it. Zero-score
	// documents are always dropped.
	MinScore float64 `json:"min_score" yaml:"min_score" mapstructure:"min_score"`

	// TitlePrefix is the number of runes of the lower-cased title used as the
	// research fingerprint (default 60).
	TitlePrefix int `json:"title_prefix" yaml:"title_prefix" mapstructure:"title_prefix"`

	// GroupBy controls digest grouping: evidence or source.
	GroupBy DigestGrouping `json:"group_by" yaml:"group_by" mapstructure:"group_by"`

	// DigestLimit caps documents listed per digest group (default 10).
	DigestLimit int `json:"digest_limit" yaml:"digest_limit" mapstructure:"digest_limit"`
}

// FeedConfig describes one RSS or Atom feed.
type FeedConfig struct {
	Name     string `json:"name" yaml:"name" mapstructure:"name"`
	URL      string `json:"url" yaml:"url" mapstructure:"url"`
	Category string `json:"category" yaml:"category" mapstructure:"category"`
}

// SourcesConfig lists the fetchers to run before the pipeline.
type SourcesConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Delay is the pause between consecutive network calls (default 1s).
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`

	// MaxResults caps items taken from each query or feed (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	PubMedTerms []string     `json:"pubmed_terms" yaml:"pubmed_terms" mapstructure:"pubmed_terms"`
	ArxivTerms  []string     `json:"arxiv_terms" yaml:"arxiv_terms" mapstructure:"arxiv_terms"`
	Feeds       []FeedConfig `json:"feeds" yaml:"feeds" mapstructure:"feeds"`
	Subreddits  []string     `json:"subreddits" yaml:"subreddits" mapstructure:"subreddits"`

	// InboxDir holds pre-fetched documents as JSON files.
	InboxDir string `json:"inbox_dir" yaml:"inbox_dir" mapstructure:"inbox_dir"`

	// NCBIAPIKey raises the PubMed rate limit when set.
	NCBIAPIKey string `json:"ncbi_api_key,omitempty" yaml:"ncbi_api_key,omitempty" mapstructure:"ncbi_api_key"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// MetricsConfig controls run metrics export.
type MetricsConfig struct {
	// Textfile is a path for a Prometheus textfile-collector export. Empty disables it.
	Textfile string `json:"textfile" yaml:"textfile" mapstructure:"textfile"`
}

// Config is the full configuration tree, loaded once per process.
type Config struct {
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
	Pipeline PipelineConfig `json:"pipeline" yaml:"pipeline" mapstructure:"pipeline"`
	Sources  SourcesConfig  `json:"sources" yaml:"sources" mapstructure:"sources"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
	Metrics  MetricsConfig  `json:"metrics" yaml:"metrics" mapstructure:"metrics"`

	// TaxonomyFile overrides the embedded topic taxonomy.
	TaxonomyFile string `json:"taxonomy_file" yaml:"taxonomy_file" mapstructure:"taxonomy_file"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{Backend: StoreFilesystem, Path: "knowledge-base"},
		Pipeline: PipelineConfig{
			TitlePrefix: 60,
			GroupBy:     GroupByEvidence,
			DigestLimit: 10,
		},
		Sources: SourcesConfig{
			HTTPConfig: HTTPConfig{Timeout: 30 * time.Second, UserAgent: "longivity/0.1"},
			Delay:      time.Second,
			MaxResults: 50,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Validate rejects out-of-range settings.
func (c Config) Validate() error {
	if c.Pipeline.MinScore < 0 || c.Pipeline.MinScore > 1 {
		return fmt.Errorf("%w: pipeline.min_score %v outside [0,1]", ErrInvalidConfig, c.Pipeline.MinScore)
	}
	if c.Pipeline.TitlePrefix <= 0 {
		return fmt.Errorf("%w: pipeline.title_prefix must be positive, got %d", ErrInvalidConfig, c.Pipeline.TitlePrefix)
	}
	if c.Pipeline.DigestLimit <= 0 {
		return fmt.Errorf("%w: pipeline.digest_limit must be positive, got %d", ErrInvalidConfig, c.Pipeline.DigestLimit)
	}
	switch c.Pipeline.GroupBy {
	case GroupByEvidence, GroupBySource:
	default:
		return fmt.Errorf("%w: pipeline.group_by %q", ErrInvalidConfig, c.Pipeline.GroupBy)
	}
	switch c.Store.Backend {
	case StoreFilesystem, StoreSQLite, StoreBadger:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for backend %q", ErrInvalidConfig, c.Store.Backend)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("%w: store.backend %q", ErrInvalidConfig, c.Store.Backend)
	}
	if c.Sources.Delay < 0 {
		return fmt.Errorf("%w: sources.delay must not be negative", ErrInvalidConfig)
	}
	return nil
}
