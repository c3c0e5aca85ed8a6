// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the longivity pipeline:
// ingested documents, catalog products, synthesized articles and the
// configuration tree read by the CLI.
package types

import "time"

// DocumentKind distinguishes documents deduplicated by title from those
// deduplicated by URL.
type DocumentKind string

const (
	KindResearch  DocumentKind = "research"
	KindWeb       DocumentKind = "web"
	KindCommunity DocumentKind = "community"
)

// Document is one ingested item: a paper, a feed entry or a forum post.
// Fetchers fill the source fields; the pipeline fills the annotation fields.
type Document struct {
	// ID is a stable identifier. When empty the pipeline sets it to the
	// research store key derived from the title.
	ID string `json:"id" yaml:"id"`

	// Kind selects the deduplication fingerprint (title for research, URL otherwise).
	Kind DocumentKind `json:"kind" yaml:"kind"`

	Title    string `json:"title" yaml:"title"`
	Abstract string `json:"abstract" yaml:"abstract"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`

	// Source names the origin, e.g. "pubmed", "arxiv", "rss:fightaging", "reddit:r/longevity".
	Source string `json:"source" yaml:"source"`

	// Category is the source category for web documents (e.g. "news", "research").
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	Journal   string    `json:"journal,omitempty" yaml:"journal,omitempty"`
	DOI       string    `json:"doi,omitempty" yaml:"doi,omitempty"`
	Published time.Time `json:"published,omitempty" yaml:"published,omitempty"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`

	// StudyType is the raw study-type label supplied by the source, if any.
	StudyType string `json:"studyType,omitempty" yaml:"study_type,omitempty"`

	// Engagement counters for community posts.
	Score    int `json:"score,omitempty" yaml:"score,omitempty"`
	Comments int `json:"comments,omitempty" yaml:"comments,omitempty"`

	// Annotations set by the relevance scorer.
	RelevanceScore  float64  `json:"relevanceScore,omitempty" yaml:"relevance_score,omitempty"`
	MatchedKeywords []string `json:"matchedKeywords,omitempty" yaml:"matched_keywords,omitempty"`
	RelatedProducts []string `json:"relatedProducts,omitempty" yaml:"related_products,omitempty"`

	FetchedAt time.Time `json:"fetchedAt,omitempty" yaml:"fetched_at,omitempty"`
}

// ClassifiedDocument is a Document assigned to exactly one topic.
type ClassifiedDocument struct {
	Document

	TopicID    string `json:"topicId" yaml:"topic_id"`
	TopicScore int    `json:"topicScore" yaml:"topic_score"`

	// TopicKeywords are the topic keywords found in the document. The
	// embedded MatchedKeywords holds the relevance matches instead.
	TopicKeywords []string `json:"topicKeywords,omitempty" yaml:"topic_keywords,omitempty"`

	// EvidenceLevel is the canonical grade (e.g. "RCT", "Preprint").
	EvidenceLevel string `json:"evidenceLevel" yaml:"evidence_level"`
}
