// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SourcePaper cites one document an article was synthesized from.
// DOI and Journal marshal to null when the document did not carry them.
type SourcePaper struct {
	Title   string  `json:"title" yaml:"title"`
	DOI     *string `json:"doi" yaml:"doi"`
	Journal *string `json:"journal" yaml:"journal"`
}

// Article is the synthesized, reader-facing summary of one topic.
// ID equals the topic ID; at most one article exists per topic.
type Article struct {
	ID              string        `json:"id" yaml:"id"`
	Title           string        `json:"title" yaml:"title"`
	Summary         string        `json:"summary" yaml:"summary"`
	Body            string        `json:"body" yaml:"body"`
	Category        string        `json:"category" yaml:"category"`
	Tags            []string      `json:"tags" yaml:"tags"`
	EvidenceLevel   string        `json:"evidenceLevel" yaml:"evidence_level"`
	RelatedProducts []string      `json:"relatedProducts" yaml:"related_products"`
	SourcePapers    []SourcePaper `json:"sourcePapers" yaml:"source_papers"`
	CreatedAt       time.Time     `json:"createdAt" yaml:"created_at"`
	Featured        bool          `json:"featured" yaml:"featured"`
}
