// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Dosage describes how a product is typically taken.
type Dosage struct {
	Standard string `json:"standard,omitempty" yaml:"standard,omitempty"`
	Range    string `json:"range,omitempty" yaml:"range,omitempty"`
	Timing   string `json:"timing,omitempty" yaml:"timing,omitempty"`
}

// Product is a catalog entry (supplement or intervention) that articles
// may reference. Records are read-only to the pipeline.
type Product struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	Mechanisms    []string `json:"mechanisms,omitempty" yaml:"mechanisms,omitempty"`
	Tags          []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	EvidenceGrade string   `json:"evidenceGrade,omitempty" yaml:"evidence_grade,omitempty"`
	Dosage        Dosage   `json:"dosage" yaml:"dosage"`
}
