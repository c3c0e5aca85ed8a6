// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evidence grades study methodology on a fixed seven-level scale.
package evidence

import (
	"regexp"
	"strings"

	"github.com/HelloWaord1/longivity/pkg/types"
)

// Level is a canonical evidence grade.
type Level string

const (
	MetaAnalysis Level = "Meta-Analysis"
	RCT          Level = "RCT"
	Cohort       Level = "Cohort"
	Review       Level = "Review"
	Animal       Level = "Animal"
	InVitro      Level = "In Vitro"
	Preprint     Level = "Preprint"
)

// Levels lists every grade, strongest first.
var Levels = []Level{MetaAnalysis, RCT, Cohort, Review, Animal, InVitro, Preprint}

// Raw study-type labels produced by Classify.
const (
	RawMetaAnalysis = "meta-analysis"
	RawRCT          = "rct"
	RawCohort       = "cohort"
	RawInVitro      = "in-vitro"
	RawAnimal       = "animal"
	RawOther        = "other"
)

// Patterns are tested in order; the first hit decides.
var patterns = []struct {
	raw string
	re  *regexp.Regexp
}{
	{RawMetaAnalysis, regexp.MustCompile(`(?i)meta-analy|systematic review`)},
	{RawRCT, regexp.MustCompile(`(?i)randomi[sz]ed|\brct\b|double-blind|placebo-controlled`)},
	{RawCohort, regexp.MustCompile(`(?i)cohort|longitudinal|prospective`)},
	{RawInVitro, regexp.MustCompile(`(?i)in vitro|cell line|cell culture`)},
	{RawAnimal, regexp.MustCompile(`(?i)\bmouse\b|\bmice\b|\brats?\b|animal model`)},
}

// Classify infers a raw study-type label from free text. Text with no
// methodology signal yields "other".
func Classify(text string) string {
	for _, p := range patterns {
		if p.re.MatchString(text) {
			return p.raw
		}
	}
	return RawOther
}

var normalized = map[string]Level{
	"rct":           RCT,
	"meta-analysis": MetaAnalysis,
	"meta_analysis": MetaAnalysis,
	"cohort":        Cohort,
	"animal":        Animal,
	"in-vitro":      InVitro,
	"in_vitro":      InVitro,
	"in vitro":      InVitro,
	"review":        Review,
	"other":         Review,
	"preprint":      Preprint,
}

// Normalize maps a raw label to its canonical Level. "other", the label for
// text with no design signal, grades as Review. Missing and unknown labels
// map to Preprint.
func Normalize(raw string) Level {
	if lvl, ok := normalized[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return lvl
	}
	return Preprint
}

// Grade returns the level for a document, preferring the study type the
// source supplied over one inferred from title and abstract.
func Grade(doc types.Document) Level {
	if strings.TrimSpace(doc.StudyType) != "" {
		return Normalize(doc.StudyType)
	}
	return Normalize(Classify(doc.Title + " " + doc.Abstract))
}

func rank(l Level) int {
	switch l {
	case MetaAnalysis:
		return 6
	case RCT:
		return 5
	case Cohort:
		return 4
	case Review:
		return 3
	case Animal:
		return 2
	case InVitro:
		return 1
	default:
		return 0
	}
}

// Compare returns -1, 0 or +1 as a is weaker than, equal to or stronger than b.
func Compare(a, b Level) int {
	ra, rb := rank(a), rank(b)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}

// Stronger reports whether l outranks other.
func (l Level) Stronger(other Level) bool { return rank(l) > rank(other) }

// HighConfidence reports whether l is a human-outcome design (meta-analysis,
// RCT or cohort).
func (l Level) HighConfidence() bool { return rank(l) >= rank(Cohort) }

// Best returns the strongest of levels, or Preprint for none.
func Best(levels ...Level) Level {
	best := Preprint
	for _, l := range levels {
		if l.Stronger(best) {
			best = l
		}
	}
	return best
}
