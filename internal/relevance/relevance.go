// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance scores how strongly a document relates to longevity
// science and maps matched keywords to catalog products.
package relevance

import (
	"math"
	"regexp"
	"strings"

	"github.com/HelloWaord1/longivity/internal/taxonomy"
)

const (
	// saturation is the number of distinct keyword matches that yields a base score of 1.
	saturation = 5.0

	// titleBoost is added per matched keyword that also appears in the title.
	titleBoost = 0.1
)

// Result is the outcome of scoring one document.
type Result struct {
	Score           float64
	MatchedKeywords []string
	RelatedEntities []string
}

// Relevant reports whether any keyword matched.
func (r Result) Relevant() bool { return r.Score > 0 }

type matcher struct {
	keyword string
	word    *regexp.Regexp // nil for plain containment
}

func (m matcher) match(text string) bool {
	if m.word != nil {
		return m.word.MatchString(text)
	}
	return strings.Contains(text, m.keyword)
}

// Scorer computes relevance scores against a fixed keyword table.
// It is safe for concurrent use.
type Scorer struct {
	matchers []matcher
	entities map[string][]string
}

// NewScorer compiles the taxonomy's relevance table.
func NewScorer(tx *taxonomy.Taxonomy) *Scorer {
	s := &Scorer{entities: tx.Relevance.Entities}
	for _, kw := range tx.Relevance.Keywords {
		m := matcher{keyword: kw}
		if tx.IsAmbiguous(kw) {
			m.word = tx.Pattern(kw)
		}
		s.matchers = append(s.matchers, m)
	}
	return s
}

// Score matches title and text against the keyword table. The base score is
// min(matches/5, 1), each matched keyword also present in the title adds 0.1,
// and the result is rounded to two decimals and capped at 1.
func (s *Scorer) Score(title, text string) Result {
	lowerTitle := strings.ToLower(title)
	combined := lowerTitle + " " + strings.ToLower(text)

	var (
		res       Result
		titleHits int
	)
	for _, m := range s.matchers {
		if !m.match(combined) {
			continue
		}
		res.MatchedKeywords = append(res.MatchedKeywords, m.keyword)
		if m.match(lowerTitle) {
			titleHits++
		}
	}
	if len(res.MatchedKeywords) == 0 {
		return Result{}
	}

	score := math.Min(float64(len(res.MatchedKeywords))/saturation, 1.0)
	score += float64(titleHits) * titleBoost
	score = math.Round(score*100) / 100
	res.Score = math.Min(score, 1.0)

	seen := make(map[string]bool)
	for _, kw := range res.MatchedKeywords {
		for _, slug := range s.entities[kw] {
			if !seen[slug] {
				seen[slug] = true
				res.RelatedEntities = append(res.RelatedEntities, slug)
			}
		}
	}
	return res
}
