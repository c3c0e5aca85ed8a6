// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synth turns a group of classified documents into one
// reader-facing article. Output is deterministic for a given input and clock.
package synth

import (
	"fmt"
	"strings"
	"time"

	"github.com/HelloWaord1/longivity/internal/evidence"
	"github.com/HelloWaord1/longivity/internal/taxonomy"
	"github.com/HelloWaord1/longivity/internal/textutil"
	"github.com/HelloWaord1/longivity/pkg/types"
)

const (
	maxFindings        = 5
	maxListedProducts  = 4
	maxSummaryProducts = 3
	maxSummarySentence = 3
	maxTopicTags       = 3
	maxTags            = 10
	maxFindingLen      = 200
	maxShortTitleLen   = 100

	emptyAbstractSummary = "This study explores emerging findings in longevity research."
	emptyAbstractFinding = "No abstract was available for this study."
	untitled             = "Untitled study"
)

var resultWords = []string{
	"demonstrate", "show", "found", "reveal", "suggest", "indicate",
	"reduce", "increase", "improve", "extend", "protect", "attenuate",
	"enhance", "mitigate", "restore", "activate", "inhibit", "prevent",
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithClock sets the source of article creation times.
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) { s.now = now }
}

// Synthesizer builds articles from topic groups.
type Synthesizer struct {
	tx  *taxonomy.Taxonomy
	now func() time.Time
}

// New returns a Synthesizer for the given taxonomy.
func New(tx *taxonomy.Taxonomy, opts ...Option) *Synthesizer {
	s := &Synthesizer{tx: tx, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize builds the article for topic from docs. catalog is the full
// product catalog; entries are matched against the topic keywords. docs must
// be non-empty.
func (s *Synthesizer) Synthesize(topic taxonomy.Topic, docs []types.ClassifiedDocument, catalog []types.Product) types.Article {
	products := s.MatchProducts(topic, catalog)

	levels := make([]evidence.Level, len(docs))
	for i, d := range docs {
		levels[i] = evidence.Level(d.EvidenceLevel)
	}

	related := make([]string, len(products))
	for i, p := range products {
		related[i] = textutil.Slugify(p.Name)
	}

	sources := make([]types.SourcePaper, len(docs))
	for i, d := range docs {
		sources[i] = types.SourcePaper{
			Title:   ShortTitle(d.Title),
			DOI:     nullable(d.DOI),
			Journal: nullable(d.Journal),
		}
	}

	return types.Article{
		ID:              topic.ID,
		Title:           Title(topic, len(docs)),
		Summary:         Summary(topic, docs, products),
		Body:            s.body(topic, docs, products),
		Category:        topic.Category,
		Tags:            Tags(topic, docs, products),
		EvidenceLevel:   string(evidence.Best(levels...)),
		RelatedProducts: related,
		SourcePapers:    sources,
		CreatedAt:       s.now().UTC(),
		Featured:        s.Featured(topic, levels),
	}
}

// Title picks from the topic's title pool by document count.
func Title(topic taxonomy.Topic, n int) string {
	if len(topic.Titles) == 0 {
		return fmt.Sprintf("New Research in %s: What You Need to Know", topic.Label)
	}
	return topic.Titles[n%len(topic.Titles)]
}

// Summary returns the article's short summary. A single document is
// summarized by its opening sentences; a group by a template naming the
// count, the evidence levels present and related products.
func Summary(topic taxonomy.Topic, docs []types.ClassifiedDocument, products []types.Product) string {
	if len(docs) == 1 {
		return leadSentences(docs[0].Abstract)
	}

	var levels []string
	seen := make(map[string]bool)
	for _, d := range docs {
		lvl := strings.ToLower(d.EvidenceLevel)
		if !seen[lvl] {
			seen[lvl] = true
			levels = append(levels, lvl)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A review of %d recent %s studies on %s. ",
		len(docs), strings.Join(levels, " and "), strings.ToLower(topic.Label))
	if len(products) > 0 {
		names := make([]string, 0, maxSummaryProducts)
		for _, p := range products {
			if len(names) == maxSummaryProducts {
				break
			}
			names = append(names, p.Name)
		}
		fmt.Fprintf(&b, "Related supplements include %s. ", strings.Join(names, ", "))
	}
	b.WriteString("Here's what the latest science tells us about this important area of longevity research.")
	return b.String()
}

func leadSentences(abstract string) string {
	sentences := textutil.Sentences(textutil.CleanText(abstract))
	if len(sentences) == 0 {
		return emptyAbstractSummary
	}
	if len(sentences) > maxSummarySentence {
		sentences = sentences[:maxSummarySentence]
	}
	return strings.Join(sentences, " ")
}

// KeyFinding returns the first sentence of the abstract that reports a
// result, else the last sentence, truncated to 200 characters.
func KeyFinding(abstract string) string {
	sentences := textutil.Sentences(textutil.CleanText(abstract))
	if len(sentences) == 0 {
		return emptyAbstractFinding
	}
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		for _, w := range resultWords {
			if strings.Contains(lower, w) {
				return textutil.Truncate(sentence, maxFindingLen)
			}
		}
	}
	return textutil.Truncate(sentences[len(sentences)-1], maxFindingLen)
}

// ShortTitle cleans a title, drops a trailing period and caps it at 100 characters.
func ShortTitle(title string) string {
	clean := strings.TrimSuffix(textutil.CleanText(title), ".")
	if clean == "" {
		return untitled
	}
	return textutil.Truncate(clean, maxShortTitleLen)
}

// MatchProducts returns catalog entries whose name, description, mechanisms
// or tags contain any topic keyword as a case-insensitive substring, in
// catalog order.
func (s *Synthesizer) MatchProducts(topic taxonomy.Topic, catalog []types.Product) []types.Product {
	var out []types.Product
	for _, p := range catalog {
		parts := []string{p.Name, p.Description}
		parts = append(parts, p.Mechanisms...)
		parts = append(parts, p.Tags...)
		text := strings.ToLower(strings.Join(parts, " "))
		for _, kw := range topic.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Featured reports whether an article is promoted: three or more documents,
// any human-outcome evidence, or a hot topic.
func (s *Synthesizer) Featured(topic taxonomy.Topic, levels []evidence.Level) bool {
	if len(levels) >= 3 {
		return true
	}
	for _, l := range levels {
		if l.HighConfidence() {
			return true
		}
	}
	return s.tx.IsHot(topic.ID)
}

// Tags collects lower-cased document tags, product tags and the first three
// topic keywords, deduplicated in that order and capped at ten.
func Tags(topic taxonomy.Topic, docs []types.ClassifiedDocument, products []types.Product) []string {
	tags := make([]string, 0, maxTags)
	seen := make(map[string]bool)
	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	for _, d := range docs {
		for _, t := range d.Tags {
			add(t)
		}
	}
	for _, p := range products {
		for _, t := range p.Tags {
			add(t)
		}
	}
	for i, kw := range topic.Keywords {
		if i == maxTopicTags {
			break
		}
		add(kw)
	}
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

func (s *Synthesizer) body(topic taxonomy.Topic, docs []types.ClassifiedDocument, products []types.Product) string {
	var b strings.Builder

	b.WriteString("## Summary\n\n")
	if len(docs) == 1 {
		b.WriteString(leadSentences(docs[0].Abstract))
	} else {
		fmt.Fprintf(&b, "New research sheds light on **%s** and its implications for healthy aging. "+
			"We reviewed %d recent studies on this topic, and here is what the science says.", topic.Label, len(docs))
	}
	b.WriteString("\n\n## Key Findings\n\n")
	for i, d := range docs {
		if i == maxFindings {
			break
		}
		fmt.Fprintf(&b, "- **%s:** %s\n", ShortTitle(d.Title), KeyFinding(d.Abstract))
	}

	b.WriteString("\n## What This Means For You\n\n")
	b.WriteString(s.tx.Implications(topic.ID))
	b.WriteString("\n")

	if len(products) > 0 {
		b.WriteString("\n## Related Products\n\n")
		for i, p := range products {
			if i == maxListedProducts {
				break
			}
			b.WriteString(productLine(p))
		}
	}

	b.WriteString("\n## Sources\n\n")
	for _, d := range docs {
		b.WriteString("- " + ShortTitle(d.Title))
		if d.Journal != "" {
			fmt.Fprintf(&b, " *%s*", d.Journal)
		}
		if d.DOI != "" {
			fmt.Fprintf(&b, " [DOI](https://doi.org/%s)", d.DOI)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func productLine(p types.Product) string {
	dosage := p.Dosage.Standard
	if dosage == "" {
		dosage = "See dosage details"
	}
	line := "- **" + p.Name + "**"
	if p.EvidenceGrade != "" {
		line += " (Grade " + p.EvidenceGrade + ")"
	}
	line += " — " + dosage + "\n"
	if len(p.Mechanisms) > 0 {
		line += "  *Mechanisms:* " + strings.Join(p.Mechanisms, ", ") + "\n"
	}
	return line
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
