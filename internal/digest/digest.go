// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package digest renders the daily Markdown digest of every document a run
// processed, grouped by evidence level or by source.
package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/HelloWaord1/longivity/internal/evidence"
	"github.com/HelloWaord1/longivity/internal/textutil"
	"github.com/HelloWaord1/longivity/pkg/types"
)

// DateLayout is the digest identifier format; one digest exists per day.
const DateLayout = "2006-01-02"

const (
	defaultLimit = 10
	excerptLen   = 300
)

// Entry is one processed document with its classification, if any.
type Entry struct {
	Document types.Document
	Level    evidence.Level

	// Topic is the assigned topic label, empty when unclassified.
	Topic string
}

// ID returns the digest identifier for t.
func ID(t time.Time) string { return t.Format(DateLayout) }

// Build renders the digest for date. At most limit entries are listed per
// group; limit <= 0 uses 10.
func Build(date string, entries []Entry, groupBy types.DigestGrouping, limit int) string {
	if limit <= 0 {
		limit = defaultLimit
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Longivity Research Digest — %s\n\n", date)
	fmt.Fprintf(&b, "**%d documents processed**\n\n", len(entries))
	if len(entries) == 0 {
		b.WriteString("No new documents today.\n")
		return b.String()
	}

	for _, g := range group(entries, groupBy) {
		fmt.Fprintf(&b, "## %s (%d)\n\n", g.name, len(g.entries))
		for i, e := range g.entries {
			if i == limit {
				fmt.Fprintf(&b, "*...and %d more*\n\n", len(g.entries)-limit)
				break
			}
			writeEntry(&b, e, groupBy)
		}
	}
	return b.String()
}

type section struct {
	name    string
	entries []Entry
}

func group(entries []Entry, groupBy types.DigestGrouping) []section {
	if groupBy == types.GroupBySource {
		var out []section
		index := make(map[string]int)
		for _, e := range entries {
			name := e.Document.Source
			if name == "" {
				name = "unknown"
			}
			i, ok := index[name]
			if !ok {
				i = len(out)
				index[name] = i
				out = append(out, section{name: name})
			}
			out[i].entries = append(out[i].entries, e)
		}
		return out
	}

	byLevel := make(map[evidence.Level][]Entry)
	for _, e := range entries {
		lvl := e.Level
		if lvl == "" {
			lvl = evidence.Preprint
		}
		byLevel[lvl] = append(byLevel[lvl], e)
	}
	var out []section
	for _, lvl := range evidence.Levels {
		if members := byLevel[lvl]; len(members) > 0 {
			out = append(out, section{name: string(lvl), entries: members})
		}
	}
	return out
}

func writeEntry(b *strings.Builder, e Entry, groupBy types.DigestGrouping) {
	d := e.Document
	title := strings.TrimSpace(d.Title)
	if d.URL != "" {
		fmt.Fprintf(b, "### [%s](%s)\n\n", title, d.URL)
	} else {
		fmt.Fprintf(b, "### %s\n\n", title)
	}

	if groupBy == types.GroupBySource {
		if e.Level != "" {
			fmt.Fprintf(b, "- **Evidence:** %s\n", e.Level)
		}
	} else if d.Source != "" {
		fmt.Fprintf(b, "- **Source:** %s\n", d.Source)
	}
	if d.Journal != "" {
		fmt.Fprintf(b, "- **Journal:** %s\n", d.Journal)
	}
	if d.Kind == types.KindResearch || d.DOI != "" {
		doi := d.DOI
		if doi == "" {
			doi = "N/A"
		}
		fmt.Fprintf(b, "- **DOI:** %s\n", doi)
	}
	if d.Kind == types.KindCommunity {
		fmt.Fprintf(b, "- **Engagement:** %d points, %d comments\n", d.Score, d.Comments)
	}
	if e.Topic != "" {
		fmt.Fprintf(b, "- **Topic:** %s\n", e.Topic)
	}
	fmt.Fprintf(b, "- **Relevance:** %.2f\n", d.RelevanceScore)
	if abstract := textutil.CleanText(d.Abstract); abstract != "" {
		fmt.Fprintf(b, "- **Abstract:** %s\n", excerpt(abstract))
	}
	b.WriteString("\n")
}

func excerpt(s string) string {
	if p := textutil.Prefix(s, excerptLen); p != s {
		return p + "..."
	}
	return s
}
