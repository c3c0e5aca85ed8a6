// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/HelloWaord1/longivity/internal/httputil"
	"github.com/HelloWaord1/longivity/pkg/types"
)

// arxivAPIBase is a var so tests can point it at an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Arxiv searches arXiv for one free-text query, newest first.
type Arxiv struct {
	Client     *httputil.Client
	Pacer      *Pacer
	Query      string
	MaxResults int
}

func (a *Arxiv) Name() string   { return "arxiv:" + a.Query }
func (a *Arxiv) Family() string { return "arxiv" }

func (a *Arxiv) Fetch(ctx context.Context) ([]types.Document, error) {
	terms := strings.Fields(a.Query)
	if len(terms) == 0 {
		return nil, fmt.Errorf("empty arXiv query")
	}
	max := a.MaxResults
	if max <= 0 {
		max = 20
	}

	q := url.Values{}
	q.Set("search_query", "all:"+strings.Join(terms, " AND all:"))
	q.Set("start", "0")
	q.Set("max_results", strconv.Itoa(max))
	q.Set("sortBy", "submittedDate")
	q.Set("sortOrder", "descending")

	if err := a.Pacer.Wait(ctx); err != nil {
		return nil, err
	}
	body, err := a.Client.Get(ctx, arxivAPIBase+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var docs []types.Document
	for _, entry := range feed.Entries {
		id := extractArxivID(entry.ID)
		if id == "" {
			continue
		}
		doc := types.Document{
			ID:        "arxiv-" + id,
			Kind:      types.KindResearch,
			Title:     strings.Join(strings.Fields(entry.Title), " "),
			Abstract:  strings.TrimSpace(entry.Summary),
			URL:       "https://arxiv.org/abs/" + id,
			Source:    "arxiv",
			Journal:   "arXiv (preprint)",
			DOI:       strings.TrimSpace(entry.DOI),
			StudyType: "preprint",
			Tags:      []string{"preprint", "arxiv"},
		}
		for _, c := range entry.Categories {
			doc.Tags = append(doc.Tags, c.Term)
		}
		if t, err := time.Parse(time.RFC3339, entry.Published); err == nil {
			doc.Published = t
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	DOI        string          `xml:"http://arxiv.org/schemas/atom doi"`
	Categories []arxivCategory `xml:"category"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

// extractArxivID pulls the versionless arXiv ID from an entry <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" gives "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]
	if v := strings.LastIndex(id, "v"); v > 0 {
		if _, err := strconv.Atoi(id[v+1:]); err == nil {
			id = id[:v]
		}
	}
	return id
}
