// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/HelloWaord1/longivity/internal/httputil"
	"github.com/HelloWaord1/longivity/pkg/types"
)

var biorxivAPIBase = "https://api.biorxiv.org/details/biorxiv"

// biorxivFilter keeps preprints that look aging-related; the details API has no search.
var biorxivFilter = regexp.MustCompile(`(?i)aging|ageing|longevity|senescen|senolyti|nad\+|\bnmn\b|autophagy|mtor|telomer|epigenetic.*(age|clock)`)

// BioRxiv lists recent bioRxiv preprints and keeps the aging-related ones.
type BioRxiv struct {
	Client   *httputil.Client
	Pacer    *Pacer
	DaysBack int

	now func() time.Time
}

func (b *BioRxiv) Name() string   { return "biorxiv" }
func (b *BioRxiv) Family() string { return "biorxiv" }

func (b *BioRxiv) Fetch(ctx context.Context) ([]types.Document, error) {
	now := time.Now
	if b.now != nil {
		now = b.now
	}
	days := b.DaysBack
	if days <= 0 {
		days = 7
	}
	to := now().UTC()
	from := to.AddDate(0, 0, -days)
	endpoint := fmt.Sprintf("%s/%s/%s/0", biorxivAPIBase, from.Format("2006-01-02"), to.Format("2006-01-02"))

	if err := b.Pacer.Wait(ctx); err != nil {
		return nil, err
	}
	body, err := b.Client.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("bioRxiv request: %w", err)
	}

	var res struct {
		Collection []struct {
			DOI      string `json:"doi"`
			Title    string `json:"title"`
			Abstract string `json:"abstract"`
			Date     string `json:"date"`
			Category string `json:"category"`
		} `json:"collection"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("parsing bioRxiv response: %w", err)
	}

	var docs []types.Document
	for _, p := range res.Collection {
		if !biorxivFilter.MatchString(p.Title + " " + p.Abstract) {
			continue
		}
		doc := types.Document{
			ID:        "biorxiv-" + p.DOI,
			Kind:      types.KindResearch,
			Title:     strings.TrimSpace(p.Title),
			Abstract:  strings.TrimSpace(p.Abstract),
			URL:       "https://doi.org/" + p.DOI,
			Source:    "biorxiv",
			Journal:   "bioRxiv (preprint)",
			DOI:       p.DOI,
			StudyType: "preprint",
			Tags:      []string{"preprint", "longevity"},
		}
		if p.Category != "" {
			doc.Tags = append(doc.Tags, strings.ToLower(p.Category))
		}
		if t, err := time.Parse("2006-01-02", p.Date); err == nil {
			doc.Published = t
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
