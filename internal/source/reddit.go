// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/HelloWaord1/longivity/internal/httputil"
	"github.com/HelloWaord1/longivity/internal/textutil"
	"github.com/HelloWaord1/longivity/pkg/types"
)

var redditBase = "https://www.reddit.com"

// Trending thresholds: a post is kept when either is exceeded.
const (
	minTrendingScore    = 10
	minTrendingComments = 5
	maxSelftextLen      = 500
)

// Reddit reads the hot listing of one subreddit and keeps trending posts,
// highest score first.
type Reddit struct {
	Client    *httputil.Client
	Pacer     *Pacer
	Subreddit string
	Limit     int
}

func (r *Reddit) Name() string   { return "reddit:" + r.path() }
func (r *Reddit) Family() string { return "reddit" }

func (r *Reddit) path() string {
	name := strings.TrimPrefix(strings.TrimPrefix(r.Subreddit, "/"), "r/")
	return "r/" + name
}

func (r *Reddit) Fetch(ctx context.Context) ([]types.Document, error) {
	limit := r.Limit
	if limit <= 0 {
		limit = 10
	}
	endpoint := fmt.Sprintf("%s/%s/hot.json?%s", redditBase, r.path(),
		url.Values{"limit": {strconv.Itoa(limit)}}.Encode())

	if err := r.Pacer.Wait(ctx); err != nil {
		return nil, err
	}
	body, err := r.Client.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("reddit %s: %w", r.path(), err)
	}

	var listing struct {
		Data struct {
			Children []struct {
				Data struct {
					ID          string  `json:"id"`
					Title       string  `json:"title"`
					Permalink   string  `json:"permalink"`
					Score       int     `json:"score"`
					NumComments int     `json:"num_comments"`
					CreatedUTC  float64 `json:"created_utc"`
					Selftext    string  `json:"selftext"`
					Flair       string  `json:"link_flair_text"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("parsing reddit listing: %w", err)
	}

	source := r.Name()
	var docs []types.Document
	for _, c := range listing.Data.Children {
		p := c.Data
		if p.Score <= minTrendingScore && p.NumComments <= minTrendingComments {
			continue
		}
		doc := types.Document{
			ID:        "reddit-" + p.ID,
			Kind:      types.KindCommunity,
			Title:     strings.TrimSpace(p.Title),
			Abstract:  textutil.Prefix(textutil.CleanText(p.Selftext), maxSelftextLen),
			URL:       redditBase + p.Permalink,
			Source:    source,
			Category:  "community",
			Score:     p.Score,
			Comments:  p.NumComments,
			Published: time.Unix(int64(p.CreatedUTC), 0).UTC(),
		}
		if p.Flair != "" {
			doc.Tags = []string{strings.ToLower(p.Flair)}
		}
		docs = append(docs, doc)
	}
	slices.SortStableFunc(docs, func(a, b types.Document) int { return b.Score - a.Score })
	return docs, nil
}
