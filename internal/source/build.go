// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"go.uber.org/zap"

	"github.com/HelloWaord1/longivity/internal/httputil"
	"github.com/HelloWaord1/longivity/internal/secrets"
	"github.com/HelloWaord1/longivity/pkg/types"
)

// FromConfig builds the fetchers named by cfg in a fixed order: PubMed
// terms, arXiv terms, bioRxiv, feeds, subreddits, then the inbox.
// bioRxiv is included whenever any research term is configured.
func FromConfig(cfg types.SourcesConfig, sec secrets.Secrets, logger *zap.Logger) []Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := httputil.New(cfg.HTTPConfig, logger)
	pacer := NewPacer(cfg.Delay)
	apiKey := sec.Get(secrets.NCBIAPIKey, cfg.NCBIAPIKey)

	var fetchers []Fetcher
	for _, term := range cfg.PubMedTerms {
		fetchers = append(fetchers, &PubMed{
			Client: client, Pacer: pacer, Term: term, MaxResults: cfg.MaxResults, APIKey: apiKey,
		})
	}
	for _, term := range cfg.ArxivTerms {
		fetchers = append(fetchers, &Arxiv{Client: client, Pacer: pacer, Query: term, MaxResults: cfg.MaxResults})
	}
	if len(cfg.PubMedTerms)+len(cfg.ArxivTerms) > 0 {
		fetchers = append(fetchers, &BioRxiv{Client: client, Pacer: pacer})
	}
	for _, feed := range cfg.Feeds {
		fetchers = append(fetchers, &Feed{Client: client, Pacer: pacer, Config: feed, MaxItems: cfg.MaxResults})
	}

	if len(cfg.Subreddits) > 0 {
		redditClient := client
		if ua := sec[secrets.RedditUserAgent]; ua != "" {
			redditClient = httputil.New(types.HTTPConfig{Timeout: cfg.Timeout, UserAgent: ua}, logger)
		}
		for _, sub := range cfg.Subreddits {
			fetchers = append(fetchers, &Reddit{Client: redditClient, Pacer: pacer, Subreddit: sub})
		}
	}
	if cfg.InboxDir != "" {
		fetchers = append(fetchers, &Inbox{Dir: cfg.InboxDir, Logger: logger})
	}
	return fetchers
}
