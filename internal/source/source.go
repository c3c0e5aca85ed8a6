// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source fetches candidate documents from research databases,
// preprint servers, feeds and forums. Fetchers run one after another and
// share a Pacer so consecutive network calls are spaced by a fixed delay.
// A fetcher that fails contributes no documents; the run continues.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/HelloWaord1/longivity/pkg/types"
)

// ErrUnknownSource is returned by Select for a name no fetcher answers to.
var ErrUnknownSource = errors.New("unknown source")

// Fetcher retrieves documents from one origin.
type Fetcher interface {
	// Name identifies the fetcher, e.g. "pubmed:nmn aging".
	Name() string

	// Family groups fetchers of the same backend, e.g. "pubmed".
	Family() string

	Fetch(ctx context.Context) ([]types.Document, error)
}

// Pacer spaces consecutive calls by Delay.
type Pacer struct {
	Delay time.Duration

	last time.Time
}

// NewPacer returns a Pacer with the given delay.
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{Delay: delay}
}

// Wait blocks until Delay has elapsed since the previous Wait returned.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.Delay <= 0 {
		return ctx.Err()
	}
	if !p.last.IsZero() {
		if remaining := p.Delay - time.Since(p.last); remaining > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(remaining):
			}
		}
	}
	p.last = time.Now()
	return nil
}

// Result records the outcome of one fetcher.
type Result struct {
	Source string
	Count  int
	Err    error
}

// Collect runs fetchers in order and concatenates their documents. Each
// document gets a fetch time and a default kind of research.
func Collect(ctx context.Context, fetchers []Fetcher, logger *zap.Logger) ([]types.Document, []Result) {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now().UTC()

	var (
		docs    []types.Document
		results []Result
	)
	for _, f := range fetchers {
		if ctx.Err() != nil {
			results = append(results, Result{Source: f.Name(), Err: ctx.Err()})
			continue
		}
		fetched, err := f.Fetch(ctx)
		if err != nil {
			logger.Warn("fetch failed", zap.String("source", f.Name()), zap.Error(err))
			results = append(results, Result{Source: f.Name(), Err: err})
			continue
		}
		for i := range fetched {
			if fetched[i].Kind == "" {
				fetched[i].Kind = types.KindResearch
			}
			if fetched[i].FetchedAt.IsZero() {
				fetched[i].FetchedAt = now
			}
		}
		logger.Info("fetched", zap.String("source", f.Name()), zap.Int("documents", len(fetched)))
		docs = append(docs, fetched...)
		results = append(results, Result{Source: f.Name(), Count: len(fetched)})
	}
	return docs, results
}

// Select keeps the fetchers whose family is named. An empty names list keeps all.
func Select(fetchers []Fetcher, names []string) ([]Fetcher, error) {
	if len(names) == 0 {
		return fetchers, nil
	}
	families := make(map[string]bool)
	for _, f := range fetchers {
		families[f.Family()] = true
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if !families[n] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSource, n)
		}
		want[n] = true
	}
	var out []Fetcher
	for _, f := range fetchers {
		if want[f.Family()] {
			out = append(out, f)
		}
	}
	return out, nil
}
