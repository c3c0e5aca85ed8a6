// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one classification-and-synthesis batch: score and
// filter documents, drop duplicates, classify into topics, synthesize one
// article per new topic, write the day's digest and persist new research.
//
// All persistence goes through the store handle given to New. A run is
// single-threaded; callers serialize runs against the same store.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HelloWaord1/longivity/internal/classify"
	"github.com/HelloWaord1/longivity/internal/dedup"
	"github.com/HelloWaord1/longivity/internal/digest"
	"github.com/HelloWaord1/longivity/internal/evidence"
	"github.com/HelloWaord1/longivity/internal/metrics"
	"github.com/HelloWaord1/longivity/internal/relevance"
	"github.com/HelloWaord1/longivity/internal/store"
	"github.com/HelloWaord1/longivity/internal/synth"
	"github.com/HelloWaord1/longivity/internal/taxonomy"
	"github.com/HelloWaord1/longivity/internal/textutil"
	"github.com/HelloWaord1/longivity/pkg/types"
)

// RunSummary holds the outcome of one run.
type RunSummary struct {
	RunID string

	Fetched      int
	Untitled     int
	Irrelevant   int
	Duplicates   int
	Known        int
	Stored       int
	Unclassified int

	Groups  int
	Created []string
	Skipped []string

	// Digest is the id of the digest written, e.g. "2026-01-05". It is set
	// only when the run completes.
	Digest string
}

// Total returns the number of documents handed to the run.
func (s RunSummary) Total() int { return s.Fetched }

// HasNew reports whether the run persisted any new research or article.
func (s RunSummary) HasNew() bool { return s.Stored > 0 || len(s.Created) > 0 }

// Option configures a Driver.
type Option func(*Driver)

func WithLogger(l *zap.Logger) Option { return func(d *Driver) { d.logger = l } }

func WithMetrics(m *metrics.Metrics) Option { return func(d *Driver) { d.metrics = m } }

// WithProgress sets where one-line progress messages are written.
func WithProgress(w io.Writer) Option { return func(d *Driver) { d.out = w } }

// WithClock sets the time source for article timestamps and the digest date.
func WithClock(now func() time.Time) Option { return func(d *Driver) { d.now = now } }

// WithRunID overrides run id generation.
func WithRunID(f func() string) Option { return func(d *Driver) { d.runID = f } }

// Driver wires the pipeline stages to a store.
type Driver struct {
	store store.Store
	tx    *taxonomy.Taxonomy
	cfg   types.PipelineConfig

	scorer     *relevance.Scorer
	classifier *classify.Classifier

	logger  *zap.Logger
	metrics *metrics.Metrics
	out     io.Writer
	now     func() time.Time
	runID   func() string
}

// New returns a Driver that persists through st.
func New(st store.Store, tx *taxonomy.Taxonomy, cfg types.PipelineConfig, opts ...Option) *Driver {
	d := &Driver{
		store:      st,
		tx:         tx,
		cfg:        cfg,
		scorer:     relevance.NewScorer(tx),
		classifier: classify.New(tx),
		logger:     zap.NewNop(),
		out:        io.Discard,
		now:        time.Now,
		runID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run processes docs. Store write failures abort the run; unreadable
// catalog records are skipped.
func (d *Driver) Run(ctx context.Context, docs []types.Document) (RunSummary, error) {
	started := d.now()
	sum := RunSummary{RunID: d.runID(), Fetched: len(docs)}
	logger := d.logger.With(zap.String("run", sum.RunID))
	d.metrics.Documents(metrics.Fetched, len(docs))

	relevant := d.filter(docs, &sum, logger)

	fresh, err := d.dedupe(ctx, relevant, &sum)
	if err != nil {
		return sum, err
	}
	fmt.Fprintf(d.out, "documents: %d fetched, %d relevant, %d new\n", sum.Fetched, len(relevant), len(fresh))

	groups, unclassified := d.classifier.GroupDocuments(fresh)
	sum.Groups = len(groups)
	sum.Unclassified = len(unclassified)
	d.metrics.Documents(metrics.Unclassified, sum.Unclassified)

	if len(groups) > 0 {
		if err := d.writeArticles(ctx, groups, &sum, logger); err != nil {
			return sum, err
		}
	}

	entries := digestEntries(groups, unclassified)
	date := digest.ID(d.now().UTC())
	md := digest.Build(date, entries, d.cfg.GroupBy, d.cfg.DigestLimit)
	if err := d.store.Write(ctx, store.KindDigest, date, []byte(md)); err != nil {
		return sum, fmt.Errorf("storing digest %s: %w", date, err)
	}
	fmt.Fprintf(d.out, "digest: %s (%d documents)\n", date, len(entries))

	// Research records mark documents as known; they are written after
	// every artifact built from them.
	for _, doc := range fresh {
		if err := store.WriteJSON(ctx, d.store, store.KindResearch, researchID(doc), doc); err != nil {
			return sum, fmt.Errorf("storing research %q: %w", doc.Title, err)
		}
		sum.Stored++
	}
	d.metrics.Documents(metrics.Stored, sum.Stored)
	sum.Digest = date

	d.metrics.RunFinished(d.now().Sub(started), d.now())
	logger.Info("run complete",
		zap.Int("fetched", sum.Fetched),
		zap.Int("stored", sum.Stored),
		zap.Int("articles", len(sum.Created)),
		zap.Int("skipped", len(sum.Skipped)))
	return sum, nil
}

// filter drops untitled and irrelevant documents and annotates the rest
// with their relevance result.
func (d *Driver) filter(docs []types.Document, sum *RunSummary, logger *zap.Logger) []types.Document {
	var kept []types.Document
	for _, doc := range docs {
		if strings.TrimSpace(doc.Title) == "" || researchID(doc) == "" {
			logger.Debug("skipping untitled document", zap.String("id", doc.ID), zap.String("source", doc.Source))
			sum.Untitled++
			continue
		}
		res := d.scorer.Score(doc.Title, doc.Abstract+" "+strings.Join(doc.Tags, " "))
		if !res.Relevant() || res.Score < d.cfg.MinScore {
			sum.Irrelevant++
			continue
		}
		if doc.ID == "" {
			doc.ID = researchID(doc)
		}
		doc.RelevanceScore = res.Score
		doc.MatchedKeywords = res.MatchedKeywords
		doc.RelatedProducts = res.RelatedEntities
		kept = append(kept, doc)
	}
	d.metrics.Documents(metrics.Irrelevant, sum.Irrelevant+sum.Untitled)
	return kept
}

// dedupe removes repeats within the batch, then documents whose research
// record already exists.
func (d *Driver) dedupe(ctx context.Context, docs []types.Document, sum *RunSummary) ([]types.Document, error) {
	unique, removed := dedup.New(d.cfg.TitlePrefix).Dedupe(docs)
	sum.Duplicates = removed
	d.metrics.Documents(metrics.Duplicate, removed)

	ids, err := d.store.ListIDs(ctx, store.KindResearch)
	if err != nil {
		return nil, fmt.Errorf("listing research: %w", err)
	}
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	var fresh []types.Document
	for _, doc := range unique {
		id := researchID(doc)
		if known[id] {
			sum.Known++
			continue
		}
		// Distinct fingerprints can still share a slug.
		known[id] = true
		fresh = append(fresh, doc)
	}
	d.metrics.Documents(metrics.Known, sum.Known)
	return fresh, nil
}

func (d *Driver) writeArticles(ctx context.Context, groups []classify.Group, sum *RunSummary, logger *zap.Logger) error {
	catalog, err := store.LoadProducts(ctx, d.store, logger)
	if err != nil {
		return err
	}
	syn := synth.New(d.tx, synth.WithClock(d.now))

	for _, g := range groups {
		exists, err := d.store.Exists(ctx, store.KindArticle, g.Topic.ID)
		if err != nil {
			return fmt.Errorf("checking article %s: %w", g.Topic.ID, err)
		}
		if exists {
			fmt.Fprintf(d.out, "skipped: %s (article exists)\n", g.Topic.ID)
			sum.Skipped = append(sum.Skipped, g.Topic.ID)
			continue
		}
		article := syn.Synthesize(g.Topic, g.Documents, catalog)
		if err := store.WriteJSON(ctx, d.store, store.KindArticle, article.ID, article); err != nil {
			return fmt.Errorf("storing article %s: %w", article.ID, err)
		}
		fmt.Fprintf(d.out, "article: %s (%d documents, %s)\n", article.ID, len(g.Documents), article.EvidenceLevel)
		sum.Created = append(sum.Created, article.ID)
	}
	d.metrics.Articles(metrics.Created, len(sum.Created))
	d.metrics.Articles(metrics.Skipped, len(sum.Skipped))
	return nil
}

// digestEntries lists classified documents by topic, then unclassified ones.
func digestEntries(groups []classify.Group, unclassified []types.Document) []digest.Entry {
	var entries []digest.Entry
	for _, g := range groups {
		for _, cd := range g.Documents {
			entries = append(entries, digest.Entry{
				Document: cd.Document,
				Level:    evidence.Level(cd.EvidenceLevel),
				Topic:    g.Topic.Label,
			})
		}
	}
	for _, doc := range unclassified {
		entries = append(entries, digest.Entry{Document: doc, Level: evidence.Grade(doc)})
	}
	return entries
}

// researchID is the store key of a research document.
func researchID(doc types.Document) string {
	return textutil.Slugify(doc.Title)
}
