package pipeline

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/HelloWaord1/longivity/internal/metrics"
	"github.com/HelloWaord1/longivity/internal/store"
	"github.com/HelloWaord1/longivity/internal/taxonomy"
	"github.com/HelloWaord1/longivity/pkg/types"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newDriver(t *testing.T, st store.Store, cfg types.PipelineConfig, opts ...Option) *Driver {
	t.Helper()
	tx, err := taxonomy.Default()
	require.NoError(t, err)
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithRunID(func() string { return "run-1" }),
	}, opts...)
	return New(st, tx, cfg, opts...)
}

func batch() []types.Document {
	return []types.Document{
		{
			Title:    "NMN restores NAD+ levels in aged mice",
			Abstract: "Nicotinamide mononucleotide supplementation improved healthspan in mice.",
			Source:   "pubmed",
		},
		{
			Title:    "Rapamycin extends lifespan",
			Abstract: "Autophagy induction by rapamycin extended lifespan in a randomized controlled trial.",
			Source:   "pubmed",
		},
		{Title: "Quarterly earnings report", Abstract: "Revenue grew.", Source: "rss:biz"},
		{Title: "NMN Restores NAD+ Levels in Aged Mice", Abstract: "Same study, different feed.", Source: "arxiv"},
		{Title: "Longevity escape velocity debate", Abstract: "Experts discuss longevity.", Source: "reddit:r/longevity", Kind: types.KindCommunity},
		{Title: "  ", Abstract: "No title at all, but about aging."},
	}
}

func TestRunFullBatch(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, store.WriteJSON(ctx, st, store.KindProduct, "nmn", types.Product{
		Name: "NMN", Tags: []string{"nad+"}, EvidenceGrade: "B",
	}))
	require.NoError(t, st.Write(ctx, store.KindProduct, "broken", []byte("{not json")))

	core, logs := observer.New(zapcore.WarnLevel)
	var out bytes.Buffer
	d := newDriver(t, st, types.DefaultConfig().Pipeline,
		WithLogger(zap.New(core)), WithProgress(&out), WithMetrics(metrics.New()))

	sum, err := d.Run(ctx, batch())
	require.NoError(t, err)

	assert.Equal(t, "run-1", sum.RunID)
	assert.Equal(t, 6, sum.Total())
	assert.Equal(t, 1, sum.Untitled)
	assert.Equal(t, 1, sum.Irrelevant)
	assert.Equal(t, 1, sum.Duplicates)
	assert.Equal(t, 0, sum.Known)
	assert.Equal(t, 3, sum.Stored)
	assert.Equal(t, 2, sum.Groups)
	assert.Equal(t, 1, sum.Unclassified)
	assert.Equal(t, []string{"nad-and-cellular-energy", "autophagy-and-cellular-cleanup"}, sum.Created)
	assert.Empty(t, sum.Skipped)
	assert.Equal(t, "2026-03-14", sum.Digest)
	assert.True(t, sum.HasNew())

	ids, err := st.ListIDs(ctx, store.KindResearch)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"longevity-escape-velocity-debate",
		"nmn-restores-nad-levels-in-aged-mice",
		"rapamycin-extends-lifespan",
	}, ids)

	var research types.Document
	require.NoError(t, store.ReadJSON(ctx, st, store.KindResearch, "rapamycin-extends-lifespan", &research))
	assert.Greater(t, research.RelevanceScore, 0.0)
	assert.Contains(t, research.MatchedKeywords, "rapamycin")
	assert.Contains(t, research.RelatedProducts, "rapamycin")
	assert.Equal(t, "rapamycin-extends-lifespan", research.ID)

	var nad types.Article
	require.NoError(t, store.ReadJSON(ctx, st, store.KindArticle, "nad-and-cellular-energy", &nad))
	assert.Equal(t, "Animal", nad.EvidenceLevel)
	assert.Equal(t, []string{"nmn"}, nad.RelatedProducts)
	assert.True(t, fixedNow.Equal(nad.CreatedAt))
	assert.True(t, nad.Featured, "hot topic")

	var autophagy types.Article
	require.NoError(t, store.ReadJSON(ctx, st, store.KindArticle, "autophagy-and-cellular-cleanup", &autophagy))
	assert.Equal(t, "RCT", autophagy.EvidenceLevel)
	assert.Empty(t, autophagy.RelatedProducts)

	md, err := st.Read(ctx, store.KindDigest, "2026-03-14")
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Longivity Research Digest — 2026-03-14")
	assert.Contains(t, string(md), "**3 documents processed**")
	assert.Contains(t, string(md), "Longevity escape velocity debate")

	assert.Equal(t, 1, logs.FilterMessage("skipping product record").Len())
	assert.Contains(t, out.String(), "article: nad-and-cellular-energy")
}

func TestRunIsIdempotentByTopic(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	d := newDriver(t, st, types.DefaultConfig().Pipeline)

	first, err := d.Run(ctx, batch())
	require.NoError(t, err)
	require.Len(t, first.Created, 2)

	second, err := d.Run(ctx, batch())
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Equal(t, 0, second.Stored)
	assert.Equal(t, 3, second.Known)
	assert.False(t, second.HasNew())

	md, err := st.Read(ctx, store.KindDigest, "2026-03-14")
	require.NoError(t, err)
	assert.Contains(t, string(md), "**0 documents processed**")
}

func TestRunSkipsExistingArticle(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	existing := types.Article{ID: "nad-and-cellular-energy", Title: "Written by hand"}
	require.NoError(t, store.WriteJSON(ctx, st, store.KindArticle, existing.ID, existing))

	var out bytes.Buffer
	d := newDriver(t, st, types.DefaultConfig().Pipeline, WithProgress(&out))
	sum, err := d.Run(ctx, batch())
	require.NoError(t, err)

	assert.Equal(t, []string{"nad-and-cellular-energy"}, sum.Skipped)
	assert.Equal(t, []string{"autophagy-and-cellular-cleanup"}, sum.Created)
	assert.Contains(t, out.String(), "skipped: nad-and-cellular-energy (article exists)")

	var got types.Article
	require.NoError(t, store.ReadJSON(ctx, st, store.KindArticle, existing.ID, &got))
	assert.Equal(t, "Written by hand", got.Title)
}

func TestRunGroupTakesStrongestEvidence(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	docs := []types.Document{
		{Title: "Kidney aging and nephron loss", Abstract: "A randomized trial of kidney function in aging adults."},
		{Title: "Renal aging preprint one", Abstract: "Kidney decline with aging.", StudyType: "preprint"},
		{Title: "Renal aging preprint two", Abstract: "Kidney decline with aging.", StudyType: "preprint"},
		{Title: "Renal aging preprint three", Abstract: "Kidney decline with aging.", StudyType: "preprint"},
	}

	sum, err := newDriver(t, st, types.DefaultConfig().Pipeline).Run(ctx, docs)
	require.NoError(t, err)
	require.Equal(t, []string{"kidney-aging"}, sum.Created)

	var a types.Article
	require.NoError(t, store.ReadJSON(ctx, st, store.KindArticle, "kidney-aging", &a))
	assert.Equal(t, "RCT", a.EvidenceLevel)
	assert.True(t, a.Featured)
	assert.Len(t, a.SourcePapers, 4)
}

func TestRunMinScore(t *testing.T) {
	cfg := types.DefaultConfig().Pipeline
	cfg.MinScore = 0.5
	docs := []types.Document{
		{Title: "Kidney aging", Abstract: "Kidney decline."},
		{Title: "NMN and NAD+ in aging", Abstract: "Nicotinamide mononucleotide raises NAD+ and healthspan."},
	}

	sum, err := newDriver(t, store.NewMemory(), cfg).Run(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Irrelevant)
	assert.Equal(t, 1, sum.Stored)
}

func TestRunEmptyBatchWritesDigest(t *testing.T) {
	st := store.NewMemory()
	sum, err := newDriver(t, st, types.DefaultConfig().Pipeline).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Groups)

	md, err := st.Read(context.Background(), store.KindDigest, "2026-03-14")
	require.NoError(t, err)
	assert.Contains(t, string(md), "No new documents today.")
}

type failingStore struct {
	store.Store
	kind store.Kind
}

var errDiskFull = errors.New("disk full")

func (f failingStore) Write(ctx context.Context, kind store.Kind, id string, data []byte) error {
	if kind == f.kind {
		return errDiskFull
	}
	return f.Store.Write(ctx, kind, id, data)
}

func TestRunAbortsOnWriteFailure(t *testing.T) {
	tests := []struct {
		name string
		kind store.Kind
	}{
		{"research", store.KindResearch},
		{"article", store.KindArticle},
		{"digest", store.KindDigest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := failingStore{Store: store.NewMemory(), kind: tt.kind}
			sum, err := newDriver(t, st, types.DefaultConfig().Pipeline).Run(context.Background(), batch())
			require.Error(t, err)
			assert.ErrorIs(t, err, errDiskFull)
			assert.Empty(t, sum.Digest)
		})
	}
}

func TestRunRebuildsAfterFailedArticleWrite(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	_, err := newDriver(t, failingStore{Store: mem, kind: store.KindArticle}, types.DefaultConfig().Pipeline).Run(ctx, batch())
	require.ErrorIs(t, err, errDiskFull)

	ids, err := mem.ListIDs(ctx, store.KindResearch)
	require.NoError(t, err)
	assert.Empty(t, ids, "no research is recorded by a failed run")

	sum, err := newDriver(t, mem, types.DefaultConfig().Pipeline).Run(ctx, batch())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Known)
	assert.Equal(t, 3, sum.Stored)
	assert.Equal(t, []string{"nad-and-cellular-energy", "autophagy-and-cellular-cleanup"}, sum.Created)

	articles, err := mem.ListIDs(ctx, store.KindArticle)
	require.NoError(t, err)
	assert.Equal(t, []string{"autophagy-and-cellular-cleanup", "nad-and-cellular-energy"}, articles)
}

func TestRunDigestDateIsUTC(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	// 20:00 in UTC-8 is already the next day in UTC.
	late := time.Date(2026, 3, 14, 20, 0, 0, 0, time.FixedZone("UTC-8", -8*60*60))

	sum, err := newDriver(t, st, types.DefaultConfig().Pipeline,
		WithClock(func() time.Time { return late })).Run(ctx, batch())
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", sum.Digest)

	ok, err := st.Exists(ctx, store.KindDigest, "2026-03-15")
	require.NoError(t, err)
	assert.True(t, ok)
}
