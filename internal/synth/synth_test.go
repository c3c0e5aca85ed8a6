package synth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HelloWaord1/longivity/internal/evidence"
	"github.com/HelloWaord1/longivity/internal/taxonomy"
	"github.com/HelloWaord1/longivity/pkg/types"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testSynth(t *testing.T) (*Synthesizer, *taxonomy.Taxonomy) {
	t.Helper()
	tx, err := taxonomy.Default()
	require.NoError(t, err)
	return New(tx, WithClock(func() time.Time { return fixedNow })), tx
}

func topic(t *testing.T, tx *taxonomy.Taxonomy, id string) taxonomy.Topic {
	t.Helper()
	tp, ok := tx.Topic(id)
	require.True(t, ok)
	return tp
}

func preprint(title, abstract string) types.ClassifiedDocument {
	return types.ClassifiedDocument{
		Document:      types.Document{Title: title, Abstract: abstract},
		EvidenceLevel: string(evidence.Preprint),
	}
}

func TestSynthesizeThreeKidneyPreprints(t *testing.T) {
	s, tx := testSynth(t)
	kidney := topic(t, tx, "kidney-aging")
	docs := []types.ClassifiedDocument{
		preprint("Renal senescence in aging", "Kidney function declines with age."),
		preprint("CKD progression markers", "We show that markers predict CKD."),
		preprint("Nephron loss over time", "Nephron counts fall."),
	}

	a := s.Synthesize(kidney, docs, nil)

	assert.Equal(t, "kidney-aging", a.ID)
	assert.Equal(t, kidney.Titles[0], a.Title) // 3 % 3 == 0
	assert.Equal(t, "research", a.Category)
	assert.Equal(t, "Preprint", a.EvidenceLevel)
	assert.True(t, a.Featured, "three documents are always featured")
	assert.Equal(t, fixedNow, a.CreatedAt)
	assert.Empty(t, a.RelatedProducts)
	require.Len(t, a.SourcePapers, 3)
	assert.Nil(t, a.SourcePapers[0].DOI)
	assert.Nil(t, a.SourcePapers[0].Journal)

	assert.Contains(t, a.Summary, "A review of 3 recent preprint studies on kidney aging & health.")
	assert.NotContains(t, a.Summary, "Related supplements")
	assert.NotContains(t, a.Body, "## Related Products")
	assert.Contains(t, a.Body, "- **CKD progression markers:** We show that markers predict CKD.")
}

func TestSynthesizeSingleDocumentNotFeatured(t *testing.T) {
	s, tx := testSynth(t)
	kidney := topic(t, tx, "kidney-aging")
	docs := []types.ClassifiedDocument{
		preprint("Nephron loss.", "First. Second. Third. Fourth."),
	}
	a := s.Synthesize(kidney, docs, nil)

	assert.False(t, a.Featured)
	assert.Equal(t, kidney.Titles[1], a.Title)
	assert.Equal(t, "First. Second. Third.", a.Summary)
	assert.Equal(t, "Nephron loss", a.SourcePapers[0].Title)
}

func TestSynthesizeEmptyAbstract(t *testing.T) {
	s, tx := testSynth(t)
	kidney := topic(t, tx, "kidney-aging")
	a := s.Synthesize(kidney, []types.ClassifiedDocument{preprint("Kidney study", "")}, nil)

	assert.Equal(t, emptyAbstractSummary, a.Summary)
	assert.Contains(t, a.Body, emptyAbstractFinding)
}

func TestSynthesizeHotTopicAndProducts(t *testing.T) {
	s, tx := testSynth(t)
	nad := topic(t, tx, "nad-and-cellular-energy")
	catalog := []types.Product{
		{Name: "NMN", Description: "Nicotinamide mononucleotide", Tags: []string{"NAD+", "Energy"},
			EvidenceGrade: "B", Dosage: types.Dosage{Standard: "250-500mg daily"}, Mechanisms: []string{"NAD+ precursor"}},
		{Name: "Creatine", Description: "Muscle energy buffer", Tags: []string{"muscle"}},
		{Name: "Nicotinamide Riboside", Description: "NR form of vitamin B3"},
	}
	doc := types.ClassifiedDocument{
		Document: types.Document{
			Title:    "NMN restores NAD+ in aged mice",
			Abstract: "NAD+ declines with age. NMN supplementation restored NAD+ levels in muscle.",
			Journal:  "Cell Metabolism",
			DOI:      "10.1016/j.cmet.2026.01.001",
			Tags:     []string{"NMN"},
		},
		EvidenceLevel: string(evidence.Animal),
	}

	a := s.Synthesize(nad, []types.ClassifiedDocument{doc}, catalog)

	assert.True(t, a.Featured, "hot topic")
	assert.Equal(t, "Animal", a.EvidenceLevel)
	assert.Equal(t, []string{"nmn", "nicotinamide-riboside"}, a.RelatedProducts)
	assert.Contains(t, a.Body, "- **NMN** (Grade B) — 250-500mg daily\n  *Mechanisms:* NAD+ precursor")
	assert.Contains(t, a.Body, "- **Nicotinamide Riboside** — See dosage details")
	assert.Contains(t, a.Body, "*Cell Metabolism* [DOI](https://doi.org/10.1016/j.cmet.2026.01.001)")
	assert.Contains(t, a.Body, "NMN supplementation restored NAD+ levels in muscle.")
	require.NotNil(t, a.SourcePapers[0].DOI)
	assert.Equal(t, "10.1016/j.cmet.2026.01.001", *a.SourcePapers[0].DOI)

	assert.Equal(t, []string{"nmn", "nad+", "energy", "nad", "nicotinamide"}, a.Tags)
}

func TestMatchProductsUsesSubstrings(t *testing.T) {
	s, tx := testSynth(t)
	nad := topic(t, tx, "nad-and-cellular-energy")
	catalog := []types.Product{
		{Name: "NADH Energy", Description: "Reduced NADH coenzyme"},
		{Name: "Creatine", Description: "Muscle energy buffer"},
		{Name: "Resveratrol", Mechanisms: []string{"SIRT1 activation"}},
	}

	got := s.MatchProducts(nad, catalog)
	require.Len(t, got, 2)
	assert.Equal(t, "NADH Energy", got[0].Name)
	assert.Equal(t, "Resveratrol", got[1].Name)
}

func TestSynthesizeHighConfidenceEvidenceFeatures(t *testing.T) {
	s, tx := testSynth(t)
	kidney := topic(t, tx, "kidney-aging")
	docs := []types.ClassifiedDocument{
		preprint("A", "x."),
		{Document: types.Document{Title: "B", Abstract: "y."}, EvidenceLevel: string(evidence.Cohort)},
	}
	a := s.Synthesize(kidney, docs, nil)
	assert.True(t, a.Featured)
	assert.Equal(t, "Cohort", a.EvidenceLevel)
	assert.Contains(t, a.Summary, "preprint and cohort studies")
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	s, tx := testSynth(t)
	kidney := topic(t, tx, "kidney-aging")
	docs := []types.ClassifiedDocument{preprint("Kidney", "We show decline."), preprint("Renal", "Found change.")}
	assert.Equal(t, s.Synthesize(kidney, docs, nil), s.Synthesize(kidney, docs, nil))
}

func TestTitleFallback(t *testing.T) {
	tp := taxonomy.Topic{ID: "sleep", Label: "Sleep"}
	assert.Equal(t, "New Research in Sleep: What You Need to Know", Title(tp, 4))
}

func TestKeyFinding(t *testing.T) {
	tests := []struct {
		name, abstract, want string
	}{
		{"result verb", "Background text. Treatment improved grip strength. More.", "Treatment improved grip strength."},
		{"falls back to last sentence", "We studied mice. Conclusions follow.", "Conclusions follow."},
		{"empty", "", emptyAbstractFinding},
		{"markup", "<p>Taurine <i>extended</i> lifespan.</p>", "Taurine extended lifespan."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyFinding(tt.abstract))
		})
	}
}

func TestKeyFindingTruncates(t *testing.T) {
	long := "Treatment reduced " + strings.Repeat("inflammation ", 30) + "markers."
	got := KeyFinding(long)
	assert.Len(t, got, 200)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestShortTitle(t *testing.T) {
	assert.Equal(t, untitled, ShortTitle(""))
	assert.Equal(t, "A study", ShortTitle("A study."))
	assert.Len(t, ShortTitle(strings.Repeat("x", 150)), 100)
}

func TestTagsCapAndDedupe(t *testing.T) {
	tp := taxonomy.Topic{ID: "t", Keywords: []string{"k1", "k2", "k3", "k4"}}
	docs := []types.ClassifiedDocument{
		{Document: types.Document{Tags: []string{"A", "b", "a", "c", "d", "e", "f", "g", "h"}}},
	}
	tags := Tags(tp, docs, nil)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h", "k1", "k2"}, tags)
}
