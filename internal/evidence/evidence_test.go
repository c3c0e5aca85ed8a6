package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HelloWaord1/longivity/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"A systematic review and meta-analysis of NMN trials", RawMetaAnalysis},
		{"A randomized, placebo-controlled trial of NMN in adults", RawRCT},
		{"Double-blind study of fisetin", RawRCT},
		{"A prospective cohort of 10,000 adults", RawCohort},
		{"Spermidine in a human cell line", RawInVitro},
		{"Rapamycin extends lifespan in aged mice", RawAnimal},
		{"Results in an animal model of sarcopenia", RawAnimal},
		{"Taurine levels demonstrate a decline", RawOther},
		{"", RawOther},
		// Meta-analysis wins over randomized.
		{"Meta-analysis of randomized trials", RawMetaAnalysis},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want Level
	}{
		{"rct", RCT},
		{"RCT", RCT},
		{"meta-analysis", MetaAnalysis},
		{"cohort", Cohort},
		{"animal", Animal},
		{"in-vitro", InVitro},
		{"in_vitro", InVitro},
		{"review", Review},
		{"preprint", Preprint},
		{"other", Review},
		{"Other", Review},
		{"", Preprint},
		{"case report", Preprint},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestRankOrdering(t *testing.T) {
	assert.Equal(t, 5, rank(RCT))
	for i := 1; i < len(Levels); i++ {
		assert.True(t, Levels[i-1].Stronger(Levels[i]), "%s should outrank %s", Levels[i-1], Levels[i])
		assert.Equal(t, 1, Compare(Levels[i-1], Levels[i]))
		assert.Equal(t, -1, Compare(Levels[i], Levels[i-1]))
	}
	assert.Equal(t, 0, Compare(Cohort, Cohort))
}

func TestGradeRandomizedAbstract(t *testing.T) {
	doc := types.Document{
		Title:    "NMN supplementation in middle-aged adults",
		Abstract: "In this randomized placebo-controlled trial, NMN raised blood NAD+ levels.",
	}
	assert.Equal(t, RCT, Grade(doc))
	assert.True(t, Grade(doc).HighConfidence())
}

func TestGradeWithoutDesignSignalIsReview(t *testing.T) {
	doc := types.Document{
		Title:    "Taurine and aging",
		Abstract: "Taurine concentrations decline with age in humans.",
	}
	assert.Equal(t, RawOther, Classify(doc.Title+" "+doc.Abstract))
	assert.Equal(t, Review, Grade(doc))
	assert.Equal(t, Preprint, Grade(types.Document{StudyType: "case report"}))
}

func TestGradePrefersSuppliedStudyType(t *testing.T) {
	doc := types.Document{StudyType: "review", Abstract: "A randomized trial."}
	assert.Equal(t, Review, Grade(doc))
}

func TestBest(t *testing.T) {
	assert.Equal(t, Preprint, Best())
	assert.Equal(t, Preprint, Best(Preprint, Preprint, Preprint))
	assert.Equal(t, RCT, Best(Animal, RCT, InVitro))
	assert.Equal(t, MetaAnalysis, Best(Cohort, MetaAnalysis, RCT))
	assert.False(t, Animal.HighConfidence())
}
