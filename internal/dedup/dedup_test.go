package dedup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HelloWaord1/longivity/pkg/types"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name string
		doc  types.Document
		want string
	}{
		{
			name: "research uses title",
			doc:  types.Document{Kind: types.KindResearch, Title: "  NMN Restores NAD+ ", URL: "https://x"},
			want: "title:nmn restores nad+",
		},
		{
			name: "web uses url",
			doc:  types.Document{Kind: types.KindWeb, Title: "Post", URL: "https://example.com/a"},
			want: "url:https://example.com/a",
		},
		{
			name: "community without url falls back to title",
			doc:  types.Document{Kind: types.KindCommunity, Title: "Post"},
			want: "title:post",
		},
		{
			name: "title truncated",
			doc:  types.Document{Kind: types.KindResearch, Title: strings.Repeat("a", 80)},
			want: "title:" + strings.Repeat("a", 60),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fingerprint(tt.doc, 60))
		})
	}
}

func TestDedupeFirstOccurrenceWins(t *testing.T) {
	prefix := strings.Repeat("Rapamycin extends lifespan in aged mice through mTOR ", 2)
	docs := []types.Document{
		{ID: "a", Kind: types.KindResearch, Title: prefix + "inhibition"},
		{ID: "b", Kind: types.KindResearch, Title: "Unrelated"},
		{ID: "c", Kind: types.KindResearch, Title: strings.ToUpper(prefix) + "signalling"},
	}

	kept, removed := New(60).Dedupe(docs)
	assert.Equal(t, 1, removed)
	assert.Len(t, kept, 2)
	assert.Equal(t, "a", kept[0].ID)
	assert.Equal(t, "b", kept[1].ID)
}

func TestDedupeIsIdempotent(t *testing.T) {
	docs := []types.Document{
		{Kind: types.KindWeb, Title: "One", URL: "https://a"},
		{Kind: types.KindWeb, Title: "Two", URL: "https://a"},
		{Kind: types.KindWeb, Title: "Three", URL: "https://b"},
	}
	once, _ := New(60).Dedupe(docs)
	twice, removed := New(60).Dedupe(once)
	assert.Equal(t, once, twice)
	assert.Zero(t, removed)
}

func TestIsDuplicateRecords(t *testing.T) {
	d := New(0)
	doc := types.Document{Kind: types.KindResearch, Title: "Taurine and aging"}
	assert.False(t, d.IsDuplicate(doc))
	assert.True(t, d.IsDuplicate(doc))
}
