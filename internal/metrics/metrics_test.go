package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Documents(Fetched, 5)
	m.Documents(Irrelevant, 2)
	m.Documents(Stored, 0)
	m.Articles(Created, 1)
	m.FetchError("pubmed")
	m.RunFinished(1500*time.Millisecond, time.Unix(1767600000, 0))

	path := filepath.Join(t.TempDir(), "longivity.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `longivity_documents_total{outcome="fetched"} 5`)
	assert.Contains(t, out, `longivity_documents_total{outcome="irrelevant"} 2`)
	assert.NotContains(t, out, `outcome="stored"`)
	assert.Contains(t, out, `longivity_articles_total{result="created"} 1`)
	assert.Contains(t, out, `longivity_fetch_errors_total{source="pubmed"} 1`)
	assert.Contains(t, out, `longivity_run_duration_seconds 1.5`)
	assert.Contains(t, out, `longivity_last_run_timestamp_seconds 1.7676e+09`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Documents(Fetched, 1)
	m.Articles(Created, 1)
	m.FetchError("x")
	m.RunFinished(time.Second, time.Now())
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}
