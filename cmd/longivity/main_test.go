package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HelloWaord1/longivity/pkg/types"
)

const testConfigYAML = `
store:
  backend: sqlite
  path: kb/longivity.db
pipeline:
  min_score: 0.3
  group_by: source
sources:
  timeout: 10s
  user_agent: test-agent
  delay: 2s
  pubmed_terms: ["nmn aging", "rapamycin lifespan"]
  feeds:
    - name: Fight Aging
      url: https://www.fightaging.org/feed/
      category: news
`

func newTestViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	path := filepath.Join(t.TempDir(), "longivity.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v, types.DefaultConfig())
	require.NoError(t, v.ReadInConfig())
	return v
}

func TestDecodeConfig(t *testing.T) {
	c, err := decodeConfig(newTestViper(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, types.StoreSQLite, c.Store.Backend)
	assert.Equal(t, "kb/longivity.db", c.Store.Path)
	assert.Equal(t, 0.3, c.Pipeline.MinScore)
	assert.Equal(t, types.GroupBySource, c.Pipeline.GroupBy)
	assert.Equal(t, 60, c.Pipeline.TitlePrefix, "default kept")
	assert.Equal(t, 10*time.Second, c.Sources.Timeout)
	assert.Equal(t, "test-agent", c.Sources.UserAgent)
	assert.Equal(t, 2*time.Second, c.Sources.Delay)
	assert.Equal(t, []string{"nmn aging", "rapamycin lifespan"}, c.Sources.PubMedTerms)
	require.Len(t, c.Sources.Feeds, 1)
	assert.Equal(t, "Fight Aging", c.Sources.Feeds[0].Name)
	assert.Equal(t, "info", c.Log.Level)
}

func TestDecodeConfigRejectsInvalid(t *testing.T) {
	_, err := decodeConfig(newTestViper(t, "pipeline:\n  min_score: 2\n"))
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestBindFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "longivity"}
	addPersistentFlags(cmd)
	v := viper.New()
	require.NoError(t, bindFlags(v, cmd))

	require.NoError(t, cmd.PersistentFlags().Set("store", "badger"))
	require.NoError(t, cmd.PersistentFlags().Set("log-level", "debug"))
	assert.Equal(t, "badger", v.GetString("store.backend"))
	assert.Equal(t, "debug", v.GetString("log.level"))
}

func TestBindFlagsMissingFlag(t *testing.T) {
	err := bindFlags(viper.New(), &cobra.Command{Use: "bare"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--store")
}
