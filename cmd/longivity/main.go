// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the longivity CLI. It fetches
// longevity research, runs the classification-and-synthesis pipeline and
// inspects its outputs.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/HelloWaord1/longivity/internal/logging"
	"github.com/HelloWaord1/longivity/internal/secrets"
	"github.com/HelloWaord1/longivity/internal/taxonomy"
	"github.com/HelloWaord1/longivity/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Process-wide state, set once in PersistentPreRunE.
var (
	cfg           types.Config
	logger        = zap.NewNop()
	loadedSecrets secrets.Secrets
)

var rootCmd = &cobra.Command{
	Use:   "longivity",
	Short: "Longevity research classification and synthesis",
	Long: `longivity collects longevity research from PubMed, arXiv, bioRxiv, RSS
feeds and Reddit, scores it for relevance, removes duplicates, grades the
evidence, groups documents by topic and writes one article per new topic
plus a dated digest into the knowledge base.

Settings come from longivity.yaml (or ~/.config/longivity/config.yaml) and
LONGIVITY_* environment variables. API keys are read from .secrets/.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		logger = l

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if keys := s.Keys(); len(keys) > 0 {
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags(rootCmd)
	cobra.CheckErr(bindFlags(viper.GetViper(), rootCmd))
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "config file (default: ./longivity.yaml or ~/.config/longivity/config.yaml)")
	cmd.PersistentFlags().String("secrets-dir", ".secrets", "directory of secret files")
	cmd.PersistentFlags().String("store", "", "store backend: fs, sqlite, badger, memory")
	cmd.PersistentFlags().String("store-path", "", "store directory or database file")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
}

// flagBindings maps config keys to the persistent flags that override them.
var flagBindings = []struct{ key, flag string }{
	{"store.backend", "store"},
	{"store.path", "store-path"},
	{"log.level", "log-level"},
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for _, b := range flagBindings {
		if err := v.BindPFlag(b.key, cmd.PersistentFlags().Lookup(b.flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", b.flag, err)
		}
	}
	return nil
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("longivity")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "longivity"))
		}
	}

	viper.SetEnvPrefix("LONGIVITY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper(), types.DefaultConfig())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("store.backend", string(d.Store.Backend))
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("pipeline.min_score", d.Pipeline.MinScore)
	v.SetDefault("pipeline.title_prefix", d.Pipeline.TitlePrefix)
	v.SetDefault("pipeline.group_by", string(d.Pipeline.GroupBy))
	v.SetDefault("pipeline.digest_limit", d.Pipeline.DigestLimit)
	v.SetDefault("sources.timeout", d.Sources.Timeout)
	v.SetDefault("sources.user_agent", d.Sources.UserAgent)
	v.SetDefault("sources.delay", d.Sources.Delay)
	v.SetDefault("sources.max_results", d.Sources.MaxResults)
	v.SetDefault("sources.pubmed_terms", d.Sources.PubMedTerms)
	v.SetDefault("sources.arxiv_terms", d.Sources.ArxivTerms)
	v.SetDefault("sources.subreddits", d.Sources.Subreddits)
	v.SetDefault("sources.inbox_dir", d.Sources.InboxDir)
	v.SetDefault("sources.ncbi_api_key", d.Sources.NCBIAPIKey)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)
	v.SetDefault("taxonomy_file", d.TaxonomyFile)
}

// loadConfig decodes the merged viper settings and validates them.
func loadConfig() (types.Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (types.Config, error) {
	c := types.DefaultConfig()
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// loadTaxonomy returns the configured taxonomy.
func loadTaxonomy() (*taxonomy.Taxonomy, error) {
	return taxonomy.Load(cfg.TaxonomyFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
