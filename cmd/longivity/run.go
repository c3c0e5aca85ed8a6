// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HelloWaord1/longivity/internal/metrics"
	"github.com/HelloWaord1/longivity/internal/pipeline"
	"github.com/HelloWaord1/longivity/internal/source"
	"github.com/HelloWaord1/longivity/internal/store"
	"github.com/HelloWaord1/longivity/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch new documents and run the pipeline once",
	Long: `Run fetches documents from every configured source (or the families
named with --source), then scores, deduplicates, classifies and grades them.
One article is written per topic that has no article yet, and the day's
digest is rewritten.

A source that fails is logged and contributes nothing; the run continues.
Use --input to skip fetching and process documents from a JSON file.`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tx, err := loadTaxonomy()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if catalog, _ := cmd.Flags().GetString("catalog"); catalog != "" {
		products, err := store.ReadCatalog(catalog)
		if err != nil {
			return err
		}
		n, err := store.SeedProducts(ctx, st, products)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "catalog: %d products imported\n", n)
	}

	m := metrics.New()
	docs, err := gatherDocuments(ctx, cmd, m)
	if err != nil {
		return err
	}

	driver := pipeline.New(st, tx, cfg.Pipeline,
		pipeline.WithLogger(logger.Named("pipeline")),
		pipeline.WithMetrics(m),
		pipeline.WithProgress(os.Stdout))
	summary, err := driver.Run(ctx, docs)
	if err != nil {
		return err
	}
	if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logger.Warn("metrics export failed", zap.Error(err))
	}

	fmt.Fprintf(os.Stdout, "\n%d fetched, %d irrelevant, %d duplicate, %d known, %d stored\n",
		summary.Total(), summary.Irrelevant+summary.Untitled, summary.Duplicates, summary.Known, summary.Stored)
	fmt.Fprintf(os.Stdout, "%d topic groups: %d articles created, %d skipped; digest %s\n",
		summary.Groups, len(summary.Created), len(summary.Skipped), summary.Digest)
	return nil
}

// gatherDocuments reads --input when given, otherwise runs the configured fetchers.
func gatherDocuments(ctx context.Context, cmd *cobra.Command, m *metrics.Metrics) ([]types.Document, error) {
	if input, _ := cmd.Flags().GetString("input"); input != "" {
		return source.ReadDocuments(input)
	}

	sourcesCfg := cfg.Sources
	if inbox, _ := cmd.Flags().GetString("inbox"); inbox != "" {
		sourcesCfg.InboxDir = inbox
	}
	fetchers := source.FromConfig(sourcesCfg, loadedSecrets, logger.Named("source"))
	names, _ := cmd.Flags().GetStringSlice("source")
	fetchers, err := source.Select(fetchers, names)
	if err != nil {
		return nil, err
	}
	if len(fetchers) == 0 {
		fmt.Fprintln(os.Stderr, "no sources configured; processing an empty batch")
	}

	docs, results := source.Collect(ctx, fetchers, logger.Named("source"))
	for _, r := range results {
		if r.Err != nil {
			m.FetchError(r.Source)
		}
	}
	return docs, nil
}

func init() {
	runCmd.Flags().StringSlice("source", nil, "source families to fetch: pubmed, arxiv, biorxiv, rss, reddit, inbox")
	runCmd.Flags().String("inbox", "", "directory of pre-fetched JSON documents")
	runCmd.Flags().String("input", "", "process documents from this JSON file instead of fetching")
	runCmd.Flags().String("catalog", "", "YAML product catalog to import before the run")

	rootCmd.AddCommand(runCmd)
}
