package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/shoespec/internal/config"
	"github.com/jonathan/shoespec/internal/db"
	"github.com/jonathan/shoespec/internal/observability"
	"github.com/jonathan/shoespec/internal/pipeline"
)

var extractCommand = &cobra.Command{
	Use:   "extract",
	Short: "Extract shoe specs from the articles stored in PostgreSQL",
	Long: `Loads articles from the database, extracts specs from each one and upserts the
records into shoe_specs keyed by model_key. With --dry-run the results are printed and nothing is written.`,
	RunE: runExtractCmd,
}

var (
	extractDatabaseURL string
	extractLimit       int
	extractWorkers     int
	extractDryRun      bool
	extractPending     bool
)

func init() {
	extractCommand.Flags().StringVar(&extractDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	extractCommand.Flags().IntVar(&extractLimit, "limit", db.DefaultArticleLimit, "Maximum number of articles to process")
	extractCommand.Flags().IntVar(&extractWorkers, "workers", 0, "Articles processed at once")
	extractCommand.Flags().BoolVar(&extractDryRun, "dry-run", false, "Print results without writing to the database")
	extractCommand.Flags().BoolVar(&extractPending, "pending", false, "Only process articles that have not been extracted yet")

	rootCmd.AddCommand(extractCommand)
}

func runExtractCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var overrides config.Config
	if cmd.Flags().Changed("db-url") {
		overrides.DatabaseURL = extractDatabaseURL
	}
	if cmd.Flags().Changed("workers") {
		overrides.Workers = extractWorkers
	}
	cfg, err := resolveConfig(cmd, overrides)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	eng, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer eng.Close()
	serveMetrics(ctx, cfg.MetricsAddr, eng.registry, eng.logger)

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	var printer *observability.Printer
	if extractDryRun || cfg.Verbose {
		printer = observability.NewPrinter(cmd.OutOrStdout())
	}

	var sink pipeline.RecordSink
	var runs pipeline.RunTracker
	if !extractDryRun {
		sink, runs = database, database
	}
	runner := pipeline.NewRunner(database, eng.orchestrator, sink, runs, printer, eng.logger)

	summary, err := runner.Run(ctx, pipeline.Options{
		Limit:       extractLimit,
		PendingOnly: extractPending,
		DryRun:      extractDryRun,
		Workers:     cfg.Workers,
		Verbose:     cfg.Verbose,
		OnProgress: func(ev pipeline.ProgressEvent) {
			eng.logger.Debug("progress",
				zap.String("article_id", ev.ArticleID),
				zap.String("state", ev.State),
				zap.Int("done", ev.Done),
				zap.Int("total", ev.Total))
		},
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Processed %d articles: %d completed, %d failed, %d records (%d new, %d updated)\n",
		summary.Articles, summary.Completed, summary.Failed, summary.Records, summary.Inserted, summary.Updated)
	return nil
}
