// Package pipeline runs the extraction engine over many articles: it pulls
// articles from the content source, processes them concurrently and hands the
// finalized records to the sink.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/shoespec/internal/db"
	"github.com/jonathan/shoespec/internal/ingestion"
	"github.com/jonathan/shoespec/internal/observability"
	"github.com/jonathan/shoespec/internal/orchestrator"
	"github.com/jonathan/shoespec/internal/types"
)

// DefaultWorkers is the number of articles processed at once.
const DefaultWorkers = 4

// ArticleSource supplies raw articles. *db.DB implements it.
type ArticleSource interface {
	ListArticles(ctx context.Context, filter db.ArticleFilter) ([]types.Article, error)
}

// RecordSink persists finalized records. *db.DB implements it.
type RecordSink interface {
	UpsertSpec(ctx context.Context, rec types.SpecRecord, prov db.Provenance) (bool, error)
	MarkArticleExtracted(ctx context.Context, id, state string) error
}

// RunTracker records run bookkeeping. *db.DB implements it.
type RunTracker interface {
	CreateRun(ctx context.Context, dryRun bool) (uuid.UUID, error)
	CompleteRun(ctx context.Context, runID uuid.UUID, status string, stats db.RunStats) error
}

// Processor extracts the records of one article. *orchestrator.Orchestrator implements it.
type Processor interface {
	Process(ctx context.Context, article types.Article) orchestrator.Result
}

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	ArticleID string `json:"article_id"`
	State     string `json:"state"`
	Records   int    `json:"records"`
	Done      int    `json:"done"`
	Total     int    `json:"total"`
}

// ProgressCallback is called after every processed article
type ProgressCallback func(event ProgressEvent)

// Options holds configuration for one run
type Options struct {
	Limit       int
	PendingOnly bool
	// DryRun prints results instead of handing them to the sink
	DryRun     bool
	Workers    int
	Verbose    bool
	OnProgress ProgressCallback
}

// Summary is the outcome of a run.
type Summary struct {
	RunID     uuid.UUID             `json:"run_id,omitempty"`
	Articles  int                   `json:"articles"`
	Completed int                   `json:"completed"`
	Failed    int                   `json:"failed"`
	Records   int                   `json:"records"`
	Inserted  int                   `json:"inserted"`
	Updated   int                   `json:"updated"`
	SinkErrs  int                   `json:"sink_errors"`
	Duration  time.Duration         `json:"duration"`
	Results   []orchestrator.Result `json:"results"`
}

// Runner wires the content source, the engine and the sink.
type Runner struct {
	source    ArticleSource
	sink      RecordSink
	runs      RunTracker
	processor Processor
	printer   *observability.Printer
	logger    *zap.Logger
}

// NewRunner creates a Runner. sink and runs may be nil for dry runs; printer
// may be nil to suppress human-readable output.
func NewRunner(source ArticleSource, processor Processor, sink RecordSink, runs RunTracker, printer *observability.Printer, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		source:    source,
		sink:      sink,
		runs:      runs,
		processor: processor,
		printer:   printer,
		logger:    logger,
	}
}

// Run processes up to opts.Limit articles. One article's failure never stops
// the run; only a failing content source or a cancelled context is returned.
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	start := time.Now()
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if !opts.DryRun && r.sink == nil {
		return nil, fmt.Errorf("no record sink configured; use a dry run")
	}

	articles, err := r.source.ListArticles(ctx, db.ArticleFilter{Limit: opts.Limit, PendingOnly: opts.PendingOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to load articles: %w", err)
	}

	summary := &Summary{Articles: len(articles), Results: make([]orchestrator.Result, len(articles))}
	if !opts.DryRun && r.runs != nil {
		runID, err := r.runs.CreateRun(ctx, opts.DryRun)
		if err != nil {
			r.logger.Warn("failed to create run record, continuing without", zap.Error(err))
		} else {
			summary.RunID = runID
		}
	}
	r.logger.Info("extraction run started",
		zap.Int("articles", len(articles)),
		zap.Bool("dry_run", opts.DryRun),
		zap.Int("workers", opts.Workers),
		zap.Stringer("run_id", summary.RunID))

	var (
		mu   sync.Mutex
		done int
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, article := range articles {
		i, article := i, article
		g.Go(func() error {
			if gCtx.Err() != nil {
				return gCtx.Err()
			}
			article.Content = ingestion.CleanArticle(article.Content)
			res := r.processor.Process(gCtx, article)

			var inserted, updated, sinkErrs int
			if !opts.DryRun {
				inserted, updated, sinkErrs = r.persist(gCtx, summary.RunID, article, res)
			}

			mu.Lock()
			defer mu.Unlock()
			summary.Results[i] = res
			summary.Inserted += inserted
			summary.Updated += updated
			summary.SinkErrs += sinkErrs
			done++
			if opts.OnProgress != nil {
				opts.OnProgress(ProgressEvent{
					ArticleID: article.ID,
					State:     res.State,
					Records:   len(res.Records),
					Done:      done,
					Total:     len(articles),
				})
			}
			return nil
		})
	}
	waitErr := g.Wait()

	for _, res := range summary.Results {
		switch res.State {
		case orchestrator.StateCompleted:
			summary.Completed++
		case orchestrator.StateFailed:
			summary.Failed++
		}
		summary.Records += len(res.Records)
	}
	summary.Duration = time.Since(start)

	status := db.RunStatusCompleted
	if waitErr != nil {
		status = db.RunStatusFailed
	}
	if summary.RunID != uuid.Nil {
		stats := db.RunStats{Articles: summary.Articles, Records: summary.Records, Failed: summary.Failed}
		// the run context may already be cancelled
		if err := r.runs.CompleteRun(context.WithoutCancel(ctx), summary.RunID, status, stats); err != nil {
			r.logger.Warn("failed to complete run record", zap.Error(err))
		}
	}

	r.report(summary, opts)

	if waitErr != nil {
		return summary, fmt.Errorf("extraction run interrupted: %w", waitErr)
	}
	return summary, nil
}

// persist writes the records of one article and marks it extracted. Sink
// failures are logged and counted, never returned.
func (r *Runner) persist(ctx context.Context, runID uuid.UUID, article types.Article, res orchestrator.Result) (inserted, updated, failed int) {
	prov := db.Provenance{
		RunID:      runID,
		ArticleID:  article.ID,
		SourceLink: article.SourceLink,
		Source:     res.Source,
	}
	for _, rec := range res.Records {
		isNew, err := r.sink.UpsertSpec(ctx, rec, prov)
		switch {
		case err != nil:
			failed++
			r.logger.Error("failed to persist record",
				zap.String("article_id", article.ID),
				zap.String("key", rec.Key()),
				zap.Error(err))
		case isNew:
			inserted++
		default:
			updated++
		}
	}
	if err := r.sink.MarkArticleExtracted(ctx, article.ID, res.State); err != nil {
		failed++
		r.logger.Error("failed to mark article", zap.String("article_id", article.ID), zap.Error(err))
	}
	return inserted, updated, failed
}

func (r *Runner) report(summary *Summary, opts Options) {
	r.logger.Info("extraction run finished",
		zap.Int("articles", summary.Articles),
		zap.Int("completed", summary.Completed),
		zap.Int("failed", summary.Failed),
		zap.Int("records", summary.Records),
		zap.Int("inserted", summary.Inserted),
		zap.Int("updated", summary.Updated),
		zap.Int("sink_errors", summary.SinkErrs),
		zap.Duration("duration", summary.Duration))

	if r.printer == nil {
		return
	}
	if opts.DryRun || opts.Verbose {
		for _, res := range summary.Results {
			if res.ArticleID == "" {
				continue
			}
			r.printer.PrintResult(res)
			if opts.Verbose {
				r.printer.PrintCoverage(res.Coverage)
			}
		}
	}
	r.printer.PrintRunSummary(observability.RunTotals{
		Articles:  summary.Articles,
		Completed: summary.Completed,
		Failed:    summary.Failed,
		Records:   summary.Records,
		DryRun:    opts.DryRun,
	})
}
