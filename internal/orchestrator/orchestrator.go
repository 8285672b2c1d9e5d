// Package orchestrator runs the per-article extraction state machine: classify
// the title, extract by pattern, decide on the generative fallback, then
// post-process, validate, deduplicate and score the surviving records.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/shoespec/internal/catalog"
	"github.com/jonathan/shoespec/internal/classify"
	"github.com/jonathan/shoespec/internal/llm"
	"github.com/jonathan/shoespec/internal/metrics"
	"github.com/jonathan/shoespec/internal/normalize"
	"github.com/jonathan/shoespec/internal/patterns"
	"github.com/jonathan/shoespec/internal/types"
	"github.com/jonathan/shoespec/internal/units"
)

// Terminal states of one article.
const (
	StateCompleted = "completed"
	StateFailed    = "failed"
)

// FallbackMode records how the generative extractor took part.
type FallbackMode string

// FallbackMode values
const (
	FallbackNone    FallbackMode = "none"
	FallbackReplace FallbackMode = "replace"
	FallbackHybrid  FallbackMode = "hybrid"
)

// Policy holds the candidate-count thresholds that trigger the fallback.
type Policy struct {
	// Minimum pattern candidates for brand-only and general articles
	MinRoundup int
	// Minimum pattern candidates for specific articles
	MinSpecific int
}

// DefaultPolicy returns the default thresholds.
func DefaultPolicy() Policy {
	return Policy{MinRoundup: 3, MinSpecific: 1}
}

// Fallback is the generative extractor. *fallback.Extractor implements it.
type Fallback interface {
	Extract(ctx context.Context, body, title string, analysis types.TitleAnalysis) ([]types.SpecRecord, []string, error)
}

// Result is the outcome for one article. It is never mutated after Process returns.
type Result struct {
	ArticleID string               `json:"article_id"`
	Analysis  types.TitleAnalysis  `json:"analysis"`
	State     string               `json:"state"`
	Reason    string               `json:"reason,omitempty"`
	Fallback  FallbackMode         `json:"fallback"`
	Source    types.Source         `json:"source,omitempty"`
	Records   []types.SpecRecord   `json:"records"`
	Coverage  types.CoverageReport `json:"coverage"`
	Warnings  []string             `json:"warnings,omitempty"`
}

// Orchestrator sequences the extraction stages for one article at a time. It
// holds no per-article state and is safe for concurrent use.
type Orchestrator struct {
	classifier *classify.Classifier
	patterns   *patterns.Extractor
	fallback   Fallback
	normalizer *normalize.Normalizer
	policy     Policy
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithFallback sets the generative extractor. Without one, articles that need
// it keep their pattern results.
func WithFallback(f Fallback) Option {
	return func(o *Orchestrator) { o.fallback = f }
}

// WithPolicy overrides the fallback thresholds. Non-positive values keep the defaults.
func WithPolicy(p Policy) Option {
	return func(o *Orchestrator) {
		if p.MinRoundup > 0 {
			o.policy.MinRoundup = p.MinRoundup
		}
		if p.MinSpecific > 0 {
			o.policy.MinSpecific = p.MinSpecific
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// New creates an Orchestrator over cat. A nil catalog uses the embedded default.
func New(cat *catalog.Catalog, opts ...Option) *Orchestrator {
	if cat == nil {
		cat = catalog.MustDefault()
	}
	o := &Orchestrator{
		classifier: classify.New(cat),
		normalizer: normalize.New(cat),
		policy:     DefaultPolicy(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.patterns = patterns.New(cat, o.logger.Named("patterns"))
	return o
}

// Process extracts the spec records of one article. It never returns an error:
// failures are reported through Result.State and Result.Reason.
func (o *Orchestrator) Process(ctx context.Context, article types.Article) Result {
	start := time.Now()
	res := o.process(ctx, article)

	o.metrics.RecordArticle(string(res.Analysis.Scenario), res.State, time.Since(start))
	o.metrics.RecordRecords(string(res.Source), len(res.Records))

	fields := []zap.Field{
		zap.String("article_id", article.ID),
		zap.String("scenario", string(res.Analysis.Scenario)),
		zap.String("state", res.State),
		zap.Int("records", len(res.Records)),
		zap.String("fallback", string(res.Fallback)),
	}
	switch {
	case res.State == StateFailed:
		o.logger.Warn("article extraction failed", append(fields, zap.String("reason", res.Reason))...)
	case len(res.Records) == 0:
		o.logger.Info("article produced no records", append(fields, zap.String("reason", res.Reason))...)
	default:
		o.logger.Info("article processed", append(fields, zap.Float64("coverage", res.Coverage.AverageCoverage))...)
	}
	return res
}

func (o *Orchestrator) process(ctx context.Context, article types.Article) Result {
	res := Result{
		ArticleID: article.ID,
		Analysis:  o.classifier.Classify(article.Title),
		State:     StateCompleted,
		Fallback:  FallbackNone,
	}

	if res.Analysis.Scenario == types.ScenarioIrrelevant {
		res.Reason = "title is not about shoes"
		res.Coverage = Coverage(nil)
		return res
	}
	if article.Content == "" {
		res.Reason = "article has no body"
		res.Coverage = Coverage(nil)
		return res
	}

	cands := filterCandidates(o.patterns.Extract(article.Content), res.Analysis)
	source := types.SourceRegex

	switch {
	case o.needsFallback(res.Analysis.Scenario, len(cands)):
		records, err := o.runFallback(ctx, article, res.Analysis, &res)
		if err != nil {
			res.State = StateFailed
			res.Reason = fmt.Sprintf("fallback extraction failed: %v", err)
			res.Coverage = Coverage(nil)
			return res
		}
		if llmCands := filterCandidates(toCandidates(records, types.SourceLLM), res.Analysis); len(llmCands) > 0 {
			cands = llmCands
			source = types.SourceLLM
			res.Fallback = FallbackReplace
		}
	case res.Analysis.Scenario == types.ScenarioSpecific && missingTextFields(cands):
		records, err := o.runFallback(ctx, article, res.Analysis, &res)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("hybrid fallback skipped: %v", err))
			break
		}
		if len(records) > 0 {
			cands = HybridMerge(cands, toCandidates(records, types.SourceLLM))
			res.Fallback = FallbackHybrid
		}
	}

	res.Records = o.finalize(cands, &res.Warnings)
	if len(res.Records) > 0 {
		res.Source = source
	} else {
		res.Reason = "no records passed extraction"
	}
	res.Coverage = Coverage(res.Records)
	return res
}

// needsFallback decides whether the pattern results are too thin to keep.
func (o *Orchestrator) needsFallback(scenario types.Scenario, n int) bool {
	if n == 0 {
		return true
	}
	switch scenario {
	case types.ScenarioBrandOnly, types.ScenarioGeneral:
		return n < o.policy.MinRoundup
	case types.ScenarioSpecific:
		return n < o.policy.MinSpecific
	}
	return false
}

// runFallback calls the generative extractor. An unavailable extractor counts
// as an empty answer; only a failed call is returned as an error.
func (o *Orchestrator) runFallback(ctx context.Context, article types.Article, analysis types.TitleAnalysis, res *Result) ([]types.SpecRecord, error) {
	if o.fallback == nil {
		res.Warnings = append(res.Warnings, "fallback extractor not configured")
		return nil, nil
	}
	records, warnings, err := o.fallback.Extract(ctx, article.Content, article.Title, analysis)
	res.Warnings = append(res.Warnings, warnings...)
	if errors.Is(err, llm.ErrNoClient) {
		res.Warnings = append(res.Warnings, "fallback extractor not configured")
		return nil, nil
	}
	return records, err
}

// finalize post-processes, normalizes, validates and deduplicates candidates.
func (o *Orchestrator) finalize(cands []types.Candidate, warnings *[]string) []types.SpecRecord {
	seen := make(map[string]bool, len(cands))
	var out []types.SpecRecord
	for _, c := range cands {
		rec := postProcess(c.Record)

		rec, ws := o.normalizer.Record(rec)
		for _, w := range ws {
			*warnings = append(*warnings, fmt.Sprintf("%s %s: %s", rec.BrandName, rec.Model, w))
		}

		if err := rec.Validate(); err != nil {
			*warnings = append(*warnings, fmt.Sprintf("dropped record %q/%q: %v", rec.BrandName, rec.Model, err))
			continue
		}
		key := rec.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}

// postProcess derives a missing drop and defaults waterproofing for trail shoes.
func postProcess(rec types.SpecRecord) types.SpecRecord {
	if rec.Drop == nil {
		rec.Drop = units.ComputeDrop(rec.HeelHeight, rec.ForefootHeight)
	}
	if rec.SurfaceType == types.SurfaceTrail && rec.Waterproof == nil {
		rec.Waterproof = types.Bool(false)
	}
	return rec
}

// missingTextFields reports whether any candidate lacks a field only the
// generative extractor tends to find.
func missingTextFields(cands []types.Candidate) bool {
	for _, c := range cands {
		if c.Record.CushioningType == "" || c.Record.FootWidth == "" || c.Record.Waterproof == nil {
			return true
		}
	}
	return false
}

func toCandidates(records []types.SpecRecord, source types.Source) []types.Candidate {
	out := make([]types.Candidate, 0, len(records))
	for _, r := range records {
		rec := r.Clone()
		out = append(out, types.Candidate{Record: rec, Source: source, Richness: types.ComputeRichness(&rec)})
	}
	return out
}
