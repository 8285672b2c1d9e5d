package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/shoespec/internal/catalog"
	"github.com/jonathan/shoespec/internal/config"
	"github.com/jonathan/shoespec/internal/fallback"
	"github.com/jonathan/shoespec/internal/llm"
	"github.com/jonathan/shoespec/internal/logging"
	"github.com/jonathan/shoespec/internal/metrics"
	"github.com/jonathan/shoespec/internal/orchestrator"
)

// redisCachePrefix namespaces LLM responses in a shared Redis.
const redisCachePrefix = "shoespec:llm:"

// resolveConfig merges flags, the config file, the environment and defaults,
// in that order of precedence.
func resolveConfig(cmd *cobra.Command, overrides config.Config) (config.Config, error) {
	var file config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		file = *loaded
	}

	flags := overrides
	if cmd.Flags().Changed("api-key") {
		flags.APIKey = apiKey
	}
	if cmd.Flags().Changed("log-level") {
		flags.LogLevel = logLevel
	}
	if cmd.Flags().Changed("metrics-addr") {
		flags.MetricsAddr = metricsAddr
	}
	if cmd.Flags().Changed("verbose") {
		flags.Verbose = verbose
	}

	cfg := flags.MergeWithDefaults(file)
	cfg = cfg.MergeWithDefaults(config.FromEnv())
	cfg = cfg.MergeWithDefaults(config.Defaults())

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// engine is everything one command needs to process articles.
type engine struct {
	orchestrator *orchestrator.Orchestrator
	logger       *zap.Logger
	metrics      *metrics.Metrics
	registry     *prometheus.Registry
	closers      []io.Closer
}

// Close releases the LLM client and cache connections.
func (e *engine) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			e.logger.Warn("failed to close resource", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}

// buildEngine wires the logger, metrics, LLM gateway and orchestrator from cfg.
// Without an API key the engine runs on pattern extraction alone.
func buildEngine(ctx context.Context, cfg config.Config) (*engine, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	e := &engine{logger: logger, metrics: m, registry: reg}

	cat := catalog.MustDefault()
	opts := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithMetrics(m),
		orchestrator.WithPolicy(orchestrator.Policy{
			MinRoundup:  cfg.MinCandidatesRoundup,
			MinSpecific: cfg.MinCandidatesSpecific,
		}),
	}

	if cfg.APIKey == "" {
		logger.Warn("no GEMINI_API_KEY configured; fallback extraction disabled")
	} else {
		gateway, err := buildGateway(ctx, cfg, e)
		if err != nil {
			e.Close()
			return nil, err
		}
		opts = append(opts, orchestrator.WithFallback(fallback.New(gateway, cat, logger)))
	}

	e.orchestrator = orchestrator.New(cat, opts...)
	return e, nil
}

func buildGateway(ctx context.Context, cfg config.Config, e *engine) (*llm.Gateway, error) {
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	e.closers = append(e.closers, client)

	var cache llm.Cache
	if cfg.RedisURL != "" {
		rc, err := llm.DialRedisCache(ctx, cfg.RedisURL, redisCachePrefix, cfg.CacheTTLDuration())
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, rc)
		cache = rc
	} else {
		cache = llm.NewMemoryCache(cfg.CacheSize, cfg.CacheTTLDuration())
	}

	return llm.NewGateway(client,
		llm.WithCache(cache),
		llm.WithTier(llm.ParseTier(cfg.ModelTier)),
		llm.WithConcurrency(cfg.LLMConcurrency),
		llm.WithLogger(e.logger),
		llm.WithMetrics(e.metrics),
	), nil
}

// serveMetrics exposes the registry on addr until ctx is done. An empty addr is a no-op.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *zap.Logger) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
