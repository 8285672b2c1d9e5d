package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/shoespec/internal/metrics"
)

// DefaultConcurrency is the number of provider calls allowed in flight.
const DefaultConcurrency = 2

// DefaultBackoff is the delay before each retry of a rate-limited call.
var DefaultBackoff = []time.Duration{500 * time.Millisecond, 1500 * time.Millisecond, 3500 * time.Millisecond}

// Gateway is the single path to the provider. It consults the cache, bounds the
// number of concurrent calls and retries rate-limited or transient failures.
// One Gateway is shared by every article of a run.
type Gateway struct {
	client  Client
	tier    ModelTier
	cache   Cache
	slots   *semaphore.Weighted
	backoff []time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
	sleep   func(ctx context.Context, d time.Duration) error
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithCache sets the response cache.
func WithCache(c Cache) GatewayOption {
	return func(g *Gateway) { g.cache = c }
}

// WithTier selects the model tier for every call.
func WithTier(t ModelTier) GatewayOption {
	return func(g *Gateway) { g.tier = t }
}

// WithConcurrency sets the number of calls allowed in flight.
func WithConcurrency(n int) GatewayOption {
	return func(g *Gateway) {
		if n > 0 {
			g.slots = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithBackoff replaces the retry schedule. Its length is the retry budget.
func WithBackoff(delays ...time.Duration) GatewayOption {
	return func(g *Gateway) { g.backoff = delays }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) GatewayOption {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) GatewayOption {
	return func(g *Gateway) { g.metrics = m }
}

// NewGateway creates a Gateway around client. A nil client yields a Gateway
// whose calls fail with ErrNoClient.
func NewGateway(client Client, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		client:  client,
		tier:    TierStandard,
		slots:   semaphore.NewWeighted(DefaultConcurrency),
		backoff: DefaultBackoff,
		logger:  zap.NewNop(),
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the provider's JSON answer to req, from cache when possible.
// The concurrency slot is held across retries.
func (g *Gateway) Generate(ctx context.Context, req Request) (string, error) {
	if g == nil || g.client == nil {
		return "", ErrNoClient
	}

	key := CacheKey(g.client.Model(g.tier), req)
	if g.cache != nil {
		cached, ok, err := g.cache.Get(ctx, key)
		if err != nil {
			g.logger.Warn("cache lookup failed", zap.Error(err))
		}
		g.metrics.RecordCache(ok)
		if ok {
			return cached, nil
		}
	}

	if err := g.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer g.slots.Release(1)

	for attempt := 0; ; attempt++ {
		start := time.Now()
		out, err := g.client.GenerateJSON(ctx, req, g.tier)
		if err == nil {
			g.metrics.RecordLLMRequest("ok", time.Since(start))
			if g.cache != nil {
				if err := g.cache.Set(ctx, key, out); err != nil {
					g.logger.Warn("cache store failed", zap.Error(err))
				}
			}
			return out, nil
		}

		rateLimited := IsRateLimited(err)
		if rateLimited {
			g.metrics.RecordLLMRequest("rate_limited", time.Since(start))
		} else {
			g.metrics.RecordLLMRequest("error", time.Since(start))
		}

		retryable := (rateLimited || IsTransient(err)) && ctx.Err() == nil
		if !retryable || attempt >= len(g.backoff) {
			return "", &APICallError{Message: "extraction request failed", Attempts: attempt + 1, Cause: err}
		}

		delay := g.backoff[attempt]
		g.logger.Warn("provider call failed, backing off",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Bool("rate_limited", rateLimited),
			zap.Error(err))
		if err := g.sleep(ctx, delay); err != nil {
			return "", err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
