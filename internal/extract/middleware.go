package extract

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/serendib-labs/mapleads/internal/model"
	"github.com/serendib-labs/mapleads/internal/resilience"
)

// RateLimited wraps an Extractor with a token-bucket limiter so cell
// searches don't hammer the backend session.
type RateLimited struct {
	next    Extractor
	limiter *rate.Limiter
}

// NewRateLimited creates a rate-limited extractor allowing requestsPerMinute
// calls with a burst of one.
func NewRateLimited(next Extractor, requestsPerMinute float64) *RateLimited {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 10
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerMinute/60.0), 1),
	}
}

// Name implements Extractor.
func (r *RateLimited) Name() string { return r.next.Name() }

// Extract implements Extractor, waiting for a token before delegating.
func (r *RateLimited) Extract(ctx context.Context, params model.SearchParameters) (*Extraction, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.Extract(ctx, params)
}

// Retrying wraps an Extractor with backoff-and-jitter retries on transient
// failures.
type Retrying struct {
	next Extractor
	cfg  resilience.RetryConfig
}

// NewRetrying creates a retrying extractor. A zero cfg uses the defaults.
func NewRetrying(next Extractor, cfg resilience.RetryConfig) *Retrying {
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger(next.Name())
	}
	return &Retrying{next: next, cfg: cfg}
}

// Name implements Extractor.
func (r *Retrying) Name() string { return r.next.Name() }

// Extract implements Extractor.
func (r *Retrying) Extract(ctx context.Context, params model.SearchParameters) (*Extraction, error) {
	return resilience.DoVal(ctx, r.cfg, func(ctx context.Context) (*Extraction, error) {
		return r.next.Extract(ctx, params)
	})
}

// Breakered wraps an Extractor with a circuit breaker so a blocked or dead
// session stops absorbing the remaining cells of a run.
type Breakered struct {
	next    Extractor
	breaker *resilience.CircuitBreaker
}

// NewBreakered creates a circuit-breakered extractor.
func NewBreakered(next Extractor, breaker *resilience.CircuitBreaker) *Breakered {
	return &Breakered{next: next, breaker: breaker}
}

// Name implements Extractor.
func (b *Breakered) Name() string { return b.next.Name() }

// Extract implements Extractor.
func (b *Breakered) Extract(ctx context.Context, params model.SearchParameters) (*Extraction, error) {
	if err := b.breaker.Allow(); err != nil {
		return nil, err
	}
	ext, err := b.next.Extract(ctx, params)
	b.breaker.Record(err)
	return ext, err
}
