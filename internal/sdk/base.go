package sdk

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	"github.com/dantweb/vbwd-sdk/common/logger"
)

const defaultBackoffBase = 100 * time.Millisecond

// Operation is one provider call. Return a TransientError to ask for a retry.
type Operation func(ctx context.Context) (Response, error)

// BaseAdapter gives concrete adapters idempotent caching, retry with
// exponential backoff and optional outbound throttling. Embed it.
type BaseAdapter struct {
	config      Config
	idempotency *IdempotencyService
	limiter     *rate.Limiter
	backoffBase time.Duration
	logger      *slog.Logger
}

type BaseOption func(*BaseAdapter)

func WithIdempotencyService(s *IdempotencyService) BaseOption {
	return func(b *BaseAdapter) { b.idempotency = s }
}

// WithRateLimit caps provider calls at rps with the given burst.
func WithRateLimit(rps float64, burst int) BaseOption {
	return func(b *BaseAdapter) {
		if rps <= 0 {
			return
		}
		if burst < 1 {
			burst = 1
		}
		b.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBackoffBase sets the first retry delay. Later delays double.
func WithBackoffBase(d time.Duration) BaseOption {
	return func(b *BaseAdapter) {
		if d > 0 {
			b.backoffBase = d
		}
	}
}

func WithAdapterLogger(l *slog.Logger) BaseOption {
	return func(b *BaseAdapter) {
		if l != nil {
			b.logger = l
		}
	}
}

func NewBaseAdapter(cfg Config, opts ...BaseOption) *BaseAdapter {
	b := &BaseAdapter{
		config:      cfg,
		backoffBase: defaultBackoffBase,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *BaseAdapter) Config() Config { return b.config }

func (b *BaseAdapter) Idempotency() *IdempotencyService { return b.idempotency }

// Throttle blocks until the rate limiter admits one call.
func (b *BaseAdapter) Throttle(ctx context.Context) error {
	if b.limiter == nil {
		return nil
	}
	return b.limiter.Wait(ctx)
}

// WithIdempotency returns a cached response for key when one exists, otherwise
// runs op and caches the result if it succeeded. Failures are never cached.
// An empty key or no configured service runs op directly.
func (b *BaseAdapter) WithIdempotency(ctx context.Context, key string, op Operation) (Response, error) {
	if key == "" || b.idempotency == nil {
		return op(ctx)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{IdempotencyKey: logger.Ptr(key)})

	cached, err := b.idempotency.Check(ctx, key)
	if err != nil {
		b.logger.WarnContext(ctx, "idempotency lookup failed, calling provider", "error", err)
	}
	if cached != nil {
		b.logger.DebugContext(ctx, "idempotent response served from cache")
		return *cached, nil
	}

	resp, err := op(ctx)
	if err != nil {
		return resp, err
	}

	if resp.Success {
		if err := b.idempotency.Store(ctx, key, resp, 0); err != nil {
			b.logger.WarnContext(ctx, "failed to cache idempotent response", "error", err)
		}
	}
	return resp, nil
}

// WithRetry runs op, retrying transient errors up to maxRetries more times
// with delays of base, 2*base, 4*base and so on. A negative maxRetries uses
// the adapter config. Each attempt gets its own Config.Timeout; an attempt
// that runs out of it counts as transient. When retries run out the last
// transient error is returned. Other errors are returned on first occurrence.
func (b *BaseAdapter) WithRetry(ctx context.Context, maxRetries int, op Operation) (Response, error) {
	if maxRetries < 0 {
		maxRetries = b.config.MaxRetries
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = b.backoffBase
	expo.Multiplier = 2
	expo.RandomizationFactor = 0
	expo.MaxInterval = b.backoffBase << 10
	expo.Reset()

	attempt := 0
	resp, err := backoff.Retry(ctx, func() (Response, error) {
		attempt++
		if err := b.Throttle(ctx); err != nil {
			return Response{}, backoff.Permanent(err)
		}
		resp, err := b.attempt(ctx, op)
		if err == nil {
			return resp, nil
		}
		if !IsTransient(err) {
			return resp, backoff.Permanent(err)
		}
		return resp, err
	},
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(uint(maxRetries+1)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			b.logger.WarnContext(ctx, "transient provider error, retrying",
				"error", err,
				"attempt", attempt,
				"max_retries", maxRetries,
				"retry_in", wait)
		}),
	)

	// Retry hands back the wrapper when the last allowed attempt is permanent.
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Unwrap()
	}
	return resp, err
}

func (b *BaseAdapter) attempt(ctx context.Context, op Operation) (Response, error) {
	if b.config.Timeout <= 0 {
		return op(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	resp, err := op(attemptCtx)
	if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return resp, Transient("attempt", err)
	}
	return resp, err
}
