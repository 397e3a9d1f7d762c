// Package worker runs the background subscription sweeper.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dantweb/vbwd-sdk/common/logger"
	"github.com/dantweb/vbwd-sdk/internal/cache"
	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/notify"
)

const (
	sweepLockKey   = "subscription-expiry"
	noticeTTLSlack = 24 * time.Hour
)

// SubscriptionSweeper is the slice of service.SubscriptionService the sweeper needs.
type SubscriptionSweeper interface {
	ExpireDue(ctx context.Context) (int, error)
	ExpiringSoon(ctx context.Context, days int) ([]model.Subscription, error)
}

type Config struct {
	Interval   time.Duration
	LockTTL    time.Duration
	NoticeDays int
}

type Worker struct {
	subs      SubscriptionSweeper
	locker    cache.Locker
	cache     cache.Cache
	publisher notify.Publisher
	cfg       Config
	now       func() time.Time

	started   atomic.Bool
	stopOnce  sync.Once
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

var errAlreadyRunning = errors.New("worker already running")

func New(subs SubscriptionSweeper, locker cache.Locker, c cache.Cache, publisher notify.Publisher, cfg Config) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	if publisher == nil {
		publisher = notify.Nop()
	}
	return &Worker{
		subs:      subs,
		locker:    locker,
		cache:     c,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run sweeps once immediately and then on every tick. Blocks until Stop is
// called or ctx is done. A Worker runs at most once.
func (w *Worker) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errAlreadyRunning
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "vbwd.worker.expiry"})
	defer close(w.stoppedCh)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "expiry sweeper started",
		"interval", w.cfg.Interval,
		"notice_days", w.cfg.NoticeDays)

	w.sweepSafe(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "expiry sweeper stopping")
			return nil
		case <-ticker.C:
			w.sweepSafe(ctx)
		}
	}
}

// Stop is safe to call more than once, and before Run.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	if w.started.Load() {
		<-w.stoppedCh
	}
}

func (w *Worker) sweepSafe(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in expiry sweep", "panic", r)
		}
	}()
	if err := w.SweepOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "expiry sweep failed", "error", err)
	}
}

// SweepOnce runs one sweep under the cluster-wide lock. Another process
// holding the lock is not an error; this tick is simply skipped.
func (w *Worker) SweepOnce(ctx context.Context) error {
	err := cache.WithLock(ctx, w.locker, sweepLockKey, w.cfg.LockTTL, 0, w.sweep)
	if errors.Is(err, cache.ErrLockNotAcquired) {
		slog.DebugContext(ctx, "expiry sweep skipped, lock held elsewhere")
		return nil
	}
	return err
}

func (w *Worker) sweep(ctx context.Context) error {
	start := time.Now()

	expired, err := w.subs.ExpireDue(ctx)
	if err != nil {
		return fmt.Errorf("expiring subscriptions: %w", err)
	}

	notified := 0
	if w.cfg.NoticeDays > 0 {
		notified, err = w.sendNotices(ctx)
		if err != nil {
			return err
		}
	}

	slog.InfoContext(ctx, "expiry sweep complete",
		"expired", expired,
		"notified", notified,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (w *Worker) sendNotices(ctx context.Context) (int, error) {
	subs, err := w.subs.ExpiringSoon(ctx, w.cfg.NoticeDays)
	if err != nil {
		return 0, fmt.Errorf("listing expiring subscriptions: %w", err)
	}

	sent := 0
	for i := range subs {
		sub := &subs[i]
		if sub.ExpiresAt == nil {
			continue
		}
		if w.cache != nil {
			key := "expiry-notice:" + strconv.FormatInt(sub.ID, 10) + ":" + sub.ExpiresAt.UTC().Format("20060102")
			ttl := sub.ExpiresAt.Sub(w.now()) + noticeTTLSlack
			first, err := w.cache.SetNX(ctx, key, []byte("1"), ttl)
			if err != nil {
				slog.WarnContext(ctx, "expiry notice dedupe failed", "subscription_id", sub.ID, "error", err)
				continue
			}
			if !first {
				continue
			}
		}

		w.publisher.Publish(ctx, sub.UserID, notify.EventSubscriptionExpiring, map[string]any{
			"subscription_id": strconv.FormatInt(sub.ID, 10),
			"expires_at":      sub.ExpiresAt.UTC().Format(time.RFC3339),
			"days_remaining":  sub.DaysRemaining(w.now()),
		})
		sent++
	}
	return sent, nil
}
