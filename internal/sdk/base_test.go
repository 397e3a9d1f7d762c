package sdk_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dantweb/vbwd-sdk/internal/cache"
	"github.com/dantweb/vbwd-sdk/internal/sdk"
)

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCache) SetNX(context.Context, string, []byte, time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}

func (brokenCache) Delete(context.Context, string) error {
	return errors.New("connection refused")
}

var _ = Describe("BaseAdapter", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("WithIdempotency", func() {
		var base *sdk.BaseAdapter

		BeforeEach(func() {
			idem := sdk.NewIdempotencyService(cache.NewMemory(), time.Hour)
			base = sdk.NewBaseAdapter(sdk.DefaultConfig("key"), sdk.WithIdempotencyService(idem))
		})

		It("invokes the upstream once for a repeated key", func() {
			calls := 0
			op := func(context.Context) (sdk.Response, error) {
				calls++
				return sdk.OK(map[string]any{"payment_intent_id": "pi_1"}), nil
			}

			first, err := base.WithIdempotency(ctx, "k1", op)
			Expect(err).NotTo(HaveOccurred())
			second, err := base.WithIdempotency(ctx, "k1", op)
			Expect(err).NotTo(HaveOccurred())

			Expect(calls).To(Equal(1))
			Expect(second.String("payment_intent_id")).To(Equal(first.String("payment_intent_id")))
		})

		It("does not cache a failed response", func() {
			calls := 0
			op := func(context.Context) (sdk.Response, error) {
				calls++
				if calls == 1 {
					return sdk.Fail("declined", "card_declined"), nil
				}
				return sdk.OK(nil), nil
			}

			first, _ := base.WithIdempotency(ctx, "k1", op)
			Expect(first.Success).To(BeFalse())

			second, _ := base.WithIdempotency(ctx, "k1", op)
			Expect(second.Success).To(BeTrue())
			Expect(calls).To(Equal(2))
		})

		It("runs the operation directly for an empty key", func() {
			calls := 0
			op := func(context.Context) (sdk.Response, error) {
				calls++
				return sdk.OK(nil), nil
			}
			_, _ = base.WithIdempotency(ctx, "", op)
			_, _ = base.WithIdempotency(ctx, "", op)
			Expect(calls).To(Equal(2))
		})

		It("calls the provider when the cache is unavailable", func() {
			broken := sdk.NewBaseAdapter(sdk.DefaultConfig("key"),
				sdk.WithIdempotencyService(sdk.NewIdempotencyService(brokenCache{}, 0)))

			resp, err := broken.WithIdempotency(ctx, "k1", func(context.Context) (sdk.Response, error) {
				return sdk.OK(nil), nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Success).To(BeTrue())
		})
	})

	Describe("WithRetry", func() {
		var base *sdk.BaseAdapter

		BeforeEach(func() {
			base = sdk.NewBaseAdapter(sdk.DefaultConfig("key"), sdk.WithBackoffBase(time.Millisecond))
		})

		It("returns the success after two transient failures", func() {
			calls := 0
			resp, err := base.WithRetry(ctx, 3, func(context.Context) (sdk.Response, error) {
				calls++
				if calls < 3 {
					return sdk.Response{}, sdk.Transient("create", errors.New("timeout"))
				}
				return sdk.OK(map[string]any{"ok": "yes"}), nil
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.String("ok")).To(Equal("yes"))
			Expect(calls).To(Equal(3))
		})

		It("surfaces the transient error after exhausting retries", func() {
			calls := 0
			_, err := base.WithRetry(ctx, 2, func(context.Context) (sdk.Response, error) {
				calls++
				return sdk.Response{}, sdk.Transient("create", errors.New("timeout"))
			})

			Expect(calls).To(Equal(3))
			Expect(sdk.IsTransient(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("timeout"))
		})

		It("does not retry a permanent error", func() {
			calls := 0
			boom := errors.New("bad request")
			_, err := base.WithRetry(ctx, 3, func(context.Context) (sdk.Response, error) {
				calls++
				return sdk.Response{}, boom
			})

			Expect(calls).To(Equal(1))
			Expect(err).To(MatchError(boom))
		})

		It("uses the configured retry budget for a negative limit", func() {
			cfg := sdk.DefaultConfig("key")
			cfg.MaxRetries = 1
			b := sdk.NewBaseAdapter(cfg, sdk.WithBackoffBase(time.Millisecond))

			calls := 0
			_, err := b.WithRetry(ctx, -1, func(context.Context) (sdk.Response, error) {
				calls++
				return sdk.Response{}, sdk.Transient("create", nil)
			})
			Expect(err).To(HaveOccurred())
			Expect(calls).To(Equal(2))
		})

		It("stops when the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			calls := 0
			_, err := base.WithRetry(cctx, 5, func(context.Context) (sdk.Response, error) {
				calls++
				cancel()
				return sdk.Response{}, sdk.Transient("create", nil)
			})
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(calls).To(Equal(1))
		})

		It("doubles the delay between attempts", func() {
			b := sdk.NewBaseAdapter(sdk.DefaultConfig("key"), sdk.WithBackoffBase(20*time.Millisecond))

			var at []time.Time
			_, err := b.WithRetry(ctx, 3, func(context.Context) (sdk.Response, error) {
				at = append(at, time.Now())
				return sdk.Response{}, sdk.Transient("create", nil)
			})
			Expect(err).To(HaveOccurred())
			Expect(at).To(HaveLen(4))

			for i, want := range []time.Duration{20 * time.Millisecond, 40 * time.Millisecond, 80 * time.Millisecond} {
				gap := at[i+1].Sub(at[i])
				Expect(gap).To(BeNumerically(">=", want), "gap %d", i)
				Expect(gap).To(BeNumerically("<", want+40*time.Millisecond), "gap %d", i)
			}
		})

		It("bounds each attempt by the configured timeout", func() {
			cfg := sdk.DefaultConfig("key")
			cfg.Timeout = 10 * time.Millisecond
			b := sdk.NewBaseAdapter(cfg, sdk.WithBackoffBase(time.Millisecond))

			var deadlines []time.Time
			calls := 0
			resp, err := b.WithRetry(ctx, 2, func(actx context.Context) (sdk.Response, error) {
				calls++
				d, ok := actx.Deadline()
				Expect(ok).To(BeTrue())
				deadlines = append(deadlines, d)
				if calls == 1 {
					<-actx.Done()
					return sdk.Response{}, actx.Err()
				}
				return sdk.OK(nil), nil
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Success).To(BeTrue())
			Expect(calls).To(Equal(2))
			Expect(deadlines[1]).To(BeTemporally(">", deadlines[0]))
		})

		It("gives up after every attempt times out", func() {
			cfg := sdk.DefaultConfig("key")
			cfg.Timeout = 5 * time.Millisecond
			b := sdk.NewBaseAdapter(cfg, sdk.WithBackoffBase(time.Millisecond))

			calls := 0
			_, err := b.WithRetry(ctx, 1, func(actx context.Context) (sdk.Response, error) {
				calls++
				<-actx.Done()
				return sdk.Response{}, actx.Err()
			})

			Expect(calls).To(Equal(2))
			Expect(sdk.IsTransient(err)).To(BeTrue())
			Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
		})
	})

	Describe("Throttle", func() {
		It("is a no-op without a rate limit", func() {
			base := sdk.NewBaseAdapter(sdk.DefaultConfig("key"))
			Expect(base.Throttle(ctx)).To(Succeed())
		})

		It("spaces calls beyond the burst", func() {
			base := sdk.NewBaseAdapter(sdk.DefaultConfig("key"), sdk.WithRateLimit(20, 1))
			start := time.Now()
			for range 3 {
				Expect(base.Throttle(ctx)).To(Succeed())
			}
			Expect(time.Since(start)).To(BeNumerically(">=", 80*time.Millisecond))
		})
	})
})
