package worker_test

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dantweb/vbwd-sdk/internal/cache"
	"github.com/dantweb/vbwd-sdk/internal/model"
	"github.com/dantweb/vbwd-sdk/internal/notify"
	"github.com/dantweb/vbwd-sdk/internal/worker"
)

type fakeSubs struct {
	mu        sync.Mutex
	sweeps    int
	expireErr error
	expiring  []model.Subscription
}

func (f *fakeSubs) ExpireDue(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sweeps++
	return 2, f.expireErr
}

func (f *fakeSubs) ExpiringSoon(_ context.Context, days int) ([]model.Subscription, error) {
	return f.expiring, nil
}

func (f *fakeSubs) sweepCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sweeps
}

var _ = Describe("Worker", func() {
	var (
		ctx      context.Context
		subs     *fakeSubs
		mem      *cache.Memory
		locker   cache.Locker
		recorder *notify.Recorder
	)

	BeforeEach(func() {
		ctx = context.Background()
		subs = &fakeSubs{}
		mem = cache.NewMemory()
		locker = cache.NewMemoryLocker(mem)
		recorder = notify.NewRecorder()
	})

	newWorker := func(cfg worker.Config) *worker.Worker {
		return worker.New(subs, locker, mem, recorder, cfg)
	}

	It("expires due subscriptions under the lock", func() {
		Expect(newWorker(worker.Config{}).SweepOnce(ctx)).To(Succeed())
		Expect(subs.sweepCount()).To(Equal(1))
	})

	It("skips the sweep while another process holds the lock", func() {
		held, err := locker.Acquire(ctx, "subscription-expiry", time.Minute, 0)
		Expect(err).NotTo(HaveOccurred())
		defer held.Release(ctx)

		Expect(newWorker(worker.Config{}).SweepOnce(ctx)).To(Succeed())
		Expect(subs.sweepCount()).To(BeZero())
	})

	It("surfaces expiry failures", func() {
		subs.expireErr = errors.New("db down")
		Expect(newWorker(worker.Config{}).SweepOnce(ctx)).To(MatchError(ContainSubstring("db down")))
	})

	It("sends one expiring notice per subscription", func() {
		expires := time.Now().Add(48 * time.Hour)
		subs.expiring = []model.Subscription{
			{ID: 1, UserID: 10, Status: model.SubscriptionStatusActive, ExpiresAt: &expires},
			{ID: 2, UserID: 20, Status: model.SubscriptionStatusActive},
		}
		w := newWorker(worker.Config{NoticeDays: 3})

		Expect(w.SweepOnce(ctx)).To(Succeed())
		Expect(w.SweepOnce(ctx)).To(Succeed())

		msgs := recorder.Messages()
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].UserID).To(Equal(int64(10)))
		Expect(msgs[0].Event).To(Equal(notify.EventSubscriptionExpiring))
		Expect(msgs[0].Payload).To(HaveKeyWithValue("subscription_id", "1"))
	})

	It("runs until stopped", func() {
		w := newWorker(worker.Config{Interval: 5 * time.Millisecond})
		done := make(chan error, 1)
		go func() { done <- w.Run(ctx) }()

		Eventually(subs.sweepCount).Should(BeNumerically(">=", 2))
		w.Stop()
		Eventually(done).Should(Receive(BeNil()))

		Expect(w.Stop).NotTo(Panic())
		Expect(w.Run(ctx)).To(MatchError("worker already running"))
	})

	It("stops without ever having run", func() {
		w := newWorker(worker.Config{})
		stopped := make(chan struct{})
		go func() {
			defer close(stopped)
			w.Stop()
			w.Stop()
		}()

		Eventually(stopped).Should(BeClosed())
		Expect(subs.sweepCount()).To(BeZero())
	})
})
