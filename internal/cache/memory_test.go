package cache_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dantweb/vbwd-sdk/internal/cache"
)

var _ = Describe("Memory", func() {
	var (
		mem   *cache.Memory
		ctx   context.Context
		clock time.Time
	)

	BeforeEach(func() {
		mem = cache.NewMemory()
		ctx = context.Background()
		clock = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		mem.SetClock(func() time.Time { return clock })
	})

	It("reports a miss for unknown keys", func() {
		_, err := mem.Get(ctx, "nope")
		Expect(err).To(MatchError(cache.ErrCacheMiss))
	})

	It("expires entries after their TTL", func() {
		Expect(mem.Set(ctx, "k", []byte("v"), time.Minute)).To(Succeed())

		v, err := mem.Get(ctx, "k")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(v)).To(Equal("v"))

		clock = clock.Add(time.Minute)
		_, err = mem.Get(ctx, "k")
		Expect(err).To(MatchError(cache.ErrCacheMiss))
		Expect(mem.Len()).To(Equal(0))
	})

	It("keeps entries without TTL", func() {
		Expect(mem.Set(ctx, "k", []byte("v"), 0)).To(Succeed())
		clock = clock.Add(24 * 365 * time.Hour)

		_, err := mem.Get(ctx, "k")
		Expect(err).NotTo(HaveOccurred())
	})

	It("sets only when absent", func() {
		ok, err := mem.SetNX(ctx, "k", []byte("first"), time.Minute)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		ok, err = mem.SetNX(ctx, "k", []byte("second"), time.Minute)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())

		v, _ := mem.Get(ctx, "k")
		Expect(string(v)).To(Equal("first"))

		clock = clock.Add(2 * time.Minute)
		ok, _ = mem.SetNX(ctx, "k", []byte("third"), time.Minute)
		Expect(ok).To(BeTrue())
	})

	It("deletes keys", func() {
		Expect(mem.Set(ctx, "k", []byte("v"), 0)).To(Succeed())
		Expect(mem.Delete(ctx, "k")).To(Succeed())

		_, err := mem.Get(ctx, "k")
		Expect(err).To(MatchError(cache.ErrCacheMiss))
	})

	It("does not alias stored bytes", func() {
		buf := []byte("abc")
		Expect(mem.Set(ctx, "k", buf, 0)).To(Succeed())
		buf[0] = 'z'

		v, _ := mem.Get(ctx, "k")
		Expect(string(v)).To(Equal("abc"))
	})
})
