package anim

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recorder struct {
	mu      sync.Mutex
	indices []int
}

func (r *recorder) tick(i int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indices = append(r.indices, i)
}

func (r *recorder) seen() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.indices...)
}

func (r *recorder) count() int {
	return len(r.seen())
}

var _ = Describe("Controller", func() {
	var rec *recorder

	BeforeEach(func() {
		rec = &recorder{}
	})

	Describe("New", func() {
		It("rejects an empty frame sequence", func() {
			_, err := New(0, time.Second, rec.tick)
			Expect(err).To(MatchError(ErrNoFrames))
		})

		It("rejects a non-positive interval", func() {
			_, err := New(3, 0, rec.tick)
			Expect(err).To(MatchError(ErrInvalidInterval))
		})

		It("starts idle at frame zero", func() {
			c, err := New(3, time.Second, rec.tick)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.State()).To(Equal(Idle))
			Expect(c.Index()).To(Equal(0))
			Expect(rec.count()).To(BeZero())
		})
	})

	Describe("Tick", func() {
		It("wraps to the first frame after the last", func() {
			c, _ := New(2, time.Second, rec.tick)
			c.Tick()
			c.Tick()
			c.Tick()
			Expect(rec.seen()).To(Equal([]int{1, 0, 1}))
		})

		It("never leaves the frame range", func() {
			c, _ := New(5, time.Second, rec.tick)
			for i := 0; i < 23; i++ {
				c.Tick()
				Expect(c.Index()).To(BeNumerically(">=", 0))
				Expect(c.Index()).To(BeNumerically("<", 5))
			}
			Expect(c.Index()).To(Equal(23 % 5))
		})
	})

	Describe("Seek", func() {
		It("takes the index modulo the frame count", func() {
			c, _ := New(4, time.Second, rec.tick)
			c.Seek(6)
			Expect(c.Index()).To(Equal(2))
			c.Seek(-1)
			Expect(c.Index()).To(Equal(3))
			Expect(rec.seen()).To(Equal([]int{2, 3}))
		})
	})

	Describe("Resize", func() {
		It("resets an index that is out of range", func() {
			c, _ := New(10, time.Second, rec.tick)
			c.Seek(8)
			Expect(c.Resize(5)).To(Succeed())
			Expect(c.Index()).To(Equal(0))
			Expect(c.Frames()).To(Equal(5))
		})

		It("keeps a valid index", func() {
			c, _ := New(10, time.Second, rec.tick)
			c.Seek(3)
			Expect(c.Resize(5)).To(Succeed())
			Expect(c.Index()).To(Equal(3))
		})

		It("rejects zero frames", func() {
			c, _ := New(10, time.Second, rec.tick)
			Expect(c.Resize(0)).To(MatchError(ErrNoFrames))
		})
	})

	Describe("Start and Stop", func() {
		It("renders the current frame synchronously on start", func() {
			c, _ := New(3, time.Hour, rec.tick)
			Expect(c.Start(context.Background())).To(Succeed())
			defer c.Stop()

			Expect(rec.seen()).To(Equal([]int{0}))
			Expect(c.State()).To(Equal(Animating))
		})

		It("advances on the timer and cycles", func() {
			c, _ := New(2, 5*time.Millisecond, rec.tick)
			Expect(c.Start(context.Background())).To(Succeed())
			defer c.Stop()

			Eventually(rec.count, time.Second, time.Millisecond).Should(BeNumerically(">=", 4))
			seen := rec.seen()
			Expect(seen[:4]).To(Equal([]int{0, 1, 0, 1}))
		})

		It("refuses to start twice", func() {
			c, _ := New(2, time.Hour, rec.tick)
			Expect(c.Start(context.Background())).To(Succeed())
			defer c.Stop()
			Expect(c.Start(context.Background())).To(MatchError(ErrRunning))
		})

		It("stops ticking after Stop", func() {
			c, _ := New(3, 2*time.Millisecond, rec.tick)
			Expect(c.Start(context.Background())).To(Succeed())
			Eventually(rec.count, time.Second, time.Millisecond).Should(BeNumerically(">=", 3))

			c.Stop()
			Expect(c.State()).To(Equal(Stopped))
			n := rec.count()
			Consistently(rec.count, 30*time.Millisecond, 5*time.Millisecond).Should(Equal(n))

			c.Stop()
		})

		It("resumes from the current frame after a restart", func() {
			c, _ := New(5, time.Hour, rec.tick)
			Expect(c.Start(context.Background())).To(Succeed())
			c.Tick()
			c.Tick()
			c.Stop()

			Expect(c.Start(context.Background())).To(Succeed())
			defer c.Stop()
			Expect(rec.seen()).To(Equal([]int{0, 1, 2, 2}))
		})

		It("stops when the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			c, _ := New(3, time.Millisecond, rec.tick)
			Expect(c.Start(ctx)).To(Succeed())

			cancel()
			Eventually(c.State, time.Second, time.Millisecond).Should(Equal(Stopped))
			c.Stop()
		})

		It("is a no-op to stop an idle controller", func() {
			c, _ := New(3, time.Second, rec.tick)
			c.Stop()
			Expect(c.State()).To(Equal(Idle))
		})
	})

	It("names its states", func() {
		Expect(Idle.String()).To(Equal("idle"))
		Expect(Animating.String()).To(Equal("animating"))
		Expect(Stopped.String()).To(Equal("stopped"))
	})
})
