package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	queue "github.com/okian/upskill/internal/adapters/mq/queue"
	worker "github.com/okian/upskill/internal/adapters/mq/worker"
	model "github.com/okian/upskill/internal/domain/model"
)

// mockEnricher marks courses as enhanced after an optional delay.
type mockEnricher struct {
	mu    sync.Mutex
	delay map[string]time.Duration
	calls int
}

func newMockEnricher() *mockEnricher {
	return &mockEnricher{delay: make(map[string]time.Duration)}
}

func (m *mockEnricher) Enrich(ctx context.Context, c model.Course) model.Course {
	m.mu.Lock()
	m.calls++
	d := m.delay[c.ID]
	m.mu.Unlock()

	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return c
		}
	}
	c.AIEnhanced = true
	c.Description = "enhanced " + c.Title
	return c
}

func (m *mockEnricher) setDelay(id string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay[id] = d
}

func (m *mockEnricher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// fullQueue rejects every job.
type fullQueue struct{}

func (fullQueue) Enqueue(context.Context, queue.Job) bool { return false }

func (fullQueue) Dequeue(context.Context) <-chan queue.Job { return make(chan queue.Job) }

func courses(ids ...string) []model.Course {
	out := make([]model.Course, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Course{ID: id, Title: "Course " + id})
	}
	return out
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		enricher := newMockEnricher()
		w := worker.NewInMemoryWorker(q, enricher, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a job is processed", func() {
			replies := make(chan queue.Result, 1)
			c := courses("a")[0]
			convey.So(q.Enqueue(ctx, queue.Job{ID: "job-1", Ctx: ctx, Index: 3, Course: c, Reply: replies}), convey.ShouldBeTrue)

			var res queue.Result
			select {
			case res = <-replies:
			case <-time.After(time.Second):
			}

			convey.Convey("Then the reply carries the enriched course", func() {
				convey.So(res.JobID, convey.ShouldEqual, "job-1")
				convey.So(res.Index, convey.ShouldEqual, 3)
				convey.So(res.Enriched, convey.ShouldBeTrue)
				convey.So(res.Course.Description, convey.ShouldEqual, "enhanced Course a")
			})
		})

		convey.Convey("When a job has already expired", func() {
			expired, expire := context.WithCancel(ctx)
			expire()
			replies := make(chan queue.Result, 1)
			convey.So(q.Enqueue(ctx, queue.Job{ID: "job-2", Ctx: expired, Course: courses("b")[0], Reply: replies}), convey.ShouldBeTrue)

			var res queue.Result
			select {
			case res = <-replies:
			case <-time.After(time.Second):
			}

			convey.Convey("Then the original course is returned without calling the enricher", func() {
				convey.So(res.JobID, convey.ShouldEqual, "job-2")
				convey.So(res.Enriched, convey.ShouldBeFalse)
				convey.So(res.Course.AIEnhanced, convey.ShouldBeFalse)
				convey.So(enricher.Calls(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer shutdownCancel()

			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)

			convey.Convey("Then a second shutdown is harmless", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestPoolEnrichAll(t *testing.T) {
	convey.Convey("Given a started pool", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		enricher := newMockEnricher()
		pool := worker.NewPool(3, q, enricher)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)
		convey.So(pool.Size(), convey.ShouldEqual, 3)

		convey.Convey("When every course is enriched in time", func() {
			in := courses("a", "b", "c", "d", "e")
			out := pool.EnrichAll(ctx, in, time.Second)

			convey.Convey("Then the output keeps the input order", func() {
				convey.So(out, convey.ShouldHaveLength, len(in))
				for i := range in {
					convey.So(out[i].ID, convey.ShouldEqual, in[i].ID)
					convey.So(out[i].AIEnhanced, convey.ShouldBeTrue)
				}
			})

			convey.Convey("Then the input slice is not modified", func() {
				for _, c := range in {
					convey.So(c.AIEnhanced, convey.ShouldBeFalse)
				}
			})
		})

		convey.Convey("When one course is slower than the timeout", func() {
			enricher.setDelay("slow", time.Second)
			in := courses("a", "slow", "c")
			start := time.Now()
			out := pool.EnrichAll(ctx, in, 100*time.Millisecond)

			convey.Convey("Then it keeps its original data and the call returns at the deadline", func() {
				convey.So(time.Since(start), convey.ShouldBeLessThan, 800*time.Millisecond)
				convey.So(out[0].AIEnhanced, convey.ShouldBeTrue)
				convey.So(out[1], convey.ShouldResemble, in[1])
				convey.So(out[2].AIEnhanced, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When there is nothing to enrich", func() {
			convey.So(pool.EnrichAll(ctx, nil, time.Second), convey.ShouldBeEmpty)
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			convey.So(pool.Shutdown(shutdownCtx), convey.ShouldBeNil)
			convey.So(q.IsClosed(), convey.ShouldBeTrue)

			convey.Convey("Then later submissions fall back to the originals", func() {
				in := courses("x")
				convey.So(pool.EnrichAll(ctx, in, 50*time.Millisecond), convey.ShouldResemble, in)
			})
		})
	})

	convey.Convey("A queue that rejects every job returns the originals immediately", t, func() {
		pool := worker.NewPool(1, fullQueue{}, newMockEnricher())
		in := courses("a", "b")
		start := time.Now()
		out := pool.EnrichAll(context.Background(), in, time.Second)
		convey.So(out, convey.ShouldResemble, in)
		convey.So(time.Since(start), convey.ShouldBeLessThan, 500*time.Millisecond)
	})

	convey.Convey("A non-positive worker count selects a default", t, func() {
		pool := worker.NewPool(0, queue.NewInMemoryQueue(), newMockEnricher())
		convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		convey.So(pool.Size(), convey.ShouldBeLessThanOrEqualTo, 8)
	})
}

func TestPoolStop(t *testing.T) {
	convey.Convey("Stop returns once every worker has exited", t, func() {
		pool := worker.NewPool(2, queue.NewInMemoryQueue(), newMockEnricher())
		pool.Start(context.Background())

		done := make(chan struct{})
		go func() {
			pool.Stop()
			close(done)
		}()

		select {
		case <-done:
			convey.So(true, convey.ShouldBeTrue)
		case <-time.After(2 * time.Second):
			convey.So("stop timed out", convey.ShouldBeEmpty)
		}
	})
}
