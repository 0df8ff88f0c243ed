package enrich_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/upskill/internal/domain/enrich"
	"github.com/okian/upskill/internal/domain/model"
)

type stubGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	delay   time.Duration
	calls   int
	prompts []string
}

func (s *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.prompts = append(s.prompts, prompt)
	reply, err, delay := s.reply, s.err, s.delay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return reply, err
}

func (s *stubGenerator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func sampleCourse() model.Course {
	return model.Course{
		ID:          "c1",
		Title:       "Python for Data Science",
		Provider:    "Udemy",
		Subject:     "Data Science",
		Level:       "All Levels",
		Duration:    "10 hours",
		Description: "All Levels course in Data Science with 40 lectures. 1200 students enrolled.",
	}
}

const enrichReply = "```json\n" + `{
  "description": "A hands-on introduction to Python for analysis.",
  "skills": ["Python", "Pandas"],
  "difficulty": "Beginner",
  "target_audience": "Aspiring analysts",
  "learning_outcomes": ["Load data", "Plot data", "Clean data"]
}` + "\n```"

func fastGateway(gen enrich.TextGenerator, opts ...enrich.Option) *enrich.Gateway {
	base := []enrich.Option{
		enrich.WithGenerator(gen),
		enrich.WithRateLimit(1000, 1000),
		enrich.WithTimeout(200 * time.Millisecond),
	}
	return enrich.NewGateway(append(base, opts...)...)
}

func TestEnrich(t *testing.T) {
	ctx := context.Background()

	Convey("Given a gateway with a working generator", t, func() {
		gen := &stubGenerator{reply: enrichReply}
		gw := fastGateway(gen)
		in := sampleCourse()

		out := gw.Enrich(ctx, in)

		So(gw.Available(), ShouldBeTrue)
		So(out.AIEnhanced, ShouldBeTrue)
		So(out.Description, ShouldEqual, "A hands-on introduction to Python for analysis.")
		So(out.Enrichment, ShouldNotBeNil)
		So(out.Enrichment.Skills, ShouldResemble, []string{"Python", "Pandas"})
		So(out.Enrichment.Difficulty, ShouldEqual, "Beginner")
		So(out.Enrichment.TargetAudience, ShouldEqual, "Aspiring analysts")
		So(out.Enrichment.LearningOutcomes, ShouldHaveLength, 3)

		Convey("the input course is left untouched", func() {
			So(in, ShouldResemble, sampleCourse())
		})

		Convey("the prompt names the course", func() {
			So(gen.prompts[0], ShouldContainSubstring, "Title: Python for Data Science")
			So(gen.prompts[0], ShouldContainSubstring, "Duration: 10 hours")
		})
	})

	Convey("An empty AI description keeps the original one", t, func() {
		gw := fastGateway(&stubGenerator{reply: `{"skills": "SQL, Excel"}`})
		out := gw.Enrich(ctx, sampleCourse())
		So(out.AIEnhanced, ShouldBeTrue)
		So(out.Description, ShouldEqual, sampleCourse().Description)
		So(out.Enrichment.Skills, ShouldResemble, []string{"SQL", "Excel"})
	})

	Convey("Failures return the course unchanged", t, func() {
		Convey("when no generator is configured", func() {
			gw := enrich.NewGateway()
			So(gw.Available(), ShouldBeFalse)
			So(gw.Enrich(ctx, sampleCourse()), ShouldResemble, sampleCourse())
		})

		Convey("when the generator errors", func() {
			gw := fastGateway(&stubGenerator{err: errors.New("quota exceeded")})
			So(gw.Enrich(ctx, sampleCourse()), ShouldResemble, sampleCourse())
		})

		Convey("when the reply is not JSON", func() {
			gw := fastGateway(&stubGenerator{reply: "Sorry, I cannot help with that."})
			So(gw.Enrich(ctx, sampleCourse()), ShouldResemble, sampleCourse())
		})

		Convey("when the generator is slower than the timeout", func() {
			gw := fastGateway(&stubGenerator{reply: enrichReply, delay: time.Second}, enrich.WithTimeout(20*time.Millisecond))
			start := time.Now()
			out := gw.Enrich(ctx, sampleCourse())
			So(out, ShouldResemble, sampleCourse())
			So(time.Since(start), ShouldBeLessThan, 500*time.Millisecond)
		})
	})
}

func TestBreaker(t *testing.T) {
	ctx := context.Background()

	Convey("Given a generator that keeps failing", t, func() {
		gen := &stubGenerator{err: errors.New("upstream 503")}
		gw := fastGateway(gen, enrich.WithBreaker(5, 0.6, time.Minute))

		for i := 0; i < 5; i++ {
			gw.Enrich(ctx, sampleCourse())
		}
		So(gen.Calls(), ShouldEqual, 5)

		Convey("the breaker opens and stops calling the provider", func() {
			out := gw.Enrich(ctx, sampleCourse())
			So(out, ShouldResemble, sampleCourse())
			So(gen.Calls(), ShouldEqual, 5)

			_, err := gw.Discover(ctx, "Data Scientist", "")
			So(errors.Is(err, enrich.ErrBreakerOpen), ShouldBeTrue)
		})
	})

	Convey("Cancelled callers do not trip the breaker", t, func() {
		gen := &stubGenerator{reply: enrichReply, delay: time.Second}
		gw := fastGateway(gen, enrich.WithBreaker(2, 0.5, time.Minute), enrich.WithTimeout(5*time.Second))

		for i := 0; i < 3; i++ {
			cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
			gw.Enrich(cctx, sampleCourse())
			cancel()
		}

		gen.mu.Lock()
		gen.delay = 0
		gen.mu.Unlock()
		So(gw.Enrich(ctx, sampleCourse()).AIEnhanced, ShouldBeTrue)
	})
}

func TestRateLimit(t *testing.T) {
	Convey("A drained token bucket makes calls wait, then give up at the timeout", t, func() {
		gen := &stubGenerator{reply: enrichReply}
		gw := enrich.NewGateway(
			enrich.WithGenerator(gen),
			enrich.WithRateLimit(0.01, 1),
			enrich.WithTimeout(50*time.Millisecond),
		)
		ctx := context.Background()

		So(gw.Enrich(ctx, sampleCourse()).AIEnhanced, ShouldBeTrue)
		So(gw.Enrich(ctx, sampleCourse()).AIEnhanced, ShouldBeFalse)
		So(gen.Calls(), ShouldEqual, 1)
	})
}

func TestDiscover(t *testing.T) {
	ctx := context.Background()

	Convey("Given a generator returning suggested courses", t, func() {
		gen := &stubGenerator{reply: `Here you go:
[
  {"title": "Machine Learning", "platform": "Coursera", "url": "https://coursera.org/ml", "price": "Free", "duration": "60", "level": "Intermediate", "skills": ["Python", "Statistics"]},
  {"title": "Deep Learning A-Z", "platform": "Udemy", "price": "$19.99", "duration": "22 hours", "rating": "4.9"},
  {"title": "Data Engineering", "platform": "edX", "price": "Paid", "rating": 9},
  {"platform": "Udemy"}
]`}
		gw := fastGateway(gen)

		courses, err := gw.Discover(ctx, "Data Scientist", "python, sql")

		So(err, ShouldBeNil)
		So(courses, ShouldHaveLength, 3)
		So(gen.prompts[0], ShouldContainSubstring, "become a Data Scientist")
		So(gen.prompts[0], ShouldContainSubstring, "Skills they have: python, sql")

		Convey("fields are normalized", func() {
			ml := courses[0]
			So(ml.Provider, ShouldEqual, "Coursera")
			So(ml.Platform, ShouldEqual, "coursera")
			So(ml.IsPaid, ShouldBeFalse)
			So(ml.Duration, ShouldEqual, "60 hours")
			So(ml.Rating, ShouldEqual, 4.2)
			So(ml.Subject, ShouldEqual, "Python")
			So(ml.AIEnhanced, ShouldBeTrue)
			So(ml.ID, ShouldEqual, model.CourseID("Coursera", "https://coursera.org/ml", "Machine Learning"))

			dl := courses[1]
			So(dl.IsPaid, ShouldBeTrue)
			So(dl.Price, ShouldEqual, 19.99)
			So(dl.Duration, ShouldEqual, "22 hours")
			So(dl.Rating, ShouldEqual, 4.9)

			de := courses[2]
			So(de.IsPaid, ShouldBeTrue)
			So(de.Rating, ShouldEqual, 5.0)
			So(de.Duration, ShouldEqual, "Unknown hours")
		})
	})

	Convey("An object wrapping a courses array is accepted", t, func() {
		gw := fastGateway(&stubGenerator{reply: `{"courses": [{"title": "SQL Basics", "platform": "Udemy"}]}`})
		courses, err := gw.Discover(ctx, "Data Analyst", "")
		So(err, ShouldBeNil)
		So(courses, ShouldHaveLength, 1)
	})

	Convey("A blank skills string is described as none", t, func() {
		gen := &stubGenerator{reply: "[]"}
		_, err := fastGateway(gen).Discover(ctx, "Chef", "  ")
		So(err, ShouldBeNil)
		So(gen.prompts[0], ShouldContainSubstring, "Skills they have: None specified")
	})

	Convey("Errors are reported", t, func() {
		_, err := enrich.NewGateway().Discover(ctx, "Chef", "")
		So(errors.Is(err, enrich.ErrUnavailable), ShouldBeTrue)

		_, err = fastGateway(&stubGenerator{reply: "no courses today"}).Discover(ctx, "Chef", "")
		So(errors.Is(err, enrich.ErrMalformed), ShouldBeTrue)

		_, err = fastGateway(&stubGenerator{err: errors.New("boom")}).Discover(ctx, "Chef", "")
		So(err, ShouldNotBeNil)
		So(strings.Contains(err.Error(), "boom"), ShouldBeTrue)
	})
}
