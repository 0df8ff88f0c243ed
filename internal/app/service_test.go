package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/upskill/internal/app"
	"github.com/okian/upskill/internal/domain/model"
	"github.com/okian/upskill/internal/domain/scoring"
	"github.com/okian/upskill/internal/domain/types"
	"github.com/okian/upskill/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

type stubGenerator struct {
	reply string
	err   error
}

func (s stubGenerator) GenerateText(context.Context, string) (string, error) {
	return s.reply, s.err
}

func catalog() []model.Course {
	mk := func(title, provider, subject, level string, paid bool, popularity float64) model.Course {
		return model.Course{
			ID:              model.CourseID(provider, "", title),
			Title:           title,
			Provider:        provider,
			Platform:        provider,
			Subject:         subject,
			Level:           level,
			IsPaid:          paid,
			PopularityScore: popularity,
			Description:     level + " course in " + subject + ".",
			Rating:          4.2,
			Duration:        "3 hours",
		}
	}
	return []model.Course{
		mk("Python for Data Science", "Udemy", "Data Science", "All Levels", true, 12000),
		mk("Intro to SQL", "Coursera", "Business Analytics", "Beginner", false, 300),
		mk("Machine Learning A-Z", "Udemy", "Machine Learning", "Intermediate", true, 8000),
		mk("Statistics Fundamentals", "Coursera", "Data Science", "Beginner", false, 1500),
	}
}

func started(opts ...service.Option) *service.Service {
	svc := service.New(append([]service.Option{
		service.WithCourses(catalog()),
		service.WithWorkerCount(2),
		service.WithRateLimit(100, 100),
	}, opts...)...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(512),
			service.WithEnrichmentTimeout(time.Second),
			service.WithMaxFeatures(500),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Then Start reports it", func() {
			err := service.New(service.WithCourses(catalog())).Start(ctx)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})

	Convey("Given a started service", t, func() {
		svc := started()
		defer svc.Stop()

		Convey("Then starting again is a no-op", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
		})
	})
}

func TestService_Catalog(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service without a generator", t, func() {
		svc := started()
		defer svc.Stop()

		Convey("Info reports the catalog size and no AI", func() {
			info := svc.Info(ctx)
			So(info.Message, ShouldEqual, "Upskill Recommender API is running!")
			So(info.TotalCourses, ShouldEqual, 4)
			So(info.GeminiAvailable, ShouldBeFalse)
		})

		Convey("JobRoles unions subjects and levels", func() {
			roles := svc.JobRoles(ctx)
			So(roles, ShouldContain, "Data Science")
			So(roles, ShouldContain, "Beginner")
			So(roles, ShouldHaveLength, 6)
		})

		Convey("Platforms lists each provider once", func() {
			So(svc.Platforms(ctx).Platforms, ShouldResemble, []string{"Coursera", "Udemy"})
		})

		Convey("Skills returns the common list", func() {
			So(svc.Skills(ctx).Skills, ShouldHaveLength, 47)
		})

		Convey("CareerPath resolves keyword groups", func() {
			p := svc.CareerPath(ctx, "Kernel Hacker and Engineer")
			So(p.CurrentRole, ShouldEqual, "Kernel Hacker and Engineer")
			So(p.NextRoles, ShouldNotBeEmpty)
		})

		Convey("DiscoverCourses reports the missing provider", func() {
			res := svc.DiscoverCourses(ctx, "Data Scientist", "")
			So(res.Error, ShouldEqual, "Gemini API not configured")
			So(res.Courses, ShouldNotBeNil)
			So(res.Courses, ShouldBeEmpty)
		})
	})
}

func TestService_Recommend(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service without a generator", t, func() {
		svc := started()
		defer svc.Stop()

		Convey("Recommendations are ranked and not enhanced", func() {
			res, err := svc.Recommend(ctx, types.RecommendParams{JobRole: "Data Scientist", UseAI: true})
			So(err, ShouldBeNil)
			So(res.TotalFiltered, ShouldEqual, 4)
			So(res.Recommendations, ShouldNotBeEmpty)
			So(res.AIEnhanced, ShouldBeFalse)
			for _, c := range res.Recommendations {
				So(c.AIEnhanced, ShouldBeFalse)
			}
		})

		Convey("Filters are applied", func() {
			free := false
			res, err := svc.Recommend(ctx, types.RecommendParams{JobRole: "Data Scientist", Paid: &free, Platform: " coursera "})
			So(err, ShouldBeNil)
			So(res.TotalFiltered, ShouldEqual, 2)
		})

		Convey("An unmatched platform yields the empty shape", func() {
			res, err := svc.Recommend(ctx, types.RecommendParams{JobRole: "Data Scientist", Platform: "edX"})
			So(err, ShouldBeNil)
			So(res.Empty(), ShouldBeTrue)
			So(res.Reduce(), ShouldResemble, types.EmptyRecommendationsResponse{JobRole: "Data Scientist", Recommendations: []model.Course{}})
		})

		Convey("A blank job role is rejected", func() {
			_, err := svc.Recommend(ctx, types.RecommendParams{JobRole: " "})
			So(errors.Is(err, scoring.ErrEmptyJobRole), ShouldBeTrue)
		})
	})

	Convey("Given a started service with a generator", t, func() {
		svc := started(service.WithGenerator(stubGenerator{
			reply: `{"description": "AI description", "skills": ["Python"], "difficulty": "Beginner"}`,
		}))
		defer svc.Stop()

		Convey("use_ai enriches every returned course", func() {
			res, err := svc.Recommend(ctx, types.RecommendParams{JobRole: "Data Scientist", UseAI: true})
			So(err, ShouldBeNil)
			So(res.AIEnhanced, ShouldBeTrue)
			So(res.Recommendations, ShouldNotBeEmpty)
			for _, c := range res.Recommendations {
				So(c.AIEnhanced, ShouldBeTrue)
				So(c.Description, ShouldEqual, "AI description")
			}
		})

		Convey("Without use_ai nothing is enriched", func() {
			res, err := svc.Recommend(ctx, types.RecommendParams{JobRole: "Data Scientist"})
			So(err, ShouldBeNil)
			So(res.AIEnhanced, ShouldBeFalse)
			for _, c := range res.Recommendations {
				So(c.AIEnhanced, ShouldBeFalse)
			}
		})

		Convey("Enrichment keeps the ranking order", func() {
			plain, _ := svc.Recommend(ctx, types.RecommendParams{JobRole: "Data Scientist"})
			enriched, _ := svc.Recommend(ctx, types.RecommendParams{JobRole: "Data Scientist", UseAI: true})
			So(len(enriched.Recommendations), ShouldEqual, len(plain.Recommendations))
			for i := range plain.Recommendations {
				So(enriched.Recommendations[i].ID, ShouldEqual, plain.Recommendations[i].ID)
			}
		})

		Convey("Info reports AI as available", func() {
			So(svc.Info(ctx).GeminiAvailable, ShouldBeTrue)
		})
	})

	Convey("Given a generator that fails", t, func() {
		svc := started(service.WithGenerator(stubGenerator{err: errors.New("quota exceeded")}))
		defer svc.Stop()

		Convey("use_ai falls back to the original courses", func() {
			res, err := svc.Recommend(ctx, types.RecommendParams{JobRole: "Data Scientist", UseAI: true})
			So(err, ShouldBeNil)
			So(res.AIEnhanced, ShouldBeTrue)
			for _, c := range res.Recommendations {
				So(c.AIEnhanced, ShouldBeFalse)
			}
		})

		Convey("discovery surfaces the error in the body", func() {
			res := svc.DiscoverCourses(ctx, "Data Scientist", "python")
			So(res.Error, ShouldContainSubstring, "quota exceeded")
			So(res.Courses, ShouldBeEmpty)
		})
	})
}
