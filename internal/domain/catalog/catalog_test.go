package catalog

import (
	"context"
	"math"
	"testing"

	"github.com/okian/upskill/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizeUdemy(t *testing.T) {
	Convey("Given a complete Udemy record", t, func() {
		rec := Record{
			"course_title":     "Ultimate Investment Banking Course",
			"url":              "https://www.udemy.com/ultimate-investment-banking-course/",
			"is_paid":          "True",
			"price":            "200",
			"num_subscribers":  "2147",
			"num_reviews":      "23",
			"num_lectures":     "51",
			"level":            "All Levels",
			"content_duration": "1.5",
			"subject":          "Business Finance",
		}

		c, err := Normalize(Udemy, rec)

		So(err, ShouldBeNil)
		So(c.Title, ShouldEqual, "Ultimate Investment Banking Course")
		So(c.Provider, ShouldEqual, "Udemy")
		So(c.Platform, ShouldEqual, "udemy")
		So(c.IsPaid, ShouldBeTrue)
		So(c.Price, ShouldEqual, 200)
		So(c.EnrollmentCount, ShouldEqual, 2147)
		So(c.Duration, ShouldEqual, "1.5 hours")
		So(c.Description, ShouldEqual, "All Levels course in Business Finance with 51 lectures. 2147 students enrolled.")
		So(c.PopularityScore, ShouldAlmostEqual, 2147*(1+23.0/1000), 1e-9)
		So(c.Rating, ShouldAlmostEqual, 23.0/2147*10+3.5, 1e-9)
		So(c.ID, ShouldNotBeEmpty)
	})

	Convey("Given a free Udemy record", t, func() {
		c, err := Normalize(Udemy, Record{
			"course_title": "Free Python", "is_paid": "False", "price": "Free",
			"num_subscribers": "0", "num_reviews": "0",
		})

		So(err, ShouldBeNil)
		So(c.IsPaid, ShouldBeFalse)
		So(c.Price, ShouldEqual, 0)
		Convey("Rating is clamped and derived from a zero ratio", func() {
			So(c.Rating, ShouldEqual, 3.5)
		})
		Convey("Defaults fill the blanks", func() {
			So(c.Level, ShouldEqual, DefaultLevel)
			So(c.Subject, ShouldEqual, DefaultSubject)
			So(c.Duration, ShouldEqual, "Unknown hours")
		})
	})

	Convey("Heavily reviewed courses clamp at the maximum rating", t, func() {
		c, err := Normalize(Udemy, Record{"course_title": "Hot", "num_subscribers": "10", "num_reviews": "100"})
		So(err, ShouldBeNil)
		So(c.Rating, ShouldEqual, MaxRating)
	})
}

func TestNormalizeCoursera(t *testing.T) {
	Convey("Given Coursera records", t, func() {
		Convey("Candidate keys are tried in order", func() {
			c, err := Normalize(Coursera, Record{
				"title":       "Second Choice",
				"name":        "Third Choice",
				"course_url":  "https://coursera.org/learn/ml",
				"difficulty":  "Beginner",
				"category":    "Data Science",
				"duration":    "10 hours",
				"students":    "1500",
				"rating":      "4.8",
				"course_name": "Machine Learning",
			})

			So(err, ShouldBeNil)
			So(c.Title, ShouldEqual, "Machine Learning")
			So(c.URL, ShouldEqual, "https://coursera.org/learn/ml")
			So(c.Level, ShouldEqual, "Beginner")
			So(c.Subject, ShouldEqual, "Data Science")
			So(c.Duration, ShouldEqual, "10 hours")
			So(c.EnrollmentCount, ShouldEqual, 1500)
			So(c.PopularityScore, ShouldAlmostEqual, 1650, 1e-9)
			So(c.Rating, ShouldEqual, 4.8)
			So(c.IsPaid, ShouldBeFalse)
			So(c.Description, ShouldEqual, "Beginner course in Data Science on Coursera. 10 hours duration.")
		})

		Convey("Missing fields fall back to defaults", func() {
			c, err := Normalize(Coursera, Record{"course_url": "https://coursera.org/x"})

			So(err, ShouldBeNil)
			So(c.Title, ShouldEqual, DefaultTitle)
			So(c.Level, ShouldEqual, DefaultLevel)
			So(c.Subject, ShouldEqual, DefaultSubject)
			So(c.Duration, ShouldEqual, "Unknown hours")
			So(c.Rating, ShouldEqual, DefaultRating)
			So(c.EnrollmentCount, ShouldEqual, 0)
			So(c.Price, ShouldEqual, 0)
		})

		Convey("Durations without a unit get one", func() {
			c, _ := Normalize(Coursera, Record{"course_name": "A", "duration": "4"})
			So(c.Duration, ShouldEqual, "4 hours")
		})

		Convey("Numeric prices decide the paid flag", func() {
			paid, _ := Normalize(Coursera, Record{"course_name": "A", "price": "49"})
			free, _ := Normalize(Coursera, Record{"course_name": "B", "course_price": "0"})
			So(paid.IsPaid, ShouldBeTrue)
			So(paid.Price, ShouldEqual, 49)
			So(free.IsPaid, ShouldBeFalse)
		})

		Convey("Non-numeric prices mark the course paid with zero price", func() {
			c, _ := Normalize(Coursera, Record{"course_name": "A", "price": "Subscription"})
			So(c.IsPaid, ShouldBeTrue)
			So(c.Price, ShouldEqual, 0)
		})

		Convey("Out of range ratings are clamped", func() {
			hi, _ := Normalize(Coursera, Record{"course_name": "A", "rating": "9.7"})
			lo, _ := Normalize(Coursera, Record{"course_name": "B", "rating": "0.2"})
			junk, _ := Normalize(Coursera, Record{"course_name": "C", "rating": "great"})
			So(hi.Rating, ShouldEqual, MaxRating)
			So(lo.Rating, ShouldEqual, MinRating)
			So(junk.Rating, ShouldEqual, DefaultRating)
		})

		Convey("Abbreviated enrollment counts are understood", func() {
			c, _ := Normalize(Coursera, Record{"course_name": "A", "course_students_enrolled": "5.3k"})
			So(c.EnrollmentCount, ShouldEqual, 5300)
		})

		Convey("Counts beyond int64 saturate instead of wrapping", func() {
			huge, err := Normalize(Coursera, Record{"course_name": "X", "enrolled": "1e30"})
			So(err, ShouldBeNil)
			So(huge.EnrollmentCount, ShouldEqual, int64(math.MaxInt64))
			So(huge.PopularityScore, ShouldBeGreaterThan, 0)

			big, _ := Normalize(Coursera, Record{"course_name": "Y", "enrolled": "1e12"})
			So(huge.PopularityScore, ShouldBeGreaterThanOrEqualTo, big.PopularityScore)
		})
	})
}

func TestNormalizeRejectsEmptyRecords(t *testing.T) {
	Convey("Records without usable values are rejected", t, func() {
		_, err := Normalize(Udemy, Record{"course_title": "  ", "unrelated": "x"})
		So(err, ShouldEqual, ErrUnparseable)

		_, err = Normalize(Coursera, Record{})
		So(err, ShouldEqual, ErrUnparseable)
	})
}

func TestIngest(t *testing.T) {
	Convey("Ingest keeps source order and drops unusable rows", t, func() {
		records := []Record{
			{"course_title": "First", "num_subscribers": "10"},
			{},
			{"course_title": "Second", "num_subscribers": "20"},
		}

		courses := Ingest(context.Background(), Udemy, records, logger.Nop())

		So(len(courses), ShouldEqual, 2)
		So(courses[0].Title, ShouldEqual, "First")
		So(courses[1].Title, ShouldEqual, "Second")
	})

	Convey("Ingest is deterministic", t, func() {
		records := []Record{{"course_name": "Same", "rating": "4.4"}}
		a := Ingest(context.Background(), Coursera, records, nil)
		b := Ingest(context.Background(), Coursera, records, nil)
		So(a, ShouldResemble, b)
	})
}

func TestHelpers(t *testing.T) {
	Convey("NormalizeKey", t, func() {
		So(NormalizeKey(" Course Title "), ShouldEqual, "course_title")
		So(NormalizeKey("Difficulty-Level"), ShouldEqual, "difficulty_level")
	})

	Convey("FormatNumber", t, func() {
		So(FormatNumber(51), ShouldEqual, "51")
		So(FormatNumber(1.5), ShouldEqual, "1.5")
	})

	Convey("EnsureDurationUnit", t, func() {
		So(EnsureDurationUnit("3 Hours"), ShouldEqual, "3 Hours")
		So(EnsureDurationUnit("1 hour"), ShouldEqual, "1 hour")
		So(EnsureDurationUnit(""), ShouldEqual, "Unknown hours")
	})
}
