// Package catalog turns heterogeneous provider records into uniform courses.
//
// Each provider is described by a Schema: an ordered list of candidate column
// names per logical field. The first candidate with a non-blank value wins and
// a documented default is used when none is present. Normalization never fails
// for partially filled rows; only rows without any usable field are rejected.
package catalog

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/okian/upskill/internal/domain/model"
	"github.com/okian/upskill/pkg/logger"
	"github.com/okian/upskill/pkg/metrics"
)

// Defaults applied when a field is absent or unparseable.
const (
	DefaultTitle    = "Unknown Course"
	DefaultLevel    = "All Levels"
	DefaultSubject  = "General"
	DefaultDuration = "Unknown"
	DefaultRating   = 4.2

	MinRating = 1.0
	MaxRating = 5.0

	durationUnit = " hours"

	// Popularity multiplier used when the source has no review data.
	enrollmentOnlyBoost = 1.1
	reviewsScale        = 1000.0

	// Rating derivation for sources that only report review counts.
	reviewRatioWeight = 10.0
	reviewRatioBase   = 3.5
)

// ErrUnparseable is returned for records that carry no usable field.
var ErrUnparseable = errors.New("catalog: unparseable record")

// Record is a raw source row keyed by normalized column name.
type Record map[string]string

// NormalizeKey lower-cases and trims a column name and replaces separators with underscores.
func NormalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(k)
}

// Values are the resolved fields of a record, handed to a schema's Describe func.
type Values struct {
	Level      string
	Subject    string
	Duration   string
	Lectures   string
	Enrollment int64
}

// Schema describes how one provider's columns map onto Course fields.
type Schema struct {
	// Source names the feed in logs and metrics, e.g. "udemy".
	Source string
	// Provider is the display name stored on courses, e.g. "Udemy".
	Provider string

	Title      []string
	URL        []string
	Paid       []string
	Price      []string
	Enrollment []string
	Reviews    []string
	Lectures   []string
	Level      []string
	Subject    []string
	Duration   []string
	Rating     []string

	// DeriveRating computes the rating from the review/enrollment ratio instead of reading it.
	DeriveRating bool

	Describe func(v Values) string
}

// Udemy is the schema of the Udemy course export.
var Udemy = Schema{ //nolint:gochecknoglobals // immutable schema table
	Source:       "udemy",
	Provider:     "Udemy",
	Title:        []string{"course_title", "title"},
	URL:          []string{"url"},
	Paid:         []string{"is_paid"},
	Price:        []string{"price"},
	Enrollment:   []string{"num_subscribers"},
	Reviews:      []string{"num_reviews"},
	Lectures:     []string{"num_lectures"},
	Level:        []string{"level"},
	Subject:      []string{"subject"},
	Duration:     []string{"content_duration"},
	DeriveRating: true,
	Describe: func(v Values) string {
		return v.Level + " course in " + v.Subject + " with " + v.Lectures + " lectures. " +
			strconv.FormatInt(v.Enrollment, 10) + " students enrolled."
	},
}

// Coursera is the schema of the Coursera course export. Column names vary between dumps.
var Coursera = Schema{ //nolint:gochecknoglobals // immutable schema table
	Source:     "coursera",
	Provider:   "Coursera",
	Title:      []string{"course_name", "title", "name", "course_title"},
	URL:        []string{"course_url", "url"},
	Price:      []string{"price", "course_price"},
	Enrollment: []string{"enrolled", "students", "course_students_enrolled"},
	Reviews:    []string{"num_reviews", "reviews"},
	Level:      []string{"level", "difficulty", "difficulty_level", "course_difficulty"},
	Subject:    []string{"subject", "category"},
	Duration:   []string{"duration", "course_duration"},
	Rating:     []string{"rating", "course_rating"},
	Describe: func(v Values) string {
		return v.Level + " course in " + v.Subject + " on Coursera. " + v.Duration + " duration."
	},
}

// Normalize converts one record into a Course using schema.
func Normalize(schema Schema, rec Record) (model.Course, error) {
	if !hasAnyValue(schema, rec) {
		return model.Course{}, ErrUnparseable
	}

	title := lookupOr(rec, schema.Title, DefaultTitle)
	url := lookupOr(rec, schema.URL, "")
	level := lookupOr(rec, schema.Level, DefaultLevel)
	subject := lookupOr(rec, schema.Subject, DefaultSubject)
	duration := EnsureDurationUnit(lookupOr(rec, schema.Duration, DefaultDuration))

	price, isPaid := resolvePrice(schema, rec)

	var enrollment int64
	if raw, ok := lookup(rec, schema.Enrollment); ok {
		if n, ok := parseCount(raw); ok {
			enrollment = clampCount(n)
		}
	}

	reviews, hasReviews := 0.0, false
	if raw, ok := lookup(rec, schema.Reviews); ok {
		if n, ok := parseCount(raw); ok {
			reviews, hasReviews = n, true
		}
	}

	lectures := "0"
	if raw, ok := lookup(rec, schema.Lectures); ok {
		if n, ok := parseCount(raw); ok {
			lectures = FormatNumber(n)
		} else {
			lectures = raw
		}
	}

	popularity := float64(enrollment) * enrollmentOnlyBoost
	if hasReviews {
		popularity = float64(enrollment) * (1 + reviews/reviewsScale)
	}

	rating := DefaultRating
	switch {
	case schema.DeriveRating:
		rating = reviews/math.Max(float64(enrollment), 1)*reviewRatioWeight + reviewRatioBase
	default:
		if raw, ok := lookup(rec, schema.Rating); ok {
			if v, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(v) {
				rating = v
			}
		}
	}

	description := ""
	if schema.Describe != nil {
		description = schema.Describe(Values{
			Level:      level,
			Subject:    subject,
			Duration:   duration,
			Lectures:   lectures,
			Enrollment: enrollment,
		})
	}

	return model.Course{
		ID:              model.CourseID(schema.Provider, url, title),
		Title:           title,
		Provider:        schema.Provider,
		URL:             url,
		IsPaid:          isPaid,
		Price:           price,
		EnrollmentCount: enrollment,
		Level:           level,
		Duration:        duration,
		Subject:         subject,
		Description:     description,
		PopularityScore: popularity,
		Platform:        strings.ToLower(schema.Provider),
		Rating:          ClampRating(rating),
	}, nil
}

// Ingest normalizes records in source order. Unparseable records are dropped and logged.
func Ingest(ctx context.Context, schema Schema, records []Record, log logger.Logger) []model.Course {
	courses := make([]model.Course, 0, len(records))
	for i, rec := range records {
		c, err := Normalize(schema, rec)
		if err != nil {
			metrics.RecordIngestRowDropped(schema.Source, "unparseable")
			if log != nil {
				log.Warn(ctx, "dropping catalog record", logger.String("source", schema.Source), logger.Int("row", i+1), logger.Error(err))
			}
			continue
		}
		courses = append(courses, c)
	}
	return courses
}

// ClampRating bounds r to [MinRating, MaxRating].
func ClampRating(r float64) float64 {
	if math.IsNaN(r) {
		return DefaultRating
	}
	return math.Min(MaxRating, math.Max(MinRating, r))
}

// EnsureDurationUnit appends " hours" when d carries no hour unit.
func EnsureDurationUnit(d string) string {
	d = strings.TrimSpace(d)
	if d == "" {
		d = DefaultDuration
	}
	if strings.Contains(strings.ToLower(d), "hour") {
		return d
	}
	return d + durationUnit
}

// FormatNumber prints integral values without a fractional part.
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// resolvePrice returns the non-negative price and the paid flag.
// An explicit paid column wins; otherwise a non-numeric price marks the course
// paid with an unknown (zero) price.
func resolvePrice(schema Schema, rec Record) (float64, bool) {
	price, priceNumeric, pricePresent := 0.0, false, false
	if raw, ok := lookup(rec, schema.Price); ok {
		pricePresent = true
		if v, err := strconv.ParseFloat(strings.TrimPrefix(raw, "$"), 64); err == nil && !math.IsNaN(v) {
			price, priceNumeric = math.Max(v, 0), true
		}
	}

	if raw, ok := lookup(rec, schema.Paid); ok {
		switch strings.ToLower(raw) {
		case "true", "1", "yes":
			return price, true
		default:
			return price, false
		}
	}

	if pricePresent && !priceNumeric {
		return 0, !isFreeLabel(rec, schema.Price)
	}
	return price, price > 0
}

func isFreeLabel(rec Record, keys []string) bool {
	raw, _ := lookup(rec, keys)
	return strings.EqualFold(raw, "free")
}

// parseCount parses counts such as "1200", "1,200", "1.2k" or "3m".
func parseCount(raw string) (float64, bool) {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""))
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		mult, s = 1e3, strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		mult, s = 1e6, strings.TrimSuffix(s, "m")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return math.Max(v*mult, 0), true
}

// clampCount converts a parsed count to int64, saturating at math.MaxInt64.
func clampCount(n float64) int64 {
	if n >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}

func lookup(rec Record, keys []string) (string, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			if v = strings.TrimSpace(v); v != "" && !strings.EqualFold(v, "nan") {
				return v, true
			}
		}
	}
	return "", false
}

func lookupOr(rec Record, keys []string, def string) string {
	if v, ok := lookup(rec, keys); ok {
		return v
	}
	return def
}

func hasAnyValue(schema Schema, rec Record) bool {
	for _, keys := range [][]string{
		schema.Title, schema.URL, schema.Paid, schema.Price, schema.Enrollment, schema.Reviews,
		schema.Lectures, schema.Level, schema.Subject, schema.Duration, schema.Rating,
	} {
		if _, ok := lookup(rec, keys); ok {
			return true
		}
	}
	return false
}
