package api

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/okian/upskill/internal/domain/types"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// getValidator returns the shared validator. Field names in errors are the query parameter names.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			if name := f.Tag.Get("query"); name != "" {
				return name
			}
			return f.Name
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

type recommendQuery struct {
	JobRole    string `query:"job_role" validate:"notblank"`
	Paid       *bool  `query:"paid"`
	Platform   string `query:"platform"`
	UserSkills string `query:"user_skills"`
	Goal       string `query:"goal"`
	UseAI      bool   `query:"use_ai"`
}

type discoverQuery struct {
	JobRole string `query:"job_role" validate:"notblank"`
	Skills  string `query:"skills"`
}

type careerPathParam struct {
	JobRole string `query:"job_role" validate:"notblank"`
}

func parseRecommendQuery(q url.Values) recommendQuery {
	return recommendQuery{
		JobRole:    q.Get("job_role"),
		Paid:       parseBool(q.Get("paid")),
		Platform:   strings.TrimSpace(q.Get("platform")),
		UserSkills: q.Get("user_skills"),
		Goal:       q.Get("goal"),
		UseAI:      boolOr(parseBool(q.Get("use_ai")), false),
	}
}

func (q recommendQuery) params() types.RecommendParams {
	return types.RecommendParams{
		JobRole:    q.JobRole,
		Paid:       q.Paid,
		Platform:   q.Platform,
		UserSkills: splitSkills(q.UserSkills),
		Goal:       q.Goal,
		UseAI:      q.UseAI,
	}
}

// parseBool accepts the usual spellings of a boolean. Anything else is treated as absent.
func parseBool(s string) *bool {
	var v bool
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on", "t", "y":
		v = true
	case "false", "0", "no", "off", "f", "n":
		v = false
	default:
		return nil
	}
	return &v
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// splitSkills splits a comma-separated list, trimming entries and dropping empty ones.
func splitSkills(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// validateQuery validates v and turns validator errors into readable messages.
func validateQuery(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "notblank":
			msgs = append(msgs, fe.Field()+" is required")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
