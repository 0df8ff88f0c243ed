package types_test

import (
	"testing"

	json "github.com/goccy/go-json"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/upskill/internal/domain/model"
	types "github.com/okian/upskill/internal/domain/types"
)

func TestRecommendationsResponse(t *testing.T) {
	Convey("Given a recommendations response", t, func() {
		Convey("When nothing matched the filters", func() {
			r := types.RecommendationsResponse{JobRole: "Chef", RelevantSkills: []string{"Cooking"}}

			Convey("Then only the job role and an empty list are serialized", func() {
				So(r.Empty(), ShouldBeTrue)
				b, err := json.Marshal(r.Reduce())
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `{"job_role":"Chef","recommendations":[]}`)
			})
		})

		Convey("When courses matched but none scored", func() {
			r := types.RecommendationsResponse{JobRole: "Chef", TotalFiltered: 3}

			Convey("Then the full shape is serialized with empty lists", func() {
				So(r.Empty(), ShouldBeFalse)
				b, err := json.Marshal(r.Reduce())
				So(err, ShouldBeNil)

				var got map[string]any
				So(json.Unmarshal(b, &got), ShouldBeNil)
				So(got["recommendations"], ShouldResemble, []any{})
				So(got["relevant_skills"], ShouldResemble, []any{})
				So(got["total_filtered"], ShouldEqual, 3.0)
				So(got["skill_match_count"], ShouldEqual, 0.0)
				So(got["ai_enhanced"], ShouldEqual, false)
			})
		})

		Convey("When courses are returned", func() {
			r := types.RecommendationsResponse{
				JobRole:         "Data Scientist",
				Recommendations: []model.Course{{Title: "Python", Provider: "Udemy"}},
				TotalFiltered:   10,
			}

			Convey("Then each course carries its wire field names", func() {
				b, err := json.Marshal(r.Reduce())
				So(err, ShouldBeNil)
				So(string(b), ShouldContainSubstring, `"num_subscribers":0`)
				So(string(b), ShouldContainSubstring, `"popularity_score":0`)
				So(string(b), ShouldNotContainSubstring, `"enrichment"`)
			})
		})
	})
}

func TestAICoursesResponse(t *testing.T) {
	Convey("An error reply keeps an empty course list", t, func() {
		b, err := json.Marshal(types.AICoursesResponse{Courses: []model.Course{}, Error: "Gemini API not configured"})
		So(err, ShouldBeNil)
		So(string(b), ShouldEqual, `{"courses":[],"error":"Gemini API not configured"}`)
	})
}
