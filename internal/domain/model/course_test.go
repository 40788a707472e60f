package model_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	model "github.com/okian/gradeparse/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewCourse(t *testing.T) {
	convey.Convey("Given course field values", t, func() {
		convey.Convey("When all fields are valid", func() {
			c, err := model.NewCourse("id-1", "  高等数学 ", 5, 92)

			convey.Convey("Then the course should be built with a trimmed name", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(c.ID, convey.ShouldEqual, "id-1")
				convey.So(c.Name, convey.ShouldEqual, "高等数学")
				convey.So(c.Credit, convey.ShouldEqual, 5.0)
				convey.So(c.Score, convey.ShouldEqual, 92.0)
				convey.So(c.Planned, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the name is empty", func() {
			_, err := model.NewCourse("id", "   ", 3, 80)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, model.ErrInvalidName), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the name has exactly 50 runes", func() {
			_, err := model.NewCourse("id", strings.Repeat("课", 50), 3, 80)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, model.ErrInvalidName), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the name has 49 runes", func() {
			_, err := model.NewCourse("id", strings.Repeat("课", 49), 3, 80)

			convey.Convey("Then it should be accepted", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the credit is negative or NaN", func() {
			_, errNeg := model.NewCourse("id", "英语", -1, 80)
			_, errNaN := model.NewCourse("id", "英语", math.NaN(), 80)

			convey.Convey("Then both should be rejected", func() {
				convey.So(errors.Is(errNeg, model.ErrInvalidCredit), convey.ShouldBeTrue)
				convey.So(errors.Is(errNaN, model.ErrInvalidCredit), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the score is outside 0..100", func() {
			_, errHigh := model.NewCourse("id", "英语", 3, 100.5)
			_, errLow := model.NewCourse("id", "英语", 3, -0.1)
			_, errEdge := model.NewCourse("id", "英语", 3, 100)

			convey.Convey("Then only the boundary value should pass", func() {
				convey.So(errors.Is(errHigh, model.ErrInvalidScore), convey.ShouldBeTrue)
				convey.So(errors.Is(errLow, model.ErrInvalidScore), convey.ShouldBeTrue)
				convey.So(errEdge, convey.ShouldBeNil)
			})
		})
	})
}

func TestExcludePlanned(t *testing.T) {
	convey.Convey("Given a mix of planned and taken courses", t, func() {
		courses := []model.Course{
			{ID: "1", Name: "a", Credit: 1, Score: 90},
			{ID: "2", Name: "b", Credit: 2, Score: 80, Planned: true},
			{ID: "3", Name: "c", Credit: 3, Score: 70},
		}

		convey.Convey("When excluding planned courses", func() {
			out := model.ExcludePlanned(courses)

			convey.Convey("Then only taken courses should remain in order", func() {
				convey.So(len(out), convey.ShouldEqual, 2)
				convey.So(out[0].ID, convey.ShouldEqual, "1")
				convey.So(out[1].ID, convey.ShouldEqual, "3")
				convey.So(len(courses), convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the input is empty", func() {
			out := model.ExcludePlanned(nil)

			convey.Convey("Then the result should be an empty slice", func() {
				convey.So(out, convey.ShouldNotBeNil)
				convey.So(len(out), convey.ShouldEqual, 0)
			})
		})
	})
}
