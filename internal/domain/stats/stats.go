// Package stats computes weighted averages, GPA and score distributions over
// course records. Functions are pure and keep no state between calls.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/okian/gradeparse/internal/domain/model"
)

// Summary aggregates a list of courses.
type Summary struct {
	TotalCredits    float64 `json:"total_credits"`
	WeightedAverage float64 `json:"weighted_average"`
	GPA             float64 `json:"gpa"`
	Count           int     `json:"count"`
}

// Report bundles the summary with the credit distribution.
type Report struct {
	Summary      Summary     `json:"summary"`
	Distribution []BandTotal `json:"distribution"`
}

// Summarize computes credit-weighted average score and GPA. Both are 0 when
// the courses carry no credit.
func Summarize(courses []model.Course) Summary {
	var credits, weighted, points decimal.Decimal
	for _, c := range courses {
		credit := decimal.NewFromFloat(c.Credit)
		credits = credits.Add(credit)
		weighted = weighted.Add(decimal.NewFromFloat(c.Score).Mul(credit))
		points = points.Add(decimal.NewFromFloat(GradePoint(c.Score)).Mul(credit))
	}

	s := Summary{
		TotalCredits: credits.InexactFloat64(),
		Count:        len(courses),
	}
	if credits.IsZero() {
		return s
	}
	s.WeightedAverage = weighted.Div(credits).InexactFloat64()
	s.GPA = points.Div(credits).InexactFloat64()
	return s
}

// Compute returns the summary and distribution for courses.
func Compute(courses []model.Course) Report {
	return Report{
		Summary:      Summarize(courses),
		Distribution: Distribution(courses),
	}
}
