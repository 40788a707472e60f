package stats

import (
	"github.com/shopspring/decimal"

	"github.com/okian/gradeparse/internal/domain/model"
)

// Band is a fixed score interval [Min, Max); the top band also includes Max.
type Band struct {
	Label string
	Min   float64
	Max   float64
}

// BandTotal is the credit accumulated by courses scoring within a band.
type BandTotal struct {
	Label   string  `json:"label"`
	Credits float64 `json:"credits"`
}

var scoreBands = []Band{
	{Label: "90-100", Min: 90, Max: 100},
	{Label: "80-89", Min: 80, Max: 90},
	{Label: "70-79", Min: 70, Max: 80},
	{Label: "60-69", Min: 60, Max: 70},
	{Label: "0-59", Min: 0, Max: 60},
}

// Bands returns a copy of the score bands, highest first.
func Bands() []Band {
	out := make([]Band, len(scoreBands))
	copy(out, scoreBands)
	return out
}

// bandIndex returns the band holding score, or -1 for scores outside 0..100.
func bandIndex(score float64) int {
	for i, b := range scoreBands {
		if score >= b.Min && (score < b.Max || (i == 0 && score <= b.Max)) {
			return i
		}
	}
	return -1
}

// Distribution sums course credits per score band. Bands with no credit are
// left out; the rest keep band order.
func Distribution(courses []model.Course) []BandTotal {
	totals := make([]decimal.Decimal, len(scoreBands))
	for _, c := range courses {
		if i := bandIndex(c.Score); i >= 0 {
			totals[i] = totals[i].Add(decimal.NewFromFloat(c.Credit))
		}
	}

	out := make([]BandTotal, 0, len(scoreBands))
	for i, t := range totals {
		if t.IsZero() {
			continue
		}
		out = append(out, BandTotal{Label: scoreBands[i].Label, Credits: t.InexactFloat64()})
	}
	return out
}
