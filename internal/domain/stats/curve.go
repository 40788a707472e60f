package stats

// CurvePoint is one step of the grade-point curve: scores at or above
// Threshold earn Points.
type CurvePoint struct {
	Threshold float64 `json:"threshold"`
	Points    float64 `json:"points"`
}

// gradePointCurve is ordered from the highest threshold down.
var gradePointCurve = []CurvePoint{
	{90, 4.0},
	{85, 3.7},
	{82, 3.3},
	{78, 3.0},
	{75, 2.7},
	{72, 2.3},
	{68, 2.0},
	{64, 1.5},
	{60, 1.0},
}

// Curve returns a copy of the grade-point curve.
func Curve() []CurvePoint {
	out := make([]CurvePoint, len(gradePointCurve))
	copy(out, gradePointCurve)
	return out
}

// GradePoint maps a score onto the 4.0 scale. Scores below 60 earn 0.
func GradePoint(score float64) float64 {
	for _, p := range gradePointCurve {
		if score >= p.Threshold {
			return p.Points
		}
	}
	return 0
}
