package parser

// CreditCeiling is the largest value still read as a credit load.
const CreditCeiling = 20.0

// Rule names the branch of the credit/score decision procedure that fired.
type Rule string

// Decision branches, evaluated in declaration order.
const (
	// RuleCreditFirst: small value then large value.
	RuleCreditFirst Rule = "credit_first"
	// RuleScoreFirst: large value then small value.
	RuleScoreFirst Rule = "score_first"
	// RulePositional: magnitudes do not separate the two, so the common
	// "name credit score" column order is assumed. Two small or two large
	// numbers are resolved this way even when the source meant otherwise.
	RulePositional Rule = "positional"
)

// Resolution is the outcome of Disambiguate.
type Resolution struct {
	Credit NumericToken
	Score  NumericToken
	Rule   Rule
}

// Disambiguate decides which of the last two numbers on a line is the credit
// and which is the score. v1 is the second-to-last number, v2 the last.
func Disambiguate(v1, v2 NumericToken) Resolution {
	switch {
	case v1.Value <= CreditCeiling && v2.Value > CreditCeiling:
		return Resolution{Credit: v1, Score: v2, Rule: RuleCreditFirst}
	case v2.Value <= CreditCeiling && v1.Value > CreditCeiling:
		return Resolution{Credit: v2, Score: v1, Rule: RuleScoreFirst}
	default:
		return Resolution{Credit: v1, Score: v2, Rule: RulePositional}
	}
}
