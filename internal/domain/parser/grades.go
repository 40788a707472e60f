package parser

import (
	"regexp"
	"strconv"
	"unicode"
)

// GradeToken maps a letter or word grade to its numeric score.
type GradeToken struct {
	Token string
	Value float64
}

type gradeRule struct {
	GradeToken
	pattern *regexp.Regexp
	text    string
}

// gradeRules is the fixed lookup table. Longer tokens precede the tokens they
// start with (A+ and A- before A, 优秀 before 优) so a bare prefix never
// claims a longer grade.
var gradeRules = compileGrades([]GradeToken{
	{"A+", 98}, {"A-", 91}, {"A", 95},
	{"B+", 88}, {"B-", 81}, {"B", 85},
	{"C+", 78}, {"C-", 71}, {"C", 75},
	{"D", 65}, {"F", 0},
	{"优秀", 95}, {"优", 95},
	{"良好", 85}, {"良", 85},
	{"中等", 75}, {"中", 75},
	{"不及格", 0}, {"及格", 65}, {"合格", 80},
	{"挂科", 0},
	{"Pass", 80}, {"Fail", 0},
})

func compileGrades(tokens []GradeToken) []gradeRule {
	const boundary = `[\s\p{Z}\p{P}]`
	rules := make([]gradeRule, len(tokens))
	for i, t := range tokens {
		rules[i] = gradeRule{
			GradeToken: t,
			pattern:    regexp.MustCompile(`(?i)(?:^|` + boundary + `)(` + regexp.QuoteMeta(t.Token) + `)(?:$|` + boundary + `)`),
			text:       strconv.FormatFloat(t.Value, 'f', -1, 64),
		}
	}
	return rules
}

// GradeTable returns a copy of the grade lookup table in precedence order.
func GradeTable() []GradeToken {
	out := make([]GradeToken, len(gradeRules))
	for i, r := range gradeRules {
		out[i] = r.GradeToken
	}
	return out
}

// NormalizeGrades rewrites grade tokens in line to their numeric value.
//
// Tokens match case-insensitively and only when bounded by line edges,
// whitespace or punctuation. Each token replaces its first occurrence only: a
// line is expected to carry a single grade, and a repeated token keeps its
// later occurrences verbatim.
func NormalizeGrades(line string) string {
	for _, r := range gradeRules {
		loc := r.pattern.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		line = line[:loc[2]] + r.text + line[loc[3]:]
	}
	return line
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}
