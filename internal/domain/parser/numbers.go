package parser

import (
	"regexp"
	"strconv"
)

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// NumericToken is an unsigned integer or decimal found in a line.
type NumericToken struct {
	Text  string  // exact matched text
	Value float64 // parsed value
	Start int     // byte offset of the match
	End   int     // byte offset just past the match
}

// ExtractNumbers returns every numeric substring of line, left to right.
func ExtractNumbers(line string) []NumericToken {
	matches := numberPattern.FindAllStringIndex(line, -1)
	tokens := make([]NumericToken, 0, len(matches))
	for _, m := range matches {
		text := line[m[0]:m[1]]
		// Overlong digit runs overflow to +Inf, which the record filter rejects.
		v, _ := strconv.ParseFloat(text, 64)
		tokens = append(tokens, NumericToken{Text: text, Value: v, Start: m[0], End: m[1]})
	}
	return tokens
}
