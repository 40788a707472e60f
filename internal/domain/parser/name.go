package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/okian/gradeparse/internal/domain/model"
)

const trailingNameJunk = "-–—:："

// ExtractName derives the course name from line once the two chosen numbers
// are removed. second is taken out first, then first, each at its last
// occurrence. It reports false when the name is empty or too long.
func ExtractName(line string, first, second NumericToken) (string, bool) {
	rest := removeLast(line, second.Text)
	rest = removeLast(rest, first.Text)

	name := strings.Join(strings.Fields(rest), " ")
	name = strings.TrimRightFunc(name, func(r rune) bool {
		return isSpace(r) || strings.ContainsRune(trailingNameJunk, r)
	})
	name = strings.TrimSpace(name)

	if n := utf8.RuneCountInString(name); n == 0 || n >= model.MaxNameLength {
		return "", false
	}
	return name, true
}

func removeLast(s, sub string) string {
	if sub == "" {
		return s
	}
	i := strings.LastIndex(s, sub)
	if i < 0 {
		return s
	}
	return s[:i] + s[i+len(sub):]
}
