package parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var lineBreak = regexp.MustCompile(`\r\n|\r|\n`)

// separatorReplacer dissolves table cell boundaries and alternate separators
// into plain spaces.
var separatorReplacer = strings.NewReplacer(
	"|", " ",
	",", " ",
	"，", " ",
	"\t", " ",
)

// Preprocess splits raw pasted text into cleaned, non-empty lines.
//
// Markdown divider rows (only '|', '-', ':' and whitespace) are dropped, table
// pipes and ',', '，', tab separators become spaces and every line is trimmed.
// Running Preprocess over its own joined output returns the same lines.
func Preprocess(text string) []string {
	text = norm.NFC.String(text)
	raw := lineBreak.Split(text, -1)

	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cleaned := strings.TrimSpace(separatorReplacer.Replace(line))
		if isDivider(cleaned) {
			continue
		}
		lines = append(lines, cleaned)
	}
	return lines
}

// isDivider reports whether s holds nothing but Markdown table divider
// characters. Pipes are already gone when this runs on a cleaned line, so an
// empty string counts as a divider too.
func isDivider(s string) bool {
	for _, r := range s {
		switch r {
		case '|', '-', ':':
		default:
			if !isSpace(r) {
				return false
			}
		}
	}
	return true
}
