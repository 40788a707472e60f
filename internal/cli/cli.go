// Package cli implements the gradeparse command line tool.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/okian/gradeparse/pkg/logger"
)

// SetupLogging sends logs to w; verbose enables debug output.
func SetupLogging(w io.Writer, verbose bool) error {
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		logger.SetLevel(slog.LevelDebug)
	} else {
		logger.SetLevel(slog.LevelWarn)
	}
	return nil
}

// ShowHelp prints usage information.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `gradeparse
==========

Parses pasted transcript text into course records and prints the credit
weighted average, GPA and score distribution.

Usage:
  gradeparse [options] < transcript.txt

Options:
  -file string
        Input file (default: stdin)
  -url string
        Base URL of a running gradeparse server; parsing is delegated to its /parse
  -stored
        With -url, report the server's stored courses instead of parsing input
  -include-planned
        With -stored, count courses marked planned
  -format string
        Output format: table or json (default "table")
  -timeout duration
        Overall deadline (default 30s)
  -verbose
        Log rejected lines to stderr
  -help
        Show this help message

Examples:
  gradeparse -file grades.txt
  pbpaste | gradeparse -format json
  gradeparse -url http://localhost:9080 -file grades.txt
  gradeparse -url http://localhost:9080 -stored -include-planned
`)
}
