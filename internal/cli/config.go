package cli

import (
	"time"

	"github.com/okian/gradeparse/internal/domain/model"
	"github.com/okian/gradeparse/internal/domain/stats"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Config holds configuration for one CLI run.
type Config struct {
	File           string        // input file; empty or "-" reads stdin
	BaseURL        string        // delegate to a running server when set
	Format         string        // table or json
	Stored         bool          // report the server's stored courses instead of parsing input
	IncludePlanned bool          // count planned courses in stored statistics
	Timeout        time.Duration // overall deadline
	MaxInputBytes  int64         // input size cap
	Verbose        bool          // log rejected lines
}

// Output is what a run prints.
type Output struct {
	Courses      []model.Course    `json:"courses"`
	Rejected     int               `json:"rejected"`
	Source       string            `json:"source,omitempty"`
	Summary      stats.Summary     `json:"summary"`
	Distribution []stats.BandTotal `json:"distribution"`
	Message      string            `json:"message,omitempty"`
}
