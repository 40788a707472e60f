package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/gradeparse/internal/domain/model"
	"github.com/okian/gradeparse/internal/domain/parser"
	"github.com/okian/gradeparse/internal/domain/stats"
	"github.com/okian/gradeparse/pkg/logger"
)

const defaultMaxInputBytes int64 = 1 << 20

// Run executes one CLI invocation. stdin is read when cfg.File is empty.
func Run(ctx context.Context, cfg *Config, stdin io.Reader, stdout io.Writer) error {
	log := logger.Get().Named("cli")
	if cfg.Format != FormatTable && cfg.Format != FormatJSON && cfg.Format != "" {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}

	var (
		out Output
		err error
	)
	switch {
	case cfg.Stored:
		if cfg.BaseURL == "" {
			return ErrStoredNeedURL
		}
		out, err = newHTTPClient(cfg.BaseURL, cfg.Timeout).Stored(ctx, cfg.IncludePlanned)
	case cfg.BaseURL != "":
		var text string
		if text, err = readInput(cfg, stdin); err != nil {
			return err
		}
		log.Debug(ctx, "delegating parse", logger.String("url", cfg.BaseURL), logger.Int("bytes", len(text)))
		out, err = newHTTPClient(cfg.BaseURL, cfg.Timeout).Parse(ctx, text)
	default:
		var text string
		if text, err = readInput(cfg, stdin); err != nil {
			return err
		}
		out = parseLocal(ctx, log, text)
	}
	if err != nil {
		return err
	}
	if out.Courses == nil {
		out.Courses = []model.Course{}
	}
	if len(out.Courses) == 0 && out.Message == "" {
		out.Message = noCoursesMessage
	}
	return Render(stdout, cfg.Format, out)
}

func parseLocal(ctx context.Context, log logger.Logger, text string) Output {
	rep := parser.New().ParseWithReport(text)
	for _, r := range rep.Rejected {
		log.Debug(ctx, "line rejected", logger.String("line", r.Line), logger.String("reason", string(r.Reason)))
	}
	report := stats.Compute(rep.Courses)
	return Output{
		Courses:      rep.Courses,
		Rejected:     len(rep.Rejected),
		Source:       "local",
		Summary:      report.Summary,
		Distribution: report.Distribution,
	}
}

func readInput(cfg *Config, stdin io.Reader) (string, error) {
	limit := cfg.MaxInputBytes
	if limit <= 0 {
		limit = defaultMaxInputBytes
	}

	r := stdin
	if cfg.File != "" && cfg.File != "-" {
		f, err := os.Open(cfg.File)
		if err != nil {
			return "", fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, limit)
	}
	return string(data), nil
}
