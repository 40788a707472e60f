package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/gradeparse/internal/cli"
)

// Default configuration constants.
const (
	defaultTimeout       = 30 * time.Second
	defaultMaxInputBytes = 1 << 20
)

func main() {
	var (
		file           = flag.String("file", "", "Input file (default: stdin)")
		baseURL        = flag.String("url", "", "Base URL of a running gradeparse server")
		stored         = flag.Bool("stored", false, "Report the server's stored courses (requires -url)")
		includePlanned = flag.Bool("include-planned", false, "Count planned courses in stored statistics")
		format         = flag.String("format", cli.FormatTable, "Output format: table or json")
		timeout        = flag.Duration("timeout", defaultTimeout, "Overall deadline")
		maxInput       = flag.Int64("max-input-bytes", defaultMaxInputBytes, "Input size cap")
		verbose        = flag.Bool("verbose", false, "Log rejected lines to stderr")
		help           = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		cli.ShowHelp(os.Stdout)
		return
	}

	if err := cli.SetupLogging(os.Stderr, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	cfg := &cli.Config{
		File:           *file,
		BaseURL:        *baseURL,
		Format:         *format,
		Stored:         *stored,
		IncludePlanned: *includePlanned,
		Timeout:        *timeout,
		MaxInputBytes:  *maxInput,
		Verbose:        *verbose,
	}
	if err := cli.Run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		os.Stderr.WriteString("gradeparse: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
