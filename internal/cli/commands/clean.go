package commands

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/castclean/internal/console"
	"github.com/ccollicutt/castclean/internal/filelock"
	"github.com/ccollicutt/castclean/pkg/cast"
	"github.com/ccollicutt/castclean/pkg/config"
	"github.com/ccollicutt/castclean/pkg/filter"
	"github.com/ccollicutt/castclean/pkg/output"
)

// ExitCode is set by commands when a run fails after argument parsing.
var ExitCode = 0

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// FilterOptions holds the flags shared by commands that run the filter.
type FilterOptions struct {
	ConfigPath    string
	Filters       []string
	DisableRebase bool
	Summary       string
	NoColor       bool
}

// CleanOptions holds command-line options for the clean command.
type CleanOptions struct {
	FilterOptions

	Input  string
	Output string
}

// NewCleanCommand creates the clean command. It is used as the root command.
func NewCleanCommand() *cobra.Command {
	opts := &CleanOptions{}

	cmd := &cobra.Command{
		Use:   "castclean",
		Short: "Remove noise events from asciicast recordings",
		Long: `castclean filters an asciicast v2 recording.

It:
  - Removes output events that are exactly an unwanted escape sequence
    (application keypad mode and cursor show, plus any extra filters)
  - Trims trailing output events that are only "\n", "\r" or "\r\n"
  - Rebases timestamps so the first event starts at 0 (unless --disable-rebase)

If nothing would be left, the input is copied to the output unchanged.

Environment:
  EXTRA_FILTER              comma-separated extra output strings to remove
  CASTCLEAN_DISABLE_REBASE  set to true to keep original timestamps

Exit codes:
  0 - Success (including unchanged copy)
  1 - Input missing, unreadable or empty, or output not writable
  2 - Invalid arguments`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runClean(cmd, opts); err != nil {
				ExitCode = ExitError
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Path to raw .cast file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Path to write cleaned .cast file")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	addFilterFlags(cmd, &opts.FilterOptions, "none")

	return cmd
}

func addFilterFlags(cmd *cobra.Command, opts *FilterOptions, summaryDefault string) {
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringArrayVarP(&opts.Filters, "filter", "f", nil, "Extra output string to remove (can be repeated)")
	cmd.Flags().BoolVar(&opts.DisableRebase, "disable-rebase", false, "Do not rebase timestamps to start at 0")
	cmd.Flags().StringVar(&opts.Summary, "summary", summaryDefault, "Run summary format (none|text|json)")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "Disable colored diagnostics")
}

func runClean(cmd *cobra.Command, opts *CleanOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	con := console.New(cmd.ErrOrStderr(), opts.NoColor)

	formatter, err := summaryFormatter(opts.Summary)
	if err != nil {
		return err
	}

	f, err := buildFilter(ctx, &opts.FilterOptions)
	if err != nil {
		return err
	}

	rec, err := loadRecording(ctx, con, opts.Input)
	if err != nil {
		return err
	}

	result, err := f.Apply(ctx, rec)
	if err != nil {
		return fmt.Errorf("filtering %s: %w", opts.Input, err)
	}

	data := rec.Raw
	if !result.Fallback {
		var buf bytes.Buffer
		if err := cast.Encode(&buf, result.Header, result.Events); err != nil {
			return fmt.Errorf("encoding %s: %w", opts.Output, err)
		}
		data = buf.Bytes()
	}

	if err := filelock.LockAndWrite(opts.Output, data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if formatter != nil {
		report := output.NewReport(rec, result, opts.Output, time.Since(start))
		if err := formatter.Format(ctx, report, cmd.ErrOrStderr()); err != nil {
			return fmt.Errorf("formatting summary: %w", err)
		}
	}

	return nil
}

// buildFilter resolves configuration and applies flag overrides on top of it.
func buildFilter(ctx context.Context, opts *FilterOptions) (*filter.Filter, error) {
	cfg, err := config.Resolve(ctx, opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.DisableRebase {
		cfg.DisableRebase = true
	}
	cfg.ExtraFilters = append(cfg.ExtraFilters, opts.Filters...)

	return filter.New(cfg.FilterOptions()...), nil
}

// loadRecording loads the input and warns about an invalid header.
func loadRecording(ctx context.Context, con *console.Console, path string) (*cast.Recording, error) {
	rec, err := cast.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	if !rec.Header.Valid {
		con.Warnf("header line not valid JSON object")
	}

	return rec, nil
}

// summaryFormatter returns nil when no summary is requested.
func summaryFormatter(name string) (output.Formatter, error) {
	if name == "" || name == "none" {
		return nil, nil
	}
	return output.NewFormatter(name, output.FormatOptions{})
}
