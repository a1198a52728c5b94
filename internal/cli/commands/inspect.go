package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/castclean/internal/console"
	"github.com/ccollicutt/castclean/pkg/output"
)

// InspectOptions holds command-line options for the inspect command.
type InspectOptions struct {
	FilterOptions

	Input string
	Quiet bool
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Report what cleaning would do without writing anything",
		Long: `Run the filter over a recording in memory and print a summary.

Uses the same configuration, environment and filter flags as castclean.
No output file is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runInspect(cmd, opts); err != nil {
				ExitCode = ExitError
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Path to .cast file")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "One-line summary only")

	addFilterFlags(cmd, &opts.FilterOptions, "text")

	return cmd
}

func runInspect(cmd *cobra.Command, opts *InspectOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	con := console.New(cmd.ErrOrStderr(), opts.NoColor)

	name := opts.Summary
	if name == "" || name == "none" {
		name = "text"
	}
	formatter, err := output.NewFormatter(name, output.FormatOptions{Quiet: opts.Quiet})
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

	report := output.NewReport(rec, result, "", time.Since(start))
	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting summary: %w", err)
	}

	return nil
}
