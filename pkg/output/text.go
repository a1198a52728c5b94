package output

import (
	"context"
	"fmt"
	"io"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	s := report.Summary
	_, err := fmt.Fprintf(w, "castclean: %d events read, %d removed, %d trimmed, %d written%s\n",
		s.EventsParsed, s.Removed, s.Trimmed, s.EventsWritten, fallbackNote(report))
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	s := report.Summary
	m := report.Metadata

	fmt.Fprintln(w, "=== castclean summary ===")
	fmt.Fprintf(w, "Input:  %s\n", m.Input)
	if m.Output != "" {
		fmt.Fprintf(w, "Output: %s\n", m.Output)
	}
	if !m.HeaderValid {
		fmt.Fprintln(w, "Header: not valid JSON (kept as is)")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Lines read:      %d\n", s.LinesRead)
	fmt.Fprintf(w, "Events parsed:   %d\n", s.EventsParsed)
	if skipped := s.BlankLines + s.MalformedLines + s.BadShapeLines; skipped > 0 {
		fmt.Fprintf(w, "Lines skipped:   %d (blank %d, malformed %d, bad shape %d)\n",
			skipped, s.BlankLines, s.MalformedLines, s.BadShapeLines)
	}
	fmt.Fprintf(w, "Unwanted:        %d removed\n", s.Removed)
	fmt.Fprintf(w, "Trailing blanks: %d trimmed\n", s.Trimmed)
	fmt.Fprintf(w, "Events written:  %d\n", s.EventsWritten)

	fmt.Fprintln(w, "---")
	switch {
	case m.Fallback:
		fmt.Fprintln(w, "No events left after filtering; input copied unchanged")
	case m.Rebased:
		fmt.Fprintf(w, "Timestamps rebased by -%g s\n", m.Base)
	default:
		fmt.Fprintln(w, "Timestamps kept")
	}

	_, err := fmt.Fprintf(w, "Duration: %s\n", m.Duration.Round(1e6))
	return err
}

func fallbackNote(report *Report) string {
	if report.Metadata.Fallback {
		return " (copied unchanged)"
	}
	return ""
}
