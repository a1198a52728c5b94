// Package output provides formatting for cleaning run summaries.
package output

import (
	"time"

	"github.com/ccollicutt/castclean/pkg/cast"
	"github.com/ccollicutt/castclean/pkg/filter"
)

// Report is the complete summary of a cleaning run.
type Report struct {
	// Summary provides event counts.
	Summary Summary `json:"summary"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides event counts.
type Summary struct {
	// LinesRead is the number of lines in the input, header included.
	LinesRead int `json:"lines_read"`

	// EventsParsed is the number of well-formed events read.
	EventsParsed int `json:"events_parsed"`

	// BlankLines, MalformedLines and BadShapeLines count skipped event lines.
	BlankLines     int `json:"blank_lines"`
	MalformedLines int `json:"malformed_lines"`
	BadShapeLines  int `json:"bad_shape_lines"`

	// Removed is the number of unwanted output events dropped.
	Removed int `json:"removed"`

	// Trimmed is the number of trailing blank output events dropped.
	Trimmed int `json:"trimmed"`

	// EventsWritten is the number of events in the output.
	// Equal to EventsParsed when the input was copied unchanged.
	EventsWritten int `json:"events_written"`
}

// Metadata provides context about the run.
type Metadata struct {
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`

	// HeaderValid reports whether the header parsed as JSON.
	HeaderValid bool `json:"header_valid"`

	// Fallback is set when the input was copied unchanged.
	Fallback bool `json:"fallback"`

	// Rebased is set when timestamps were shifted by Base.
	Rebased bool    `json:"rebased"`
	Base    float64 `json:"base"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from a loaded recording and its filter result.
func NewReport(rec *cast.Recording, result *filter.Result, outputPath string, elapsed time.Duration) *Report {
	report := &Report{
		Summary: Summary{
			LinesRead:      rec.Stats.Lines,
			EventsParsed:   result.Parsed,
			BlankLines:     rec.Stats.Blank,
			MalformedLines: rec.Stats.Malformed,
			BadShapeLines:  rec.Stats.BadShape,
			Removed:        result.Removed,
			Trimmed:        result.Trimmed,
			EventsWritten:  len(result.Events),
		},
		Metadata: Metadata{
			Input:       rec.Source,
			Output:      outputPath,
			HeaderValid: rec.Header.Valid,
			Fallback:    result.Fallback,
			Rebased:     result.Rebased,
			Base:        result.Base,
			Duration:    elapsed,
		},
	}

	if result.Fallback {
		report.Summary.EventsWritten = result.Parsed
	}

	return report
}

// Changed returns true if the output differs from the input.
func (r *Report) Changed() bool {
	return !r.Metadata.Fallback
}
