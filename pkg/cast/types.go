// Package cast provides reading, parsing and writing of asciicast v2 recordings.
package cast

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Kind is the single-character event type tag of an asciicast event.
type Kind string

const (
	// KindOutput is data written to the terminal.
	KindOutput Kind = "o"
	// KindInput is data read from the keyboard.
	KindInput Kind = "i"
	// KindMarker is a named marker.
	KindMarker Kind = "m"
	// KindResize is a terminal resize.
	KindResize Kind = "r"
)

// Errors returned by Load.
var (
	ErrNotFound   = errors.New("input file not found")
	ErrRead       = errors.New("failed reading input")
	ErrEmptyInput = errors.New("empty cast file")
)

// Header is the first line of a recording. It is kept as opaque text.
type Header struct {
	// Raw is the header line without its line terminator.
	Raw string

	// Valid reports whether Raw parsed as JSON.
	Valid bool
}

// Line returns the header with trailing newlines stripped and exactly one appended.
func (h Header) Line() string {
	return strings.TrimRight(h.Raw, "\n") + "\n"
}

// Timestamp is an event time in seconds.
type Timestamp struct {
	// Seconds is the numeric value. Only meaningful when Numeric is true.
	Seconds float64

	// Numeric reports whether the value converted to a number.
	Numeric bool

	// raw is the JSON text the timestamp was parsed from. Cleared when
	// Seconds is replaced.
	raw string
}

// Seconds returns a numeric timestamp.
func Seconds(v float64) Timestamp {
	return Timestamp{Seconds: v, Numeric: true}
}

// Event is a single recorded event.
type Event struct {
	Time Timestamp
	Kind Kind
	Data string

	// rawKind and rawData hold the JSON text of a kind or payload that was
	// not a string. Such events never match any filter.
	rawKind string
	rawData string
}

// IsOutput reports whether the event carries terminal output.
func (e *Event) IsOutput() bool {
	return e.rawKind == "" && e.Kind == KindOutput
}

// OutputData returns the payload of an output event with a string payload.
func (e *Event) OutputData() (string, bool) {
	if !e.IsOutput() || e.rawData != "" {
		return "", false
	}
	return e.Data, true
}

// SetSeconds replaces the event time with a numeric value.
func (e *Event) SetSeconds(v float64) {
	e.Time = Seconds(v)
}

// Stats counts input lines the parser did not turn into events.
type Stats struct {
	// Lines is the number of lines in the file, header included.
	Lines int

	// Blank is the number of whitespace-only event lines.
	Blank int

	// Malformed is the number of event lines that were not valid JSON.
	Malformed int

	// BadShape is the number of valid JSON lines that were not 3-element arrays.
	BadShape int
}

// Skipped returns the total number of event lines that were skipped.
func (s Stats) Skipped() int {
	return s.Blank + s.Malformed + s.BadShape
}

// Recording is a fully loaded recording.
type Recording struct {
	Header Header
	Events []Event
	Stats  Stats

	// Source is the path the recording was loaded from.
	Source string

	// Raw is the unmodified file content.
	Raw []byte
}

// parseSeconds converts a timestamp given as a JSON string to a number.
// NaN and infinities are not accepted.
func parseSeconds(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
