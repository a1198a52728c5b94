// Package filter removes noise events from recordings and rebases their timestamps.
package filter

import (
	"context"
	"math"
	"strconv"

	"github.com/ccollicutt/castclean/pkg/cast"
)

// Default filter values.
const (
	// DefaultPrecision is the number of decimal digits kept when rebasing.
	DefaultPrecision = 6
)

// DefaultUnwanted are output payloads that are always removed: the
// application keypad mode switch and the cursor-show sequence.
var DefaultUnwanted = []string{
	"\x1b[?1h\x1b=",
	"\x1b[?25h",
}

// DefaultTrailing are output payloads trimmed from the end of a recording.
var DefaultTrailing = []string{"\n", "\r", "\r\n"}

// Filter cleans a recording.
type Filter struct {
	unwanted  map[string]bool
	trailing  map[string]bool
	rebase    bool
	precision int
}

// Option configures filter behavior.
type Option func(*Filter)

// WithUnwanted adds exact output payloads to remove. Empty strings are ignored.
func WithUnwanted(values []string) Option {
	return func(f *Filter) {
		for _, v := range values {
			if v != "" {
				f.unwanted[v] = true
			}
		}
	}
}

// WithTrailing replaces the set of payloads trimmed from the end.
func WithTrailing(values []string) Option {
	return func(f *Filter) {
		if len(values) == 0 {
			return
		}
		f.trailing = toSet(values)
	}
}

// WithRebase enables or disables timestamp rebasing.
func WithRebase(enabled bool) Option {
	return func(f *Filter) {
		f.rebase = enabled
	}
}

// WithPrecision sets the number of decimal digits kept when rebasing.
func WithPrecision(digits int) Option {
	return func(f *Filter) {
		f.precision = digits
	}
}

// New creates a filter with the default unwanted and trailing sets and rebasing enabled.
func New(opts ...Option) *Filter {
	f := &Filter{
		unwanted:  toSet(DefaultUnwanted),
		trailing:  toSet(DefaultTrailing),
		rebase:    true,
		precision: DefaultPrecision,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Result is the outcome of filtering a recording.
type Result struct {
	// Header is the recording header, passed through untouched.
	Header cast.Header

	// Events are the retained events in their original order.
	// Empty when Fallback is set.
	Events []cast.Event

	// Parsed is the number of events read from the recording.
	Parsed int

	// Removed is the number of unwanted output events dropped.
	Removed int

	// Trimmed is the number of trailing blank output events dropped.
	Trimmed int

	// Fallback is set when nothing remained and the input must be copied unchanged.
	Fallback bool

	// Rebased is set when timestamps were shifted.
	Rebased bool

	// Base is the value subtracted from every numeric timestamp.
	Base float64
}

// Apply runs the filter over a recording. The recording's events are not modified.
func (f *Filter) Apply(ctx context.Context, rec *cast.Recording) (*Result, error) {
	result := &Result{
		Header: rec.Header,
		Parsed: len(rec.Events),
	}

	events := make([]cast.Event, 0, len(rec.Events))
	for i := range rec.Events {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if f.isUnwanted(&rec.Events[i]) {
			result.Removed++
			continue
		}
		events = append(events, rec.Events[i])
	}

	cut := f.trailingCut(events)
	result.Trimmed = len(events) - cut
	events = events[:cut]

	if len(events) == 0 {
		result.Fallback = true
		return result, nil
	}

	if f.rebase {
		result.Base = Rebase(events, f.precision)
		result.Rebased = true
	}

	result.Events = events
	return result, nil
}

func (f *Filter) isUnwanted(e *cast.Event) bool {
	data, ok := e.OutputData()
	return ok && f.unwanted[data]
}

// trailingCut returns the index after the last event that is not a trailing blank.
func (f *Filter) trailingCut(events []cast.Event) int {
	cut := len(events)
	for cut > 0 {
		data, ok := events[cut-1].OutputData()
		if !ok || !f.trailing[data] {
			break
		}
		cut--
	}
	return cut
}

// Rebase shifts numeric timestamps so the first event starts at zero, rounding
// to the given number of decimal digits. If the first timestamp is not numeric
// the base is zero. Non-numeric timestamps, and those whose shifted value
// overflows, are left unchanged.
func Rebase(events []cast.Event, precision int) float64 {
	if len(events) == 0 {
		return 0
	}

	var base float64
	if events[0].Time.Numeric {
		base = events[0].Time.Seconds
	}

	for i := range events {
		if !events[i].Time.Numeric {
			continue
		}
		shifted := events[i].Time.Seconds - base
		if math.IsInf(shifted, 0) || math.IsNaN(shifted) {
			continue
		}
		events[i].SetSeconds(round(shifted, precision))
	}

	return base
}

// round rounds on the decimal form of v so values just below a half-way
// point are not pushed over it.
func round(v float64, digits int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', digits, 64), 64)
	if err != nil || r == 0 {
		return 0
	}
	return r
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
