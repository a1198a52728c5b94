package cast

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// Load reads a recording from path into memory.
// Returns ErrNotFound if the file does not exist, ErrRead on any other read
// failure and ErrEmptyInput if the file has no lines.
func Load(ctx context.Context, path string) (*Recording, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided input path is expected
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w %s: %v", ErrRead, path, err)
	}

	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w %s: content is not valid UTF-8", ErrRead, path)
	}

	rec, err := Parse(ctx, string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	rec.Source = path
	rec.Raw = data

	return rec, nil
}

// Parse builds a recording from file content.
// Blank, malformed and wrongly shaped event lines are skipped and counted.
func Parse(ctx context.Context, content string) (*Recording, error) {
	lines := SplitLines(content)
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}

	rec := &Recording{
		Header: Header{
			Raw:   lines[0],
			Valid: gjson.Valid(lines[0]),
		},
		Stats: Stats{Lines: len(lines)},
	}

	for _, line := range lines[1:] {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line = strings.TrimSpace(line)
		if line == "" {
			rec.Stats.Blank++
			continue
		}

		evt, err := ParseEvent(line)
		switch {
		case errors.Is(err, errMalformed):
			rec.Stats.Malformed++
			continue
		case err != nil:
			rec.Stats.BadShape++
			continue
		}

		rec.Events = append(rec.Events, evt)
	}

	return rec, nil
}

var (
	errMalformed = errors.New("malformed JSON")
	errShape     = errors.New("not a 3-element array")
)

// ParseEvent parses one event line of the form [time, kind, data].
func ParseEvent(line string) (Event, error) {
	if !gjson.Valid(line) {
		return Event{}, errMalformed
	}

	v := gjson.Parse(line)
	if !v.IsArray() {
		return Event{}, errShape
	}
	parts := v.Array()
	if len(parts) != 3 {
		return Event{}, errShape
	}

	var evt Event
	evt.Time = parseTimestamp(parts[0])

	if parts[1].Type == gjson.String {
		evt.Kind = Kind(parts[1].Str)
	} else {
		evt.rawKind = parts[1].Raw
	}

	if parts[2].Type == gjson.String {
		evt.Data = parts[2].Str
	} else {
		evt.rawData = parts[2].Raw
	}

	return evt, nil
}

func parseTimestamp(v gjson.Result) Timestamp {
	ts := Timestamp{raw: v.Raw}
	switch v.Type {
	case gjson.Number:
		ts.Seconds = v.Num
		ts.Numeric = !math.IsInf(v.Num, 0)
	case gjson.String:
		ts.Seconds, ts.Numeric = parseSeconds(v.Str)
	case gjson.True:
		ts.Seconds, ts.Numeric = 1, true
	case gjson.False:
		ts.Seconds, ts.Numeric = 0, true
	}
	return ts
}

// SplitLines splits content on "\n", "\r\n" and "\r".
// A terminator at the end of content does not start a new line.
func SplitLines(content string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\n':
			lines = append(lines, content[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, content[start:i])
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}
