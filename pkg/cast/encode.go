package cast

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// MarshalEvent renders an event as a JSON array line without a terminator.
// Strings are written with non-ASCII and HTML characters unescaped.
func MarshalEvent(e *Event) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('[')
	buf.WriteString(formatTimestamp(e.Time))
	buf.WriteString(", ")

	if e.rawKind != "" {
		buf.WriteString(e.rawKind)
	} else if err := writeString(&buf, string(e.Kind)); err != nil {
		return nil, fmt.Errorf("encoding kind: %w", err)
	}
	buf.WriteString(", ")

	if e.rawData != "" {
		buf.WriteString(e.rawData)
	} else if err := writeString(&buf, e.Data); err != nil {
		return nil, fmt.Errorf("encoding data: %w", err)
	}
	buf.WriteByte(']')

	return buf.Bytes(), nil
}

// Encode writes the header line followed by one line per event.
func Encode(w io.Writer, header Header, events []Event) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(header.Line()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := range events {
		line, err := MarshalEvent(&events[i])
		if err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("writing event %d: %w", i, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing event %d: %w", i, err)
		}
	}

	return bw.Flush()
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// formatTimestamp keeps the original text of untouched timestamps. Replaced
// ones use plain decimals with at least one fractional digit, switching to
// exponent form for very large or very small magnitudes. Values that JSON
// cannot represent are written as null.
func formatTimestamp(ts Timestamp) string {
	if ts.raw != "" {
		return ts.raw
	}

	v := ts.Seconds
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "null"
	}

	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
