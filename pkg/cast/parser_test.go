package cast

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", nil},
		{"single newline", "\n", []string{""}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"bare cr", "a\rb", []string{"a", "b"}},
		{"blank middle line", "a\n\nb", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.content))
		})
	}
}

func TestParse(t *testing.T) {
	content := `{"version":2,"width":80,"height":24}
[0.1,"o","first"]

not json
{"not":"an array"}
[1,2]
  [0.3,"i","typed"]
[0.5,"o","last"]
`
	rec, err := Parse(context.Background(), content)
	require.NoError(t, err)

	assert.True(t, rec.Header.Valid)
	assert.Equal(t, `{"version":2,"width":80,"height":24}`, rec.Header.Raw)

	require.Len(t, rec.Events, 3)
	assert.Equal(t, "first", rec.Events[0].Data)
	assert.Equal(t, KindInput, rec.Events[1].Kind)
	assert.Equal(t, "last", rec.Events[2].Data)

	assert.Equal(t, 8, rec.Stats.Lines)
	assert.Equal(t, 1, rec.Stats.Blank)
	assert.Equal(t, 1, rec.Stats.Malformed)
	assert.Equal(t, 2, rec.Stats.BadShape)
	assert.Equal(t, 4, rec.Stats.Skipped())
}

func TestParse_MalformedBetweenValidLines(t *testing.T) {
	content := "{}\n[1.0,\"o\",\"a\"]\nnot json\n[2.0,\"o\",\"b\"]\n"

	rec, err := Parse(context.Background(), content)
	require.NoError(t, err)

	require.Len(t, rec.Events, 2)
	assert.Equal(t, "a", rec.Events[0].Data)
	assert.Equal(t, "b", rec.Events[1].Data)
}

func TestParse_InvalidHeader(t *testing.T) {
	rec, err := Parse(context.Background(), "not a header\n[0,\"o\",\"x\"]\n")
	require.NoError(t, err)

	assert.False(t, rec.Header.Valid)
	assert.Equal(t, "not a header", rec.Header.Raw)
	assert.Len(t, rec.Events, 1)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestParse_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Parse(ctx, "{}\n[0,\"o\",\"x\"]\n")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantErr     bool
		wantNumeric bool
		wantSeconds float64
		wantOutput  bool
		wantData    string
		wantDataOK  bool
	}{
		{
			name:        "output event",
			line:        `[1.25, "o", "hello"]`,
			wantNumeric: true,
			wantSeconds: 1.25,
			wantOutput:  true,
			wantData:    "hello",
			wantDataOK:  true,
		},
		{
			name:        "input event",
			line:        `[2, "i", "x"]`,
			wantNumeric: true,
			wantSeconds: 2,
		},
		{
			name:        "string timestamp",
			line:        `["3.5", "o", "x"]`,
			wantNumeric: true,
			wantSeconds: 3.5,
			wantOutput:  true,
			wantData:    "x",
			wantDataOK:  true,
		},
		{
			name:       "non-numeric timestamp",
			line:       `["soon", "o", "x"]`,
			wantOutput: true,
			wantData:   "x",
			wantDataOK: true,
		},
		{
			name:       "nan string timestamp",
			line:       `["nan", "o", "x"]`,
			wantOutput: true,
			wantData:   "x",
			wantDataOK: true,
		},
		{
			name:        "boolean timestamp",
			line:        `[true, "o", "x"]`,
			wantNumeric: true,
			wantSeconds: 1,
			wantOutput:  true,
			wantData:    "x",
			wantDataOK:  true,
		},
		{
			name:        "non-string kind",
			line:        `[1, 5, "x"]`,
			wantNumeric: true,
			wantSeconds: 1,
		},
		{
			name:        "non-string data",
			line:        `[1, "o", 42]`,
			wantNumeric: true,
			wantSeconds: 1,
			wantOutput:  true,
		},
		{name: "malformed", line: `[1, "o",`, wantErr: true},
		{name: "object", line: `{"a":1}`, wantErr: true},
		{name: "four elements", line: `[1, "o", "x", "y"]`, wantErr: true},
		{name: "scalar", line: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, err := ParseEvent(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantNumeric, evt.Time.Numeric)
			if tt.wantNumeric {
				assert.Equal(t, tt.wantSeconds, evt.Time.Seconds)
			}
			assert.Equal(t, tt.wantOutput, evt.IsOutput())

			data, ok := evt.OutputData()
			assert.Equal(t, tt.wantDataOK, ok)
			assert.Equal(t, tt.wantData, data)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.cast")
	content := "{\"version\":2}\n[0.5,\"o\",\"héllo\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rec, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, rec.Source)
	assert.Equal(t, []byte(content), rec.Raw)
	require.Len(t, rec.Events, 1)
	assert.Equal(t, "héllo", rec.Events[0].Data)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.cast")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	binary := filepath.Join(dir, "binary.cast")
	require.NoError(t, os.WriteFile(binary, []byte{'{', '}', '\n', 0xff, 0xfe}, 0644))

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing", filepath.Join(dir, "missing.cast"), ErrNotFound},
		{"directory", dir, ErrRead},
		{"invalid utf-8", binary, ErrRead},
		{"empty", empty, ErrEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.path)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.path)
		})
	}
}
