package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "fichas.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"read all (0)", 0, expectedAll},
		{"read all (negative)", -1, expectedAll},
		{"read partial (5)", 5, expectedAll[5:]},
		{"read exactly all (10)", 10, expectedAll},
		{"read more than exists (20)", 20, expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || lines != nil {
		t.Fatalf("Read(missing) = %v, %v; want nil, nil", lines, err)
	}
}

func TestParse(t *testing.T) {
	line := `{"time":"2026-03-02T10:15:04.5Z","level":"WARN","msg":"submission failed","app":"fichas","files":3,"error":"boom"}`
	e, ok := Parse(line)
	if !ok {
		t.Fatalf("Parse returned false")
	}
	if e.Level != "WARN" || e.Msg != "submission failed" {
		t.Fatalf("entry = %+v", e)
	}
	if e.Time.IsZero() || e.Time.Year() != 2026 {
		t.Fatalf("time = %v", e.Time)
	}
	if e.Attrs["files"] != float64(3) || e.Attrs["error"] != "boom" {
		t.Fatalf("attrs = %v", e.Attrs)
	}

	if _, ok := Parse("plain text line"); ok {
		t.Fatalf("Parse accepted plain text")
	}
}

func TestFormat(t *testing.T) {
	got := Format(Entry{
		Level: "info",
		Msg:   "result saved",
		Attrs: map[string]any{"path": "/tmp/x.xlsx", "app": "fichas", "bytes": 10},
	})
	// Tests run without a TTY, so lipgloss renders plain text.
	want := "INFO  result saved bytes=10 path=/tmp/x.xlsx"
	if got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestFormatLines_PassesThroughNonJSON(t *testing.T) {
	out := FormatLines([]string{"not json", `{"level":"ERROR","msg":"x"}`})
	if out[0] != "not json" {
		t.Fatalf("out[0] = %q", out[0])
	}
	if !strings.HasPrefix(out[1], "ERROR x") {
		t.Fatalf("out[1] = %q", out[1])
	}
}
