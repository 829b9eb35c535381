package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count, idx := 0, 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one record written by the slog JSON handler.
type Entry struct {
	Time  time.Time
	Level string
	Msg   string
	Attrs map[string]any
}

// Parse decodes a slog JSON line. Lines that are not JSON objects report
// false.
func Parse(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	e := Entry{Attrs: make(map[string]any)}
	for k, v := range raw {
		switch k {
		case "time":
			if s, ok := v.(string); ok {
				e.Time, _ = time.Parse(time.RFC3339Nano, s)
			}
		case "level":
			e.Level, _ = v.(string)
		case "msg":
			e.Msg, _ = v.(string)
		default:
			e.Attrs[k] = v
		}
	}
	return e, true
}

var levelStyles = map[string]lipgloss.Style{
	"DEBUG": lipgloss.NewStyle().Foreground(lipgloss.Color("#63cdcf")),
	"INFO":  lipgloss.NewStyle().Foreground(lipgloss.Color("#81b29a")).Bold(true),
	"WARN":  lipgloss.NewStyle().Foreground(lipgloss.Color("#dbc074")).Bold(true),
	"ERROR": lipgloss.NewStyle().Foreground(lipgloss.Color("#c94f6d")).Bold(true),
}

var (
	timeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#738091"))
	keyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#719cd6"))
)

// Format renders e as a single human readable line. Attributes are sorted by
// key; the constant app attribute is omitted.
func Format(e Entry) string {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(timeStyle.Render(e.Time.Local().Format("2006-01-02 15:04:05")))
		b.WriteString(" ")
	}
	level := strings.ToUpper(e.Level)
	style, ok := levelStyles[level]
	if !ok {
		style = lipgloss.NewStyle()
	}
	b.WriteString(style.Render(fmt.Sprintf("%-5s", level)))
	b.WriteString(" ")
	b.WriteString(e.Msg)

	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		if k != "app" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", keyStyle.Render(k), e.Attrs[k])
	}
	return b.String()
}

// FormatLines formats every parseable line and passes others through.
func FormatLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if e, ok := Parse(line); ok {
			out[i] = Format(e)
		} else {
			out[i] = line
		}
	}
	return out
}
