package intake

import (
	"net/url"
	"strings"

	"github.com/mattn/go-shellwords"
)

// SplitPaths splits a line of pasted or dropped paths. Terminals quote or
// backslash-escape paths containing spaces when a file is dragged onto them,
// and some emit file:// URIs instead. Unbalanced quotes fall back to plain
// whitespace splitting.
func SplitPaths(line string) []string {
	var out []string
	rest := []rune(line)
	for len(rest) > 0 {
		parser := shellwords.NewParser()
		words, err := parser.Parse(string(rest))
		if err != nil {
			words = strings.Fields(string(rest))
			parser.Position = -1
		}
		for _, w := range words {
			if w == "" {
				continue
			}
			out = append(out, fromURI(w))
		}
		// The parser stops at an unescaped control operator such as '&'.
		if parser.Position < 0 || parser.Position >= len(rest) {
			break
		}
		rest = rest[parser.Position+1:]
	}
	return out
}

func fromURI(s string) string {
	if !strings.HasPrefix(s, "file://") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil || u.Path == "" {
		return s
	}
	return u.Path
}
