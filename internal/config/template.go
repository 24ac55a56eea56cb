package config

import (
	"fmt"
	"strings"
)

// ParseTemplate interprets a template file's text as a header comment and
// returns the comment kind ("block" or "line") with the lines it encodes.
// The text, after trimming outer whitespace, must itself be one block
// comment or a run of line comments.
func ParseTemplate(text string) (kind string, lines []string, err error) {
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, "/*"):
		if len(trimmed) < 4 || !strings.HasSuffix(trimmed, "*/") {
			return "", nil, fmt.Errorf("block comment never closes: %w", ErrBadTemplate)
		}
		inner := trimmed[2 : len(trimmed)-2]
		if strings.Contains(inner, "*/") {
			return "", nil, fmt.Errorf("block comment closes early: %w", ErrBadTemplate)
		}
		return "block", splitLines(inner), nil

	case strings.HasPrefix(trimmed, "//"):
		for _, physical := range splitLines(trimmed) {
			if !strings.HasPrefix(physical, "//") {
				return "", nil, fmt.Errorf("every line must start with //, got %q: %w", physical, ErrBadTemplate)
			}
			lines = append(lines, physical[2:])
		}
		return "line", lines, nil

	default:
		return "", nil, fmt.Errorf("template is not a comment: %w", ErrBadTemplate)
	}
}
