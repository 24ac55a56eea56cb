package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"

	"headerlint/internal/header"
)

// Spec compiles the configuration into the engine's header spec. Patterns
// compile here, before the engine ever runs, so the engine never sees an
// invalid one; a failure names the bad pattern. RE2 rejects JS-only regex
// features, which makes them config errors too.
func (c *Config) Spec() (*header.Spec, error) {
	kind := c.Comment
	rules := c.Rules

	if c.File != "" {
		path := c.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.Dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: cannot read template: %v: %w", path, err, ErrBadTemplate)
		}
		tKind, lines, err := ParseTemplate(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		// вид комментария из файла не должен спорить с явным comment
		if kind != "" && kind != tKind {
			return nil, fmt.Errorf("%s: template is a %s comment, config says %s: %w",
				path, tKind, kind, ErrBadTemplate)
		}
		kind = tKind
		rules = make([]Rule, len(lines))
		for i, line := range lines {
			rules[i] = Rule{Text: line}
		}
	}

	spec := &header.Spec{
		Kind:          header.BlockComment,
		TrailingLines: c.Trailing,
		EOL:           resolveEOL(c.EOL),
	}
	if kind == "line" {
		spec.Kind = header.LineComment
	}

	spec.Lines = make([]header.LineRule, len(rules))
	for i, rule := range rules {
		if !rule.IsPattern {
			spec.Lines[i] = header.Literal(rule.Text)
			continue
		}
		re, err := regexp.Compile(rule.Text)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %v: %w", rule.Text, err, ErrBadPattern)
		}
		if rule.HasTemplate {
			spec.Lines[i] = header.PatternWithTemplate(re, rule.Template)
		} else {
			spec.Lines[i] = header.PatternRule(re)
		}
	}
	return spec, nil
}

// resolveEOL maps the config value to the byte sequence joining rendered
// header lines.
func resolveEOL(v string) string {
	switch v {
	case "windows":
		return "\r\n"
	case "os":
		if runtime.GOOS == "windows" {
			return "\r\n"
		}
		return "\n"
	default:
		return "\n"
	}
}
