package config

import (
	"errors"
	"testing"

	"headerlint/internal/header"
)

func TestSpec_Literals(t *testing.T) {
	cfg := &Config{
		Comment:  "line",
		Rules:    []Rule{{Text: "a"}, {Text: "b"}},
		Trailing: 2,
		EOL:      "windows",
	}
	spec, err := cfg.Spec()
	if err != nil {
		t.Fatalf("Spec: %v", err)
	}
	if spec.Kind != header.LineComment || spec.TrailingLines != 2 || spec.EOL != "\r\n" {
		t.Errorf("spec = %+v", spec)
	}
	if len(spec.Lines) != 2 || spec.Lines[0].Kind != header.RuleLiteral || spec.Lines[0].Text != "a" {
		t.Errorf("Lines = %+v", spec.Lines)
	}
}

func TestSpec_DefaultsToBlockAndUnix(t *testing.T) {
	cfg := &Config{Rules: []Rule{{Text: "H"}}, Trailing: 1, EOL: "unix"}
	spec, err := cfg.Spec()
	if err != nil {
		t.Fatalf("Spec: %v", err)
	}
	if spec.Kind != header.BlockComment || spec.EOL != "\n" {
		t.Errorf("spec = %+v", spec)
	}
}

func TestSpec_Patterns(t *testing.T) {
	cfg := &Config{
		Comment: "block",
		Rules: []Rule{
			{IsPattern: true, Text: `Copyright \d{4}`},
			{IsPattern: true, Text: `.*`, Template: "ACME Corp", HasTemplate: true},
		},
		Trailing: 1,
		EOL:      "unix",
	}
	spec, err := cfg.Spec()
	if err != nil {
		t.Fatalf("Spec: %v", err)
	}
	if spec.Lines[0].Kind != header.RulePattern || spec.Lines[0].HasTemplate {
		t.Errorf("Lines[0] = %+v", spec.Lines[0])
	}
	if !spec.Lines[1].HasTemplate || spec.Lines[1].Template != "ACME Corp" {
		t.Errorf("Lines[1] = %+v", spec.Lines[1])
	}
	if spec.CanFix() {
		t.Error("a pattern without template must make the spec unfixable")
	}
}

func TestSpec_BadPattern(t *testing.T) {
	tests := []string{`(unclosed`, `(?!lookahead)`}
	for _, pattern := range tests {
		cfg := &Config{Rules: []Rule{{IsPattern: true, Text: pattern}}, Trailing: 1, EOL: "unix"}
		if _, err := cfg.Spec(); !errors.Is(err, ErrBadPattern) {
			t.Errorf("pattern %q: err = %v, want ErrBadPattern", pattern, err)
		}
	}
}

func TestSpec_TemplateFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "header.txt", "//My Library\n//Copyright 2026\n")

	cfg := &Config{Dir: dir, File: "header.txt", Trailing: 1, EOL: "unix"}
	spec, err := cfg.Spec()
	if err != nil {
		t.Fatalf("Spec: %v", err)
	}
	if spec.Kind != header.LineComment || len(spec.Lines) != 2 {
		t.Fatalf("spec = %+v", spec)
	}
	if spec.Lines[0].Text != "My Library" || spec.Lines[1].Text != "Copyright 2026" {
		t.Errorf("Lines = %+v", spec.Lines)
	}
}

func TestSpec_TemplateKindConflict(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "header.txt", "/*H*/")

	cfg := &Config{Dir: dir, Comment: "line", File: "header.txt", Trailing: 1, EOL: "unix"}
	if _, err := cfg.Spec(); !errors.Is(err, ErrBadTemplate) {
		t.Errorf("err = %v, want ErrBadTemplate", err)
	}

	// совпадающий вид конфликтом не считается
	cfg.Comment = "block"
	if _, err := cfg.Spec(); err != nil {
		t.Errorf("matching kind: %v", err)
	}
}

func TestSpec_TemplateFileMissing(t *testing.T) {
	cfg := &Config{Dir: t.TempDir(), File: "absent.txt", Trailing: 1, EOL: "unix"}
	if _, err := cfg.Spec(); !errors.Is(err, ErrBadTemplate) {
		t.Errorf("err = %v, want ErrBadTemplate", err)
	}
}

func TestResolveEOL(t *testing.T) {
	if resolveEOL("unix") != "\n" || resolveEOL("windows") != "\r\n" {
		t.Error("unix/windows mapping broken")
	}
	if got := resolveEOL("os"); got != "\n" && got != "\r\n" {
		t.Errorf("os mapped to %q", got)
	}
}
