package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// rawHeader is the header section as it appears on disk, before
// normalization. Trailing is a pointer so an absent key can default.
type rawHeader struct {
	Comment  string    `toml:"comment" yaml:"comment" json:"comment"`
	Lines    []string  `toml:"lines" yaml:"lines" json:"lines"`
	Rules    []rawRule `toml:"rules" yaml:"rules" json:"rules"`
	File     string    `toml:"file" yaml:"file" json:"file"`
	Trailing *int      `toml:"trailing" yaml:"trailing" json:"trailing"`
	EOL      string    `toml:"eol" yaml:"eol" json:"eol"`
}

type rawRule struct {
	Text     *string `toml:"text" yaml:"text" json:"text"`
	Pattern  *string `toml:"pattern" yaml:"pattern" json:"pattern"`
	Template *string `toml:"template" yaml:"template" json:"template"`
}

// rawDoc is a decoded file before normalization: exactly one of header and
// legacy is set.
type rawDoc struct {
	header *rawHeader
	legacy []any
	check  CheckConfig
}

// Load reads and normalizes one config file. The format follows the file
// extension.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	var doc rawDoc
	switch ext := strings.ToLower(filepath.Ext(abs)); ext {
	case ".toml":
		doc, err = decodeTOML(abs)
	case ".yaml", ".yml":
		doc, err = decodeYAML(abs)
	case ".json":
		doc, err = decodeJSON(abs)
	default:
		return nil, fmt.Errorf("%s: unsupported config format %q: %w", abs, ext, ErrParse)
	}
	if err != nil {
		return nil, err
	}
	return normalize(doc, abs)
}

func decodeTOML(path string) (rawDoc, error) {
	var doc struct {
		Header toml.Primitive `toml:"header"`
		Check  CheckConfig    `toml:"check"`
	}
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return rawDoc{}, fmt.Errorf("%s: %v: %w", path, err, ErrParse)
	}
	if !meta.IsDefined("header") {
		return rawDoc{}, fmt.Errorf("%s: missing [header]: %w", path, ErrInvalidValue)
	}

	out := rawDoc{check: doc.Check}
	switch meta.Type("header") {
	case "Hash":
		var h rawHeader
		if err := meta.PrimitiveDecode(doc.Header, &h); err != nil {
			return rawDoc{}, fmt.Errorf("%s: [header]: %v: %w", path, err, ErrParse)
		}
		out.header = &h
	case "Array":
		var arr []any
		if err := meta.PrimitiveDecode(doc.Header, &arr); err != nil {
			return rawDoc{}, fmt.Errorf("%s: header array: %v: %w", path, err, ErrParse)
		}
		out.legacy = arr
	default:
		return rawDoc{}, fmt.Errorf("%s: header must be a table or an array: %w", path, ErrInvalidValue)
	}

	// строгий режим: непрочитанных ключей остаться не должно
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return rawDoc{}, fmt.Errorf("%s: unknown key %q: %w", path, undecoded[0].String(), ErrInvalidValue)
	}
	return out, nil
}

func decodeYAML(path string) (rawDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rawDoc{}, fmt.Errorf("%s: %v: %w", path, err, ErrParse)
	}
	var doc struct {
		Header yaml.Node   `yaml:"header"`
		Check  CheckConfig `yaml:"check"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return rawDoc{}, fmt.Errorf("%s: missing header section: %w", path, ErrInvalidValue)
		}
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return rawDoc{}, fmt.Errorf("%s: %v: %w", path, err, ErrInvalidValue)
		}
		return rawDoc{}, fmt.Errorf("%s: %v: %w", path, err, ErrParse)
	}

	out := rawDoc{check: doc.Check}
	switch doc.Header.Kind {
	case 0:
		return rawDoc{}, fmt.Errorf("%s: missing header section: %w", path, ErrInvalidValue)
	case yaml.MappingNode:
		if err := sweepHeaderKeys(&doc.Header); err != nil {
			return rawDoc{}, fmt.Errorf("%s: %v: %w", path, err, ErrInvalidValue)
		}
		var h rawHeader
		if err := doc.Header.Decode(&h); err != nil {
			return rawDoc{}, fmt.Errorf("%s: header: %v: %w", path, err, ErrParse)
		}
		out.header = &h
	case yaml.SequenceNode:
		var arr []any
		if err := doc.Header.Decode(&arr); err != nil {
			return rawDoc{}, fmt.Errorf("%s: header array: %v: %w", path, err, ErrParse)
		}
		out.legacy = arr
	default:
		return rawDoc{}, fmt.Errorf("%s: header must be a mapping or a sequence: %w", path, ErrInvalidValue)
	}
	return out, nil
}

// sweepHeaderKeys rejects unknown keys under the header mapping and inside
// each rules entry. Node.Decode silently drops them, which would hide
// typos; TOML gets the same treatment from meta.Undecoded.
func sweepHeaderKeys(node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "comment", "lines", "file", "trailing", "eol":
		case "rules":
			for _, rule := range value.Content {
				if rule.Kind != yaml.MappingNode {
					continue
				}
				for j := 0; j+1 < len(rule.Content); j += 2 {
					switch rule.Content[j].Value {
					case "text", "pattern", "template":
					default:
						return fmt.Errorf("unknown rule key %q", rule.Content[j].Value)
					}
				}
			}
		default:
			return fmt.Errorf("unknown header key %q", key.Value)
		}
	}
	return nil
}

func decodeJSON(path string) (rawDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rawDoc{}, fmt.Errorf("%s: %v: %w", path, err, ErrParse)
	}
	var doc struct {
		Header json.RawMessage `json:"header"`
		Check  CheckConfig     `json:"check"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return rawDoc{}, fmt.Errorf("%s: %v: %w", path, err, ErrParse)
	}
	trimmed := bytes.TrimSpace(doc.Header)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return rawDoc{}, fmt.Errorf("%s: missing header section: %w", path, ErrInvalidValue)
	}

	out := rawDoc{check: doc.Check}
	switch trimmed[0] {
	case '{':
		sub := json.NewDecoder(bytes.NewReader(trimmed))
		sub.DisallowUnknownFields()
		var h rawHeader
		if err := sub.Decode(&h); err != nil {
			return rawDoc{}, fmt.Errorf("%s: header: %v: %w", path, err, ErrParse)
		}
		out.header = &h
	case '[':
		var arr []any
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return rawDoc{}, fmt.Errorf("%s: header array: %v: %w", path, err, ErrParse)
		}
		out.legacy = arr
	default:
		return rawDoc{}, fmt.Errorf("%s: header must be an object or an array: %w", path, ErrInvalidValue)
	}
	return out, nil
}

// normalize folds either raw form into a Config and validates the values
// shared by all formats.
func normalize(doc rawDoc, path string) (*Config, error) {
	cfg := &Config{
		Path:     path,
		Dir:      filepath.Dir(path),
		Trailing: 1,
		EOL:      "unix",
		Check:    doc.check,
	}

	if doc.legacy != nil {
		if err := normalizeLegacy(doc.legacy, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	} else {
		if err := normalizeModern(doc.header, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	switch cfg.Comment {
	case "", "block", "line":
	default:
		return nil, fmt.Errorf("%s: comment must be %q or %q, got %q: %w",
			path, "block", "line", cfg.Comment, ErrInvalidValue)
	}
	switch cfg.EOL {
	case "unix", "windows", "os":
	default:
		return nil, fmt.Errorf("%s: eol must be unix, windows or os, got %q: %w",
			path, cfg.EOL, ErrInvalidValue)
	}
	if cfg.Trailing < 1 {
		return nil, fmt.Errorf("%s: trailing must be at least 1, got %d: %w",
			path, cfg.Trailing, ErrInvalidValue)
	}
	return cfg, nil
}

func normalizeModern(h *rawHeader, cfg *Config) error {
	if h.Lines != nil && h.Rules != nil {
		return fmt.Errorf("lines and rules are mutually exclusive: %w", ErrInvalidValue)
	}
	if h.File != "" && (h.Lines != nil || h.Rules != nil) {
		return fmt.Errorf("file excludes lines and rules: %w", ErrInvalidValue)
	}

	cfg.Comment = h.Comment
	cfg.File = h.File
	if h.Trailing != nil {
		cfg.Trailing = *h.Trailing
	}
	if h.EOL != "" {
		cfg.EOL = h.EOL
	}

	// литералы современной формы режутся по вложенным переводам строк:
	// одна запись lines может нести несколько физических строк
	for _, line := range h.Lines {
		for _, piece := range splitLines(line) {
			cfg.Rules = append(cfg.Rules, Rule{Text: piece})
		}
	}
	for i, r := range h.Rules {
		rule, err := normalizeRule(r)
		if err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
		cfg.Rules = append(cfg.Rules, rule)
	}
	return nil
}

func normalizeRule(r rawRule) (Rule, error) {
	switch {
	case r.Text != nil && r.Pattern != nil:
		return Rule{}, fmt.Errorf("text and pattern are mutually exclusive: %w", ErrInvalidValue)
	case r.Text != nil:
		if r.Template != nil {
			return Rule{}, fmt.Errorf("template needs a pattern: %w", ErrInvalidValue)
		}
		return Rule{Text: *r.Text}, nil
	case r.Pattern != nil:
		rule := Rule{IsPattern: true, Text: *r.Pattern}
		if r.Template != nil {
			rule.Template = *r.Template
			rule.HasTemplate = true
		}
		return rule, nil
	default:
		return Rule{}, fmt.Errorf("rule needs text or pattern: %w", ErrInvalidValue)
	}
}

// splitLines splits on \n, treating a preceding \r as part of the break.
func splitLines(s string) []string {
	out := make([]string, 0, 2)
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' {
			continue
		}
		end := i
		if end > start && s[end-1] == '\r' {
			end--
		}
		out = append(out, s[start:end])
		start = i + 1
	}
	return append(out, s[start:])
}
