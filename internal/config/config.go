// Package config loads and normalizes headerlint configuration. Three
// on-disk formats carry the same schema (TOML, YAML, JSON), plus a legacy
// positional array kept for compatibility. Everything is normalized into
// Config at load; Spec then compiles it into the engine's header.Spec.
package config

import (
	"errors"
	"strings"
)

// Имена файлов в порядке поиска внутри одного каталога.
var configNames = []string{
	"headerlint.toml",
	".headerlint.yaml",
	".headerlint.yml",
	".headerlint.json",
}

var (
	// ErrNoConfig indicates that no config file was found walking up
	// from the start directory.
	ErrNoConfig = errors.New("no headerlint config found")
	// ErrParse marks a config file the decoder could not read.
	ErrParse = errors.New("config parse failed")
	// ErrInvalidValue marks a well-formed file with a bad value.
	ErrInvalidValue = errors.New("invalid config value")
	// ErrBadPattern marks a header pattern that does not compile.
	ErrBadPattern = errors.New("bad header pattern")
	// ErrBadTemplate marks an unusable header template file.
	ErrBadTemplate = errors.New("bad template file")
)

// Rule is one configured header line: exact text, or a pattern with an
// optional fix template.
type Rule struct {
	IsPattern bool
	// Text is the literal line, or the RE2 source for a pattern rule.
	Text        string
	Template    string
	HasTemplate bool
}

// CheckConfig mirrors the [check] table: which files to visit.
type CheckConfig struct {
	Extensions []string `toml:"extensions" yaml:"extensions" json:"extensions"`
	Exclude    []string `toml:"exclude" yaml:"exclude" json:"exclude"`
}

// Config is the normalized configuration. Load fills it; the zero value is
// not usable.
type Config struct {
	// Path is the loaded file; Dir anchors relative template paths.
	Path string
	Dir  string

	// Comment is "block", "line", or empty when a template file decides.
	Comment string
	// Rules is the normalized line list. The modern form arrives here
	// with embedded breaks already split into separate rules; the legacy
	// positional form keeps its strings whole.
	Rules []Rule
	// File points at a header template file instead of inline rules.
	File string
	// Trailing is the minimum line break count after the header.
	Trailing int
	// EOL is "unix", "windows" or "os".
	EOL string

	Check CheckConfig
}

var (
	defaultExtensions = []string{".js", ".jsx", ".ts", ".tsx"}
	defaultExclude    = []string{"node_modules", ".git", "dist"}
)

// Extensions returns the file extensions to check, dot-prefixed, falling
// back to the defaults when the config names none.
func (c *Config) Extensions() []string {
	if len(c.Check.Extensions) == 0 {
		return defaultExtensions
	}
	out := make([]string, len(c.Check.Extensions))
	for i, ext := range c.Check.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[i] = ext
	}
	return out
}

// Excluded reports whether a directory with the given base name is skipped
// during the walk.
func (c *Config) Excluded(name string) bool {
	list := c.Check.Exclude
	if len(list) == 0 {
		list = defaultExclude
	}
	for _, entry := range list {
		if entry == name {
			return true
		}
	}
	return false
}
