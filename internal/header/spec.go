package header

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
)

// CommentKind selects the comment form the header must use.
type CommentKind uint8

const (
	// BlockComment is a single /* ... */ comment.
	BlockComment CommentKind = iota
	// LineComment is a run of // comments, one per header line.
	LineComment
)

func (k CommentKind) String() string {
	switch k {
	case BlockComment:
		return "block"
	case LineComment:
		return "line"
	}
	return "unknown"
}

// RuleKind distinguishes exact lines from pattern lines.
type RuleKind uint8

const (
	// RuleLiteral compares the actual line byte for byte.
	RuleLiteral RuleKind = iota
	// RulePattern runs an unanchored RE2 match over the actual line.
	RulePattern
)

// LineRule is the expectation for one header line.
type LineRule struct {
	Kind RuleKind
	// Text is the exact expected line (RuleLiteral only).
	Text string
	// Pattern is the compiled regex (RulePattern only).
	Pattern *regexp.Regexp
	// Template substitutes the line when fixing a pattern rule. Без
	// шаблона такую строку чинить нечем: CanFix вернёт false.
	Template    string
	HasTemplate bool
}

// Literal builds a rule that requires the exact text.
func Literal(text string) LineRule {
	return LineRule{Kind: RuleLiteral, Text: text}
}

// PatternRule builds a rule matched by regex, not fixable.
func PatternRule(re *regexp.Regexp) LineRule {
	return LineRule{Kind: RulePattern, Pattern: re}
}

// PatternWithTemplate builds a regex rule that renders template when fixed.
func PatternWithTemplate(re *regexp.Regexp, template string) LineRule {
	return LineRule{Kind: RulePattern, Pattern: re, Template: template, HasTemplate: true}
}

// Display returns the rule text for messages: the literal itself, or the
// pattern source.
func (r LineRule) Display() string {
	if r.Kind == RulePattern {
		return r.Pattern.String()
	}
	return r.Text
}

// fixText returns the line the rule renders during a fix.
func (r LineRule) fixText() string {
	if r.Kind == RulePattern {
		if !r.HasTemplate {
			panic("header: fixText on a pattern rule without template")
		}
		return r.Template
	}
	return r.Text
}

// Spec is the full header expectation for a file.
type Spec struct {
	Kind  CommentKind
	Lines []LineRule
	// TrailingLines is how many line breaks must follow the header.
	TrailingLines int
	// EOL joins rendered header lines when fixing: "\n" or "\r\n".
	// Empty means "\n".
	EOL string
}

func (s *Spec) eol() string {
	if s.EOL == "" {
		return "\n"
	}
	return s.EOL
}

// CanFix reports whether every line can be rendered: pattern rules need a
// template, everything else is always renderable.
func (s *Spec) CanFix() bool {
	for _, rule := range s.Lines {
		if rule.Kind == RulePattern && !rule.HasTemplate {
			return false
		}
	}
	return true
}

// FixLines returns the replacement lines for a fix. Panics when !CanFix.
func (s *Spec) FixLines() []string {
	out := make([]string, len(s.Lines))
	for i, rule := range s.Lines {
		out[i] = rule.fixText()
	}
	return out
}

// Hash returns a digest of the spec's full observable behaviour. Two specs
// with equal hashes validate identically, so the hash keys the result cache.
func (s *Spec) Hash() [32]byte {
	h := sha256.New()
	fmt.Fprintf(h, "k%d;t%d;e%q;n%d;", s.Kind, s.TrailingLines, s.eol(), len(s.Lines))
	for _, rule := range s.Lines {
		switch rule.Kind {
		case RuleLiteral:
			fmt.Fprintf(h, "L%q;", rule.Text)
		case RulePattern:
			fmt.Fprintf(h, "P%q;ht%t;tp%q;", rule.Pattern.String(), rule.HasTemplate, rule.Template)
		}
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// String renders a short human form, used in logs and --timings output.
func (s *Spec) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s header, %d line(s), %d trailing", s.Kind, len(s.Lines), s.TrailingLines)
	return b.String()
}
