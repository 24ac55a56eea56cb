package header

import (
	"strings"

	"headerlint/internal/token"
)

// MismatchKind tags the first deviation found between region and spec.
type MismatchKind uint8

const (
	MismatchMissingHeader MismatchKind = iota
	MismatchWrongKind
	MismatchTooShort
	MismatchTooLong
	MismatchLineTooShort
	MismatchLineTooLong
	MismatchLiteral
	MismatchPattern
	MismatchTrailing
)

func (k MismatchKind) String() string {
	switch k {
	case MismatchMissingHeader:
		return "missing-header"
	case MismatchWrongKind:
		return "wrong-kind"
	case MismatchTooShort:
		return "too-short"
	case MismatchTooLong:
		return "too-long"
	case MismatchLineTooShort:
		return "line-too-short"
	case MismatchLineTooLong:
		return "line-too-long"
	case MismatchLiteral:
		return "line-mismatch"
	case MismatchPattern:
		return "pattern-mismatch"
	case MismatchTrailing:
		return "trailing-breaks"
	}
	return "unknown"
}

// Mismatch describes the first detected deviation. Field meaning depends on
// Kind; unused fields stay zero.
type Mismatch struct {
	Kind MismatchKind

	// Line is the 0-based index of the offending rule or actual line: the
	// count of present lines for TooShort, the first extra actual line
	// for TooLong.
	Line int

	// Col is a byte offset within the actual line: the first differing
	// byte for Literal, the start of the extra tail for LineTooLong.
	Col int

	// Expected carries message data: the expected remainder (Literal,
	// LineTooShort), the missing lines (TooShort), the pattern source
	// (Pattern) or the wanted comment kind (WrongKind).
	Expected string

	// Joined marks the single-rule line form where the run's texts are
	// glued before comparison; offsets then map through token boundaries.
	Joined bool

	// Required and Actual carry the counts for Trailing.
	Required int
	Actual   int
}

// actualLine is one physical header line with the file offset of its text.
type actualLine struct {
	text  string
	start uint32
}

// MatchRegion compares the candidate region against the spec and returns
// the first mismatch, or nil when the header matches. The region must be
// non-empty.
func MatchRegion(spec *Spec, region []token.Token) *Mismatch {
	want := token.Block
	if spec.Kind == LineComment {
		want = token.Line
	}
	if region[0].Kind != want {
		return &Mismatch{Kind: MismatchWrongKind, Expected: spec.Kind.String()}
	}
	if spec.Kind == BlockComment {
		return matchBlock(spec, region[0])
	}
	return matchLineRun(spec, region)
}

func matchBlock(spec *Spec, tok token.Token) *Mismatch {
	actual := blockLayout(spec, tok)
	if len(actual) < len(spec.Lines) {
		return tooShortMismatch(spec, len(actual))
	}
	for i, rule := range spec.Lines {
		if m := matchLine(rule, actual[i].text, i); m != nil {
			return m
		}
	}
	if len(actual) > len(spec.Lines) {
		return &Mismatch{Kind: MismatchTooLong, Line: len(spec.Lines)}
	}
	return nil
}

func matchLineRun(spec *Spec, region []token.Token) *Mismatch {
	if len(spec.Lines) == 0 {
		// вырожденный случай: пустой спек не принимает никакой заголовок
		return &Mismatch{Kind: MismatchTooLong, Line: 0}
	}
	if len(spec.Lines) == 1 && len(region) > 1 {
		return matchJoined(spec.Lines[0], region)
	}
	if len(region) < len(spec.Lines) {
		return tooShortMismatch(spec, len(region))
	}
	for i, rule := range spec.Lines {
		if m := matchLine(rule, region[i].Text, i); m != nil {
			return m
		}
	}
	return nil
}

// matchJoined tests a single rule against the run's texts joined with "\n"
// and, failing that, with "\r\n". Hosts normalise EOL style inconsistently,
// so either join counts as a match. A reported mismatch diffs against the
// "\n" join.
func matchJoined(rule LineRule, region []token.Token) *Mismatch {
	texts := make([]string, len(region))
	for i, tok := range region {
		texts[i] = tok.Text
	}
	lf := strings.Join(texts, "\n")
	if matchLine(rule, lf, 0) == nil {
		return nil
	}
	if matchLine(rule, strings.Join(texts, "\r\n"), 0) == nil {
		return nil
	}
	m := matchLine(rule, lf, 0)
	m.Joined = true
	return m
}

// matchLine compares one actual line against one rule. idx is the rule's
// 0-based position, recorded in the mismatch.
func matchLine(rule LineRule, actual string, idx int) *Mismatch {
	if rule.Kind == RulePattern {
		if rule.Pattern.MatchString(actual) {
			return nil
		}
		return &Mismatch{Kind: MismatchPattern, Line: idx, Expected: rule.Pattern.String()}
	}

	expected := rule.Text
	limit := len(actual)
	if len(expected) < limit {
		limit = len(expected)
	}
	for k := 0; k < limit; k++ {
		if actual[k] != expected[k] {
			return &Mismatch{Kind: MismatchLiteral, Line: idx, Col: k, Expected: expected[k:]}
		}
	}
	if len(actual) < len(expected) {
		return &Mismatch{Kind: MismatchLineTooShort, Line: idx, Expected: expected[len(actual):]}
	}
	if len(actual) > len(expected) {
		return &Mismatch{Kind: MismatchLineTooLong, Line: idx, Col: len(expected)}
	}
	return nil
}

func tooShortMismatch(spec *Spec, present int) *Mismatch {
	missing := make([]string, 0, len(spec.Lines)-present)
	for _, rule := range spec.Lines[present:] {
		missing = append(missing, rule.Display())
	}
	return &Mismatch{Kind: MismatchTooShort, Line: present, Expected: strings.Join(missing, spec.eol())}
}

// blockLayout splits the block comment text into physical lines with their
// file offsets. A spec with at most one rule sees the whole text as a
// single line, embedded breaks included.
func blockLayout(spec *Spec, tok token.Token) []actualLine {
	if len(spec.Lines) <= 1 {
		return []actualLine{{text: tok.Text, start: tok.TextStart()}}
	}
	return splitWithOffsets(tok.Text, tok.TextStart())
}

func splitWithOffsets(text string, base uint32) []actualLine {
	lines := make([]actualLine, 0, 4)
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		end := i
		if end > start && text[end-1] == '\r' {
			end--
		}
		lines = append(lines, actualLine{text: text[start:end], start: base + u32(start)})
		start = i + 1
	}
	return append(lines, actualLine{text: text[start:], start: base + u32(start)})
}

// regionLayout maps the region to actual lines for span construction.
func regionLayout(spec *Spec, region []token.Token) []actualLine {
	if region[0].Kind == token.Block {
		return blockLayout(spec, region[0])
	}
	lines := make([]actualLine, len(region))
	for i, tok := range region {
		lines[i] = actualLine{text: tok.Text, start: tok.TextStart()}
	}
	return lines
}

// HeaderEnd returns the byte offset just past the header's last token: the
// block comment's end, the joined run's end, or the end of the rule-count
// prefix of a line run.
func HeaderEnd(spec *Spec, region []token.Token) uint32 {
	last := region[len(region)-1].Span.End
	if region[0].Kind == token.Block {
		return region[0].Span.End
	}
	if len(spec.Lines) == 1 && len(region) > 1 {
		return last
	}
	if n := len(spec.Lines); n > 0 && n <= len(region) {
		return region[n-1].Span.End
	}
	return last
}
