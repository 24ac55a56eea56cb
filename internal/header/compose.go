package header

import (
	"strings"

	"headerlint/internal/scanner"
	"headerlint/internal/source"
	"headerlint/internal/token"
)

// Edit is one contiguous replacement: file bytes [Start, End) become Text.
// An insertion has Start == End.
type Edit struct {
	Start uint32
	End   uint32
	Text  string
}

// Span returns the edit's target as a span in the given file.
func (e *Edit) Span(id source.FileID) source.Span {
	return source.Span{File: id, Start: e.Start, End: e.End}
}

// ComposeFix builds the single edit that repairs the mismatch, or nil when
// the spec cannot be rendered (a pattern rule without template). Applying
// the edit and validating again must come out clean; tests hold the engine
// to that.
func ComposeFix(m *Mismatch, spec *Spec, region []token.Token, file *source.File) *Edit {
	if m == nil || !spec.CanFix() {
		return nil
	}
	switch m.Kind {
	case MismatchMissingHeader:
		return composeInsert(spec, file.Content)
	case MismatchTrailing:
		return composeTrailing(m, spec, region)
	default:
		return composeRewrite(m, spec, region, file.Content)
	}
}

// composeInsert writes a fresh header at the insert offset. An unterminated
// shebang first gets its line break; the header then gets the trailing
// breaks the spec demands, minus breaks already present in the file.
func composeInsert(spec *Spec, content []byte) *Edit {
	off, needsBreak := scanner.InsertOffset(content)
	text := renderHeader(spec)
	if needsBreak {
		text = spec.eol() + text
	}
	text += padding(spec, content, off)
	return &Edit{Start: off, End: off, Text: text}
}

// composeTrailing inserts the missing line breaks right after the header.
func composeTrailing(m *Mismatch, spec *Spec, region []token.Token) *Edit {
	end := HeaderEnd(spec, region)
	return &Edit{Start: end, End: end, Text: strings.Repeat(spec.eol(), m.Required-m.Actual)}
}

// composeRewrite replaces the offending header slice with the rendered one.
func composeRewrite(m *Mismatch, spec *Spec, region []token.Token, content []byte) *Edit {
	start := region[0].Span.Start
	end := rewriteEnd(m, spec, region)
	text := renderHeader(spec) + padding(spec, content, end)
	return &Edit{Start: start, End: end, Text: text}
}

// rewriteEnd picks how much of the region the rewrite consumes: the whole
// region for kind/length mismatches and the joined form, otherwise just the
// header-sized prefix of a line run (the block comment is one token either
// way).
func rewriteEnd(m *Mismatch, spec *Spec, region []token.Token) uint32 {
	last := region[len(region)-1].Span.End
	if m.Joined || m.Kind == MismatchWrongKind || m.Kind == MismatchTooShort || m.Kind == MismatchTooLong {
		return last
	}
	if region[0].Kind == token.Block {
		return region[0].Span.End
	}
	n := len(spec.Lines)
	if n > len(region) {
		n = len(region)
	}
	return region[n-1].Span.End
}

// renderHeader builds the replacement header text. Block headers keep each
// fix line intact: embedded breaks stay byte-exact so a rematch succeeds.
// Line headers split fix lines into physical lines, each behind its own
// marker. The marker is written without a space: "//text" survives a round
// trip through the matcher, "// text" would not.
func renderHeader(spec *Spec) string {
	fixLines := spec.FixLines()
	if spec.Kind == BlockComment {
		return "/*" + strings.Join(fixLines, spec.eol()) + "*/"
	}
	logical := make([]string, 0, len(fixLines))
	for _, fl := range fixLines {
		logical = append(logical, splitBreaks(fl)...)
	}
	for i := range logical {
		logical[i] = "//" + logical[i]
	}
	return strings.Join(logical, spec.eol())
}

// padding returns the eol repetitions needed so the header ends up followed
// by TrailingLines breaks, counting breaks already present at off.
func padding(spec *Spec, content []byte, off uint32) string {
	existing := CountTrailingBreaks(content, off)
	if missing := spec.TrailingLines - existing; missing > 0 {
		return strings.Repeat(spec.eol(), missing)
	}
	return ""
}

// splitBreaks splits on \n, treating a preceding \r as part of the break.
func splitBreaks(s string) []string {
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
