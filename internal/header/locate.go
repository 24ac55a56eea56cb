package header

import (
	"headerlint/internal/scanner"
	"headerlint/internal/source"
	"headerlint/internal/token"
)

// LocateMismatch turns a mismatch into a span over the file. Offsets are
// real file offsets, so a literal mismatch inside a block comment's first
// line lands after the /* marker and later lines land at column one plus
// the in-line offset, with no special casing here.
//
// region may be nil only for MismatchMissingHeader.
func LocateMismatch(m *Mismatch, spec *Spec, region []token.Token, file *source.File) source.Span {
	switch m.Kind {
	case MismatchMissingHeader:
		return insertPoint(file)

	case MismatchWrongKind:
		return regionSpan(region)

	case MismatchTooShort:
		lay := regionLayout(spec, region)
		last := lay[len(lay)-1]
		return source.PointSpan(file.ID, last.start+u32(len(last.text)))

	case MismatchTooLong:
		if len(spec.Lines) == 0 {
			// вырожденный спек: виновата вся серия
			return regionSpan(region)
		}
		lay := regionLayout(spec, region)
		return source.Span{File: file.ID, Start: lay[m.Line].start, End: regionSpan(region).End}

	case MismatchLineTooShort:
		if m.Joined {
			return source.PointSpan(file.ID, lastTextEnd(region))
		}
		lay := regionLayout(spec, region)
		line := lay[m.Line]
		return source.PointSpan(file.ID, line.start+u32(len(line.text)))

	case MismatchLineTooLong:
		if m.Joined {
			off, _ := mapJoinedOffset(region, m.Col)
			return source.Span{File: file.ID, Start: off, End: lastTextEnd(region)}
		}
		lay := regionLayout(spec, region)
		line := lay[m.Line]
		return source.Span{File: file.ID, Start: line.start + u32(m.Col), End: line.start + u32(len(line.text))}

	case MismatchLiteral:
		if m.Joined {
			off, idx := mapJoinedOffset(region, m.Col)
			return source.Span{File: file.ID, Start: off, End: region[idx].TextSpan().End}
		}
		lay := regionLayout(spec, region)
		line := lay[m.Line]
		return source.Span{File: file.ID, Start: line.start + u32(m.Col), End: line.start + u32(len(line.text))}

	case MismatchPattern:
		if m.Joined {
			return region[0].TextSpan()
		}
		lay := regionLayout(spec, region)
		line := lay[m.Line]
		return source.Span{File: file.ID, Start: line.start, End: line.start + u32(len(line.text))}

	case MismatchTrailing:
		end := HeaderEnd(spec, region)
		n, after := scanBreaks(file.Content, end)
		if n == 0 {
			return source.PointSpan(file.ID, end)
		}
		return source.Span{File: file.ID, Start: end, End: after}
	}
	return source.PointSpan(file.ID, 0)
}

// insertPoint is where a missing-header diagnostic points: just past the
// would-be insert offset, clamped to the file end. Renders as line 1
// column 2, or line 2 column 2 behind a shebang.
func insertPoint(file *source.File) source.Span {
	off, _ := scanner.InsertOffset(file.Content)
	p := off + 1
	if n := u32(len(file.Content)); p > n {
		p = n
	}
	return source.PointSpan(file.ID, p)
}

func regionSpan(region []token.Token) source.Span {
	return source.Span{
		File:  region[0].Span.File,
		Start: region[0].Span.Start,
		End:   region[len(region)-1].Span.End,
	}
}

func lastTextEnd(region []token.Token) uint32 {
	return region[len(region)-1].TextSpan().End
}

// mapJoinedOffset maps an offset in the "\n"-joined text back to a file
// offset and the index of the token it falls in. An offset that lands on a
// separator maps to the end of the preceding token's text.
func mapJoinedOffset(region []token.Token, k int) (uint32, int) {
	for i, tok := range region {
		n := len(tok.Text)
		if k < n {
			return tok.TextStart() + u32(k), i
		}
		if k == n {
			return tok.TextSpan().End, i
		}
		k -= n + 1
	}
	last := len(region) - 1
	return region[last].TextSpan().End, last
}
