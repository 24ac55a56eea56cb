package header

import (
	"fmt"

	"fortio.org/safecast"

	"headerlint/internal/token"
)

// ExtractRegion narrows scanned leading tokens to the candidate header
// region. A shebang never counts as header content. If the first comment is
// a block comment, the region is that comment alone. If it is a line
// comment, the region is the maximal run of line comments where consecutive
// tokens are separated by exactly one line break in the raw source: a blank
// line, indentation, or anything else ends the run.
func ExtractRegion(toks []token.Token, content []byte) []token.Token {
	comments := make([]token.Token, 0, len(toks))
	for _, tok := range toks {
		if tok.IsComment() {
			comments = append(comments, tok)
		}
	}
	if len(comments) == 0 {
		return nil
	}
	if comments[0].Kind == token.Block {
		return comments[:1]
	}

	n := 1
	for n < len(comments) {
		tok := comments[n]
		if tok.Kind != token.Line {
			break
		}
		if !singleBreakBetween(content, comments[n-1].Span.End, tok.Span.Start) {
			break
		}
		n++
	}
	return comments[:n]
}

// singleBreakBetween reports whether the raw bytes between two offsets are
// exactly one line break sequence.
func singleBreakBetween(content []byte, from, to uint32) bool {
	gap := string(content[from:to])
	return gap == "\n" || gap == "\r\n"
}

// u32 converts a non-negative int to uint32, panicking on overflow.
func u32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}
