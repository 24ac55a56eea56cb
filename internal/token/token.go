package token

import (
	"headerlint/internal/source"
)

// Kind represents the category of a leading token.
type Kind uint8

const (
	// Line is a "//" comment.
	Line Kind = iota
	// Block is a "/* ... */" comment.
	Block
	// Shebang is a "#!" interpreter line at the very start of the file.
	Shebang
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "line"
	case Block:
		return "block"
	case Shebang:
		return "shebang"
	default:
		return "unknown"
	}
}

// Token is one leading comment or the shebang line.
type Token struct {
	Kind       Kind
	Span       source.Span
	Text       string
	Terminated bool // для Block: нашёлся ли закрывающий */
}

// IsComment reports whether the token is a line or block comment.
func (t Token) IsComment() bool {
	return t.Kind == Line || t.Kind == Block
}

// TextStart returns the byte offset where Text begins (past the delimiter).
func (t Token) TextStart() uint32 {
	return t.Span.Start + 2
}

// TextSpan returns the span of Text within the file, delimiters excluded.
func (t Token) TextSpan() source.Span {
	span := source.Span{File: t.Span.File, Start: t.TextStart(), End: t.Span.End}
	if t.Kind == Block && t.Terminated {
		span.End -= 2
	}
	if span.End < span.Start {
		span.End = span.Start
	}
	return span
}
