// Package scanner reads the tokens that may precede file content: an
// optional shebang line and the run of leading comments. It stops at the
// first byte that belongs to neither, so the rest of the file is never
// touched. The scanner cannot fail: malformed input just ends the scan.
package scanner

import (
	"headerlint/internal/source"
	"headerlint/internal/token"
)

// ScanLeading collects the shebang (if any) and every comment that appears
// before the first non-comment content. Blank lines between comments are
// skipped here; whether they break a header run is the caller's concern,
// decided from the token spans.
func ScanLeading(file *source.File) []token.Token {
	cur := newCursor(file)
	var toks []token.Token

	if tok, ok := scanShebang(&cur); ok {
		toks = append(toks, tok)
	}

	for {
		skipBlank(&cur)
		b0, b1, ok := cur.peek2()
		if !ok || b0 != '/' {
			break
		}
		switch b1 {
		case '/':
			toks = append(toks, scanLineComment(&cur))
		case '*':
			toks = append(toks, scanBlockComment(&cur))
		default:
			return toks
		}
	}
	return toks
}

// skipBlank съедает пробелы и переводы строк между токенами
func skipBlank(cur *cursor) {
	for {
		switch cur.peek() {
		case ' ', '\t', '\r', '\n':
			cur.bump()
		default:
			return
		}
	}
}

func scanShebang(cur *cursor) (token.Token, bool) {
	b0, b1, ok := cur.peek2()
	if !ok || b0 != '#' || b1 != '!' {
		return token.Token{}, false
	}
	m := cur.mark()
	cur.bump()
	cur.bump()
	for !cur.eof() && cur.peek() != '\n' {
		cur.bump()
	}
	span := trimCR(cur, cur.spanFrom(m))
	return token.Token{Kind: token.Shebang, Span: span, Text: cur.text(span.Start+2, span.End)}, true
}

func scanLineComment(cur *cursor) token.Token {
	m := cur.mark()
	cur.bump()
	cur.bump()
	for !cur.eof() && cur.peek() != '\n' {
		cur.bump()
	}
	span := trimCR(cur, cur.spanFrom(m))
	return token.Token{Kind: token.Line, Span: span, Text: cur.text(span.Start+2, span.End)}
}

func scanBlockComment(cur *cursor) token.Token {
	m := cur.mark()
	cur.bump()
	cur.bump()
	terminated := false
	for !cur.eof() {
		if b0, b1, ok := cur.peek2(); ok && b0 == '*' && b1 == '/' {
			cur.bump()
			cur.bump()
			terminated = true
			break
		}
		// блочные комментарии не вкладываются: первый */ закрывает
		cur.bump()
	}
	span := cur.spanFrom(m)
	textEnd := span.End
	if terminated {
		textEnd -= 2
	}
	return token.Token{Kind: token.Block, Span: span, Text: cur.text(span.Start+2, textEnd), Terminated: terminated}
}

// trimCR выносит \r из токена, если за ним стоит \n: пара \r\n читается
// как перевод строки, а не текст.
func trimCR(cur *cursor, span source.Span) source.Span {
	if span.End > span.Start && cur.peek() == '\n' && cur.file.Content[span.End-1] == '\r' {
		span.End--
	}
	return span
}
