package token_test

import (
	"testing"

	"headerlint/internal/source"
	"headerlint/internal/token"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind token.Kind
		want string
	}{
		{token.Line, "line"},
		{token.Block, "block"},
		{token.Shebang, "shebang"},
		{token.Kind(250), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestTextSpan(t *testing.T) {
	tests := []struct {
		name string
		tok  token.Token
		want source.Span
	}{
		{
			name: "line comment",
			// "//abc" at offset 0
			tok:  token.Token{Kind: token.Line, Span: source.Span{Start: 0, End: 5}, Text: "abc"},
			want: source.Span{Start: 2, End: 5},
		},
		{
			name: "terminated block",
			// "/*ab*/" at offset 3
			tok:  token.Token{Kind: token.Block, Span: source.Span{Start: 3, End: 9}, Text: "ab", Terminated: true},
			want: source.Span{Start: 5, End: 7},
		},
		{
			name: "unterminated block runs to EOF",
			// "/*ab" at offset 0
			tok:  token.Token{Kind: token.Block, Span: source.Span{Start: 0, End: 4}, Text: "ab"},
			want: source.Span{Start: 2, End: 4},
		},
		{
			name: "empty block",
			// "/**/"
			tok:  token.Token{Kind: token.Block, Span: source.Span{Start: 0, End: 4}, Text: "", Terminated: true},
			want: source.Span{Start: 2, End: 2},
		},
		{
			name: "shebang",
			// "#!/bin/sh"
			tok:  token.Token{Kind: token.Shebang, Span: source.Span{Start: 0, End: 9}, Text: "/bin/sh"},
			want: source.Span{Start: 2, End: 9},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tok.TextSpan(); got != tt.want {
				t.Errorf("TextSpan() = %+v, want %+v", got, tt.want)
			}
			if int(tt.want.Len()) != len(tt.tok.Text) {
				t.Errorf("TextSpan length %d does not match Text length %d", tt.want.Len(), len(tt.tok.Text))
			}
		})
	}
}

func TestIsComment(t *testing.T) {
	if !(token.Token{Kind: token.Line}).IsComment() {
		t.Error("Line should be a comment")
	}
	if !(token.Token{Kind: token.Block}).IsComment() {
		t.Error("Block should be a comment")
	}
	if (token.Token{Kind: token.Shebang}).IsComment() {
		t.Error("Shebang should not be a comment")
	}
}
