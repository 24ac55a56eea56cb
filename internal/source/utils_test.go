package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelativePath(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "project")
	for _, dir := range []string{filepath.Join(base, "src"), filepath.Join(tmp, "elsewhere")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", dir, err)
		}
	}

	t.Run("inside base", func(t *testing.T) {
		target := filepath.Join(base, "src", "app.js")
		got, err := RelativePath(target, base)
		if err != nil {
			t.Fatalf("RelativePath: %v", err)
		}
		if want := normalizePath(filepath.Join("src", "app.js")); got != want {
			t.Fatalf("RelativePath = %q, want %q", got, want)
		}
	})

	// Путь вне базы не должен превращаться в цепочку "../..", он остаётся
	// абсолютным.
	t.Run("outside base stays absolute", func(t *testing.T) {
		target := filepath.Join(tmp, "elsewhere", "app.js")
		got, err := RelativePath(target, base)
		if err != nil {
			t.Fatalf("RelativePath: %v", err)
		}
		if want := normalizePath(target); got != want {
			t.Fatalf("RelativePath = %q, want %q", got, want)
		}
	})
}

func TestToLineCol(t *testing.T) {
	// "ab\ncd\n": LineIdx = [2 5]
	lineIdx := []uint32{2, 5}

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{off: 0, want: LineCol{Line: 1, Col: 1}},
		{off: 1, want: LineCol{Line: 1, Col: 2}},
		{off: 2, want: LineCol{Line: 1, Col: 3}}, // сам \n относится к первой строке
		{off: 3, want: LineCol{Line: 2, Col: 1}},
		{off: 5, want: LineCol{Line: 2, Col: 3}},
		{off: 6, want: LineCol{Line: 3, Col: 1}},
	}
	for _, tt := range tests {
		if got := toLineCol(lineIdx, tt.off); got != tt.want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}

	// файл без переводов строк
	if got := toLineCol(nil, 4); (got != LineCol{Line: 1, Col: 5}) {
		t.Errorf("toLineCol(nil, 4) = %+v, want {1 5}", got)
	}
}

func TestBuildLineIndex(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []uint32
	}{
		{name: "empty", content: "", want: nil},
		{name: "no newline", content: "abc", want: nil},
		{name: "unix", content: "a\nbc\n", want: []uint32{1, 4}},
		{name: "crlf keeps cr in line", content: "a\r\nb", want: []uint32{2}},
		{name: "leading newline", content: "\nx", want: []uint32{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildLineIndex([]byte(tt.content))
			if len(got) != len(tt.want) {
				t.Fatalf("buildLineIndex(%q) = %v, want %v", tt.content, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("buildLineIndex(%q) = %v, want %v", tt.content, got, tt.want)
				}
			}
		})
	}
}
