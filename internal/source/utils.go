package source

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// removeBOM strips a leading UTF-8 byte order mark.
func removeBOM(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, utf8BOM) {
		return content[len(utf8BOM):], true
	}
	return content, false
}

// BOMBytes returns a copy of the UTF-8 byte order mark stripped by Load.
// Запись на диск возвращает BOM на место, поэтому нужна именно копия.
func BOMBytes() []byte {
	return append([]byte(nil), utf8BOM...)
}

// buildLineIndex collects the offsets of every '\n' in content.
func buildLineIndex(content []byte) []uint32 {
	var out []uint32
	for base := 0; ; {
		i := bytes.IndexByte(content[base:], '\n')
		if i < 0 {
			return out
		}
		out = append(out, uint32(base+i))
		base += i + 1
	}
}

// toLineCol maps a byte offset onto a 1-based line and column. A line break
// belongs to the line it terminates; columns count bytes, not runes.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	if line == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	lineStart := lineIdx[line-1] + 1
	return LineCol{Line: uint32(line + 1), Col: off - lineStart + 1}
}

func normalizePath(p string) string {
	// прямые слэши, чтобы вывод совпадал между платформами
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the cleaned absolute form of p with forward slashes.
func AbsolutePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns p relative to baseDir when p lives inside baseDir.
// Paths outside the base fall back to the absolute form: a ../../ chain in
// output is worse than a long path.
func RelativePath(p, baseDir string) (string, error) {
	absTarget, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(absTarget), nil
	}
	return normalizePath(rel), nil
}

// BaseName returns the final path element.
func BaseName(p string) string {
	return filepath.Base(p)
}
