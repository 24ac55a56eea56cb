package scanner

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"
)

// HasHeader reports whether the file text leads with a comment. An optional
// shebang line is skipped first; after it the comment must start immediately:
// a blank line or any other byte before "/*" or "//" means there is no header.
func HasHeader(content []byte) bool {
	rest := content
	if bytes.HasPrefix(rest, []byte("#!")) {
		if nl := bytes.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		// шебанг без перевода строки: весь остаток и есть шебанг, заголовка нет
	}
	return bytes.HasPrefix(rest, []byte("/*")) || bytes.HasPrefix(rest, []byte("//"))
}

// InsertOffset returns the byte offset where a missing header belongs:
// 0, or one past the shebang's line break. needsBreak reports that the
// shebang runs to EOF unterminated, so the caller must open a new line
// before inserting anything.
func InsertOffset(content []byte) (off uint32, needsBreak bool) {
	if !bytes.HasPrefix(content, []byte("#!")) {
		return 0, false
	}
	nl := bytes.IndexByte(content, '\n')
	if nl < 0 {
		n, err := safecast.Conv[uint32](len(content))
		if err != nil {
			panic(fmt.Errorf("content length overflows uint32: %w", err))
		}
		return n, true
	}
	off, err := safecast.Conv[uint32](nl + 1)
	if err != nil {
		panic(fmt.Errorf("shebang offset overflow: %w", err))
	}
	return off, false
}
