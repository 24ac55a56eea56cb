package source

// FileID is the FileSet-local identity of a loaded file.
type FileID uint32

// FileFlags is a bitset of per-file properties recorded at load time.
type FileFlags uint8

const (
	// FileVirtual помечает файл, добавленный из памяти (тест, stdin).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM records that a UTF-8 BOM was stripped on load.
	// Writers that put the file back on disk must restore it.
	FileHadBOM
)

// File holds one loaded source file together with its line index.
//
// Content is kept byte for byte as read: CRLF is NOT normalized, because
// the header checks depend on the raw line endings (trailing line breaks,
// adjacency of line comments).
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// Virtual reports that the file never came from disk.
func (f *File) Virtual() bool { return f.Flags&FileVirtual != 0 }

// HadBOM reports that the on-disk form starts with a UTF-8 BOM.
func (f *File) HadBOM() bool { return f.Flags&FileHadBOM != 0 }

// LineCol is a 1-based position in a file. Columns count bytes, not runes.
type LineCol struct {
	Line uint32
	Col  uint32
}
