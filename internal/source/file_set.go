package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns every file a run touches and resolves byte offsets into
// line/column positions. Не потокобезопасен: все Load/Add выполняются до
// старта воркеров.
type FileSet struct {
	files   []File
	index   map[string]FileID // путь -> последний ID
	baseDir string
}

// NewFileSet creates an empty FileSet. The base directory is picked up from
// the first explicit SetBaseDir call, or falls back to the working directory.
func NewFileSet() *FileSet {
	return NewFileSetWithBase("")
}

// NewFileSetWithBase creates an empty FileSet rooted at baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{
		index:   make(map[string]FileID),
		baseDir: baseDir,
	}
}

// SetBaseDir sets the base directory used for relative path rendering.
func (fs *FileSet) SetBaseDir(dir string) {
	fs.baseDir = dir
}

// BaseDir returns the base directory, defaulting to the working directory.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// nextID выделяет следующий FileID; переполнение uint32 невозможно на
// реальных прогонах, но молча заворачиваться оно не должно.
func (fs *FileSet) nextID() FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file count overflows FileID: %w", err))
	}
	return FileID(n)
}

// Add stores a file, computing its line index and content hash. Повторный
// Add того же пути даёт новый ID; индекс путей указывает на последнюю
// версию.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	norm := normalizePath(path)
	id := fs.nextID()
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    norm,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[norm] = id
	return id
}

// Load reads a file from disk and hands the content to Add, stripping a
// UTF-8 BOM first when one is present. Line endings are preserved byte for
// byte; only the BOM is removed, with FileHadBOM recorded so writers can
// restore it.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- the caller picks which file to read
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, hadBOM := removeBOM(raw)

	var flags FileFlags
	if hadBOM {
		flags = FileHadBOM
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory file (stdin, tests) with the FileVirtual flag.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file for the given ID. The ID must come from this FileSet.
func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

// GetLatest returns the most recent file ID recorded for the path.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.index[normalizePath(path)]
	return id, ok
}

// GetByPath returns the most recent file recorded for the path.
func (fs *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fs.index[normalizePath(path)]; ok {
		return &fs.files[id], true
	}
	return nil, false
}

// Resolve converts a span into start and end line/column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// LineStartOffset returns the byte offset where the given 1-based line begins.
// Line numbers past the end of the file clamp to len(Content).
func (f *File) LineStartOffset(lineNum uint32) uint32 {
	if lineNum <= 1 {
		return 0
	}
	if lineNum-2 < f.lineIdxLen() {
		return f.LineIdx[lineNum-2] + 1
	}
	return f.contentLen()
}

// LineEndOffset returns the byte offset one past the last content byte of the
// given 1-based line, excluding its line break (and the \r of a CRLF pair).
func (f *File) LineEndOffset(lineNum uint32) uint32 {
	if lineNum == 0 {
		return 0
	}
	end := f.contentLen()
	if lineNum-1 < f.lineIdxLen() {
		end = f.LineIdx[lineNum-1]
	}
	// \n уже исключён; отрезаем и \r перед ним
	if end > 0 && end <= f.contentLen() && f.Content[end-1] == '\r' {
		end--
	}
	return end
}

// GetLine returns the 1-based line without its line break, or "" when the
// line does not exist.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	start := f.LineStartOffset(lineNum)
	end := f.LineEndOffset(lineNum)
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// NumLines returns the number of lines in the file. A trailing line break
// does not open a new line.
func (f *File) NumLines() uint32 {
	n := f.contentLen()
	if n == 0 {
		return 0
	}
	idx := f.lineIdxLen()
	if idx > 0 && f.LineIdx[idx-1] == n-1 {
		return idx
	}
	return idx + 1
}

func (f *File) contentLen() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file content overflows uint32: %w", err))
	}
	return n
}

func (f *File) lineIdxLen() uint32 {
	n, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index overflows uint32: %w", err))
	}
	return n
}

// FormatPath renders the file path for output.
// mode: "absolute", "relative", "basename" или "auto"; baseDir учитывается
// только в режиме "relative".
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		return f.absPath()
	case "relative":
		return f.relPath(baseDir)
	case "basename":
		return BaseName(f.Path)
	case "auto":
		return f.autoPath()
	default:
		return f.Path
	}
}

func (f *File) absPath() string {
	abs, err := AbsolutePath(f.Path)
	if err != nil {
		return f.Path
	}
	return abs
}

func (f *File) relPath(baseDir string) string {
	if baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			baseDir = wd
		}
	}
	rel, err := RelativePath(f.Path, baseDir)
	if err != nil {
		return f.Path
	}
	return rel
}

// Короткие и относительные пути читаемы целиком, длинные абсолютные сводим
// к имени файла.
func (f *File) autoPath() string {
	if len(f.Path) >= 40 && filepath.IsAbs(f.Path) {
		return BaseName(f.Path)
	}
	return f.Path
}
