package source

import "fmt"

// Span is a half-open byte range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32 // смещение первого байта
	End   uint32 // смещение за последним байтом
}

// PointSpan returns a zero-width span at the given offset. Вставки
// адресуются именно так: позиция есть, длины нет.
func PointSpan(file FileID, off uint32) Span {
	return Span{File: file, Start: off, End: off}
}

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

// String renders file:start-end, the form used in logs and test failures.
func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover extends s to include other. Spans from different files are not
// comparable; s is returned unchanged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	s.Start = min(s.Start, other.Start)
	s.End = max(s.End, other.End)
	return s
}
