package diagfmt

import (
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"

	"headerlint/internal/diag"
	"headerlint/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview renders the lines an edit touches, before and after
// application. The block covers whole lines, including the closing break,
// so an insert right at a line end still shows the full line.
func buildFixEditPreview(fs *source.FileSet, edit diag.TextEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("preview without FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("unknown file %d in fix edit", edit.Span.File)
	}

	blockStart, blockEnd, err := previewBounds(fs, file, edit.Span)
	if err != nil {
		return fixEditPreview{}, err
	}

	block := file.Content[blockStart:blockEnd]
	relStart := int(edit.Span.Start) - int(blockStart)
	relEnd := int(edit.Span.End) - int(blockStart)
	if relStart < 0 || relEnd < relStart || relEnd > len(block) {
		return fixEditPreview{}, fmt.Errorf("edit span %s outside preview block", edit.Span)
	}

	// Concat копирует, содержимое файла остаётся нетронутым.
	patched := slices.Concat(block[:relStart], []byte(edit.NewText), block[relEnd:])

	return fixEditPreview{before: splitPreviewLines(block), after: splitPreviewLines(patched)}, nil
}

// previewBounds выбирает блок целых строк, накрывающий спан правки,
// вместе с закрывающим переводом строки.
func previewBounds(fs *source.FileSet, file *source.File, span source.Span) (uint32, uint32, error) {
	startPos, endPos := fs.Resolve(span)
	endLine := max(endPos.Line, startPos.Line)

	contentLen, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return 0, 0, fmt.Errorf("file length overflows uint32: %w", err)
	}

	start := file.LineStartOffset(startPos.Line)
	end := file.LineEndOffset(endLine)
	if end < contentLen && file.Content[end] == '\n' {
		end++
	}
	return start, max(end, start), nil
}

// splitPreviewLines отрезает завершающий перевод строки, чтобы пустой
// хвост не рисовался лишней строкой превью.
func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}
