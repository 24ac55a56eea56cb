package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"headerlint/internal/source"
)

// goldenRow is one rendered line: severity, code, resolved location, message.
type goldenRow struct {
	sev  string
	code string
	loc  resolvedSpan
	msg  string
}

// FormatGoldenDiagnostics renders diagnostics one per line in a stable order
// for golden files. The result is empty when nothing resolves.
func FormatGoldenDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatDiagnostics(diags, fs, includeNotes)
}

// FormatShortDiagnostics renders a bag into the same single-line-per-entry
// representation, intended for CLI short output.
func FormatShortDiagnostics(bag *Bag, fs *source.FileSet, includeNotes bool) string {
	if bag == nil {
		return ""
	}
	return formatDiagnostics(bag.Items(), fs, includeNotes)
}

func formatDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rows := make([]goldenRow, 0, len(diags))
	for _, d := range diags {
		if loc, ok := resolveSpan(fs, d.Primary); ok {
			rows = append(rows, goldenRow{
				sev:  severityLabel(d.Severity),
				code: d.Code.ID(),
				loc:  loc,
				msg:  flattenMessage(d.Message),
			})
		}
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			loc, ok := resolveSpan(fs, note.Span)
			if !ok {
				continue
			}
			rows = append(rows, goldenRow{
				sev:  "note",
				code: d.Code.ID(),
				loc:  loc,
				msg:  flattenMessage(note.Msg),
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].less(rows[j]) })

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = fmt.Sprintf("%s %s %s:%d:%d %s", r.sev, r.code, r.loc.path, r.loc.line, r.loc.col, r.msg)
	}
	return strings.Join(lines, "\n")
}

// less задаёт детерминированный порядок строк: путь, позиция, severity, код,
// текст. Одинаковый вход всегда даёт одинаковый golden-файл.
func (r goldenRow) less(o goldenRow) bool {
	if r.loc.path != o.loc.path {
		return r.loc.path < o.loc.path
	}
	if r.loc.line != o.loc.line {
		return r.loc.line < o.loc.line
	}
	if r.loc.col != o.loc.col {
		return r.loc.col < o.loc.col
	}
	if r.sev != o.sev {
		return r.sev < o.sev
	}
	if r.code != o.code {
		return r.code < o.code
	}
	return r.msg < o.msg
}

type resolvedSpan struct {
	path string
	line uint32
	col  uint32
}

// resolveSpan переводит спан в путь и позицию. recover прикрывает случай
// спана с FileID из другого FileSet.
func resolveSpan(fs *source.FileSet, span source.Span) (loc resolvedSpan, ok bool) {
	defer func() {
		if recover() != nil {
			loc, ok = resolvedSpan{}, false
		}
	}()

	f := fs.Get(span.File)
	pos, _ := fs.Resolve(span)
	loc = resolvedSpan{
		path: cleanPath(f.FormatPath("relative", fs.BaseDir())),
		line: pos.Line,
		col:  pos.Col,
	}
	return loc, true
}

func cleanPath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

// severityLabel is the lowercase golden-file form, not Severity.String().
func severityLabel(sev Severity) string {
	if sev == SevError {
		return "error"
	}
	if sev == SevWarning {
		return "warning"
	}
	return "info"
}

// flattener схлопывает переводы строк, чтобы каждая запись держалась
// на одной строке.
var flattener = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func flattenMessage(msg string) string {
	return strings.TrimSpace(flattener.Replace(msg))
}
