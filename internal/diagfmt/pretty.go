package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"headerlint/internal/diag"
	"headerlint/internal/source"
)

const tabDisplayWidth = 4

// prettyStyles держит рендереры цвета; при Color=false все они identity,
// чтобы вывод оставался чистым текстом.
type prettyStyles struct {
	errSev  func(string) string
	warnSev func(string) string
	infoSev func(string) string
	code    func(string) string
	gutter  func(string) string
	marker  func(string) string
	delLine func(string) string
	addLine func(string) string
}

func newPrettyStyles(color bool) prettyStyles {
	ident := func(s string) string { return s }
	if !color {
		return prettyStyles{
			errSev:  ident,
			warnSev: ident,
			infoSev: ident,
			code:    ident,
			gutter:  ident,
			marker:  ident,
			delLine: ident,
			addLine: ident,
		}
	}
	render := func(st lipgloss.Style) func(string) string {
		return func(s string) string { return st.Render(s) }
	}
	return prettyStyles{
		errSev:  render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))),
		warnSev: render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))),
		infoSev: render(lipgloss.NewStyle().Foreground(lipgloss.Color("6"))),
		code:    render(lipgloss.NewStyle().Bold(true)),
		gutter:  render(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))),
		marker:  render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))),
		delLine: render(lipgloss.NewStyle().Foreground(lipgloss.Color("1"))),
		addLine: render(lipgloss.NewStyle().Foreground(lipgloss.Color("2"))),
	}
}

func (st prettyStyles) severity(sev diag.Severity) string {
	s := sev.String()
	switch sev {
	case diag.SevError:
		return st.errSev(s)
	case diag.SevWarning:
		return st.warnSev(s)
	default:
		return st.infoSev(s)
	}
}

// displayPath форматирует путь файла согласно режиму.
func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	case PathModeAuto:
		return f.FormatPath("auto", "")
	default:
		return f.Path
	}
}

// Pretty печатает диагностики для чтения человеком. Обходит bag.Items()
// и рассчитывает на предварительный bag.Sort(). На каждую запись уходит
// заголовок path:line:col: SEVERITY CODE: message, под ним строки
// исходника с маркером ^~~~ по спану, следом Notes в том же виде.
// Цветом управляет opts.Color.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	st := newPrettyStyles(opts.Color)
	for _, d := range bag.Items() {
		writeDiagnostic(w, d, fs, opts, st)
	}
}

func writeDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, st prettyStyles) {
	file := fs.Get(d.Primary.File)
	if file == nil {
		fmt.Fprintf(w, "<unknown>: %s %s: %s\n", st.severity(d.Severity), st.code(d.Code.ID()), d.Message)
		return
	}
	start, end := fs.Resolve(d.Primary)
	path := displayPath(file, fs, opts.PathMode)

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		path, start.Line, start.Col,
		st.severity(d.Severity), st.code(d.Code.ID()), d.Message)

	writeContext(w, file, start, end, opts, st)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			noteFile := fs.Get(note.Span.File)
			if noteFile == nil {
				fmt.Fprintf(w, "  note: %s\n", note.Msg)
				continue
			}
			noteStart, _ := fs.Resolve(note.Span)
			fmt.Fprintf(w, "  note: %s:%d:%d: %s\n",
				displayPath(noteFile, fs, opts.PathMode), noteStart.Line, noteStart.Col, note.Msg)
		}
	}

	if opts.ShowFixes && len(d.Fixes) > 0 {
		writeFixes(w, d, fs, opts, st)
	}
}

// writeContext печатает строки исходника вокруг начала спана и строку
// с маркером ^~~~ под самим спаном.
func writeContext(w io.Writer, file *source.File, start, end source.LineCol, opts PrettyOpts, st prettyStyles) {
	if len(file.Content) == 0 || start.Line == 0 {
		return
	}
	ctx := int(opts.Context)
	if ctx < 0 {
		ctx = 0
	}
	first := int(start.Line) - ctx
	if first < 1 {
		first = 1
	}
	last := int(start.Line) + ctx
	numLines := int(file.NumLines())
	if last > numLines {
		last = numLines
	}

	for n := first; n <= last; n++ {
		text := file.GetLine(uint32(n))
		shown := expandTabs(text)
		if opts.Width > 0 {
			shown = runewidth.Truncate(shown, int(opts.Width), "…")
		}
		fmt.Fprintf(w, "%s %s\n", st.gutter(fmt.Sprintf("%5d |", n)), shown)
		if n == int(start.Line) {
			writeMarker(w, text, start, end, st)
		}
	}
}

// writeMarker печатает строку подчёркивания: пробелы до начала спана,
// затем ^ и ~ на его ширину (минимум один ^ для точечного спана).
func writeMarker(w io.Writer, lineText string, start, end source.LineCol, st prettyStyles) {
	prefixBytes := int(start.Col) - 1
	if prefixBytes < 0 {
		prefixBytes = 0
	}
	if prefixBytes > len(lineText) {
		prefixBytes = len(lineText)
	}

	endBytes := len(lineText)
	if end.Line == start.Line {
		eb := int(end.Col) - 1
		if eb >= prefixBytes && eb <= len(lineText) {
			endBytes = eb
		}
	}

	pad := runewidth.StringWidth(expandTabs(lineText[:prefixBytes]))
	width := runewidth.StringWidth(expandTabs(lineText[prefixBytes:endBytes]))
	if width < 1 {
		width = 1
	}

	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", st.gutter("      |"), strings.Repeat(" ", pad), st.marker(marker))
}

func writeFixes(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, st prettyStyles) {
	ctx := diag.FixBuildContext{FileSet: fs}
	for i, f := range d.Fixes {
		resolved, err := f.Resolve(ctx)
		if err != nil {
			fmt.Fprintf(w, "  fix #%d: %s (build failed: %v)\n", i+1, f.Title, err)
			continue
		}

		head := fmt.Sprintf("  fix #%d: %s", i+1, resolved.Title)
		if resolved.ID != "" {
			head += fmt.Sprintf(" (id=%s)", resolved.ID)
		}
		fmt.Fprintln(w, head)

		for _, edit := range resolved.Edits {
			editFile := fs.Get(edit.Span.File)
			if editFile == nil {
				continue
			}
			editStart, _ := fs.Resolve(edit.Span)
			fmt.Fprintf(w, "    apply=%q at %s:%d:%d\n",
				edit.NewText, displayPath(editFile, fs, opts.PathMode), editStart.Line, editStart.Col)

			if !opts.ShowPreview {
				continue
			}
			preview, err := buildFixEditPreview(fs, edit)
			if err != nil {
				continue
			}
			fmt.Fprintln(w, "    preview:")
			for _, line := range preview.before {
				fmt.Fprintf(w, "      %s\n", st.delLine("- "+line))
			}
			for _, line := range preview.after {
				fmt.Fprintf(w, "      %s\n", st.addLine("+ "+line))
			}
		}
	}
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabDisplayWidth))
}
