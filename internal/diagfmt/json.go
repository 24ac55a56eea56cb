package diagfmt

import (
	"encoding/json"
	"io"
	"slices"
	"strings"

	"headerlint/internal/diag"
	"headerlint/internal/source"
)

// LocationJSON описывает положение в файле: байтовые смещения всегда,
// строка/колонка по запросу.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON is an attached note with its own location.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON is a single text edit of a fix, optionally with before/after
// line previews.
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

// FixJSON is one repair suggestion: the header insert, rewrite, or padding fix
// together with its edits.
type FixJSON struct {
	ID            string        `json:"id,omitempty"`
	Title         string        `json:"title"`
	Kind          string        `json:"kind"`
	Applicability string        `json:"applicability"`
	IsPreferred   bool          `json:"is_preferred,omitempty"`
	BuildError    string        `json:"build_error,omitempty"`
	Edits         []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON is one finding in the machine format.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput задаёт корень JSON-вывода.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	f := fs.Get(span.File)
	loc := LocationJSON{File: displayPath(f, fs, pathMode), StartByte: span.Start, EndByte: span.End}
	if !includePositions {
		return loc
	}
	start, end := fs.Resolve(span)
	loc.StartLine, loc.StartCol = start.Line, start.Col
	loc.EndLine, loc.EndCol = end.Line, end.Col
	return loc
}

// sortFixes orders fixes for output. Keeps the insert-header fix ahead of
// alternatives.
func sortFixes(fixes []*diag.Fix) {
	slices.SortStableFunc(fixes, compareFixes)
}

// Preferred fixes go first, the rest is ordered by applicability, kind,
// title and ID.
func compareFixes(a, b *diag.Fix) int {
	switch {
	case a.IsPreferred != b.IsPreferred:
		if a.IsPreferred {
			return -1
		}
		return 1
	case a.Applicability != b.Applicability:
		if a.Applicability < b.Applicability {
			return -1
		}
		return 1
	case a.Kind != b.Kind:
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	case a.Title != b.Title:
		return strings.Compare(a.Title, b.Title)
	default:
		return strings.Compare(a.ID, b.ID)
	}
}

// buildFixJSON materializes one fix and renders it. A build failure lands in
// BuildError so the consumer still sees the suggestion existed.
func buildFixJSON(ctx diag.FixBuildContext, fs *source.FileSet, fix *diag.Fix, opts JSONOpts) FixJSON {
	resolved, err := fix.Resolve(ctx)
	out := FixJSON{
		ID:            resolved.ID,
		Title:         resolved.Title,
		Kind:          resolved.Kind.String(),
		Applicability: resolved.Applicability.String(),
		IsPreferred:   resolved.IsPreferred,
	}
	if err != nil {
		out.BuildError = err.Error()
		return out
	}
	if len(resolved.Edits) == 0 {
		return out
	}

	out.Edits = make([]FixEditJSON, len(resolved.Edits))
	for k, edit := range resolved.Edits {
		rendered := FixEditJSON{
			Location: makeLocation(edit.Span, fs, opts.PathMode, opts.IncludePositions),
			NewText:  edit.NewText,
			OldText:  edit.OldText,
		}
		if opts.IncludePreviews {
			if preview, err := buildFixEditPreview(fs, edit); err == nil {
				rendered.BeforeLines = slices.Clone(preview.before)
				rendered.AfterLines = slices.Clone(preview.after)
			}
		}
		out.Edits[k] = rendered
	}
	return out
}

func buildNotes(notes []diag.Note, fs *source.FileSet, opts JSONOpts) []NoteJSON {
	out := make([]NoteJSON, len(notes))
	for i, n := range notes {
		out[i].Message = n.Msg
		out[i].Location = makeLocation(n.Span, fs, opts.PathMode, opts.IncludePositions)
	}
	return out
}

func buildFixes(fixes []*diag.Fix, fs *source.FileSet, opts JSONOpts) []FixJSON {
	sorted := slices.Clone(fixes)
	sortFixes(sorted)

	ctx := diag.FixBuildContext{FileSet: fs}
	out := make([]FixJSON, 0, len(sorted))
	for _, fix := range sorted {
		out = append(out, buildFixJSON(ctx, fs, fix, opts))
	}
	return out
}

func buildDiagnosticJSON(d *diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticJSON {
	rec := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
	}
	// Timing-заметки несут сами данные, поэтому идут в вывод всегда.
	if (opts.IncludeNotes || d.Code == diag.ObsTimings) && len(d.Notes) > 0 {
		rec.Notes = buildNotes(d.Notes, fs, opts)
	}
	if opts.IncludeFixes && len(d.Fixes) > 0 {
		rec.Fixes = buildFixes(d.Fixes, fs, opts)
	}
	return rec
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации;
// команда check собирает из неё общий документ для каталога.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) (DiagnosticsOutput, error) {
	items := bag.Items()
	limit := len(items)
	if opts.Max > 0 {
		limit = min(limit, opts.Max)
	}

	records := make([]DiagnosticJSON, 0, limit)
	for _, d := range items[:limit] {
		records = append(records, buildDiagnosticJSON(d, fs, opts))
	}
	return DiagnosticsOutput{Diagnostics: records, Count: len(records)}, nil
}

// JSON renders the bag as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	out, err := BuildDiagnosticsOutput(bag, fs, opts)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
