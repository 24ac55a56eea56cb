package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"headerlint/internal/diag"
	"headerlint/internal/source"
)

// decodeJSON прогоняет bag через JSON-форматтер и разбирает вывод обратно,
// заодно проверяя, что он парсится.
func decodeJSON(t *testing.T, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	t.Helper()

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("json.Unmarshal: %v\noutput: %s", err, buf.String())
	}
	return output
}

func TestJSONRecordShape(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte("/* Old */\nconsole.log(1);\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.HdrLineMismatch,
		source.Span{File: fileID, Start: 3, End: 6},
		"header line 1 differs at column 4",
	))

	output := decodeJSON(t, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
	})

	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Count = %d, len = %d, want 1/1", output.Count, len(output.Diagnostics))
	}

	rec := output.Diagnostics[0]
	if rec.Severity != "ERROR" {
		t.Errorf("Severity = %q, want %q", rec.Severity, "ERROR")
	}
	if rec.Code != "HDR1007" {
		t.Errorf("Code = %q, want %q", rec.Code, "HDR1007")
	}
	if rec.Message != "header line 1 differs at column 4" {
		t.Errorf("Message = %q", rec.Message)
	}

	loc := rec.Location
	if loc.File != "test.js" {
		t.Errorf("Location.File = %q, want %q", loc.File, "test.js")
	}
	if loc.StartByte != 3 || loc.EndByte != 6 {
		t.Errorf("byte range = %d..%d, want 3..6", loc.StartByte, loc.EndByte)
	}
	// IncludePositions добавляет строку и колонку к байтовым смещениям.
	if loc.StartLine != 1 || loc.StartCol != 4 {
		t.Errorf("start position = %d:%d, want 1:4", loc.StartLine, loc.StartCol)
	}
}

func TestJSONCarriesNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte("/* Copyright */\ncode();\n"))

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevWarning,
		diag.HdrTrailing,
		source.Span{File: fileID, Start: 15, End: 16},
		"expected 2 line break(s) after header, found 1",
	)
	d = d.WithNote(
		source.Span{File: fileID, Start: 0, End: 15},
		"header itself matches the configured lines",
	)
	d = d.WithFix(
		"insert line break after header",
		diag.TextEdit{
			Span:    source.Span{File: fileID, Start: 16, End: 16},
			NewText: "\n",
		},
	)
	bag.Add(d)

	output := decodeJSON(t, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
	})

	if len(output.Diagnostics) != 1 {
		t.Fatalf("len(Diagnostics) = %d, want 1", len(output.Diagnostics))
	}
	rec := output.Diagnostics[0]

	if len(rec.Notes) != 1 {
		t.Fatalf("len(Notes) = %d, want 1", len(rec.Notes))
	}
	if got := rec.Notes[0].Message; got != "header itself matches the configured lines" {
		t.Errorf("note message = %q", got)
	}

	if len(rec.Fixes) != 1 {
		t.Fatalf("len(Fixes) = %d, want 1", len(rec.Fixes))
	}
	fx := rec.Fixes[0]
	if fx.Title != "insert line break after header" {
		t.Errorf("fix title = %q", fx.Title)
	}
	// WithFix выставляет дефолты quickfix/always-safe, они должны дойти
	// до вывода как есть.
	if fx.Kind != "quickfix" {
		t.Errorf("fix kind = %q, want %q", fx.Kind, "quickfix")
	}
	if fx.Applicability != "always-safe" {
		t.Errorf("fix applicability = %q, want %q", fx.Applicability, "always-safe")
	}
	if fx.IsPreferred {
		t.Error("IsPreferred = true, want false")
	}
	if fx.BuildError != "" {
		t.Errorf("BuildError = %q, want empty", fx.BuildError)
	}

	if len(fx.Edits) != 1 {
		t.Fatalf("len(Edits) = %d, want 1", len(fx.Edits))
	}
	if e := fx.Edits[0]; e.NewText != "\n" || e.OldText != "" {
		t.Errorf("edit = insert %q over %q, want insert \"\\n\" over \"\"", e.NewText, e.OldText)
	}
}

// Строка и колонка прячутся за omitempty, байтовые смещения есть всегда.
func TestJSONPositionsAreOptIn(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte("let x = 42"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevInfo,
		diag.HdrInfo,
		source.Span{File: fileID, Start: 4, End: 5},
		"Info message",
	))

	output := decodeJSON(t, bag, fs, JSONOpts{
		IncludePositions: false,
		PathMode:         PathModeBasename,
	})

	loc := output.Diagnostics[0].Location
	if loc.StartLine != 0 {
		t.Errorf("StartLine = %d, want omitted (0)", loc.StartLine)
	}
	if loc.StartByte != 4 {
		t.Errorf("StartByte = %d, want 4", loc.StartByte)
	}
}

func TestJSONTruncatesAtMax(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.js", []byte("test content"))

	bag := diag.NewBag(10)
	for i := range 5 {
		bag.Add(diag.New(
			diag.SevError,
			diag.HdrMissing,
			source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)},
			"Error message",
		))
	}

	output := decodeJSON(t, bag, fs, JSONOpts{
		PathMode: PathModeBasename,
		Max:      3,
	})

	// Count отражает усечённый список, а не размер bag.
	if output.Count != 3 {
		t.Errorf("Count = %d, want 3", output.Count)
	}
	if len(output.Diagnostics) != 3 {
		t.Errorf("len(Diagnostics) = %d, want 3", len(output.Diagnostics))
	}
}

func TestJSONPathRendering(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/dev/webapp")
	fileID := fs.AddVirtual("/home/dev/webapp/src/main.js", []byte("test"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.HdrMissing,
		source.Span{File: fileID, Start: 0, End: 1},
		"Error",
	))

	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"absolute", PathModeAbsolute, "/home/dev/webapp/src/main.js"},
		{"relative", PathModeRelative, "src/main.js"},
		{"basename", PathModeBasename, "main.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := decodeJSON(t, bag, fs, JSONOpts{PathMode: tt.mode})
			if got := output.Diagnostics[0].Location.File; got != tt.want {
				t.Errorf("Location.File = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestJSONTimingsForceNotes проверяет, что замеры всегда выводятся с заметками,
// даже если IncludeNotes выключен.
func TestJSONTimingsForceNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("timings", []byte(""))

	bag := diag.NewBag(2)
	d := diag.New(
		diag.SevInfo,
		diag.ObsTimings,
		source.Span{File: fileID, Start: 0, End: 0},
		"pipeline timings",
	)
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 0}, "load: 1.2ms")
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 0}, "validate: 0.4ms")
	bag.Add(d)

	output := decodeJSON(t, bag, fs, JSONOpts{
		PathMode:     PathModeBasename,
		IncludeNotes: false,
	})

	if len(output.Diagnostics) != 1 {
		t.Fatalf("len(Diagnostics) = %d, want 1", len(output.Diagnostics))
	}
	if got := len(output.Diagnostics[0].Notes); got != 2 {
		t.Fatalf("len(Notes) = %d, want timings notes to survive IncludeNotes=false", got)
	}
}

func TestJSONEditPreviews(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("example.js", []byte("app();"))

	bag := diag.NewBag(2)
	insertSpan := source.Span{File: fileID, Start: 0, End: 0}
	d := diag.New(diag.SevError, diag.HdrMissing, insertSpan, "missing header")
	d = d.WithFix("insert header", diag.TextEdit{
		Span:    insertSpan,
		NewText: "/* Copyright */\n",
	})
	bag.Add(d)

	output := decodeJSON(t, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeFixes:     true,
		IncludePreviews:  true,
	})

	if len(output.Diagnostics) != 1 || len(output.Diagnostics[0].Fixes) != 1 {
		t.Fatal("want exactly one diagnostic with one fix")
	}
	fx := output.Diagnostics[0].Fixes[0]
	if len(fx.Edits) != 1 {
		t.Fatalf("len(Edits) = %d, want 1", len(fx.Edits))
	}

	// Вставка в начало файла: до правки одна строка, после неё заголовок
	// плюс прежний код.
	e := fx.Edits[0]
	if len(e.BeforeLines) != 1 || e.BeforeLines[0] != "app();" {
		t.Errorf("BeforeLines = %q, want [\"app();\"]", e.BeforeLines)
	}
	if len(e.AfterLines) != 2 {
		t.Fatalf("len(AfterLines) = %d, want 2", len(e.AfterLines))
	}
	if e.AfterLines[0] != "/* Copyright */" || e.AfterLines[1] != "app();" {
		t.Errorf("AfterLines = %q, want header then code", e.AfterLines)
	}
}
