package diag

import (
	"testing"

	"headerlint/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	first := fs.Add("/workspace/src/app.js", []byte("a\nb\n"), 0)
	second := fs.Add("/workspace/src/util.js", []byte("x\n"), 0)

	diags := []*Diagnostic{
		{
			Severity: SevError,
			Code:     HdrLineMismatch,
			Message:  "line one\nline two",
			Primary:  source.Span{File: first, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: first, Start: 2, End: 3}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     HdrTrailing,
			Message:  "another",
			Primary:  source.Span{File: second, Start: 0, End: 1},
		},
	}

	expected := "error HDR1007 src/app.js:1:1 line one line two\n" +
		"note HDR1007 src/app.js:2:1 note line\n" +
		"warning HDR1009 src/util.js:1:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("golden mismatch:\nwant:\n%s\ngot:\n%s", expected, got)
	}
}

func TestFormatShortDiagnostics_BagOrderIsStable(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")
	id := fs.Add("/workspace/b.js", []byte("line\n"), 0)
	id2 := fs.Add("/workspace/a.js", []byte("line\n"), 0)

	bag := NewBag(10)
	bag.Add(NewError(HdrMissing, source.Span{File: id, Start: 0, End: 0}, "missing header"))
	bag.Add(NewError(HdrMissing, source.Span{File: id2, Start: 0, End: 0}, "missing header"))

	expected := "error HDR1001 a.js:1:1 missing header\n" +
		"error HDR1001 b.js:1:1 missing header"

	if got := FormatShortDiagnostics(bag, fs, false); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}

	if got := FormatShortDiagnostics(nil, fs, false); got != "" {
		t.Fatalf("nil bag must render empty, got %q", got)
	}
}
