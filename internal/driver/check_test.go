package driver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"headerlint/internal/diag"
	"headerlint/internal/header"
	"headerlint/internal/source"
)

const (
	goodSource = "/*Copyright 2015, My Company*/\nconsole.log(1);\n"
	badSource  = "console.log(1);\n"
	// oldSource carries a header with the wrong year, which the engine
	// repairs with a rewrite.
	oldSource = "/*Copyright 2014, My Company*/\nconsole.log(1);\n"
)

// testSpec returns the block spec shared by the driver tests.
func testSpec() *header.Spec {
	return &header.Spec{
		Kind:          header.BlockComment,
		Lines:         []header.LineRule{header.Literal("Copyright 2015, My Company")},
		TrailingLines: 1,
		EOL:           "\n",
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func readBack(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestCheckFileCompliant(t *testing.T) {
	tmp := t.TempDir()
	path := writeFile(t, tmp, "good.js", goodSource)

	fileSet := source.NewFileSetWithBase(tmp)
	out := CheckFile(fileSet, testSpec(), nil, path, Options{NoCache: true})

	if out.Bag.Len() != 0 {
		t.Fatalf("Bag.Len() = %d, want 0: %+v", out.Bag.Len(), out.Bag.Items())
	}
	if out.FromCache {
		t.Fatal("no cache was supplied, FromCache must be false")
	}
	if out.Path != path {
		t.Fatalf("Path = %q, want %q", out.Path, path)
	}
}

func TestCheckFileMissingHeader(t *testing.T) {
	tmp := t.TempDir()
	path := writeFile(t, tmp, "bad.js", badSource)

	fileSet := source.NewFileSetWithBase(tmp)
	out := CheckFile(fileSet, testSpec(), nil, path, Options{NoCache: true})

	if out.Bag.Len() != 1 {
		t.Fatalf("Bag.Len() = %d, want 1", out.Bag.Len())
	}
	d := out.Bag.Items()[0]
	if d.Code != diag.HdrMissing {
		t.Fatalf("Code = %v, want HdrMissing", d.Code)
	}
	if d.Message != "missing header" {
		t.Fatalf("Message = %q", d.Message)
	}
	if len(d.Fixes) != 1 {
		t.Fatalf("expected 1 fix, got %d", len(d.Fixes))
	}
	wantID := fmt.Sprintf("insert-header-%d", out.FileID)
	if d.Fixes[0].ID != wantID {
		t.Fatalf("fix ID = %q, want %q", d.Fixes[0].ID, wantID)
	}
}

func TestCheckFileLoadError(t *testing.T) {
	tmp := t.TempDir()
	missing := filepath.Join(tmp, "nope.js")

	fileSet := source.NewFileSetWithBase(tmp)
	out := CheckFile(fileSet, testSpec(), nil, missing, Options{NoCache: true})

	if out.Bag.Len() != 1 {
		t.Fatalf("Bag.Len() = %d, want 1", out.Bag.Len())
	}
	d := out.Bag.Items()[0]
	if d.Code != diag.IOLoadFileError {
		t.Fatalf("Code = %v, want IOLoadFileError", d.Code)
	}
	if !strings.HasPrefix(d.Message, "failed to load file: ") {
		t.Fatalf("Message = %q", d.Message)
	}
	if !d.Primary.Empty() {
		t.Fatalf("I/O diagnostics carry an empty span, got %v", d.Primary)
	}
}

func TestCheckFileCacheRoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	tmp := t.TempDir()
	path := writeFile(t, tmp, "bad.js", badSource)

	cache, err := OpenResultCache(cacheAppName)
	if err != nil {
		t.Fatalf("OpenResultCache: %v", err)
	}

	first := CheckFile(source.NewFileSetWithBase(tmp), testSpec(), cache, path, Options{})
	if first.FromCache {
		t.Fatal("first run must miss the cache")
	}
	if first.Bag.Len() != 1 {
		t.Fatalf("first run: Bag.Len() = %d, want 1", first.Bag.Len())
	}

	// повторный прогон с чистым FileSet должен поднять вердикт с диска
	second := CheckFile(source.NewFileSetWithBase(tmp), testSpec(), cache, path, Options{})
	if !second.FromCache {
		t.Fatal("second run must hit the cache")
	}
	if second.Bag.Len() != 1 {
		t.Fatalf("second run: Bag.Len() = %d, want 1", second.Bag.Len())
	}

	got := second.Bag.Items()[0]
	want := first.Bag.Items()[0]
	if got.Message != want.Message || got.Code != want.Code {
		t.Fatalf("restored diagnostic differs: got %q/%v, want %q/%v", got.Message, got.Code, want.Message, want.Code)
	}
	if len(got.Fixes) != 1 || got.Fixes[0].ID != want.Fixes[0].ID {
		t.Fatalf("restored fix differs: %+v", got.Fixes)
	}
}

func TestCheckFileCacheSchemaMismatch(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	tmp := t.TempDir()
	path := writeFile(t, tmp, "bad.js", badSource)

	cache, err := OpenResultCache(cacheAppName)
	if err != nil {
		t.Fatalf("OpenResultCache: %v", err)
	}

	fileSet := source.NewFileSetWithBase(tmp)
	fileID, err := fileSet.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	file := fileSet.Get(fileID)
	key := resultKey(file.Hash, testSpec().Hash())

	// Запись со старой схемой обязана читаться как промах, а не как чистый файл.
	if err := cache.Put(key, &resultPayload{Schema: resultCacheSchemaVersion + 1, Clean: true}); err != nil {
		t.Fatalf("put: %v", err)
	}

	out := CheckFile(source.NewFileSetWithBase(tmp), testSpec(), cache, path, Options{})
	if out.FromCache {
		t.Fatal("stale schema must not count as a hit")
	}
	if out.Bag.Len() != 1 {
		t.Fatalf("expected a fresh validation finding, got %d diagnostics", out.Bag.Len())
	}
}

func TestCheckFileTimings(t *testing.T) {
	tmp := t.TempDir()
	path := writeFile(t, tmp, "bad.js", badSource)

	fileSet := source.NewFileSetWithBase(tmp)
	out := CheckFile(fileSet, testSpec(), nil, path, Options{NoCache: true, EnableTimings: true})

	if out.Timing == nil {
		t.Fatal("expected a timing report")
	}

	var timing *diag.Diagnostic
	for _, d := range out.Bag.Items() {
		if d.Code == diag.ObsTimings {
			timing = d
		}
	}
	if timing == nil {
		t.Fatal("expected an ObsTimings diagnostic in the bag")
	}
	if !strings.HasPrefix(timing.Message, "file timings: total") {
		t.Fatalf("timing message = %q", timing.Message)
	}
	if len(timing.Notes) != 1 {
		t.Fatalf("expected the payload note, got %d notes", len(timing.Notes))
	}

	var payload timingPayload
	if err := json.Unmarshal([]byte(timing.Notes[0].Msg), &payload); err != nil {
		t.Fatalf("payload does not parse: %v", err)
	}
	if payload.Kind != "file" || payload.Path != path {
		t.Fatalf("payload = %+v", payload)
	}
	names := make(map[string]bool)
	for _, phase := range payload.Phases {
		names[phase.Name] = true
	}
	if !names["load"] || !names["validate"] {
		t.Fatalf("expected load and validate phases, got %+v", payload.Phases)
	}
}

func TestBagLimitDefaults(t *testing.T) {
	if got := bagLimit(Options{}); got != defaultMaxDiagnostics {
		t.Fatalf("bagLimit(zero) = %d, want %d", got, defaultMaxDiagnostics)
	}
	if got := bagLimit(Options{MaxDiagnostics: 7}); got != 7 {
		t.Fatalf("bagLimit(7) = %d", got)
	}
}
