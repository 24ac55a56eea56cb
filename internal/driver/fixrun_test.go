package driver

import (
	"context"
	"errors"
	"testing"

	"headerlint/internal/config"
	"headerlint/internal/fix"
)

func TestFixPathAppliesAndRechecks(t *testing.T) {
	tmp := t.TempDir()
	badPath := writeFile(t, tmp, "bad.js", badSource)
	oldPath := writeFile(t, tmp, "old.js", oldSource)

	fileSet, result, err := FixPath(context.Background(), tmp, &config.Config{}, testSpec(),
		fix.ApplyOptions{Mode: fix.ApplyModeAll}, Options{NoCache: true})
	if err != nil {
		t.Fatalf("FixPath: %v", err)
	}
	if fileSet == nil {
		t.Fatal("expected a fileset")
	}

	if got := len(result.Result.Applied); got != 2 {
		t.Fatalf("Applied = %d, want 2 (%+v)", got, result.Result.Skipped)
	}
	if result.Rechecked != 2 {
		t.Fatalf("Rechecked = %d, want 2", result.Rechecked)
	}
	if result.Remaining != 0 {
		t.Fatalf("Remaining = %d, want 0", result.Remaining)
	}

	// оба файла на диске приведены к спецификации
	if got := readBack(t, badPath); got != goodSource {
		t.Fatalf("bad.js after fix:\n%q", got)
	}
	if got := readBack(t, oldPath); got != goodSource {
		t.Fatalf("old.js after fix:\n%q", got)
	}
}

func TestFixPathDryRun(t *testing.T) {
	tmp := t.TempDir()
	badPath := writeFile(t, tmp, "bad.js", badSource)

	_, result, err := FixPath(context.Background(), tmp, &config.Config{}, testSpec(),
		fix.ApplyOptions{Mode: fix.ApplyModeAll, DryRun: true}, Options{NoCache: true})
	if err != nil {
		t.Fatalf("FixPath: %v", err)
	}

	if len(result.Result.Applied) != 1 {
		t.Fatalf("dry run still reports applied fixes, got %d", len(result.Result.Applied))
	}
	if result.Rechecked != 0 {
		t.Fatalf("dry run must not recheck, got %d", result.Rechecked)
	}
	if result.Remaining != 1 {
		t.Fatalf("Remaining = %d, want 1 (disk untouched)", result.Remaining)
	}
	if got := readBack(t, badPath); got != badSource {
		t.Fatalf("dry run modified the file:\n%q", got)
	}
}

func TestFixPathNothingToFix(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "good.js", goodSource)

	_, result, err := FixPath(context.Background(), tmp, &config.Config{}, testSpec(),
		fix.ApplyOptions{Mode: fix.ApplyModeAll}, Options{NoCache: true})
	if !errors.Is(err, fix.ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if result == nil {
		t.Fatal("ErrNoFixes still returns a result")
	}
	if result.Remaining != 0 {
		t.Fatalf("Remaining = %d, want 0", result.Remaining)
	}
	if len(result.Result.Applied) != 0 {
		t.Fatalf("Applied = %+v", result.Result.Applied)
	}
}

func TestFixPathModeID(t *testing.T) {
	tmp := t.TempDir()
	badPath := writeFile(t, tmp, "bad.js", badSource)
	oldPath := writeFile(t, tmp, "old.js", oldSource)

	// файлы грузятся в отсортированном порядке: bad.js получает ID 0
	_, result, err := FixPath(context.Background(), tmp, &config.Config{}, testSpec(),
		fix.ApplyOptions{Mode: fix.ApplyModeID, TargetID: "insert-header-0"}, Options{NoCache: true})
	if err != nil {
		t.Fatalf("FixPath: %v", err)
	}

	if len(result.Result.Applied) != 1 || result.Result.Applied[0].ID != "insert-header-0" {
		t.Fatalf("Applied = %+v", result.Result.Applied)
	}
	if result.Remaining != 1 {
		t.Fatalf("Remaining = %d, want 1 (old.js untouched)", result.Remaining)
	}
	if got := readBack(t, badPath); got != goodSource {
		t.Fatalf("bad.js after fix:\n%q", got)
	}
	if got := readBack(t, oldPath); got != oldSource {
		t.Fatalf("old.js must stay untouched:\n%q", got)
	}
}

func TestFixPathSingleFile(t *testing.T) {
	tmp := t.TempDir()
	badPath := writeFile(t, tmp, "bad.js", badSource)

	_, result, err := FixPath(context.Background(), badPath, &config.Config{}, testSpec(),
		fix.ApplyOptions{Mode: fix.ApplyModeOnce}, Options{NoCache: true})
	if err != nil {
		t.Fatalf("FixPath: %v", err)
	}
	if len(result.Result.Applied) != 1 {
		t.Fatalf("Applied = %+v", result.Result.Applied)
	}
	if result.Remaining != 0 {
		t.Fatalf("Remaining = %d, want 0", result.Remaining)
	}
	if got := readBack(t, badPath); got != goodSource {
		t.Fatalf("bad.js after fix:\n%q", got)
	}
}

func TestFixPathTimings(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "bad.js", badSource)

	_, result, err := FixPath(context.Background(), tmp, &config.Config{}, testSpec(),
		fix.ApplyOptions{Mode: fix.ApplyModeAll}, Options{NoCache: true, EnableTimings: true})
	if err != nil {
		t.Fatalf("FixPath: %v", err)
	}
	if result.Timing == nil {
		t.Fatal("expected a timing report")
	}
	names := make(map[string]bool)
	for _, phase := range result.Timing.Phases {
		names[phase.Name] = true
	}
	for _, want := range []string{"check", "apply", "recheck"} {
		if !names[want] {
			t.Fatalf("missing %q phase in %+v", want, result.Timing.Phases)
		}
	}
}

func TestFixFilesSubset(t *testing.T) {
	tmp := t.TempDir()
	badPath := writeFile(t, tmp, "bad.js", badSource)
	oldPath := writeFile(t, tmp, "old.js", oldSource)

	// чиним только bad.js; old.js в списке нет и остаётся как был
	_, result, err := FixFiles(context.Background(), tmp, []string{badPath}, testSpec(),
		fix.ApplyOptions{Mode: fix.ApplyModeAll}, Options{NoCache: true})
	if err != nil {
		t.Fatalf("FixFiles: %v", err)
	}

	if got := len(result.Result.Applied); got != 1 {
		t.Fatalf("Applied = %d, want 1", got)
	}
	if result.Remaining != 0 {
		t.Fatalf("Remaining = %d, want 0", result.Remaining)
	}
	if got := readBack(t, badPath); got != goodSource {
		t.Fatalf("bad.js after fix:\n%q", got)
	}
	if got := readBack(t, oldPath); got != oldSource {
		t.Fatalf("old.js must stay untouched:\n%q", got)
	}
}

func TestFixFilesEmptyList(t *testing.T) {
	tmp := t.TempDir()

	_, result, err := FixFiles(context.Background(), tmp, nil, testSpec(),
		fix.ApplyOptions{Mode: fix.ApplyModeAll}, Options{NoCache: true})
	if !errors.Is(err, fix.ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if result == nil || result.Remaining != 0 {
		t.Fatalf("result = %+v", result)
	}
}
