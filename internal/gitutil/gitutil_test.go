package gitutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
)

func initRepo(t *testing.T) (string, *git.Worktree) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return dir, wt
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestStagedPaths(t *testing.T) {
	dir, wt := initRepo(t)

	writeFile(t, dir, "a.js", "app();\n")
	writeFile(t, dir, "b.js", "lib();\n")

	// в индекс попадает только a.js; b.js остаётся untracked
	if _, err := wt.Add("a.js"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	paths, err := StagedPaths(dir)
	if err != nil {
		t.Fatalf("StagedPaths: %v", err)
	}

	if len(paths) != 1 {
		t.Fatalf("expected 1 staged path, got %d: %v", len(paths), paths)
	}
	if filepath.Base(paths[0]) != "a.js" {
		t.Errorf("expected a.js, got %s", paths[0])
	}
	if !filepath.IsAbs(paths[0]) {
		t.Errorf("expected absolute path, got %s", paths[0])
	}
}

func TestStagedPathsFromSubdirectory(t *testing.T) {
	dir, wt := initRepo(t)

	writeFile(t, dir, filepath.Join("src", "c.js"), "code();\n")
	if _, err := wt.Add("src/c.js"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// открываем из поддиректории: .git должен найтись выше
	paths, err := StagedPaths(filepath.Join(dir, "src"))
	if err != nil {
		t.Fatalf("StagedPaths: %v", err)
	}

	if len(paths) != 1 {
		t.Fatalf("expected 1 staged path, got %d: %v", len(paths), paths)
	}
	if filepath.Base(paths[0]) != "c.js" {
		t.Errorf("expected c.js, got %s", paths[0])
	}
}

func TestStagedPathsNotRepository(t *testing.T) {
	dir := t.TempDir()

	_, err := StagedPaths(dir)
	if err == nil {
		t.Fatal("expected error for non-repository directory")
	}
	if !errors.Is(err, ErrNotRepository) {
		t.Errorf("expected ErrNotRepository, got %v", err)
	}
}

func TestIsRepository(t *testing.T) {
	dir, _ := initRepo(t)

	if !IsRepository(dir) {
		t.Error("expected repository root to be detected")
	}

	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if !IsRepository(sub) {
		t.Error("expected nested directory to be inside repository")
	}

	if IsRepository(t.TempDir()) {
		t.Error("expected plain temp dir to not be a repository")
	}
}

func TestIsStaged(t *testing.T) {
	tests := []struct {
		code git.StatusCode
		want bool
	}{
		{git.Unmodified, false},
		{git.Untracked, false},
		{git.Deleted, false},
		{git.Added, true},
		{git.Modified, true},
		{git.Renamed, true},
	}

	for _, tt := range tests {
		if got := isStaged(tt.code); got != tt.want {
			t.Errorf("isStaged(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
