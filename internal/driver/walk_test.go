package driver

import (
	"path/filepath"
	"reflect"
	"testing"

	"headerlint/internal/config"
)

func TestListFilesDefaults(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "b.js", badSource)
	writeFile(t, tmp, filepath.Join("src", "a.ts"), badSource)
	writeFile(t, tmp, "notes.txt", badSource)
	writeFile(t, tmp, filepath.Join("node_modules", "dep.js"), badSource)
	writeFile(t, tmp, filepath.Join("dist", "bundle.js"), badSource)

	files, err := ListFiles(tmp, &config.Config{})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{
		filepath.Join(tmp, "b.js"),
		filepath.Join(tmp, "src", "a.ts"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
}

func TestListFilesCustomConfig(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, tmp, "b.js", badSource)
	writeFile(t, tmp, filepath.Join("src", "a.ts"), badSource)
	writeFile(t, tmp, filepath.Join("vendor", "c.ts"), badSource)

	cfg := &config.Config{Check: config.CheckConfig{
		Extensions: []string{"ts"}, // без точки, нормализуется при загрузке
		Exclude:    []string{"vendor"},
	}}
	files, err := ListFiles(tmp, cfg)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{filepath.Join(tmp, "src", "a.ts")}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
}

func TestFilterPaths(t *testing.T) {
	paths := []string{
		filepath.Join("proj", "src", "b.js"),
		filepath.Join("proj", "node_modules", "dep.js"),
		filepath.Join("proj", "README.md"),
		filepath.Join("proj", "a.ts"),
	}
	got := FilterPaths(paths, &config.Config{})
	want := []string{
		filepath.Join("proj", "a.ts"),
		filepath.Join("proj", "src", "b.js"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterPaths = %v, want %v", got, want)
	}
}

func TestFilterPathsExcludedAnywhere(t *testing.T) {
	// исключённый каталог режет путь на любой глубине
	paths := []string{filepath.Join("a", "node_modules", "b", "c.js")}
	if got := FilterPaths(paths, &config.Config{}); len(got) != 0 {
		t.Fatalf("expected the nested node_modules path to be dropped, got %v", got)
	}
}
