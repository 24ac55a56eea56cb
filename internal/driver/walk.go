package driver

import (
	"io/fs"
	"path/filepath"
	"sort"

	"headerlint/internal/config"
)

// ListFiles возвращает отсортированный список файлов под dir, подходящих
// под расширения из конфига. Каталоги из exclude-списка не обходятся.
func ListFiles(dir string, cfg *config.Config) ([]string, error) {
	exts := cfg.Extensions()
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && cfg.Excluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if hasExtension(path, exts) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Фиксированный порядок обхода делает прогоны воспроизводимыми
	sort.Strings(files)
	return files, nil
}

// FilterPaths keeps the paths that the config would have picked up during a
// walk: matching extension and no excluded directory anywhere in the path.
// Used for externally supplied lists such as the staged files of a git index.
func FilterPaths(paths []string, cfg *config.Config) []string {
	exts := cfg.Extensions()
	var out []string
	for _, path := range paths {
		if !hasExtension(path, exts) {
			continue
		}
		if underExcludedDir(path, cfg) {
			continue
		}
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

func hasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func underExcludedDir(path string, cfg *config.Config) bool {
	dir := filepath.Dir(path)
	for {
		name := filepath.Base(dir)
		if name == "." || name == string(filepath.Separator) || name == dir {
			return false
		}
		if cfg.Excluded(name) {
			return true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}
