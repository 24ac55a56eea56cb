// Package gitutil отвечает за взаимодействие с git-репозиторием:
// поиск репозитория вверх от рабочей директории и список файлов,
// добавленных в индекс. Используется режимом --staged-only.
package gitutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository reports that the directory is not inside a git worktree.
var ErrNotRepository = errors.New("not a git repository")

// IsRepository reports whether dir lives inside a git worktree.
// Поиск .git идёт вверх по дереву, как у самого git.
func IsRepository(dir string) bool {
	_, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	return err == nil
}

// StagedPaths returns absolute paths of the files staged in the repository
// containing dir. Deleted entries are skipped: they have no content to lint.
// The result is sorted for deterministic processing order.
func StagedPaths(dir string) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: %w", dir, ErrNotRepository)
		}
		return nil, fmt.Errorf("opening git repo: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("getting status: %w", err)
	}

	root := wt.Filesystem.Root()
	paths := make([]string, 0, len(status))
	for rel, st := range status {
		if !isStaged(st.Staging) {
			continue
		}
		paths = append(paths, filepath.Join(root, filepath.FromSlash(rel)))
	}
	sort.Strings(paths)
	return paths, nil
}

// isStaged отличает записи индекса от незатронутых и неотслеживаемых.
func isStaged(code git.StatusCode) bool {
	switch code {
	case git.Unmodified, git.Untracked, git.Deleted:
		return false
	default:
		return true
	}
}
