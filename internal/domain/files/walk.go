package files

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// DefaultInclude matches every root-relative path
const DefaultInclude = "**"

// Flattener expands a selection of files and directories into plain files
type Flattener struct {
	guard   *Guard
	include string
}

// NewFlattener creates a flattener keeping only files whose root-relative path
// matches the doublestar pattern include.
func NewFlattener(guard *Guard, include string) (*Flattener, error) {
	if include == "" {
		include = DefaultInclude
	}
	if !doublestar.ValidatePattern(include) {
		return nil, fmt.Errorf("invalid include pattern %q", include)
	}
	return &Flattener{guard: guard, include: include}, nil
}

// Flatten returns the sorted, de-duplicated set of files reachable from paths.
// Directories expand to all descendant files; symlinked directories are not
// followed, and symlinks are kept only when they resolve to a regular file
// inside the root.
func (f *Flattener) Flatten(ctx context.Context, paths []string) ([]string, error) {
	var (
		mu   sync.Mutex
		seen = make(map[string]struct{})
	)
	add := func(p string) {
		mu.Lock()
		seen[p] = struct{}{}
		mu.Unlock()
	}

	for _, p := range paths {
		info, err := os.Lstat(p)
		if err != nil {
			continue
		}

		if !info.IsDir() {
			if f.isFile(p, info.Mode()) {
				add(p)
			}
			continue
		}

		conf := fastwalk.Config{Follow: false}
		err = fastwalk.Walk(&conf, p, func(path string, d fs.DirEntry, err error) error {
			// Check for context cancellation
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err != nil || d.IsDir() {
				return nil
			}
			if f.isFile(path, d.Type()) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("flatten %s: %w", f.guard.Rel(p), err)
		}
	}

	files := make([]string, 0, len(seen))
	for p := range seen {
		ok, err := doublestar.Match(f.include, f.guard.Rel(p))
		if err != nil || !ok {
			continue
		}
		files = append(files, p)
	}
	sort.Strings(files)
	return files, nil
}

func (f *Flattener) isFile(path string, mode fs.FileMode) bool {
	if mode.IsRegular() {
		return true
	}
	if mode&fs.ModeSymlink == 0 {
		return false
	}

	target, err := filepath.EvalSymlinks(path)
	if err != nil || !f.guard.Contains(target) {
		return false
	}
	info, err := os.Stat(target)
	return err == nil && info.Mode().IsRegular()
}

type removal struct {
	path     string
	expanded bool
}

// RemoveTree deletes path and everything below it, children before parents,
// without following symlinks. Every entry is attempted; one error is returned per
// entry that could not be removed.
func RemoveTree(path string) []error {
	var errs []error
	stack := []removal{{path: path}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		info, err := os.Lstat(top.path)
		if err != nil {
			if !os.IsNotExist(err) {
				errs = append(errs, err)
			}
			continue
		}

		if info.IsDir() && !top.expanded {
			stack = append(stack, removal{path: top.path, expanded: true})
			entries, err := os.ReadDir(top.path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			for _, entry := range entries {
				stack = append(stack, removal{path: filepath.Join(top.path, entry.Name())})
			}
			continue
		}

		if err := os.Remove(top.path); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}
