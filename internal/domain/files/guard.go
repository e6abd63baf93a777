package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Guard confines path resolution to a canonical root directory
type Guard struct {
	root string
}

// NewGuard canonicalizes root and returns a guard for it. The root must exist
// and be a directory.
func NewGuard(root string) (*Guard, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("root %s: %w", root, ErrNotFound)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("root %s: %w", root, ErrNotFound)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("root %s: %w", root, ErrNotFound)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s: %w", root, ErrNotADirectory)
	}
	return &Guard{root: canonical}, nil
}

// Root returns the canonical root path
func (g *Guard) Root() string {
	return g.root
}

// Resolve canonicalizes rel against the root. Paths that leave the root, either
// lexically or through a symlink, fail with ErrForbidden; paths that do not exist
// fail with ErrNotFound.
func (g *Guard) Resolve(rel string) (string, error) {
	joined := filepath.Join(g.root, rel)
	if !g.Contains(joined) {
		return "", fmt.Errorf("%s: %w", rel, ErrForbidden)
	}

	canonical, err := filepath.EvalSymlinks(joined)
	if err != nil {
		return "", fmt.Errorf("%s: %w", rel, ErrNotFound)
	}
	if !g.Contains(canonical) {
		return "", fmt.Errorf("%s: %w", rel, ErrForbidden)
	}
	return canonical, nil
}

// Locate resolves entry relative to base without following a symlink in the
// final component, so batch operations act on links rather than their targets.
// The root itself can never be located.
func (g *Guard) Locate(base, entry string) (string, error) {
	joined := filepath.Join(base, entry)
	if joined == g.root || !g.Contains(joined) {
		return "", fmt.Errorf("%s: %w", entry, ErrForbidden)
	}

	parent, err := filepath.EvalSymlinks(filepath.Dir(joined))
	if err != nil {
		return "", fmt.Errorf("%s: %w", entry, ErrNotFound)
	}
	if !g.Contains(parent) {
		return "", fmt.Errorf("%s: %w", entry, ErrForbidden)
	}

	target := filepath.Join(parent, filepath.Base(joined))
	if _, err := os.Lstat(target); err != nil {
		return "", fmt.Errorf("%s: %w", entry, ErrNotFound)
	}
	return target, nil
}

// Contains reports whether path lies at or under the root.
func (g *Guard) Contains(path string) bool {
	rel, err := filepath.Rel(g.root, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Rel returns the slash-separated path of abs relative to the root, "" for the root itself.
func (g *Guard) Rel(abs string) string {
	rel, err := filepath.Rel(g.root, abs)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}
