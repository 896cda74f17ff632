// Package sandbox owns the path-confinement invariant: every path VShell
// touches is the sandbox root or a descendant of it, after resolving all
// relative components and symbolic links. It also holds the shell's current
// directory, which only successful navigation may move.
package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/doeshing/vshell/internal/domain"
)

// State tracks the immutable sandbox root and the mutable current directory.
// Single-writer: mutation happens only on the command-processing flow, so no
// internal locking is performed.
type State struct {
	root string
	cwd  string
}

// NewState resolves the sandbox root, creating the directory when missing,
// and positions the current directory at the root.
func NewState(path string) (*State, error) {
	if path == "" {
		path = "sandbox"
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve sandbox path: %w", err)
	}
	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return nil, fmt.Errorf("create sandbox: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("stat sandbox: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("sandbox path %q exists but is not a directory", abs)
	}
	// The root itself may sit behind symlinks (e.g. /tmp on macOS); pin the
	// real path so containment checks compare like with like.
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve sandbox root: %w", err)
	}
	return &State{root: real, cwd: real}, nil
}

// Root returns the sandbox root.
func (s *State) Root() string { return s.root }

// Cwd returns the current directory. Always inside the sandbox.
func (s *State) Cwd() string { return s.cwd }

// Resolve joins name to the current directory when relative, normalizes away
// ".", ".." and symlinks, and verifies the result stays inside the sandbox.
// The containment check runs after normalization, so "a/../../etc/passwd"
// traversal and symlink indirection are both caught. The leaf (and any
// trailing to-be-created components) need not exist.
func (s *State) Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." {
		return s.cwd, nil
	}
	target := name
	if !filepath.IsAbs(target) {
		target = filepath.Join(s.cwd, target)
	}
	resolved, err := resolveExisting(filepath.Clean(target))
	if err != nil {
		return "", err
	}
	if !s.Inside(resolved) {
		return "", fmt.Errorf("%q: %w", name, domain.ErrPathEscape)
	}
	return resolved, nil
}

// Inside reports whether path is the sandbox root or a descendant of it.
// The path is expected to be absolute and normalized (as from Resolve).
func (s *State) Inside(path string) bool {
	if path == s.root {
		return true
	}
	return strings.HasPrefix(path, s.root+string(filepath.Separator))
}

// ChangeDirectory resolves path, requires it to be an in-sandbox directory,
// and only then moves the current directory. On any failure the current
// directory is left untouched. Asking for the parent of the root fails: the
// root has no usable parent.
func (s *State) ChangeDirectory(path string) error {
	if strings.TrimSpace(path) == ".." && s.cwd == s.root {
		return fmt.Errorf("already at sandbox root: %w", domain.ErrPathEscape)
	}
	target, err := s.Resolve(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("directory %q: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return classifyOSError(err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory: %w", path, domain.ErrWrongType)
	}
	s.cwd = target
	return nil
}

// Rel renders a path relative to the sandbox root, prefixed with the root
// marker. The root itself renders as "/".
func (s *State) Rel(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel)
}

// resolveExisting resolves symlinks for the deepest existing ancestor of
// path and re-joins the remaining (not yet existing) components. This lets
// create operations target fresh names while still catching symlinked
// parents that point outside the sandbox.
func resolveExisting(path string) (string, error) {
	remainder := ""
	probe := path
	for {
		real, err := filepath.EvalSymlinks(probe)
		if err == nil {
			return filepath.Clean(filepath.Join(real, remainder)), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", classifyOSError(err)
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			// Hit the filesystem root without finding anything that exists.
			return filepath.Clean(path), nil
		}
		remainder = filepath.Join(filepath.Base(probe), remainder)
		probe = parent
	}
}

func classifyOSError(err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%v: %w", err, domain.ErrPermissionDenied)
	}
	return err
}
