package sandbox

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/doeshing/vshell/internal/domain"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	state, err := NewState(filepath.Join(t.TempDir(), "box"))
	if err != nil {
		t.Fatalf("NewState error: %v", err)
	}
	return state
}

func TestNewStateCreatesMissingRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh")
	state, err := NewState(path)
	if err != nil {
		t.Fatalf("NewState error: %v", err)
	}
	info, err := os.Stat(state.Root())
	if err != nil || !info.IsDir() {
		t.Fatalf("expected sandbox directory at %s", state.Root())
	}
	if state.Cwd() != state.Root() {
		t.Fatalf("cwd should start at root, got %s", state.Cwd())
	}
}

func TestNewStateRejectsNonDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewState(path); err == nil {
		t.Fatal("expected error for non-directory sandbox path")
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	state := newTestState(t)

	escapes := []string{
		"..",
		"../..",
		"../../etc/passwd",
		"a/../../etc/passwd",
		"a/b/../../../outside",
		"./../../x",
		"../box-sibling",
		"docs/../../../../../../tmp",
	}
	for _, input := range escapes {
		if _, err := state.Resolve(input); !errors.Is(err, domain.ErrPathEscape) {
			t.Errorf("Resolve(%q): expected ErrPathEscape, got %v", input, err)
		}
	}
}

func TestResolveRejectsAbsoluteOutside(t *testing.T) {
	state := newTestState(t)
	if _, err := state.Resolve("/etc/passwd"); !errors.Is(err, domain.ErrPathEscape) {
		t.Fatalf("expected ErrPathEscape for absolute path, got %v", err)
	}
}

// Every accepted path must be the root or a descendant of it, including
// inputs that mix valid segments with .. sequences.
func TestResolveAcceptedPathsStayInside(t *testing.T) {
	state := newTestState(t)
	if err := os.MkdirAll(filepath.Join(state.Root(), "a", "b"), 0o755); err != nil {
		t.Fatal(err)
	}

	inputs := []string{
		"", ".", "a", "a/b", "a/b/..", "a/../a/b", "fresh.txt",
		"a/./b", "a//b", "a/b/../../a",
	}
	for _, input := range inputs {
		resolved, err := state.Resolve(input)
		if err != nil {
			t.Errorf("Resolve(%q): unexpected error %v", input, err)
			continue
		}
		if resolved != state.Root() && !strings.HasPrefix(resolved, state.Root()+string(filepath.Separator)) {
			t.Errorf("Resolve(%q) = %s leaves sandbox %s", input, resolved, state.Root())
		}
	}
}

func TestResolveSymlinkEscape(t *testing.T) {
	outside := t.TempDir()
	state := newTestState(t)

	link := filepath.Join(state.Root(), "jump")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	for _, input := range []string{"jump", "jump/secret.txt"} {
		if _, err := state.Resolve(input); !errors.Is(err, domain.ErrPathEscape) {
			t.Errorf("Resolve(%q): expected ErrPathEscape through symlink, got %v", input, err)
		}
	}
}

func TestResolveNonexistentLeafInside(t *testing.T) {
	state := newTestState(t)
	resolved, err := state.Resolve("brand-new.txt")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if want := filepath.Join(state.Root(), "brand-new.txt"); resolved != want {
		t.Fatalf("Resolve = %s, want %s", resolved, want)
	}
}

func TestChangeDirectory(t *testing.T) {
	state := newTestState(t)
	if err := os.Mkdir(filepath.Join(state.Root(), "docs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(state.Root(), "plain.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := state.ChangeDirectory("docs"); err != nil {
		t.Fatalf("cd docs: %v", err)
	}
	if state.Cwd() != filepath.Join(state.Root(), "docs") {
		t.Fatalf("cwd = %s", state.Cwd())
	}

	if err := state.ChangeDirectory(".."); err != nil {
		t.Fatalf("cd ..: %v", err)
	}
	if state.Cwd() != state.Root() {
		t.Fatalf("cwd should be root, got %s", state.Cwd())
	}

	// Parent of the root has no usable parent.
	if err := state.ChangeDirectory(".."); !errors.Is(err, domain.ErrPathEscape) {
		t.Fatalf("cd .. at root: expected ErrPathEscape, got %v", err)
	}
	if state.Cwd() != state.Root() {
		t.Fatal("failed cd must leave cwd untouched")
	}

	if err := state.ChangeDirectory("plain.txt"); !errors.Is(err, domain.ErrWrongType) {
		t.Fatalf("cd into file: expected ErrWrongType, got %v", err)
	}
	if err := state.ChangeDirectory("ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cd into missing: expected ErrNotFound, got %v", err)
	}
	if state.Cwd() != state.Root() {
		t.Fatal("failed cd must leave cwd untouched")
	}
}

func TestRel(t *testing.T) {
	state := newTestState(t)
	if got := state.Rel(state.Root()); got != "/" {
		t.Fatalf("Rel(root) = %q, want /", got)
	}
	child := filepath.Join(state.Root(), "docs", "a.txt")
	if got := state.Rel(child); got != "/docs/a.txt" {
		t.Fatalf("Rel(child) = %q", got)
	}
}

func TestInside(t *testing.T) {
	state := newTestState(t)
	cases := []struct {
		path string
		want bool
	}{
		{state.Root(), true},
		{filepath.Join(state.Root(), "x"), true},
		{filepath.Dir(state.Root()), false},
		{state.Root() + "-sibling", false},
	}
	for _, tc := range cases {
		if got := state.Inside(tc.path); got != tc.want {
			t.Errorf("Inside(%s) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
