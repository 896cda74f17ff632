package executor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/vshell/internal/domain"
	"github.com/doeshing/vshell/internal/infrastructure/sandbox"
)

// fakeLauncher records launch attempts without spawning anything.
type fakeLauncher struct {
	apps  []string
	paths []string
	err   error
}

func (f *fakeLauncher) OpenApp(name string) error {
	if f.err != nil {
		return f.err
	}
	f.apps = append(f.apps, name)
	return nil
}

func (f *fakeLauncher) OpenPath(path string) error {
	if f.err != nil {
		return f.err
	}
	f.paths = append(f.paths, path)
	return nil
}

func newTestExecutor(t *testing.T) (*Executor, *fakeLauncher) {
	t.Helper()
	state, err := sandbox.NewState(filepath.Join(t.TempDir(), "box"))
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	launcher := &fakeLauncher{}
	return New(state, launcher, nil), launcher
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestMkdirMkfileList(t *testing.T) {
	e, _ := newTestExecutor(t)

	if out, err := e.Mkdir("docs"); err != nil || out != "Created folder 'docs'" {
		t.Fatalf("Mkdir = %q, %v", out, err)
	}
	if out, err := e.Mkfile("a.txt"); err != nil || out != "Created file 'a.txt'" {
		t.Fatalf("Mkfile = %q, %v", out, err)
	}

	entries, err := e.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []domain.DirEntry{{Name: "a.txt"}, {Name: "docs", Dir: true}}
	if len(entries) != len(want) {
		t.Fatalf("List returned %d entries, want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestMkdirMkfileNeverOverwrite(t *testing.T) {
	e, _ := newTestExecutor(t)
	if _, err := e.Mkdir("docs"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Mkdir("docs"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("second Mkdir err = %v, want ErrAlreadyExists", err)
	}
	if _, err := e.Mkfile("a.txt"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Mkfile("a.txt"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("second Mkfile err = %v, want ErrAlreadyExists", err)
	}
}

func TestDelete(t *testing.T) {
	e, _ := newTestExecutor(t)
	writeFile(t, filepath.Join(e.State.Root(), "a.txt"), "x")
	if err := os.Mkdir(filepath.Join(e.State.Root(), "docs"), 0o755); err != nil {
		t.Fatal(err)
	}

	// Declared type must match the entry's actual type.
	if _, err := e.Delete(domain.TargetFolder, "a.txt"); !errors.Is(err, domain.ErrWrongType) {
		t.Errorf("delete folder on file err = %v, want ErrWrongType", err)
	}
	if _, err := e.Delete(domain.TargetFile, "docs"); !errors.Is(err, domain.ErrWrongType) {
		t.Errorf("delete file on folder err = %v, want ErrWrongType", err)
	}

	out, err := e.Delete(domain.TargetFile, "a.txt")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if out != "Successfully deleted file 'a.txt'" {
		t.Errorf("outcome = %q", out)
	}
	if _, err := os.Lstat(filepath.Join(e.State.Root(), "a.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Error("file still present after delete")
	}

	if out, err := e.Delete(domain.TargetFolder, "docs"); err != nil || out != "Successfully deleted folder 'docs'" {
		t.Fatalf("Delete folder = %q, %v", out, err)
	}
	if _, err := e.Delete(domain.TargetFile, "missing.txt"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("delete missing err = %v, want ErrNotFound", err)
	}
}

func TestRename(t *testing.T) {
	e, _ := newTestExecutor(t)
	writeFile(t, filepath.Join(e.State.Root(), "old.txt"), "x")
	writeFile(t, filepath.Join(e.State.Root(), "taken.txt"), "y")

	out, err := e.Rename("old.txt", "new.txt")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if out != "Renamed file 'old.txt' to 'new.txt'" {
		t.Errorf("outcome = %q", out)
	}
	if _, err := e.Rename("missing.txt", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("rename missing err = %v, want ErrNotFound", err)
	}
	if _, err := e.Rename("new.txt", "taken.txt"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("rename onto existing err = %v, want ErrAlreadyExists", err)
	}
}

func TestRenameStaysInParent(t *testing.T) {
	e, _ := newTestExecutor(t)
	writeFile(t, filepath.Join(e.State.Root(), "docs", "a.txt"), "x")
	if err := e.State.ChangeDirectory("docs"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Rename("a.txt", "b.txt"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, err := os.Stat(filepath.Join(e.State.Root(), "docs", "b.txt")); err != nil {
		t.Error("renamed entry not in source's parent")
	}
}

func TestReadCapsLines(t *testing.T) {
	e, _ := newTestExecutor(t)
	var b strings.Builder
	for i := 0; i < 150; i++ {
		b.WriteString("line\n")
	}
	writeFile(t, filepath.Join(e.State.Root(), "big.txt"), b.String())

	outcome, lines, err := e.Read("big.txt", 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(lines) != ReadMaxLines {
		t.Errorf("got %d lines, want %d", len(lines), ReadMaxLines)
	}
	if outcome != "Read 100 lines from 'big.txt'" {
		t.Errorf("outcome = %q", outcome)
	}

	if _, _, err := e.Read("missing.txt", 0); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("read missing err = %v, want ErrNotFound", err)
	}
	if err := os.Mkdir(filepath.Join(e.State.Root(), "d"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, _, err := e.Read("d", 0); !errors.Is(err, domain.ErrWrongType) {
		t.Errorf("read directory err = %v, want ErrWrongType", err)
	}
}

func TestAppend(t *testing.T) {
	e, _ := newTestExecutor(t)
	if _, err := e.Append("log.txt", "first"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Append("log.txt", "second"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(e.State.Root(), "log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first\nsecond\n" {
		t.Errorf("content = %q, want %q", data, "first\nsecond\n")
	}
}

func TestSearch(t *testing.T) {
	e, _ := newTestExecutor(t)
	writeFile(t, filepath.Join(e.State.Root(), "Report-2025.txt"), "")
	writeFile(t, filepath.Join(e.State.Root(), "docs", "report-old.txt"), "")
	writeFile(t, filepath.Join(e.State.Root(), "notes.md"), "")

	matches, err := e.Search("REPORT")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches: %v", len(matches), matches)
	}
	for _, m := range matches {
		if !strings.Contains(strings.ToLower(m), "report") {
			t.Errorf("unexpected match %q", m)
		}
	}
}

func TestGrep(t *testing.T) {
	e, _ := newTestExecutor(t)
	writeFile(t, filepath.Join(e.State.Root(), "a.txt"), "hello\nNeedle here\nbye\n")
	writeFile(t, filepath.Join(e.State.Root(), "sub", "b.txt"), "needle again\n")

	matches, err := e.Grep("needle")
	if err != nil {
		t.Fatalf("Grep: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches: %v", len(matches), matches)
	}
	if matches[0].Line != 2 || matches[0].Text != "Needle here" {
		t.Errorf("first match = %+v", matches[0])
	}
}

func TestGrepCap(t *testing.T) {
	e, _ := newTestExecutor(t)
	var b strings.Builder
	for i := 0; i < GrepMaxMatches+50; i++ {
		b.WriteString("needle\n")
	}
	writeFile(t, filepath.Join(e.State.Root(), "huge.txt"), b.String())

	matches, err := e.Grep("needle")
	if err != nil {
		t.Fatalf("Grep: %v", err)
	}
	if len(matches) != GrepMaxMatches {
		t.Errorf("got %d matches, want cap %d", len(matches), GrepMaxMatches)
	}
}

func TestSize(t *testing.T) {
	e, _ := newTestExecutor(t)
	writeFile(t, filepath.Join(e.State.Root(), "empty.txt"), "")
	writeFile(t, filepath.Join(e.State.Root(), "half.txt"), strings.Repeat("x", 512))
	writeFile(t, filepath.Join(e.State.Root(), "docs", "a.bin"), strings.Repeat("x", 100))
	writeFile(t, filepath.Join(e.State.Root(), "docs", "b.bin"), strings.Repeat("x", 924))

	cases := []struct {
		name string
		want string
	}{
		{"empty.txt", "Size of 'empty.txt': 0 B"},
		{"half.txt", "Size of 'half.txt': 512 B"},
		{"docs", "Size of 'docs': 1.00 KB"},
	}
	for _, tc := range cases {
		got, err := e.Size(tc.name)
		if err != nil {
			t.Fatalf("Size(%q): %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("Size(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
	if _, err := e.Size("missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("size missing err = %v, want ErrNotFound", err)
	}
}

func TestTree(t *testing.T) {
	e, _ := newTestExecutor(t)
	writeFile(t, filepath.Join(e.State.Root(), "a.txt"), "")
	writeFile(t, filepath.Join(e.State.Root(), "docs", "deep", "x.txt"), "")
	writeFile(t, filepath.Join(e.State.Root(), "docs", "note.md"), "")

	lines, err := e.Tree(2)
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	want := []string{
		"box/",
		"├─ a.txt",
		"└─ docs/",
		"  ├─ deep/",
		"  └─ note.md",
	}
	if len(lines) != len(want) {
		t.Fatalf("tree lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	// Depth 0 is the root line alone.
	lines, err = e.Tree(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0] != "box/" {
		t.Errorf("depth-0 tree = %q, want only the root line", lines)
	}

	// Depth 3 descends one level further.
	lines, err = e.Tree(3)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, l := range lines {
		if l == "    └─ x.txt" {
			found = true
		}
	}
	if !found {
		t.Errorf("depth-3 tree missing nested file: %q", lines)
	}
}

func TestTouch(t *testing.T) {
	e, _ := newTestExecutor(t)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	old := nowFunc
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = old }()

	if out, err := e.Touch("new.txt"); err != nil || out != "Touched 'new.txt'" {
		t.Fatalf("Touch = %q, %v", out, err)
	}
	info, err := os.Stat(filepath.Join(e.State.Root(), "new.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Error("touch created non-empty file")
	}
	if !info.ModTime().Equal(fixed) {
		t.Errorf("mtime = %v, want %v", info.ModTime(), fixed)
	}

	// Touching an existing file refreshes mtime without altering content.
	writeFile(t, filepath.Join(e.State.Root(), "kept.txt"), "content")
	past := fixed.Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(e.State.Root(), "kept.txt"), past, past); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Touch("kept.txt"); err != nil {
		t.Fatal(err)
	}
	info, err = os.Stat(filepath.Join(e.State.Root(), "kept.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(fixed) {
		t.Errorf("mtime not refreshed: %v", info.ModTime())
	}
	data, _ := os.ReadFile(filepath.Join(e.State.Root(), "kept.txt"))
	if string(data) != "content" {
		t.Error("touch altered content")
	}
}

func TestRecentFiles(t *testing.T) {
	e, _ := newTestExecutor(t)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"oldest.txt", "middle.txt", "newest.txt"} {
		path := filepath.Join(e.State.Root(), name)
		writeFile(t, path, "x")
		ts := base.Add(time.Duration(i) * time.Hour)
		if err := os.Chtimes(path, ts, ts); err != nil {
			t.Fatal(err)
		}
	}

	files, err := e.RecentFiles(2)
	if err != nil {
		t.Fatalf("RecentFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	if filepath.Base(files[0].Path) != "newest.txt" || filepath.Base(files[1].Path) != "middle.txt" {
		t.Errorf("order = %q, %q", files[0].Path, files[1].Path)
	}
}

func TestStats(t *testing.T) {
	e, _ := newTestExecutor(t)
	writeFile(t, filepath.Join(e.State.Root(), "a.txt"), "")
	writeFile(t, filepath.Join(e.State.Root(), "b.txt"), "")
	if err := os.Mkdir(filepath.Join(e.State.Root(), "docs"), 0o755); err != nil {
		t.Fatal(err)
	}
	// Nested entries are not counted.
	writeFile(t, filepath.Join(e.State.Root(), "docs", "nested.txt"), "")

	s, err := e.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.Files != 2 || s.Folders != 1 || s.Total != 3 {
		t.Errorf("stats = %+v", s)
	}
}

func TestChangeDirectoryAndPwd(t *testing.T) {
	e, _ := newTestExecutor(t)
	if err := os.MkdirAll(filepath.Join(e.State.Root(), "docs", "deep"), 0o755); err != nil {
		t.Fatal(err)
	}
	if e.Pwd() != "/" {
		t.Errorf("pwd at root = %q", e.Pwd())
	}
	out, err := e.ChangeDirectory("docs/deep")
	if err != nil {
		t.Fatalf("ChangeDirectory: %v", err)
	}
	if out != "Changed directory to 'deep'" {
		t.Errorf("outcome = %q", out)
	}
	if e.Pwd() != "/docs/deep" {
		t.Errorf("pwd = %q", e.Pwd())
	}
}

func TestOpenFileCandidates(t *testing.T) {
	e, launcher := newTestExecutor(t)
	writeFile(t, filepath.Join(e.State.Root(), "notes.txt"), "x")

	cases := []string{
		"notes.txt",     // literal
		"notes dot txt", // spoken punctuation
		"notes txt",     // bare word extension
	}
	for _, input := range cases {
		out, err := e.OpenFile(input)
		if err != nil {
			t.Fatalf("OpenFile(%q): %v", input, err)
		}
		if out != "Opened 'notes.txt'" {
			t.Errorf("OpenFile(%q) = %q", input, out)
		}
	}
	if len(launcher.paths) != len(cases) {
		t.Errorf("launcher invoked %d times, want %d", len(launcher.paths), len(cases))
	}

	if _, err := e.OpenFile("absent dot txt"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("open missing err = %v, want ErrNotFound", err)
	}
}

func TestOpenAppFailClosed(t *testing.T) {
	e, launcher := newTestExecutor(t)

	out, err := e.OpenApp("calc")
	if err != nil {
		t.Fatalf("OpenApp: %v", err)
	}
	if out != "Opened application: calc" {
		t.Errorf("outcome = %q", out)
	}

	launcher.err = domain.ErrUnsupportedApp
	spawned := len(launcher.apps)
	if _, err := e.OpenApp("rogue"); !errors.Is(err, domain.ErrUnsupportedApp) {
		t.Errorf("err = %v, want ErrUnsupportedApp", err)
	}
	if len(launcher.apps) != spawned {
		t.Error("launch attempted for rejected app")
	}
}

func TestCopyRedirectsIntoDirectory(t *testing.T) {
	e, _ := newTestExecutor(t)
	writeFile(t, filepath.Join(e.State.Root(), "a.txt"), "payload")
	if err := os.Mkdir(filepath.Join(e.State.Root(), "backups"), 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := e.Copy("a.txt", "backups")
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if out != "Copied file 'a.txt' to 'a.txt'" {
		t.Errorf("outcome = %q", out)
	}
	data, err := os.ReadFile(filepath.Join(e.State.Root(), "backups", "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("copied content = %q", data)
	}
	// Source survives a copy.
	if _, err := os.Stat(filepath.Join(e.State.Root(), "a.txt")); err != nil {
		t.Error("copy removed the source")
	}
}

func TestCopyNeverOverwrites(t *testing.T) {
	e, _ := newTestExecutor(t)
	writeFile(t, filepath.Join(e.State.Root(), "a.txt"), "new")
	writeFile(t, filepath.Join(e.State.Root(), "b.txt"), "existing")

	if _, err := e.Copy("a.txt", "b.txt"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("copy onto existing err = %v, want ErrAlreadyExists", err)
	}
	data, _ := os.ReadFile(filepath.Join(e.State.Root(), "b.txt"))
	if string(data) != "existing" {
		t.Error("destination clobbered")
	}
}

func TestCopyDirectoryRecursive(t *testing.T) {
	e, _ := newTestExecutor(t)
	writeFile(t, filepath.Join(e.State.Root(), "src", "deep", "x.txt"), "x")
	writeFile(t, filepath.Join(e.State.Root(), "src", "top.txt"), "t")

	out, err := e.Copy("src", "dst")
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if out != "Copied folder 'src' to 'dst'" {
		t.Errorf("outcome = %q", out)
	}
	for _, rel := range []string{"dst/top.txt", "dst/deep/x.txt"} {
		if _, err := os.Stat(filepath.Join(e.State.Root(), filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s after copy", rel)
		}
	}
}

func TestMove(t *testing.T) {
	e, _ := newTestExecutor(t)
	writeFile(t, filepath.Join(e.State.Root(), "a.txt"), "payload")
	if err := os.Mkdir(filepath.Join(e.State.Root(), "archive"), 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := e.Move("a.txt", "archive")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if out != "Moved 'a.txt' to 'a.txt'" {
		t.Errorf("outcome = %q", out)
	}
	if _, err := os.Stat(filepath.Join(e.State.Root(), "a.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Error("source survived a move")
	}
	if _, err := os.Stat(filepath.Join(e.State.Root(), "archive", "a.txt")); err != nil {
		t.Error("destination missing after move")
	}

	// Moving onto an occupied name is refused.
	writeFile(t, filepath.Join(e.State.Root(), "b.txt"), "b")
	writeFile(t, filepath.Join(e.State.Root(), "archive", "b.txt"), "kept")
	if _, err := e.Move("b.txt", "archive"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("move onto existing err = %v, want ErrAlreadyExists", err)
	}
	if _, err := e.Move("missing.txt", "archive"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("move missing err = %v, want ErrNotFound", err)
	}
}
