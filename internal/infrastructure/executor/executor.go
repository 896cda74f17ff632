// Package executor implements one operation per intent kind. Every operation
// that touches the filesystem resolves its targets through the sandbox
// resolver first and aborts on confinement failure; OS-boundary errors are
// converted to the domain error taxonomy at the operation boundary.
package executor

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/doeshing/vshell/internal/domain"
	"github.com/doeshing/vshell/internal/infrastructure/sandbox"
	"github.com/doeshing/vshell/internal/ports"
)

const (
	// ReadMaxLines caps how many lines a READ returns.
	ReadMaxLines = 100

	// GrepMaxMatches caps content-search results to bound worst-case
	// latency on large trees.
	GrepMaxMatches = 500
)

// Executor runs file operations against the sandboxed tree. Open operations
// are handed to the Launcher port; everything else is local filesystem work.
type Executor struct {
	State    *sandbox.State
	Launcher ports.Launcher
	Logger   ports.Logger
}

// New wires an executor over the given shell state.
func New(state *sandbox.State, launcher ports.Launcher, log ports.Logger) *Executor {
	return &Executor{State: state, Launcher: launcher, Logger: log}
}

// List returns the current directory's entries sorted by name. An empty
// directory is a valid result, not an error.
func (e *Executor) List() ([]domain.DirEntry, error) {
	entries, err := os.ReadDir(e.State.Cwd())
	if err != nil {
		return nil, classify(err)
	}
	out := make([]domain.DirEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, domain.DirEntry{Name: entry.Name(), Dir: entry.IsDir()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Search walks the tree under the current directory and returns
// sandbox-relative paths whose names contain query (case-insensitive),
// sorted by path. Per-entry errors are skipped so one bad file never aborts
// the scan.
func (e *Executor) Search(query string) ([]string, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	var matches []string
	err := filepath.WalkDir(e.State.Cwd(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == e.State.Cwd() {
			return nil
		}
		if strings.Contains(strings.ToLower(d.Name()), q) && e.State.Inside(path) {
			matches = append(matches, e.State.Rel(path))
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Mkdir creates exactly one new directory. Never overwrites.
func (e *Executor) Mkdir(name string) (string, error) {
	target, err := e.State.Resolve(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Lstat(target); err == nil {
		return "", fmt.Errorf("directory %q: %w", name, domain.ErrAlreadyExists)
	}
	if err := os.Mkdir(target, 0o755); err != nil {
		return "", classify(err)
	}
	return fmt.Sprintf("Created folder '%s'", name), nil
}

// Mkfile creates exactly one new empty file. Never overwrites.
func (e *Executor) Mkfile(name string) (string, error) {
	target, err := e.State.Resolve(name)
	if err != nil {
		return "", err
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("file %q: %w", name, domain.ErrAlreadyExists)
		}
		return "", classify(err)
	}
	f.Close()
	return fmt.Sprintf("Created file '%s'", name), nil
}

// Delete removes a file or folder. This is the primitive behind the
// confirmation flow: the dispatcher invokes it only after an explicit
// affirmative reply, never directly from a DELETE intent. The entry's actual
// type must match the requested kind.
func (e *Executor) Delete(target domain.TargetKind, name string) (string, error) {
	path, err := e.State.Resolve(name)
	if err != nil {
		return "", err
	}
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s %q: %w", target, name, domain.ErrNotFound)
	}
	if err != nil {
		return "", classify(err)
	}
	switch target {
	case domain.TargetFolder:
		if !info.IsDir() {
			return "", fmt.Errorf("%q is not a directory: %w", name, domain.ErrWrongType)
		}
		if err := os.RemoveAll(path); err != nil {
			return "", classify(err)
		}
	default:
		if info.IsDir() {
			return "", fmt.Errorf("%q is not a file: %w", name, domain.ErrWrongType)
		}
		if err := os.Remove(path); err != nil {
			return "", classify(err)
		}
	}
	return fmt.Sprintf("Successfully deleted %s '%s'", target, name), nil
}

// Rename gives an entry a new name within its own parent directory. The
// destination is always the source's parent joined with the bare new name.
func (e *Executor) Rename(oldName, newName string) (string, error) {
	src, err := e.State.Resolve(oldName)
	if err != nil {
		return "", err
	}
	if _, err := os.Lstat(src); errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%q: %w", oldName, domain.ErrNotFound)
	} else if err != nil {
		return "", classify(err)
	}
	dst := filepath.Join(filepath.Dir(src), newName)
	if !e.State.Inside(dst) {
		return "", fmt.Errorf("%q: %w", newName, domain.ErrPathEscape)
	}
	if _, err := os.Lstat(dst); err == nil {
		return "", fmt.Errorf("%q: %w", newName, domain.ErrAlreadyExists)
	}
	if err := os.Rename(src, dst); err != nil {
		return "", classify(err)
	}
	kind := "file"
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		kind = "folder"
	}
	return fmt.Sprintf("Renamed %s '%s' to '%s'", kind, filepath.Base(src), filepath.Base(dst)), nil
}

// Read returns up to ReadMaxLines decoded lines of a regular file. Invalid
// byte sequences are dropped rather than failing the read.
func (e *Executor) Read(name string, maxLines int) (string, []string, error) {
	if maxLines <= 0 {
		maxLines = ReadMaxLines
	}
	path, err := e.State.Resolve(name)
	if err != nil {
		return "", nil, err
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil, fmt.Errorf("file %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return "", nil, classify(err)
	}
	if !info.Mode().IsRegular() {
		return "", nil, fmt.Errorf("%q is not a file: %w", name, domain.ErrWrongType)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", nil, classify(err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for len(lines) < maxLines && scanner.Scan() {
		lines = append(lines, strings.ToValidUTF8(scanner.Text(), ""))
	}
	outcome := fmt.Sprintf("Read %d lines from '%s'", len(lines), filepath.Base(path))
	return outcome, lines, nil
}

// Append opens for append (creating if absent) and writes text followed by a
// single newline. Existing content is never truncated.
func (e *Executor) Append(name, text string) (string, error) {
	path, err := e.State.Resolve(name)
	if err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", classify(err)
	}
	defer f.Close()
	if _, err := f.WriteString(text + "\n"); err != nil {
		return "", classify(err)
	}
	return fmt.Sprintf("Appended text to '%s'", filepath.Base(path)), nil
}

// Grep searches file contents under the current directory for a
// case-insensitive substring. Results are capped at GrepMaxMatches and
// returned in file-then-line order; unreadable files are skipped silently.
func (e *Executor) Grep(query string) ([]domain.GrepMatch, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	var matches []domain.GrepMatch
	stop := errors.New("grep cap reached")
	err := filepath.WalkDir(e.State.Cwd(), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer f.Close()
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for line := 1; scanner.Scan(); line++ {
			text := scanner.Text()
			if strings.Contains(strings.ToLower(text), q) && e.State.Inside(path) {
				matches = append(matches, domain.GrepMatch{
					Path: e.State.Rel(path),
					Line: line,
					Text: strings.TrimSpace(strings.ToValidUTF8(text, "")),
				})
				if len(matches) >= GrepMaxMatches {
					return stop
				}
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, stop) {
		return nil, classify(err)
	}
	return matches, nil
}

// Size reports a file's byte length or a directory's recursive content size,
// human-scaled. Symlink cycles are not guarded against; WalkDir does not
// follow directory symlinks, which bounds the scan in practice.
func (e *Executor) Size(name string) (string, error) {
	path, err := e.State.Resolve(name)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return "", classify(err)
	}
	var total int64
	if info.Mode().IsRegular() {
		total = info.Size()
	} else {
		_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if fi, err := d.Info(); err == nil && fi.Mode().IsRegular() {
				total += fi.Size()
			}
			return nil
		})
	}
	return fmt.Sprintf("Size of '%s': %s", filepath.Base(path), FormatSize(total)), nil
}

// Tree renders the current directory as the root line, then children up to
// depth levels; depth 0 renders the root line alone. Entries are name-sorted;
// the last sibling at each level gets a different branch glyph; directories
// carry a trailing separator. The default depth for utterances that omit one
// is applied by the parser, not here.
func (e *Executor) Tree(depth int) ([]string, error) {
	if depth < 0 {
		depth = 0
	}
	base := e.State.Cwd()
	lines := []string{filepath.Base(base) + "/"}
	var walk func(dir string, level int)
	walk = func(dir string, level int) {
		if level > depth {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for i, entry := range entries {
			glyph := "├─ "
			if i == len(entries)-1 {
				glyph = "└─ "
			}
			suffix := ""
			if entry.IsDir() {
				suffix = "/"
			}
			lines = append(lines, strings.Repeat("  ", level)+glyph+entry.Name()+suffix)
			if entry.IsDir() {
				walk(filepath.Join(dir, entry.Name()), level+1)
			}
		}
	}
	walk(base, 1)
	return lines, nil
}

// Touch creates the file empty if absent, otherwise refreshes its
// modification time without altering content.
func (e *Executor) Touch(name string) (string, error) {
	path, err := e.State.Resolve(name)
	if err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", classify(err)
	}
	f.Close()
	now := nowFunc()
	if err := os.Chtimes(path, now, now); err != nil {
		return "", classify(err)
	}
	return fmt.Sprintf("Touched '%s'", filepath.Base(path)), nil
}

// RecentFiles returns regular files under the current directory sorted by
// modification time descending, truncated to count.
func (e *Executor) RecentFiles(count int) ([]domain.RecentFile, error) {
	if count <= 0 {
		count = 10
	}
	var files []domain.RecentFile
	_ = filepath.WalkDir(e.State.Cwd(), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		files = append(files, domain.RecentFile{Path: e.State.Rel(path), ModTime: info.ModTime()})
		return nil
	})
	sort.Slice(files, func(i, j int) bool { return files[i].ModTime.After(files[j].ModTime) })
	if len(files) > count {
		files = files[:count]
	}
	return files, nil
}

// Stats counts the current directory's immediate entries.
func (e *Executor) Stats() (domain.DirStats, error) {
	entries, err := os.ReadDir(e.State.Cwd())
	if err != nil {
		return domain.DirStats{}, classify(err)
	}
	var s domain.DirStats
	for _, entry := range entries {
		if entry.IsDir() {
			s.Folders++
		} else {
			s.Files++
		}
	}
	s.Total = len(entries)
	return s, nil
}

// ChangeDirectory delegates to the resolver; on success the outcome names
// the directory moved into.
func (e *Executor) ChangeDirectory(path string) (string, error) {
	if err := e.State.ChangeDirectory(path); err != nil {
		return "", err
	}
	return fmt.Sprintf("Changed directory to '%s'", filepath.Base(e.State.Cwd())), nil
}

// Pwd reports the current directory relative to the sandbox root, "/" when
// at the root itself.
func (e *Executor) Pwd() string {
	return e.State.Rel(e.State.Cwd())
}

// openFileExtensions are the "word extension" shapes OpenFile reconstructs,
// e.g. "notes txt" -> "notes.txt".
var openFileExtRe = regexp.MustCompile(`^([\w\-. /\\]+)\s+(txt|pdf|docx|xlsx|csv|md|png|jpg|jpeg)$`)

// OpenFile resolves a best-effort path by trying, in order: the raw trimmed
// name, the spoken-punctuation-normalized name, and a dotted reconstruction
// of "word extension" shapes. The first existing in-sandbox candidate is
// handed to the platform's default handler; the launch itself is best-effort.
func (e *Executor) OpenFile(name string) (string, error) {
	raw := strings.TrimSpace(name)
	normalized := strings.TrimSpace(domain.NormalizeSpokenPath(raw))
	candidates := []string{raw}
	if normalized != raw {
		candidates = append(candidates, normalized)
	}
	if m := openFileExtRe.FindStringSubmatch(normalized); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1])+"."+m[2])
	}

	var path string
	for _, cand := range candidates {
		p, err := e.State.Resolve(cand)
		if err != nil {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			path = p
			break
		}
	}
	if path == "" {
		return "", fmt.Errorf("%q: %w", normalized, domain.ErrNotFound)
	}
	if err := e.Launcher.OpenPath(path); err != nil {
		// Best-effort: the handler launch is outside the correctness
		// contract, but the user still gets told.
		if e.Logger != nil {
			e.Logger.Warn("open handler failed", map[string]interface{}{"path": path, "err": err.Error()})
		}
	}
	return fmt.Sprintf("Opened '%s'", filepath.Base(path)), nil
}

// OpenApp launches a whitelisted application. Unknown names fail closed with
// no process spawned.
func (e *Executor) OpenApp(app string) (string, error) {
	if err := e.Launcher.OpenApp(app); err != nil {
		return "", err
	}
	return fmt.Sprintf("Opened application: %s", app), nil
}

// classify converts OS errors into the domain taxonomy at the operation
// boundary.
func classify(err error) error {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%v: %w", err, domain.ErrPermissionDenied)
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%v: %w", err, domain.ErrNotFound)
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%v: %w", err, domain.ErrAlreadyExists)
	default:
		return err
	}
}
