package executor

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/doeshing/vshell/internal/domain"
)

// nowFunc is swapped in tests that assert mtime updates.
var nowFunc = time.Now

// Copy duplicates a file or folder. When the destination resolves to an
// existing directory the copy is placed inside it under the source's final
// name. Directory copies are fully recursive and fail if the destination
// already exists (no merge); file copies preserve mode and mtime where the
// platform allows. Nothing is ever overwritten.
func (e *Executor) Copy(srcName, dstName string) (string, error) {
	src, dst, err := e.resolvePair(srcName, dstName)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%q: %w", srcName, domain.ErrNotFound)
	}
	if err != nil {
		return "", classify(err)
	}
	if info.IsDir() {
		if _, err := os.Lstat(dst); err == nil {
			return "", fmt.Errorf("%q: %w", filepath.Base(dst), domain.ErrAlreadyExists)
		}
		if err := copyDir(src, dst); err != nil {
			return "", classify(err)
		}
		return fmt.Sprintf("Copied folder '%s' to '%s'", filepath.Base(src), filepath.Base(dst)), nil
	}
	if err := copyFile(src, dst, info); err != nil {
		return "", classify(err)
	}
	return fmt.Sprintf("Copied file '%s' to '%s'", filepath.Base(src), filepath.Base(dst)), nil
}

// Move relocates a file or folder. Like Copy, an existing directory
// destination redirects the move inside it. Existing destinations are never
// overwritten. A plain rename is attempted first; cross-device moves fall
// back to copy+delete.
func (e *Executor) Move(srcName, dstName string) (string, error) {
	src, dst, err := e.resolvePair(srcName, dstName)
	if err != nil {
		return "", err
	}
	if _, err := os.Lstat(src); errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%q: %w", srcName, domain.ErrNotFound)
	} else if err != nil {
		return "", classify(err)
	}
	if _, err := os.Lstat(dst); err == nil {
		return "", fmt.Errorf("target %q: %w", filepath.Base(dst), domain.ErrAlreadyExists)
	}
	if err := os.Rename(src, dst); err != nil {
		// Cross-device fallback: copy, then remove the source.
		info, statErr := os.Stat(src)
		if statErr != nil {
			return "", classify(err)
		}
		if info.IsDir() {
			if err := copyDir(src, dst); err != nil {
				return "", classify(err)
			}
		} else if err := copyFile(src, dst, info); err != nil {
			return "", classify(err)
		}
		if err := os.RemoveAll(src); err != nil {
			return "", classify(err)
		}
	}
	return fmt.Sprintf("Moved '%s' to '%s'", filepath.Base(src), filepath.Base(dst)), nil
}

// resolvePair resolves source and destination through the sandbox and
// applies the redirect-into-existing-directory rule shared by Copy and Move.
func (e *Executor) resolvePair(srcName, dstName string) (src, dst string, err error) {
	src, err = e.State.Resolve(srcName)
	if err != nil {
		return "", "", err
	}
	dst, err = e.State.Resolve(dstName)
	if err != nil {
		return "", "", err
	}
	if info, statErr := os.Stat(dst); statErr == nil && info.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
		if !e.State.Inside(dst) {
			return "", "", fmt.Errorf("%q: %w", dstName, domain.ErrPathEscape)
		}
	}
	return src, dst, nil
}

func copyFile(src, dst string, info fs.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	// Preserve timestamps where the platform allows.
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm())
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			// Symlinks and specials are skipped; they are never jump
			// targets inside the sandbox.
			return nil
		}
		return copyFile(path, target, info)
	})
}
