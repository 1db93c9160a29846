// Package fsutil holds the filesystem helpers used for clip artifacts.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"twdl/app/apperr"

	"github.com/google/uuid"
)

const tempSuffix = ".part"

// WriteFile streams the output of write into a hidden temporary file next to path and renames
// it over path once everything was written. Nothing is left at path, and the temporary file is
// removed, when write or any filesystem step fails. Errors returned by write are passed through
// unchanged; filesystem errors wrap apperr.ErrIO.
func WriteFile(path string, perm fs.FileMode, write func(w io.Writer) error) (err error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmpPath := filepath.Join(dir, "."+name+"."+uuid.NewString()+tempSuffix)

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("%w: could not create temp file: %w", apperr.ErrIO, err)
	}

	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = write(f); err != nil {
		return err
	}

	if err = f.Sync(); err != nil {
		return fmt.Errorf("%w: could not sync temp file: %w", apperr.ErrIO, err)
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: could not close temp file: %w", apperr.ErrIO, err)
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: could not move file into place: %w", apperr.ErrIO, err)
	}

	return nil
}

// Exists reports whether a regular file (or anything other than a directory) is present at path.
func Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, fmt.Errorf("%w: could not stat %s: %w", apperr.ErrIO, path, err)
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: could not create output dir: %w", apperr.ErrIO, err)
	}

	return nil
}
