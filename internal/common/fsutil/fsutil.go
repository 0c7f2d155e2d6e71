// Package fsutil holds small filesystem helpers shared by the CLI and HTTP layers.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"
)

// ExpandHome expands a leading '~' to the user's home directory.
// Paths like "~user/x" are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// PathExists checks if the given path exists.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// Resolve returns p as seen from dir: relative paths are joined to dir,
// absolute paths and an empty dir leave p unchanged.
func Resolve(dir, p string) string {
	if dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// FileSummary describes a file produced by one of the pipeline steps.
type FileSummary struct {
	Path   string
	Size   int64
	Digest digest.Digest
}

// Summarize stats path and, when withDigest is set, computes its sha256 digest.
func Summarize(path string, withDigest bool) (FileSummary, error) {
	s := FileSummary{Path: path}
	fi, err := os.Stat(path)
	if err != nil {
		return s, err
	}
	if fi.IsDir() {
		return s, fmt.Errorf("%s is a directory", path)
	}
	s.Size = fi.Size()
	if !withDigest {
		return s, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return s, err
	}
	defer f.Close()
	d, err := digest.Canonical.FromReader(f)
	if err != nil {
		return s, fmt.Errorf("digest %s: %w", path, err)
	}
	s.Digest = d
	return s, nil
}
