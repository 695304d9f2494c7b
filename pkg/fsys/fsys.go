// Package fsys locates the project root and performs file I/O for the
// configuration loader.
//
// All paths handed to a Resolver are interpreted relative to its root
// directory; absolute paths pass through unchanged. Writes go through a
// temp-file-then-rename sequence so a cancelled or failed save never
// leaves a partially written file behind.
package fsys

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// markerFiles are the configuration file names that identify a project
// root, checked in order.
var markerFiles = []string{"db.json", ".db.json", "json-echo.json"}

// FindRoot walks upward from start looking for a directory containing
// one of the project marker files. It returns start itself when no
// marker is found anywhere up to the filesystem root; absence of a
// marker is not an error.
func FindRoot(start string) string {
	dir := start
	for {
		for _, marker := range markerFiles {
			if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && !info.IsDir() {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

// Resolver performs file operations relative to a fixed root directory.
type Resolver struct {
	root string
}

// NewResolver creates a Resolver rooted at root. When root is empty the
// project root is discovered by walking up from the working directory.
func NewResolver(root string) (*Resolver, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, &IOError{Path: ".", Err: err}
		}
		root = FindRoot(wd)
	}
	return &Resolver{root: normalizePath(root)}, nil
}

// normalizePath resolves symlinks and relative components, falling back
// to an absolute form of the original path when resolution fails.
func normalizePath(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// Root returns the resolver's root directory.
func (r *Resolver) Root() string { return r.root }

// Resolve maps a relative path onto the root. Absolute paths are
// returned unchanged.
func (r *Resolver) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.root, path)
}

// FindConfigFile checks the root for the standard configuration file
// names and returns the first that exists.
func (r *Resolver) FindConfigFile() (string, bool) {
	for _, marker := range markerFiles {
		path := filepath.Join(r.root, marker)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// LoadFile reads the full contents of the named file.
func (r *Resolver) LoadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := r.Resolve(path)

	info, err := os.Stat(full)
	if err != nil {
		return nil, wrapPathError(full, err)
	}
	if info.IsDir() {
		return nil, &IsADirectoryError{Path: full}
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, wrapPathError(full, err)
	}
	return data, nil
}

// SaveFile writes data to the named file, creating parent directories
// as needed. The write lands in a uniquely named temp file first and is
// renamed into place, so readers observe either the old contents or the
// new, never a partial write.
func (r *Resolver) SaveFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full := r.Resolve(path)

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return wrapPathError(dir, err)
	}

	if info, err := os.Stat(full); err == nil && info.IsDir() {
		return &IsADirectoryError{Path: full}
	}

	tmp := full + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return wrapPathError(full, err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return wrapPathError(full, err)
	}
	return nil
}
