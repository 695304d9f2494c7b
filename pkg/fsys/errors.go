package fsys

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// NotFoundError reports a path that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// IsADirectoryError reports a path that names a directory where a file
// was expected.
type IsADirectoryError struct {
	Path string
}

func (e *IsADirectoryError) Error() string {
	return fmt.Sprintf("path is a directory, not a file: %s", e.Path)
}

// PermissionError reports insufficient permissions for a path.
type PermissionError struct {
	Path string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Path)
}

// IOError wraps any other OS-level failure for a path.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("i/o error on %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// wrapPathError maps an OS error to this package's error taxonomy.
func wrapPathError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &NotFoundError{Path: path}
	case errors.Is(err, fs.ErrPermission):
		return &PermissionError{Path: path}
	case errors.Is(err, syscall.EISDIR):
		return &IsADirectoryError{Path: path}
	default:
		return &IOError{Path: path, Err: err}
	}
}
