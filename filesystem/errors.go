package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Error kinds. Match with errors.Is against any error returned by [Tree].
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrNoTargetDirectory = errors.New("no target directory")
	ErrIOFailure         = errors.New("io failure")
	ErrInvalidName       = errors.New("invalid name")
)

// Error describes a failed tree operation on a single path
type Error struct {
	Op   string // create_file, create_folder, rename, delete, move, set_root, node
	Path string
	Kind error // one of the Err* kinds above
	Err  error // underlying storage error, may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the underlying storage error to errors.Is/As
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op, path string, kind, err error) *Error {
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

// storageError classifies a storage failure into one of the error kinds
func storageError(op, path string, err error) *Error {
	var target *Error
	if errors.As(err, &target) {
		return target
	}
	return newError(op, path, classify(err), err)
}

func classify(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrExist):
		return ErrAlreadyExists
	default:
		return ErrIOFailure
	}
}

// MoveFailure records one source that could not be moved
type MoveFailure struct {
	Source string
	Err    error
}

// MoveError is returned by [Tree.Move] when one or more sources in a batch
// failed. The remaining sources were still moved.
type MoveError struct {
	Failures []MoveFailure
}

func (e *MoveError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Err.Error())
	}
	return fmt.Sprintf("move: %d of batch failed: %s", len(e.Failures), strings.Join(msgs, "; "))
}

func (e *MoveError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}
