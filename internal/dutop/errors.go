package dutop

import "emperror.dev/errors"

const (
	// ErrOpenDir is returned when a directory cannot be opened or listed.
	ErrOpenDir = errors.Sentinel("cannot open directory")
	// ErrNotDirectory is returned when the base path is not a directory.
	ErrNotDirectory = errors.Sentinel("not a directory")
	// ErrInvalidCount is returned when fewer than one entry is requested.
	ErrInvalidCount = errors.Sentinel("count must be at least 1")
)

// openError ties a directory-open failure to the path that caused it.
type openError struct {
	path string
	err  error
}

func (e *openError) Error() string {
	return "opening " + e.path + ": " + e.err.Error()
}

func (e *openError) Unwrap() []error {
	return []error{ErrOpenDir, e.err}
}
