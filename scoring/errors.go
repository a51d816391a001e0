package scoring

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput rejects a write before anything is stored.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownDiscipline is returned for discipline ids missing from the rule table.
	ErrUnknownDiscipline = errors.New("unknown discipline")
	// ErrNotFound is returned when a team or score does not exist.
	ErrNotFound = errors.New("not found")
)

// StorageError wraps a failure of the score store. The engine never retries;
// reads are idempotent so callers may retry safely.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Retryable is always true for storage failures.
func (e *StorageError) Retryable() bool { return true }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// storageErr passes domain errors through untouched and wraps everything else.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrUnknownDiscipline) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
