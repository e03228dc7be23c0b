package batch

import (
	"errors"

	"github.com/vmunix/embedarr/internal/library"
)

// Kind classifies a per-item failure.
type Kind string

const (
	KindConflict  Kind = "conflict"
	KindForbidden Kind = "forbidden"
	KindTransient Kind = "transient"
)

// Classify maps a store error onto a failure kind.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, library.ErrDuplicate):
		return KindConflict
	case errors.Is(err, library.ErrPermission):
		return KindForbidden
	default:
		return KindTransient
	}
}

// Reason formats err for display.
func Reason(err error) string {
	switch Classify(err) {
	case KindConflict:
		return "duplicate: " + err.Error()
	case KindForbidden:
		return "forbidden: " + err.Error()
	default:
		return err.Error()
	}
}
