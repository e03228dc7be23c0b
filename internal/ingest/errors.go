package ingest

import (
	"errors"
	"strings"
)

// ErrNoURLs is returned when a paste yields no usable URL.
var ErrNoURLs = errors.New("no valid URLs found")

// ValidationError lists every problem found in operator input.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid import: " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) add(msg string) {
	e.Errors = append(e.Errors, msg)
}
