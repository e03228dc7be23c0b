// internal/importer/errors.go
package importer

import "errors"

var (
	// ErrJobRunning indicates another bulk job is active in the session.
	ErrJobRunning = errors.New("a batch job is already running")

	// ErrNothingSelected indicates a delete was requested with no ids.
	ErrNothingSelected = errors.New("no sources selected")
)
