package domain

import (
	"errors"
	"fmt"
)

// ============================================================================
// Artifact Errors
// ============================================================================

var (
	ErrInvalidArtifactID   = errors.New("invalid artifact id")
	ErrUnknownDownloadMode = errors.New("unknown download mode")
)

// Upstream contract violations
var (
	ErrNoRedirectLocation = errors.New("no redirect location found")
)

// Transfer errors
var (
	ErrClientDisconnected = errors.New("client disconnected during transfer")
)

// ============================================================================
// Upstream Errors
// ============================================================================

// UpstreamError is returned when the upstream API answered with a non-success
// status or could not be reached. StatusCode is 0 when no response arrived.
type UpstreamError struct {
	Operation  string
	URL        string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s: status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("upstream %s: %v", e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
