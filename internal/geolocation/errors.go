package geolocation

import (
	"errors"
	"fmt"
)

// ErrorCode mirrors the numeric codes of the browser Geolocation API
type ErrorCode int

const (
	// CodeCapabilityAbsent is reported when the runtime has no geolocation API
	CodeCapabilityAbsent    ErrorCode = 0
	CodePermissionDenied    ErrorCode = 1
	CodePositionUnavailable ErrorCode = 2
	CodeTimeout             ErrorCode = 3
)

var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("location request timed out")
	ErrCapabilityAbsent    = errors.New("geolocation not supported")
	ErrNoPendingRequest    = errors.New("no pending location request")
)

// LocateError is the failure outcome of one locate request
type LocateError struct {
	Code ErrorCode
	Err  error
}

func (e *LocateError) Error() string {
	return fmt.Sprintf("locate failed (code %d): %v", e.Code, e.Err)
}

func (e *LocateError) Unwrap() error {
	return e.Err
}

// newLocateError maps a collaborator error code to its sentinel. Unknown codes
// are reported as position unavailable.
func newLocateError(code ErrorCode) *LocateError {
	switch code {
	case CodeCapabilityAbsent:
		return &LocateError{Code: code, Err: ErrCapabilityAbsent}
	case CodePermissionDenied:
		return &LocateError{Code: code, Err: ErrPermissionDenied}
	case CodeTimeout:
		return &LocateError{Code: code, Err: ErrTimeout}
	default:
		return &LocateError{Code: CodePositionUnavailable, Err: ErrPositionUnavailable}
	}
}
