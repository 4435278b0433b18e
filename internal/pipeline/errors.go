package pipeline

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a run failure. Callers map codes to exit statuses
// or UI states without parsing message text.
type ErrorCode string

const (
	// CodeValidation means the request or settings were rejected before
	// any work started.
	CodeValidation ErrorCode = "VALIDATION_FAILED"

	// CodeDecode means an input screenshot could not be read or decoded.
	CodeDecode ErrorCode = "DECODE_FAILED"

	// CodeEncode means the finished montage could not be encoded.
	CodeEncode ErrorCode = "ENCODE_FAILED"

	// CodeBusy means a run was requested while another was in flight.
	CodeBusy ErrorCode = "ALREADY_RUNNING"

	// CodeCanceled means the context was canceled or expired mid-run.
	CodeCanceled ErrorCode = "RUN_CANCELED"

	// CodeInternal means an unexpected internal failure, including a
	// panic converted into an error.
	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// RunError is the error type returned by Runner.Run. Code classifies the
// failure; Cause, when set, is the underlying error and remains reachable
// through errors.Is and errors.As.
type RunError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *RunError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RunError) Unwrap() error {
	return e.Cause
}

// ErrBusy is returned by Run when another run is already in flight.
var ErrBusy = &RunError{Code: CodeBusy, Message: "a montage run is already in progress"}

// CodeOf extracts the ErrorCode from err. Errors that did not originate
// in this package report CodeInternal.
func CodeOf(err error) ErrorCode {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code
	}
	return CodeInternal
}

func runErrorf(code ErrorCode, format string, args ...any) *RunError {
	return &RunError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapRunError(code ErrorCode, cause error, format string, args ...any) *RunError {
	return &RunError{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}
