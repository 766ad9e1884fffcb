package workflows

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a workflow failure
type Kind string

const (
	KindValidation    Kind = "validation"
	KindConfiguration Kind = "configuration"
	KindParse         Kind = "parse"
	KindContentPolicy Kind = "content_policy"
	KindStorage       Kind = "storage"
	KindUpstream      Kind = "upstream"
)

// Messages returned to the caller as the response body
const (
	MsgRobotNameMissing   = "robotName is not defined"
	MsgFilenameMissing    = "filename is not defined"
	MsgBodyMissing        = "Request body is not defined"
	MsgContentTypeMissing = "Content type is not sent in header 'content-type'"
	MsgFileBufferInvalid  = "File buffer is incorrect"
)

var (
	// ErrNoSegments is returned when the body holds no multipart segment
	ErrNoSegments = errors.New("no multipart segments found")

	// ErrNoBoundary is returned when the content-type header carries no boundary
	ErrNoBoundary = errors.New("no multipart boundary in content type")
)

// Error is a tagged workflow failure
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Status maps the failure kind to the HTTP status of the response
func (e *Error) Status() int {
	if e.Kind == KindParse {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ResponseBody is the text written back to the caller.
// Parse failures only report the message; their cause is logged.
func (e *Error) ResponseBody() string {
	if e.Kind == KindParse {
		return e.Message
	}
	return e.Error()
}

// NewError creates an error without a cause
func NewError(kind Kind, op, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
	}
}

// WrapError tags err. An already tagged error is returned unchanged.
func WrapError(kind Kind, op, message string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Cause:   err,
	}
}

// IsKind checks whether the error chain carries the provided kind.
func IsKind(err error, kind Kind) bool {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind == kind
	}
	return false
}

// AsError returns err as a tagged error, treating untagged errors as upstream failures
func AsError(err error) *Error {
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return &Error{Kind: KindUpstream, Op: "unknown", Message: err.Error()}
}
