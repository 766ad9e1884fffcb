package workflows

import (
	"context"
	"encoding/json"
	"net/http"
)

// Request carries what the upload endpoint received
type Request struct {
	RobotName   string
	FileName    string
	ContentType string
	Body        []byte

	// BodyTruncated is set when the body was longer than the read limit
	BodyTruncated bool
}

// Segment is the first part of a multipart body
type Segment struct {
	FileName    string // original client filename, informational only
	ContentType string
	Data        []byte
}

// Target identifies where a picture is stored
type Target struct {
	RobotName string
	FileName  string
	URL       string
}

// WorkflowContext contains context for workflow execution
type WorkflowContext struct {
	Ctx     context.Context
	Request Request
	RunID   string
}

// Result is the single outcome of a workflow run. Exactly one of Body or Err is set.
type Result struct {
	Target *Target
	Body   json.RawMessage
	Err    *Error
}

// Succeeded creates a successful result
func Succeeded(target *Target, body json.RawMessage) *Result {
	return &Result{Target: target, Body: body}
}

// Failed creates a failed result from any error
func Failed(err error) *Result {
	return &Result{Err: AsError(err)}
}

// Success reports whether the run completed without error
func (r *Result) Success() bool {
	return r.Err == nil
}

// Status returns the HTTP status for the result
func (r *Result) Status() int {
	if r.Err != nil {
		return r.Err.Status()
	}
	return http.StatusOK
}

// Outcome labels the result for metrics
func (r *Result) Outcome() string {
	if r.Err != nil {
		return string(r.Err.Kind)
	}
	return "success"
}

// Workflow defines the interface for processing an upload
type Workflow interface {
	// Execute runs the workflow
	Execute(wctx *WorkflowContext) *Result

	// Name returns the workflow name
	Name() string
}

// StorageWriter stores a picture payload
type StorageWriter interface {
	Put(ctx context.Context, robotName string, fileName string, data []byte, contentType string) error
}

// ObjectDetector requests object detection for a stored picture
type ObjectDetector interface {
	DetectObjects(ctx context.Context, resourceURL string) (json.RawMessage, error)
}
