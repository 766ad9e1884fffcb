package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/tendant/picture-validation/internal/metrics"
	"github.com/tendant/picture-validation/internal/workflows"
	"github.com/tendant/picture-validation/pkg/picture"
)

// UploadHandler handles picture uploads from robots
type UploadHandler struct {
	workflow    workflows.Workflow
	metrics     *metrics.Metrics
	maxBodySize int64
}

// NewUploadHandler creates a new upload handler. metrics may be nil.
func NewUploadHandler(workflow workflows.Workflow, m *metrics.Metrics) *UploadHandler {
	return &UploadHandler{
		workflow:    workflow,
		metrics:     m,
		maxBodySize: picture.MaxBodySize,
	}
}

// HandleUpload handles POST /api/upload?robotName=...&filename=...
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	runID := uuid.New().String()
	log.Printf("[%s] upload HTTP trigger function processed a request.", runID)

	query := r.URL.Query()
	req := workflows.Request{
		RobotName:   query.Get(picture.ParamRobotName),
		FileName:    query.Get(picture.ParamFilename),
		ContentType: r.Header.Get("Content-Type"),
	}

	body, truncated, err := readBody(r.Body, h.maxBodySize)
	if err != nil {
		h.respond(w, runID, len(body), workflows.Failed(
			workflows.WrapError(workflows.KindParse, "read", workflows.MsgFileBufferInvalid, err)))
		return
	}
	req.Body = body
	req.BodyTruncated = truncated

	wctx := &workflows.WorkflowContext{
		Ctx:     r.Context(),
		Request: req,
		RunID:   runID,
	}

	h.respond(w, runID, len(body), h.workflow.Execute(wctx))
}

// respond writes the one response of a request
func (h *UploadHandler) respond(w http.ResponseWriter, runID string, bodySize int, result *workflows.Result) {
	h.metrics.ObserveUpload(result.Outcome(), bodySize)

	if !result.Success() {
		log.Printf("[%s] %s", runID, result.Err.Error())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(result.Status())
		io.WriteString(w, result.Err.ResponseBody())
		return
	}

	log.Printf("[%s] Upload processed successfully", runID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(result.Body)
}

// readBody reads at most limit bytes and reports whether more were available
func readBody(body io.Reader, limit int64) ([]byte, bool, error) {
	if body == nil {
		return nil, false, nil
	}

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(data)) > limit {
		return data[:limit], true, nil
	}
	return data, false, nil
}

// HandleHealth returns health status
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}
