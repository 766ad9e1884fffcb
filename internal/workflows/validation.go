package workflows

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/tendant/picture-validation/internal/config"
	"github.com/tendant/picture-validation/pkg/picture"
)

// PictureValidationWorkflow validates an uploaded picture, stores it and
// requests object detection for the stored blob
type PictureValidationWorkflow struct {
	config   *config.Config
	writer   StorageWriter
	detector ObjectDetector
	maxSize  int64
}

// NewPictureValidationWorkflow creates a new picture validation workflow
func NewPictureValidationWorkflow(cfg *config.Config, writer StorageWriter, detector ObjectDetector) *PictureValidationWorkflow {
	return &PictureValidationWorkflow{
		config:   cfg,
		writer:   writer,
		detector: detector,
		maxSize:  picture.MaxFileSize,
	}
}

// Name returns the workflow name
func (w *PictureValidationWorkflow) Name() string {
	return "PictureValidationWorkflow"
}

// Execute validates, parses, checks policy, stores and analyzes the picture, returning one result
func (w *PictureValidationWorkflow) Execute(wctx *WorkflowContext) *Result {
	req := &wctx.Request

	// Step 1: Validate request
	if err := ValidateRequest(req, w.config); err != nil {
		return Failed(err)
	}

	// Step 2: Extract the first multipart segment
	if req.BodyTruncated {
		return Failed(NewError(KindContentPolicy, "extract", sizeLimitMessage(w.maxSize)))
	}

	seg, err := ExtractFirstSegment(req.Body, req.ContentType, w.maxSize)
	if err != nil {
		return Failed(err)
	}

	if seg.FileName != "" {
		log.Printf("[%s] Original filename = %s", wctx.RunID, seg.FileName)
	}
	if seg.ContentType != "" {
		log.Printf("[%s] Content type = %s", wctx.RunID, seg.ContentType)
	}
	if len(seg.Data) > 0 {
		log.Printf("[%s] Size = %d", wctx.RunID, len(seg.Data))
	}

	// Step 3: Enforce type and size policy before anything is stored
	if err := CheckPolicy(seg, w.maxSize); err != nil {
		return Failed(err)
	}

	// Step 4: Store the payload
	if err := w.writer.Put(wctx.Ctx, req.RobotName, req.FileName, seg.Data, seg.ContentType); err != nil {
		return Failed(WrapError(KindStorage, "store", "failed to store picture", err))
	}

	target := &Target{
		RobotName: req.RobotName,
		FileName:  req.FileName,
		URL:       picture.StorageURL(w.config.StorageAccountURL, req.RobotName, req.FileName),
	}
	log.Printf("[%s] Picture stored: %s", wctx.RunID, target.URL)

	// Step 5: Gather object detection results for the stored blob
	result, err := w.detector.DetectObjects(wctx.Ctx, target.URL)
	if err != nil {
		return Failed(WrapError(KindUpstream, "detect", "object detection failed", err))
	}
	if !json.Valid(result) {
		return Failed(NewError(KindUpstream, "detect", fmt.Sprintf("object detection returned invalid JSON for %s", target.URL)))
	}

	log.Printf("[%s] Object detection completed for %s", wctx.RunID, target.URL)

	return Succeeded(target, result)
}
