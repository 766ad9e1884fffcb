package workflows

import (
	"github.com/tendant/picture-validation/internal/config"
)

// ValidateRequest fails fast on the first missing field. It has no side effects.
func ValidateRequest(req *Request, cfg *config.Config) error {
	if req.RobotName == "" {
		return NewError(KindValidation, "validate", MsgRobotNameMissing)
	}

	// filename names the stored blob
	if req.FileName == "" {
		return NewError(KindValidation, "validate", MsgFilenameMissing)
	}

	if len(req.Body) == 0 && !req.BodyTruncated {
		return NewError(KindValidation, "validate", MsgBodyMissing)
	}

	if req.ContentType == "" {
		return NewError(KindValidation, "validate", MsgContentTypeMissing)
	}

	if err := cfg.CheckStorage(); err != nil {
		return NewError(KindConfiguration, "validate", err.Error())
	}

	return nil
}
