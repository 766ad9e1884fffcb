package workflows

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	"github.com/tendant/picture-validation/pkg/picture"
)

// ExtractFirstSegment splits body on the boundary from contentType and reads
// only the first segment. At most maxSize+1 bytes of its payload are read so
// oversized uploads can be detected without buffering them fully.
func ExtractFirstSegment(body []byte, contentType string, maxSize int64) (*Segment, error) {
	boundary, err := boundaryOf(contentType)
	if err != nil {
		return nil, WrapError(KindParse, "extract", MsgFileBufferInvalid, err)
	}

	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	part, err := reader.NextPart()
	if err == io.EOF {
		return nil, WrapError(KindParse, "extract", MsgFileBufferInvalid, ErrNoSegments)
	}
	if err != nil {
		return nil, WrapError(KindParse, "extract", MsgFileBufferInvalid, err)
	}
	defer part.Close()

	data, err := io.ReadAll(io.LimitReader(part, maxSize+1))
	if err != nil {
		return nil, WrapError(KindParse, "extract", MsgFileBufferInvalid, err)
	}

	return &Segment{
		FileName:    part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func boundaryOf(contentType string) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("invalid content type: %w", err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return "", fmt.Errorf("not a multipart content type: %s", mediaType)
	}

	boundary := params["boundary"]
	if boundary == "" {
		return "", ErrNoBoundary
	}
	return boundary, nil
}

// CheckPolicy enforces the allowed content types and the size ceiling
func CheckPolicy(seg *Segment, maxSize int64) error {
	if !picture.IsAllowedContentType(seg.ContentType) {
		return NewError(KindContentPolicy, "policy",
			fmt.Sprintf("Content type is not in allowed set: %s", picture.AllowedContentTypesList()))
	}

	if int64(len(seg.Data)) > maxSize {
		return NewError(KindContentPolicy, "policy", sizeLimitMessage(maxSize))
	}

	return nil
}

func sizeLimitMessage(maxSize int64) string {
	return fmt.Sprintf("File size exceeds limit of %dMB", maxSize/picture.MByte)
}
