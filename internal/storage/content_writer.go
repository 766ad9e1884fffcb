package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/tendant/simple-content/pkg/simplecontent"
)

// pictureTenantID groups all robot uploads in simple-content
var pictureTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000002")

// ContentWriter stores pictures via the simple-content service
type ContentWriter struct {
	service simplecontent.Service
}

// NewContentWriter creates a new content writer using simple-content service
func NewContentWriter(service simplecontent.Service) *ContentWriter {
	return &ContentWriter{
		service: service,
	}
}

// Put uploads the picture as new content owned by the robot
func (cw *ContentWriter) Put(ctx context.Context, robotName string, fileName string, data []byte, contentType string) error {
	contentID, err := cw.upload(ctx, robotName, fileName, data, contentType)
	if err != nil {
		return err
	}

	log.Printf("Content uploaded: %s (robot: %s, file: %s)", contentID, robotName, fileName)
	return nil
}

func (cw *ContentWriter) upload(ctx context.Context, robotName string, fileName string, data []byte, contentType string) (uuid.UUID, error) {
	content, err := cw.service.UploadContent(ctx, simplecontent.UploadContentRequest{
		OwnerID:      RobotOwnerID(robotName),
		TenantID:     pictureTenantID,
		Name:         fmt.Sprintf("%s/%s", robotName, fileName),
		DocumentType: contentType,
		Reader:       bytes.NewReader(data),
		FileName:     fileName,
		Tags:         []string{"robot:" + robotName, "picture"},
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upload content: %w", err)
	}

	return content.ID, nil
}

// RobotOwnerID derives a stable owner ID from the robot name
func RobotOwnerID(robotName string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("robot:"+robotName))
}
