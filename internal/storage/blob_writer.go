package storage

import (
	"context"
	"fmt"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// BlobWriter stores pictures in Azure Blob Storage
type BlobWriter struct {
	client    *azblob.Client
	container string
}

// NewBlobWriter creates a blob writer from a storage connection string.
// With an empty container each robot gets its own container.
func NewBlobWriter(connectionString string, container string) (*BlobWriter, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobWriter{
		client:    client,
		container: container,
	}, nil
}

// Put uploads the picture, creating the container on first use
func (bw *BlobWriter) Put(ctx context.Context, robotName string, fileName string, data []byte, contentType string) error {
	container, blobName := blobLocation(bw.container, robotName, fileName)

	opts := &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	_, err := bw.client.UploadBuffer(ctx, container, blobName, data, opts)
	if bloberror.HasCode(err, bloberror.ContainerNotFound) {
		if _, cerr := bw.client.CreateContainer(ctx, container, nil); cerr != nil && !bloberror.HasCode(cerr, bloberror.ContainerAlreadyExists) {
			return fmt.Errorf("failed to create container %s: %w", container, cerr)
		}
		_, err = bw.client.UploadBuffer(ctx, container, blobName, data, opts)
	}
	if err != nil {
		return fmt.Errorf("failed to upload blob %s/%s: %w", container, blobName, err)
	}

	return nil
}

// blobLocation returns the container and blob name for a robot's picture
func blobLocation(container, robotName, fileName string) (string, string) {
	if container == "" {
		return robotName, fileName
	}
	return container, path.Join(robotName, fileName)
}
