package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/tendant/simple-content/pkg/simplecontent/presets"

	"github.com/tendant/picture-validation/internal/config"
)

// Writer stores an uploaded picture under robotName/fileName
type Writer interface {
	// Put stores data, overwriting any existing picture with the same name
	Put(ctx context.Context, robotName string, fileName string, data []byte, contentType string) error
}

// Open creates the writer selected by cfg.StorageBackend.
// The returned cleanup function must be called on shutdown.
func Open(cfg *config.Config) (Writer, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendAzureBlob:
		log.Printf("Using Azure Blob storage (container: %s)", containerLabel(cfg.StorageContainer))
		writer, err := NewBlobWriter(cfg.StorageConnection, cfg.StorageContainer)
		if err != nil {
			return nil, nil, err
		}
		return writer, func() {}, nil

	case config.BackendContent:
		log.Printf("Using embedded simple-content service (development preset, storage: %s)", cfg.StorageDir)
		svc, cleanup, err := presets.NewDevelopment(presets.WithDevStorage(cfg.StorageDir))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize simple-content service: %w", err)
		}
		return NewContentWriter(svc), cleanup, nil

	case config.BackendFilesystem:
		log.Printf("Using filesystem storage: %s", cfg.StorageDir)
		writer, err := NewFilesystemWriter(cfg.StorageDir)
		if err != nil {
			return nil, nil, err
		}
		return writer, func() {}, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
}

func containerLabel(container string) string {
	if container == "" {
		return "per robot"
	}
	return container
}
