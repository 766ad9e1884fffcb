package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemWriter stores pictures as <baseDir>/<robotName>/<fileName>
type FilesystemWriter struct {
	baseDir string
}

// NewFilesystemWriter creates a new filesystem writer
func NewFilesystemWriter(baseDir string) (*FilesystemWriter, error) {
	// Ensure base directory exists
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &FilesystemWriter{
		baseDir: baseDir,
	}, nil
}

// Put writes the picture, replacing an existing file
func (fs *FilesystemWriter) Put(ctx context.Context, robotName string, fileName string, data []byte, contentType string) error {
	path, err := fs.pathFor(robotName, fileName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create robot directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Path returns where a picture is stored
func (fs *FilesystemWriter) Path(robotName, fileName string) (string, error) {
	return fs.pathFor(robotName, fileName)
}

func (fs *FilesystemWriter) pathFor(robotName, fileName string) (string, error) {
	base := filepath.Clean(fs.baseDir)
	path := filepath.Clean(filepath.Join(base, robotName, fileName))

	// Security: prevent directory traversal
	if !strings.HasPrefix(path, base+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid key: path traversal detected")
	}
	if filepath.Dir(path) == base {
		return "", fmt.Errorf("invalid key: robot directory required")
	}

	return path, nil
}
