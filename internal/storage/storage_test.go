package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/tendant/simple-content/pkg/simplecontent/presets"

	"github.com/tendant/picture-validation/internal/config"
)

func TestFilesystemWriterPut(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewFilesystemWriter(dir)
	if err != nil {
		t.Fatalf("NewFilesystemWriter: %v", err)
	}

	data := []byte("jpeg-bytes")
	if err := writer.Put(context.Background(), "R2D2", "photo.jpg", data, "image/jpeg"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "R2D2", "photo.jpg"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("stored %q, want %q", got, data)
	}

	// Second write replaces the first
	if err := writer.Put(context.Background(), "R2D2", "photo.jpg", []byte("v2"), "image/jpeg"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, _ = os.ReadFile(filepath.Join(dir, "R2D2", "photo.jpg"))
	if string(got) != "v2" {
		t.Errorf("stored %q after overwrite, want %q", got, "v2")
	}
}

func TestFilesystemWriterRejectsTraversal(t *testing.T) {
	writer, err := NewFilesystemWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemWriter: %v", err)
	}

	tests := []struct {
		name      string
		robotName string
		fileName  string
	}{
		{"parent in file name", "R2D2", "../../etc/passwd"},
		{"parent as robot", "..", "photo.jpg"},
		{"file escapes robot dir", "R2D2", "../photo.jpg"},
		{"empty robot", "", "photo.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := writer.Put(context.Background(), tt.robotName, tt.fileName, []byte("x"), "image/png"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestContentWriterUpload(t *testing.T) {
	svc, cleanup, err := presets.NewDevelopment(presets.WithDevStorage(t.TempDir()))
	if err != nil {
		t.Fatalf("NewDevelopment: %v", err)
	}
	defer cleanup()

	writer := NewContentWriter(svc)
	data := []byte("png-bytes")

	id, err := writer.upload(context.Background(), "R2D2", "photo.png", data, "image/png")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	reader, err := svc.DownloadContent(context.Background(), id)
	if err != nil {
		t.Fatalf("DownloadContent: %v", err)
	}
	defer reader.Close()

	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read content: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("downloaded %q, want %q", got, data)
	}
}

func TestRobotOwnerIDStable(t *testing.T) {
	if RobotOwnerID("R2D2") != RobotOwnerID("R2D2") {
		t.Error("owner ID must be stable for a robot")
	}
	if RobotOwnerID("R2D2") == RobotOwnerID("C3PO") {
		t.Error("owner IDs must differ between robots")
	}
}

func TestBlobLocation(t *testing.T) {
	tests := []struct {
		container     string
		wantContainer string
		wantBlob      string
	}{
		{"", "R2D2", "photo.jpg"},
		{"pictures", "pictures", "R2D2/photo.jpg"},
	}

	for _, tt := range tests {
		container, blobName := blobLocation(tt.container, "R2D2", "photo.jpg")
		if container != tt.wantContainer || blobName != tt.wantBlob {
			t.Errorf("blobLocation(%q) = %q, %q; want %q, %q", tt.container, container, blobName, tt.wantContainer, tt.wantBlob)
		}
	}
}

func TestNewBlobWriterInvalidConnectionString(t *testing.T) {
	if _, err := NewBlobWriter("not-a-connection-string", ""); err == nil {
		t.Error("expected error for malformed connection string")
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{config.BackendFilesystem, false},
		{config.BackendContent, false},
		{"s3", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := &config.Config{StorageBackend: tt.backend, StorageDir: t.TempDir()}
			writer, cleanup, err := Open(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				defer cleanup()
				if writer == nil {
					t.Error("writer is nil")
				}
			}
		})
	}
}
