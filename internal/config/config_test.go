package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tendant/picture-validation/pkg/picture"
)

func validConfig() *Config {
	cfg := &Config{
		CognitiveAPIKey: "key",
		CognitiveAPIURL: "https://vision.example.com",
	}
	cfg.WithDefaults()
	return cfg
}

func TestWithDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.WithDefaults()

	if cfg.CognitiveAPIVersion != "v3.2" {
		t.Errorf("CognitiveAPIVersion = %q, want %q", cfg.CognitiveAPIVersion, "v3.2")
	}
	if cfg.StorageAccountURL != picture.DefaultStorageAccountURL {
		t.Errorf("StorageAccountURL = %q, want %q", cfg.StorageAccountURL, picture.DefaultStorageAccountURL)
	}
	if cfg.StorageBackend != BackendContent {
		t.Errorf("StorageBackend = %q, want %q", cfg.StorageBackend, BackendContent)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.FunctionName != "robotica-picture-validation" {
		t.Errorf("FunctionName = %q", cfg.FunctionName)
	}

	prod := &Config{Environment: EnvironmentProduction}
	prod.WithDefaults()
	if prod.StorageBackend != BackendAzureBlob {
		t.Errorf("production StorageBackend = %q, want %q", prod.StorageBackend, BackendAzureBlob)
	}
}

func TestCheckStorage(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		connection  string
		wantErr     bool
	}{
		{"development without connection", "Development", "", false},
		{"production without connection", EnvironmentProduction, "", true},
		{"production with short connection", EnvironmentProduction, "123456789", true},
		{"production with exactly ten characters", EnvironmentProduction, "1234567890", false},
		{"production with connection", EnvironmentProduction, "DefaultEndpointsProtocol=https;AccountName=robotica", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Environment: tt.environment, StorageConnection: tt.connection}
			err := cfg.CheckStorage()
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckStorage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrStorageNotConfigured) {
				t.Errorf("CheckStorage() error = %v, want ErrStorageNotConfigured", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing api key", func(c *Config) { c.CognitiveAPIKey = "" }, true},
		{"missing api url", func(c *Config) { c.CognitiveAPIURL = "" }, true},
		{"unknown backend", func(c *Config) { c.StorageBackend = "s3" }, true},
		{"azblob without connection", func(c *Config) { c.StorageBackend = BackendAzureBlob }, true},
		{"filesystem backend", func(c *Config) { c.StorageBackend = BackendFilesystem }, false},
		{"production without storage", func(c *Config) { c.Environment = EnvironmentProduction }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("Environment: Staging\nCognitiveApiKey: file-key\nCognitiveApiUrl: https://file.example.com\nStorageDir: /var/pictures\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Environment != "Staging" || cfg.CognitiveAPIKey != "file-key" || cfg.StorageDir != "/var/pictures" {
		t.Fatalf("unexpected config from file: %+v", cfg)
	}

	env := map[string]string{
		"CognitiveApiKey": "env-key",
		"STORAGE_DIR":     "",
	}
	cfg.applyEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})

	if cfg.CognitiveAPIKey != "env-key" {
		t.Errorf("CognitiveAPIKey = %q, want env override", cfg.CognitiveAPIKey)
	}
	if cfg.StorageDir != "/var/pictures" {
		t.Errorf("empty env value should not override file value, got %q", cfg.StorageDir)
	}
	if cfg.CognitiveAPIURL != "https://file.example.com" {
		t.Errorf("CognitiveAPIURL = %q, want file value", cfg.CognitiveAPIURL)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("Environment", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("CognitiveApiKey", "k")
	t.Setenv("CognitiveApiUrl", "https://vision.example.com")
	t.Setenv("FUNCTIONS_CUSTOMHANDLER_PORT", "7071")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":7071" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":7071")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
