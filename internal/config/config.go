package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tendant/picture-validation/pkg/picture"
)

// EnvironmentProduction enables the stricter storage checks
const EnvironmentProduction = "Production"

// Storage backends
const (
	BackendAzureBlob  = "azblob"
	BackendContent    = "content"
	BackendFilesystem = "filesystem"
)

const minStorageConnectionLength = 10

// ErrStorageNotConfigured is returned when Production runs without a usable storage connection string
var ErrStorageNotConfigured = errors.New("Storage isn't configured correctly - get Storage Connection string from Azure portal")

// Config holds process-wide configuration, built once at startup
type Config struct {
	// Environment names the runtime mode, e.g. "Production"
	Environment string `yaml:"Environment"`

	// StorageConnection is the Azure storage connection string (AzureWebJobsStorage)
	// Required in Production, at least 10 characters long
	StorageConnection string `yaml:"AzureWebJobsStorage"`

	// CognitiveAPIKey is the vision service subscription key
	// Required
	CognitiveAPIKey string `yaml:"CognitiveApiKey"`

	// CognitiveAPIURL is the vision service endpoint
	// Required. Example: https://westeurope.api.cognitive.microsoft.com
	CognitiveAPIURL string `yaml:"CognitiveApiUrl"`

	// CognitiveAPIVersion selects the vision REST API version
	// Optional. Defaults to "v3.2"
	CognitiveAPIVersion string `yaml:"CognitiveApiVersion"`

	// StorageAccountURL is the base of the blob URL handed to the vision service
	// Optional. Defaults to picture.DefaultStorageAccountURL
	StorageAccountURL string `yaml:"StorageAccountUrl"`

	// StorageBackend picks the storage writer: azblob, content or filesystem
	// Optional. Defaults to azblob in Production, content otherwise
	StorageBackend string `yaml:"StorageBackend"`

	// StorageContainer stores every robot's pictures in one container as <robotName>/<filename>
	// Optional. When empty the robot name is the container, matching the blob URL
	StorageContainer string `yaml:"StorageContainer"`

	// StorageDir is where the content and filesystem backends keep files
	// Optional. Defaults to "./dev-data"
	StorageDir string `yaml:"StorageDir"`

	// HTTPAddr is the listen address
	// Optional. Defaults to ":8080"; FUNCTIONS_CUSTOMHANDLER_PORT takes precedence
	HTTPAddr string `yaml:"HttpAddr"`

	// FunctionName is the Azure Functions route segment served besides /api/upload
	// Optional. Defaults to "robotica-picture-validation"
	FunctionName string `yaml:"FunctionName"`
}

// envKeys maps environment variables to the field they override
func (c *Config) envKeys() map[string]*string {
	return map[string]*string{
		"Environment":         &c.Environment,
		"AzureWebJobsStorage": &c.StorageConnection,
		"CognitiveApiKey":     &c.CognitiveAPIKey,
		"CognitiveApiUrl":     &c.CognitiveAPIURL,
		"CognitiveApiVersion": &c.CognitiveAPIVersion,
		"StorageAccountUrl":   &c.StorageAccountURL,
		"STORAGE_BACKEND":     &c.StorageBackend,
		"STORAGE_CONTAINER":   &c.StorageContainer,
		"STORAGE_DIR":         &c.StorageDir,
		"HTTP_ADDR":           &c.HTTPAddr,
		"FUNCTION_NAME":       &c.FunctionName,
	}
}

// Load builds the configuration from .env, the optional CONFIG_FILE and the environment.
// Environment variables win over the file.
func Load() (*Config, error) {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	cfg.applyEnv(os.LookupEnv)

	if port := os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT"); port != "" {
		cfg.HTTPAddr = ":" + port
	}

	cfg.WithDefaults()
	return cfg, nil
}

// LoadFile reads a YAML configuration file using the same keys as the environment
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	for key, field := range c.envKeys() {
		if value, ok := lookup(key); ok && value != "" {
			*field = value
		}
	}
}

// WithDefaults fills in default values for optional fields
func (c *Config) WithDefaults() {
	if c.CognitiveAPIVersion == "" {
		c.CognitiveAPIVersion = "v3.2"
	}
	if c.StorageAccountURL == "" {
		c.StorageAccountURL = picture.DefaultStorageAccountURL
	}
	if c.StorageBackend == "" {
		if c.IsProduction() {
			c.StorageBackend = BackendAzureBlob
		} else {
			c.StorageBackend = BackendContent
		}
	}
	if c.StorageDir == "" {
		c.StorageDir = "./dev-data"
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	if c.FunctionName == "" {
		c.FunctionName = "robotica-picture-validation"
	}
}

// IsProduction reports whether the Production runtime mode is active
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// CheckStorage enforces the Production storage connection rule
func (c *Config) CheckStorage() error {
	if c.IsProduction() && len(c.StorageConnection) < minStorageConnectionLength {
		return ErrStorageNotConfigured
	}
	return nil
}

// Validate checks required keys. Call once at startup.
func (c *Config) Validate() error {
	if c.CognitiveAPIKey == "" {
		return errors.New("CognitiveApiKey is required")
	}
	if c.CognitiveAPIURL == "" {
		return errors.New("CognitiveApiUrl is required")
	}
	if err := c.CheckStorage(); err != nil {
		return err
	}

	switch c.StorageBackend {
	case BackendAzureBlob:
		if c.StorageConnection == "" {
			return errors.New("AzureWebJobsStorage is required for the azblob storage backend")
		}
	case BackendContent, BackendFilesystem:
	default:
		return fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
	}

	return nil
}
