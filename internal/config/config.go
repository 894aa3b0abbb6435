// internal/config/config.go
//
// This package handles configuration and the .grademaster data directory.
// The directory lives in the user's home by default; --dir points it elsewhere.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DataDirName is the name of the directory holding config, state and logs
	DataDirName = ".grademaster"

	ProviderGemini = "gemini"
	ProviderHTTP   = "http"

	BackendFile   = "file"
	BackendSQLite = "sqlite"

	defaultModel     = "gemini-2.5-flash"
	defaultAPIKeyEnv = "GRADEMASTER_API_KEY"
	defaultTimeout   = 2 * time.Minute
)

const defaultConfigYAML = `# grademaster configuration
version: 1

grading:
  # gemini talks to the Gemini API directly; http posts the image to your own endpoint.
  provider: gemini
  model: gemini-2.5-flash
  # Environment variable holding the API key. GEMINI_API_KEY is used as a fallback.
  api_key_env: GRADEMASTER_API_KEY
  # endpoint: https://grading.example.com/v1/analyze
  # Maximum time to wait for one essay. 0 waits forever.
  timeout: 2m

storage:
  # file keeps state/subscription.json; sqlite keeps state/grademaster.db
  backend: file
`

// GradingConfig selects and tunes the external grading service.
type GradingConfig struct {
	Provider  string        `yaml:"provider"`
	Model     string        `yaml:"model,omitempty"`
	Endpoint  string        `yaml:"endpoint,omitempty"`
	APIKeyEnv string        `yaml:"api_key_env,omitempty"`
	Timeout   time.Duration `yaml:"timeout"`
}

// StorageConfig picks where the subscription record is kept.
type StorageConfig struct {
	Backend string `yaml:"backend"`
}

// FileConfig models .grademaster/config.yaml.
type FileConfig struct {
	Version int           `yaml:"version"`
	Grading GradingConfig `yaml:"grading"`
	Storage StorageConfig `yaml:"storage"`
}

// Config holds the runtime configuration for GradeMaster.
type Config struct {
	// DataDir is the .grademaster directory
	DataDir string

	File FileConfig
}

// DefaultDataDir returns $HOME/.grademaster, falling back to the working
// directory when no home is available.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		cwd, cerr := os.Getwd()
		if cerr != nil {
			return "", fmt.Errorf("config: resolve data dir: %w", cerr)
		}
		home = cwd
	}
	return filepath.Join(home, DataDirName), nil
}

// InitDataDir creates the directory structure and a commented config file.
//
// Structure created:
// .grademaster/
// ├── config.yaml
// ├── logs/     <- grademaster.log (zap) and journey.log (activity)
// └── state/    <- subscription.json or grademaster.db
func InitDataDir(dataDir string) error {
	dirs := []string{
		filepath.Join(dataDir, "logs"),
		filepath.Join(dataDir, "state"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	return ensureConfigFile(filepath.Join(dataDir, "config.yaml"))
}

// Load reads config.yaml from dataDir, using defaults when the file is absent.
func Load(dataDir string) (*Config, error) {
	cfg := &Config{
		DataDir: dataDir,
		File:    defaultFileConfig(),
	}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// StateDir returns the path to the state directory
func (c *Config) StateDir() string {
	return filepath.Join(c.DataDir, "state")
}

// ConfigPath returns the on-disk location for the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.DataDir, "config.yaml")
}

// SubscriptionPath is the JSON file used by the file storage backend.
func (c *Config) SubscriptionPath() string {
	return filepath.Join(c.StateDir(), "subscription.json")
}

// DatabasePath is the SQLite file used by the sqlite storage backend.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.StateDir(), "grademaster.db")
}

// LogPath is the structured log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "grademaster.log")
}

// JournalPath is the human-readable activity log shown in the TUI.
func (c *Config) JournalPath() string {
	return filepath.Join(c.LogsDir(), "journey.log")
}

// SetStorageBackend switches the storage backend and persists the choice.
func (c *Config) SetStorageBackend(backend string) error {
	next := c.File
	next.Storage.Backend = strings.ToLower(strings.TrimSpace(backend))
	if err := c.save(next); err != nil {
		return err
	}
	c.File = next
	return nil
}

func (c *Config) load() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultFileConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.File = parsed
	return nil
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version: 1,
		Grading: GradingConfig{
			Provider:  ProviderGemini,
			Model:     defaultModel,
			APIKeyEnv: defaultAPIKeyEnv,
			Timeout:   defaultTimeout,
		},
		Storage: StorageConfig{Backend: BackendFile},
	}
}

func (fc *FileConfig) applyDefaults() {
	if fc.Version == 0 {
		fc.Version = 1
	}
	if fc.Grading.Provider == "" {
		fc.Grading.Provider = ProviderGemini
	}
	if fc.Grading.APIKeyEnv == "" {
		fc.Grading.APIKeyEnv = defaultAPIKeyEnv
	}
	if fc.Storage.Backend == "" {
		fc.Storage.Backend = BackendFile
	}
}

func (fc *FileConfig) normalize() {
	fc.Grading.Provider = strings.ToLower(strings.TrimSpace(fc.Grading.Provider))
	fc.Grading.Model = strings.TrimSpace(fc.Grading.Model)
	fc.Grading.Endpoint = strings.TrimSpace(fc.Grading.Endpoint)
	fc.Grading.APIKeyEnv = strings.TrimSpace(fc.Grading.APIKeyEnv)
	fc.Storage.Backend = strings.ToLower(strings.TrimSpace(fc.Storage.Backend))
	if fc.Grading.Provider == ProviderGemini && fc.Grading.Model == "" {
		fc.Grading.Model = defaultModel
	}
}

func (fc *FileConfig) validate() error {
	if fc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	switch fc.Grading.Provider {
	case ProviderGemini:
	case ProviderHTTP:
		if fc.Grading.Endpoint == "" {
			return fmt.Errorf("grading.endpoint is required for the http provider")
		}
	default:
		return fmt.Errorf("grading.provider must be 'gemini' or 'http'")
	}
	if fc.Grading.Timeout < 0 {
		return fmt.Errorf("grading.timeout must not be negative")
	}
	switch fc.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be 'file' or 'sqlite'")
	}
	return nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

func (c *Config) save(fc FileConfig) error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	fc.applyDefaults()
	fc.normalize()
	if err := fc.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure data dir: %w", err)
	}
	data, err := yaml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write config: %w", err)
	}
	return nil
}
