package grading

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kingrea/grademaster/internal/config"
)

const (
	// DefaultModel is the Gemini model used when none is configured.
	DefaultModel = "gemini-2.5-flash"
	// DefaultTimeout bounds one grading call.
	DefaultTimeout = 2 * time.Minute

	fallbackAPIKeyEnv = "GEMINI_API_KEY"
)

// Settings captures runtime configuration for the grading client.
type Settings struct {
	Provider string
	Model    string
	Endpoint string
	APIKey   string
	// Timeout of zero means wait indefinitely.
	Timeout time.Duration
}

// SettingsFromConfig builds Settings from config.yaml plus environment
// overrides (GRADEMASTER_MODEL, GRADEMASTER_ENDPOINT, GRADEMASTER_TIMEOUT).
func SettingsFromConfig(cfg *config.Config) Settings {
	settings := Settings{
		Provider: config.ProviderGemini,
		Model:    DefaultModel,
		Timeout:  DefaultTimeout,
	}
	keyEnv := "GRADEMASTER_API_KEY"
	if cfg != nil {
		raw := cfg.File.Grading
		if p := strings.TrimSpace(raw.Provider); p != "" {
			settings.Provider = p
		}
		if m := strings.TrimSpace(raw.Model); m != "" {
			settings.Model = m
		}
		settings.Endpoint = strings.TrimSpace(raw.Endpoint)
		settings.Timeout = raw.Timeout
		if env := strings.TrimSpace(raw.APIKeyEnv); env != "" {
			keyEnv = env
		}
	}
	settings.APIKey = firstEnv(keyEnv, fallbackAPIKeyEnv)
	settings.applyEnvOverrides()
	settings.normalize()
	return settings
}

func (s *Settings) applyEnvOverrides() {
	if model := strings.TrimSpace(os.Getenv("GRADEMASTER_MODEL")); model != "" {
		s.Model = model
	}
	if endpoint := strings.TrimSpace(os.Getenv("GRADEMASTER_ENDPOINT")); endpoint != "" {
		s.Endpoint = endpoint
		s.Provider = config.ProviderHTTP
	}
	if raw := strings.TrimSpace(os.Getenv("GRADEMASTER_TIMEOUT")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
			s.Timeout = d
		}
	}
}

func (s *Settings) normalize() {
	s.Provider = strings.ToLower(strings.TrimSpace(s.Provider))
	if s.Provider == "" {
		s.Provider = config.ProviderGemini
	}
	if s.Model == "" {
		s.Model = DefaultModel
	}
	if s.Timeout < 0 {
		s.Timeout = DefaultTimeout
	}
}

// New builds the Grader selected by settings.
func New(settings Settings, logger *zap.Logger) (Grader, error) {
	switch settings.Provider {
	case config.ProviderGemini:
		return NewGeminiGrader(settings, logger)
	case config.ProviderHTTP:
		return NewHTTPGrader(settings, logger)
	default:
		return nil, fmt.Errorf("grading: unknown provider %q", settings.Provider)
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return value
		}
	}
	return ""
}
