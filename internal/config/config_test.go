package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	dataDir := t.TempDir()
	c, err := Load(dataDir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.File.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.File.Version)
	}
	if c.File.Grading.Provider != ProviderGemini {
		t.Fatalf("expected gemini provider, got %q", c.File.Grading.Provider)
	}
	if c.File.Grading.Timeout != defaultTimeout {
		t.Fatalf("expected default timeout, got %s", c.File.Grading.Timeout)
	}
	if c.File.Storage.Backend != BackendFile {
		t.Fatalf("expected file backend, got %q", c.File.Storage.Backend)
	}
}

func TestInitDataDirWritesParsableConfig(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), DataDirName)
	if err := InitDataDir(dataDir); err != nil {
		t.Fatalf("InitDataDir: %v", err)
	}
	for _, sub := range []string{"logs", "state"} {
		if info, err := os.Stat(filepath.Join(dataDir, sub)); err != nil || !info.IsDir() {
			t.Fatalf("expected %s directory, err=%v", sub, err)
		}
	}
	c, err := Load(dataDir)
	if err != nil {
		t.Fatalf("Load after init: %v", err)
	}
	if c.File.Grading.Model != defaultModel {
		t.Fatalf("expected model %q, got %q", defaultModel, c.File.Grading.Model)
	}
	if c.File.Grading.Timeout != 2*time.Minute {
		t.Fatalf("expected 2m timeout, got %s", c.File.Grading.Timeout)
	}
}

func TestLoadParsesYaml(t *testing.T) {
	dataDir := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
grading:
  provider: HTTP
  endpoint: " https://grading.example.com/analyze "
  timeout: 45s
storage:
  backend: SQLite
`)
	if err := os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(dataDir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.File.Grading.Provider != ProviderHTTP {
		t.Fatalf("provider not normalized: %q", c.File.Grading.Provider)
	}
	if c.File.Grading.Endpoint != "https://grading.example.com/analyze" {
		t.Fatalf("endpoint not trimmed: %q", c.File.Grading.Endpoint)
	}
	if c.File.Grading.Timeout != 45*time.Second {
		t.Fatalf("timeout = %s", c.File.Grading.Timeout)
	}
	if c.File.Grading.APIKeyEnv != defaultAPIKeyEnv {
		t.Fatalf("api key env default missing: %q", c.File.Grading.APIKeyEnv)
	}
	if c.File.Storage.Backend != BackendSQLite {
		t.Fatalf("backend = %q", c.File.Storage.Backend)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"http without endpoint": "grading:\n  provider: http\n",
		"unknown provider":      "grading:\n  provider: openai\n",
		"unknown backend":       "storage:\n  backend: redis\n",
		"negative timeout":      "grading:\n  timeout: -1s\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			dataDir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(dataDir); err == nil {
				t.Fatalf("expected validation error but got none")
			}
		})
	}
}

func TestSetStorageBackendPersists(t *testing.T) {
	dataDir := t.TempDir()
	c, err := Load(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetStorageBackend(BackendSQLite); err != nil {
		t.Fatalf("SetStorageBackend: %v", err)
	}
	reloaded, err := Load(dataDir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.File.Storage.Backend != BackendSQLite {
		t.Fatalf("backend not persisted: %q", reloaded.File.Storage.Backend)
	}
	if err := c.SetStorageBackend("redis"); err == nil {
		t.Fatalf("expected invalid backend to be rejected")
	}
}
