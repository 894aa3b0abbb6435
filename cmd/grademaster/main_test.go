package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/grademaster/internal/config"
	"github.com/kingrea/grademaster/internal/grading"
	"github.com/kingrea/grademaster/internal/session"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00\x90wS\xde")

const sampleResult = `{
  "overallBand": 7,
  "criteria": {"taskResponse": 7, "coherenceCohesion": 7, "lexicalResource": 6.5, "grammarAccuracy": 7.5},
  "detailedFeedback": [{"type": "vocabulary", "severity": "suggestion", "explanation": "Vary linking words."}],
  "summary": "Well organised.",
  "essayText": "In conclusion ..."
}`

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	gradeJSON = false
	descriptorsTask = "1"
	descriptorsBand = 0
	verbose = false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := execute(context.Background())
	return out.String(), err
}

func gradingServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writePNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "essay.png")
	if err := os.WriteFile(path, pngBytes, 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}
	return path
}

func TestStatusStartsWithTrial(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "--dir", dir, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Free Trial") || !strings.Contains(out, "Remaining:  5") {
		t.Fatalf("unexpected status output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config.yaml should be created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "state", "subscription.json")); err != nil {
		t.Fatalf("trial record should be persisted: %v", err)
	}
}

func TestGradeConsumesOneEssay(t *testing.T) {
	dir := t.TempDir()
	srv := gradingServer(t, http.StatusOK, sampleResult)
	t.Setenv("GRADEMASTER_ENDPOINT", srv.URL)

	gradeJSONOut, err := runCLI(t, "--dir", dir, "grade", "--json", writePNG(t))
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	var res grading.Result
	if err := json.Unmarshal([]byte(gradeJSONOut), &res); err != nil {
		t.Fatalf("grade output is not JSON: %v\n%s", err, gradeJSONOut)
	}
	if res.OverallBand != 7 || len(res.DetailedFeedback) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	out, err := runCLI(t, "--dir", dir, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Remaining:  4") || !strings.Contains(out, "Used:       1") {
		t.Fatalf("unexpected status after grading:\n%s", out)
	}
}

func TestGradeFailureKeepsQuota(t *testing.T) {
	dir := t.TempDir()
	srv := gradingServer(t, http.StatusBadGateway, "upstream down")
	t.Setenv("GRADEMASTER_ENDPOINT", srv.URL)

	_, err := runCLI(t, "--dir", dir, "grade", writePNG(t))
	if err == nil || err.Error() != session.FailureMessage {
		t.Fatalf("expected generic failure, got %v", err)
	}
	if env != nil {
		t.Fatalf("runtime should be closed after a failed command")
	}
	out, err := runCLI(t, "--dir", dir, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Remaining:  5") {
		t.Fatalf("failure should not consume quota:\n%s", out)
	}
}

func TestSubscribeAndSwitchStorage(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "--dir", dir, "subscribe")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if !strings.Contains(out, "200 essays available") {
		t.Fatalf("unexpected subscribe output: %s", out)
	}

	out, err = runCLI(t, "--dir", dir, "storage", "sqlite")
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	if !strings.Contains(out, "from file to sqlite") {
		t.Fatalf("unexpected storage output: %s", out)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.File.Storage.Backend != config.BackendSQLite {
		t.Fatalf("backend not persisted: %q", cfg.File.Storage.Backend)
	}

	out, err = runCLI(t, "--dir", dir, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Premium Plan") || !strings.Contains(out, "Storage:    sqlite") {
		t.Fatalf("record should survive the switch:\n%s", out)
	}
}

func TestDescriptorsCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "--dir", dir, "descriptors", "--task", "2", "--band", "7")
	if err != nil {
		t.Fatalf("descriptors: %v", err)
	}
	if !strings.Contains(out, "Task Response") || !strings.Contains(out, "Band 7") {
		t.Fatalf("unexpected descriptors output:\n%s", out)
	}
	if strings.Contains(out, "Band 9") {
		t.Fatalf("band filter ignored:\n%s", out)
	}

	if _, err := runCLI(t, "--dir", dir, "descriptors", "--band", "3"); err == nil {
		t.Fatalf("expected error for a band without descriptors")
	}
}
