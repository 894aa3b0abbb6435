package grading

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kingrea/grademaster/internal/logging"
)

// maxResponseBytes caps the body read from a grading endpoint.
const maxResponseBytes = 4 << 20

type httpGradeRequest struct {
	Image    string `json:"image"`
	MIMEType string `json:"mimeType"`
}

// HTTPGrader posts the base64 image to a self-hosted grading endpoint that
// answers with a Result document.
type HTTPGrader struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *zap.Logger
}

// NewHTTPGrader creates a grader for settings.Endpoint. The client carries
// no timeout of its own; the caller's context bounds each call.
func NewHTTPGrader(settings Settings, logger *zap.Logger) (*HTTPGrader, error) {
	endpoint := strings.TrimSpace(settings.Endpoint)
	if endpoint == "" {
		return nil, errors.New("grading: endpoint is required for the http provider")
	}
	return &HTTPGrader{
		endpoint: endpoint,
		apiKey:   settings.APIKey,
		client:   &http.Client{},
		logger:   logging.OrNop(logger),
	}, nil
}

// Grade performs one POST round trip.
func (g *HTTPGrader) Grade(ctx context.Context, img Image) (*Result, error) {
	body, err := json.Marshal(httpGradeRequest{Image: img.Base64(), MIMEType: img.MIMEType})
	if err != nil {
		return nil, fmt.Errorf("grading: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("grading: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}
	g.logger.Debug("http grading request", zap.String("endpoint", g.endpoint), zap.Int("bytes", len(img.Data)))
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("grading: post %s: %w", g.endpoint, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("grading: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("grading: endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}
	return Decode(data)
}
