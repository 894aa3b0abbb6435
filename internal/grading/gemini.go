package grading

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kingrea/grademaster/internal/logging"
)

// contentGenerator is the slice of *genai.Models the grader needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGrader grades essays with a multimodal Gemini model.
type GeminiGrader struct {
	models contentGenerator
	model  string
	logger *zap.Logger
}

// NewGeminiGrader creates a Gemini-backed grader. An API key is required.
func NewGeminiGrader(settings Settings, logger *zap.Logger) (*GeminiGrader, error) {
	if settings.APIKey == "" {
		return nil, errors.New("grading: Gemini API key is required (set GRADEMASTER_API_KEY or GEMINI_API_KEY)")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  settings.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("grading: create Gemini client: %w", err)
	}
	return newGeminiGrader(client.Models, settings.Model, logger), nil
}

func newGeminiGrader(models contentGenerator, model string, logger *zap.Logger) *GeminiGrader {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &GeminiGrader{models: models, model: model, logger: logging.OrNop(logger)}
}

// Grade sends the image inline with a response schema and decodes the JSON
// answer. The SDK base64-encodes the inline bytes on the wire.
func (g *GeminiGrader) Grade(ctx context.Context, img Image) (*Result, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(img.Data, img.MIMEType),
			genai.NewPartFromText(gradeRequestText),
		}, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(examinerInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    resultSchema(),
		Temperature:       genai.Ptr[float32](0.2),
	}
	g.logger.Debug("gemini request",
		zap.String("model", g.model),
		zap.String("mime_type", img.MIMEType),
		zap.Int("bytes", len(img.Data)))
	resp, err := g.models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("grading: gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, errors.New("grading: gemini returned an empty response")
	}
	return Decode([]byte(stripCodeFence(text)))
}

// resultSchema mirrors Result so the model answers in a decodable shape.
func resultSchema() *genai.Schema {
	score := &genai.Schema{Type: genai.TypeNumber}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"overallBand": score,
			"criteria": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"taskResponse":      score,
					"coherenceCohesion": score,
					"lexicalResource":   score,
					"grammarAccuracy":   score,
				},
				Required: []string{"taskResponse", "coherenceCohesion", "lexicalResource", "grammarAccuracy"},
			},
			"detailedFeedback": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"type": {
							Type: genai.TypeString,
							Enum: []string{string(TypeGrammar), string(TypeVocabulary), string(TypeStructure), string(TypeTaskResponse)},
						},
						"severity": {
							Type: genai.TypeString,
							Enum: []string{string(SeverityMistake), string(SeveritySuggestion), string(SeverityPraise)},
						},
						"originalText": {Type: genai.TypeString},
						"explanation":  {Type: genai.TypeString},
						"suggestion":   {Type: genai.TypeString},
					},
					Required: []string{"type", "severity", "explanation"},
				},
			},
			"summary":   {Type: genai.TypeString},
			"essayText": {Type: genai.TypeString},
		},
		Required: []string{"overallBand", "criteria", "detailedFeedback", "summary", "essayText"},
	}
}

// stripCodeFence removes a ```json fence some models add despite the MIME type.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
