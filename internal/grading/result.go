// Package grading talks to the external AI service that reads a handwritten
// essay from an image and returns IELTS band scores with itemized feedback.
package grading

import (
	"encoding/json"
	"fmt"
)

// FeedbackType is the area a feedback item is about.
type FeedbackType string

const (
	TypeGrammar      FeedbackType = "grammar"
	TypeVocabulary   FeedbackType = "vocabulary"
	TypeStructure    FeedbackType = "structure"
	TypeTaskResponse FeedbackType = "task-response"
)

// Severity selects how a feedback item is presented.
type Severity string

const (
	SeverityMistake    Severity = "mistake"
	SeveritySuggestion Severity = "suggestion"
	SeverityPraise     Severity = "praise"
)

// Criteria holds the four sub-scores.
type Criteria struct {
	TaskResponse      float64 `json:"taskResponse"`
	CoherenceCohesion float64 `json:"coherenceCohesion"`
	LexicalResource   float64 `json:"lexicalResource"`
	GrammarAccuracy   float64 `json:"grammarAccuracy"`
}

// FeedbackItem is one point of examiner feedback. Type and Severity are
// passed through as received; unknown values are rendered neutrally.
type FeedbackItem struct {
	Type         FeedbackType `json:"type"`
	Severity     Severity     `json:"severity"`
	OriginalText string       `json:"originalText,omitempty"`
	Explanation  string       `json:"explanation"`
	Suggestion   string       `json:"suggestion,omitempty"`
}

// Result is a complete grading as returned by the service.
type Result struct {
	OverallBand      float64        `json:"overallBand"`
	Criteria         Criteria       `json:"criteria"`
	DetailedFeedback []FeedbackItem `json:"detailedFeedback"`
	Summary          string         `json:"summary"`
	EssayText        string         `json:"essayText"`
}

// Decode parses a service response. Only the JSON shape is checked; the
// scores themselves are trusted.
func Decode(data []byte) (*Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("grading: decode result: %w", err)
	}
	return &result, nil
}
