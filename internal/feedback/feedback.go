// Package feedback turns a grading result into presentable pieces: the
// severity lookup used to style feedback items, the sub-score grid and a
// markdown report.
package feedback

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kingrea/grademaster/internal/grading"
)

// Style is the presentation of one severity.
type Style struct {
	Label  string
	Icon   string
	Accent string // lipgloss colour for the header bar
	Text   string // lipgloss colour for the header text
}

var severityStyles = map[grading.Severity]Style{
	grading.SeverityMistake:    {Label: "Correction Required", Icon: "!", Accent: "#EF4444", Text: "#B91C1C"},
	grading.SeveritySuggestion: {Label: "Style Improvement", Icon: "i", Accent: "#F59E0B", Text: "#B45309"},
	grading.SeverityPraise:     {Label: "Strength Identified", Icon: "✓", Accent: "#22C55E", Text: "#15803D"},
}

var neutralStyle = Style{Label: "Note", Icon: "•", Accent: "#94A3B8", Text: "#475569"}

// StyleFor looks up the style for a severity. Values outside the known set
// get a neutral style.
func StyleFor(sev grading.Severity) Style {
	if style, ok := severityStyles[sev]; ok {
		return style
	}
	return neutralStyle
}

// Score is one cell of the sub-score grid.
type Score struct {
	Key   string
	Label string
	Value float64
}

// Scores returns the four criteria in display order with short labels.
func Scores(c grading.Criteria) []Score {
	return []Score{
		{Key: "taskResponse", Label: "Task Res.", Value: c.TaskResponse},
		{Key: "coherenceCohesion", Label: "Coh/Coh", Value: c.CoherenceCohesion},
		{Key: "lexicalResource", Label: "Lexical", Value: c.LexicalResource},
		{Key: "grammarAccuracy", Label: "Grammar", Value: c.GrammarAccuracy},
	}
}

// FormatBand prints whole bands without a decimal and half bands with one.
func FormatBand(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Header is the per-item title line, e.g. "Correction Required • grammar".
func Header(item grading.FeedbackItem) string {
	style := StyleFor(item.Severity)
	kind := strings.TrimSpace(string(item.Type))
	if kind == "" {
		return style.Label
	}
	return fmt.Sprintf("%s • %s", style.Label, kind)
}

// Markdown renders the full report.
func Markdown(res *grading.Result) string {
	if res == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Overall Band %s\n\n", FormatBand(res.OverallBand))
	b.WriteString("| Criterion | Band |\n|---|---|\n")
	for _, s := range Scores(res.Criteria) {
		fmt.Fprintf(&b, "| %s | %s |\n", s.Label, FormatBand(s.Value))
	}
	b.WriteString("\n## Examiner Summary\n\n")
	b.WriteString(strings.TrimSpace(res.Summary))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "## Feedback Points (%s)\n\n", itemCount(len(res.DetailedFeedback)))
	for i, item := range res.DetailedFeedback {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, Header(item))
		if text := strings.TrimSpace(item.OriginalText); text != "" {
			fmt.Fprintf(&b, "> %q\n\n", text)
		}
		b.WriteString(strings.TrimSpace(item.Explanation))
		b.WriteString("\n\n")
		if s := strings.TrimSpace(item.Suggestion); s != "" {
			fmt.Fprintf(&b, "**Suggestion:** %s\n\n", s)
		}
	}
	if essay := strings.TrimSpace(res.EssayText); essay != "" {
		b.WriteString("## Transcribed Essay\n\n")
		b.WriteString(essay)
		b.WriteString("\n")
	}
	return b.String()
}

func itemCount(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

// ExportFormat names a report download format.
type ExportFormat string

const (
	ExportPDF  ExportFormat = "pdf"
	ExportWord ExportFormat = "docx"
)

// ExportNotice is shown instead of producing a file; report export is not
// implemented.
func ExportNotice(format ExportFormat) string {
	return fmt.Sprintf("Generating %s report... (This feature requires a backend for actual file generation)", strings.ToUpper(string(format)))
}
