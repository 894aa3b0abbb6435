// Package content holds the static reference material shown by GradeMaster:
// the IELTS Academic Writing band descriptors and the app-store listing copy.
// Everything here is read-only for the lifetime of the process.
package content

import (
	"fmt"
	"strconv"
	"strings"
)

// Task identifies one of the two Academic Writing sub-tests.
type Task int

const (
	Task1 Task = 1
	Task2 Task = 2
)

// ParseTask accepts "1", "2", "t1", "task2" and similar spellings.
func ParseTask(value string) (Task, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	trimmed = strings.TrimPrefix(trimmed, "task")
	trimmed = strings.TrimPrefix(trimmed, "t")
	n, err := strconv.Atoi(strings.TrimSpace(trimmed))
	if err != nil || (n != 1 && n != 2) {
		return 0, fmt.Errorf("content: unknown task %q (want 1 or 2)", value)
	}
	return Task(n), nil
}

// Title returns the tab label for the task.
func (t Task) Title() string {
	if t == Task1 {
		return "Task 1 Academic"
	}
	return "Task 2 Academic"
}

// FirstCriterion names the task-specific first criterion.
func (t Task) FirstCriterion() string {
	if t == Task1 {
		return "Task Achievement"
	}
	return "Task Response"
}

// Other returns the opposite task, used by the tab toggle.
func (t Task) Other() Task {
	if t == Task1 {
		return Task2
	}
	return Task1
}

// Descriptor is one band row of a descriptor table.
type Descriptor struct {
	Band              int    `json:"band"`
	Criterion1        string `json:"criterion1"`
	CoherenceCohesion string `json:"coherenceCohesion"`
	LexicalResource   string `json:"lexicalResource"`
	GrammarAccuracy   string `json:"grammarAccuracy"`
}

// Field is a labelled descriptor paragraph.
type Field struct {
	Label string
	Text  string
}

// Fields returns the four criterion paragraphs in display order.
func (d Descriptor) Fields(task Task) []Field {
	return []Field{
		{Label: task.FirstCriterion(), Text: d.Criterion1},
		{Label: "Coherence & Cohesion", Text: d.CoherenceCohesion},
		{Label: "Lexical Resource", Text: d.LexicalResource},
		{Label: "Grammar Range & Accuracy", Text: d.GrammarAccuracy},
	}
}

// Descriptors returns a copy of the table for the given task, ordered from
// band 9 down to band 5.
func Descriptors(task Task) []Descriptor {
	src := task2Descriptors
	if task == Task1 {
		src = task1Descriptors
	}
	out := make([]Descriptor, len(src))
	copy(out, src)
	return out
}

// DescriptorsNote is shown above the table.
const DescriptorsNote = "Official IELTS criteria (updated May 2023). Select a band level to view detailed requirements for each category."

// DescriptorsFooter is shown below the table.
const DescriptorsFooter = "Please visit IELTS.org for official updates."

// StoreListing is the app-store metadata block.
type StoreListing struct {
	Title       string
	Subtitle    string
	Description string
	Keywords    string
}

// AppStore is the listing copy shown on the App Info screen.
var AppStore = StoreListing{
	Title:       "IELTS GradeMaster: Essay AI",
	Subtitle:    "Grade, Analyze & Master Writing",
	Description: "IELTS GradeMaster is the ultimate tool for IELTS teachers. Instantly scan handwritten student essays using AI-powered OCR. Get accurate band scores based on official descriptors and receive detailed, chat-style feedback to help your students improve. Perfect for busy teachers who want to save time while maintaining professional standards.",
	Keywords:    "IELTS, Essay Grading, Writing Teacher, English Exam, Band Score, Essay Analysis, AI Feedback",
}

// ReviewChecklist lists the store review items, all of which are satisfied.
var ReviewChecklist = []string{
	"Provide demo account credentials",
	"Clear description of $10/year IAP",
	"Include Privacy Policy URL",
	"Screenshots showing core functionality",
}

// UserFlow describes the intended grading journey.
var UserFlow = []string{
	`User opens app, selects "Grade Writing".`,
	"User takes photo of essay or uploads from gallery.",
	"AI processes image (OCR + Grading logic).",
	"User views Scores and detailed Chat Feedback.",
	"User downloads feedback as PDF to share with student.",
}

// PremiumFeatures are the bullets on the subscription screen.
var PremiumFeatures = []string{
	"Up to 200 graded essays per year",
	"AI-powered chat style feedback",
	"Full Task 1 & Task 2 analysis",
	"Downloadable PDF & Word reports",
}
