package grading

import "context"

// Grader turns an essay image into a Result.
type Grader interface {
	Grade(ctx context.Context, img Image) (*Result, error)
}

// GraderFunc adapts a function to the Grader interface.
type GraderFunc func(ctx context.Context, img Image) (*Result, error)

// Grade calls f.
func (f GraderFunc) Grade(ctx context.Context, img Image) (*Result, error) {
	return f(ctx, img)
}

const examinerInstruction = `You are a certified IELTS Academic Writing examiner.
The image contains a handwritten or printed IELTS essay (Task 1 or Task 2).
1. Transcribe the essay text exactly as written into essayText.
2. Score it against the official public band descriptors (May 2023) for
   Task Response/Achievement, Coherence and Cohesion, Lexical Resource and
   Grammatical Range and Accuracy, using half bands between 0 and 9.
3. overallBand is the mean of the four criteria rounded to the nearest half band.
4. detailedFeedback lists concrete points in essay order. Use severity
   "mistake" for errors that need correcting, "suggestion" for style
   improvements and "praise" for strengths. Quote the essay in originalText
   and give a corrected or improved version in suggestion where it applies.
5. summary is a short examiner comment addressed to the teacher.
Respond with JSON only.`

const gradeRequestText = "Grade this IELTS essay."
