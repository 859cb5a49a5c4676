package ai

import "context"

// TextGradingItem pairs one question with the candidate's answer.
type TextGradingItem struct {
	QuestionID int
	Question   string
	Answer     string
}

// TextGradingInput contains everything needed to grade a text round.
type TextGradingInput struct {
	CandidateEmail string
	Items          []TextGradingItem
}

// QuestionGrade is the per-question outcome of a grading request.
type QuestionGrade struct {
	QuestionID int     `json:"question_id"`
	Grade      float64 `json:"grade"`
	Remarks    string  `json:"remarks"`
}

// TextGradingResult is the structured feedback returned by the AI grader.
// CommunicationScore is the 0-100 average across per-question grades.
type TextGradingResult struct {
	Grades             []QuestionGrade        `json:"grades"`
	CommunicationScore float64                `json:"communication_score"`
	Raw                map[string]interface{} `json:"raw,omitempty"`
}

// RationaleInput aggregates the assessment evidence for a hiring rationale.
type RationaleInput struct {
	CandidateEmail     string
	ResumeURL          string
	TechnicalSummary   string
	TextAnswers        []TextGradingItem
	PsychometricTraits map[string]int
	ViolationSummary   map[string]int
	OverallScore       *float64
	Status             string
}

// RationaleResult is the structured hiring rationale.
type RationaleResult struct {
	Rationale map[string]interface{} `json:"rationale"`
	Raw       map[string]interface{} `json:"raw,omitempty"`
}

// Grader describes an AI model capable of grading text answers and composing
// hiring rationales.
type Grader interface {
	GradeText(ctx context.Context, input TextGradingInput) (TextGradingResult, error)
	Rationale(ctx context.Context, input RationaleInput) (RationaleResult, error)
}
