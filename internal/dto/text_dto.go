package dto

import (
	"time"

	"github.com/talentgate-labs/talentgate-api/internal/models"
)

// TextQuestionResponse serializes an open-ended question.
type TextQuestionResponse struct {
	QuestionID int    `json:"question_id"`
	Question   string `json:"question"`
}

// TextSubmitRequest carries one free-text answer.
type TextSubmitRequest struct {
	QuestionID int    `json:"question_id" validate:"required,gt=0"`
	Answer     string `json:"answer" validate:"required,min=1"`
}

// TextAnswerResponse serializes a stored answer.
type TextAnswerResponse struct {
	QuestionID  int       `json:"question_id"`
	Answer      string    `json:"answer"`
	WordCount   int       `json:"word_count"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// TextResultResponse is the AI grading outcome for the text round.
type TextResultResponse struct {
	CandidateID        uint                   `json:"candidate_id"`
	CommunicationScore *float64               `json:"communication_score"`
	Grading            map[string]interface{} `json:"grading,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
}

// NewTextQuestionResponse converts a bank question into a DTO.
func NewTextQuestionResponse(question models.TextQuestion) TextQuestionResponse {
	return TextQuestionResponse{
		QuestionID: question.QuestionID,
		Question:   question.Question,
	}
}

// NewTextAnswerResponse converts a stored answer into a DTO.
func NewTextAnswerResponse(answer models.TextAnswer) TextAnswerResponse {
	return TextAnswerResponse{
		QuestionID:  answer.QuestionID,
		Answer:      answer.Answer,
		WordCount:   answer.WordCount,
		SubmittedAt: answer.SubmittedAt,
	}
}

// NewTextResultResponse converts a grading result into a DTO.
func NewTextResultResponse(result models.TextAssessmentResult) TextResultResponse {
	grading := map[string]interface{}(nil)
	if result.Grading != nil {
		grading = map[string]interface{}(result.Grading)
	}
	return TextResultResponse{
		CandidateID:        result.CandidateID,
		CommunicationScore: result.CommunicationScore,
		Grading:            grading,
		CreatedAt:          result.CreatedAt,
	}
}
