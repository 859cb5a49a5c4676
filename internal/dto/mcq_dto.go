package dto

import (
	"time"

	"github.com/talentgate-labs/talentgate-api/internal/models"
)

// MCQQuestionResponse is the candidate-facing view of a bank question. The
// correct option is never serialized here.
type MCQQuestionResponse struct {
	QuestionID int    `json:"question_id"`
	Question   string `json:"question"`
	Option1    string `json:"option1"`
	Option2    string `json:"option2"`
	Option3    string `json:"option3"`
	Option4    string `json:"option4"`
}

// MCQSubmitRequest records a single answer pick.
type MCQSubmitRequest struct {
	QuestionID   int `json:"question_id" validate:"required,gt=0"`
	AnswerOption int `json:"answer_option" validate:"required,gte=1,lte=4"`
}

// MCQBatchSubmitRequest submits several picks at once, typically on round
// completion.
type MCQBatchSubmitRequest struct {
	Answers []MCQSubmitRequest `json:"answers" validate:"required,min=1,dive"`
}

// MCQResponseItem serializes a stored answer.
type MCQResponseItem struct {
	QuestionID   int       `json:"question_id"`
	AnswerOption int       `json:"answer_option"`
	AnsweredAt   time.Time `json:"answered_at"`
}

// MCQResultResponse is the graded outcome of a completed round.
type MCQResultResponse struct {
	CandidateID uint                   `json:"candidate_id"`
	Correct     int                    `json:"correct_answers"`
	Wrong       int                    `json:"wrong_answers"`
	Percentage  float64                `json:"percentage"`
	Grading     map[string]interface{} `json:"grading,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// NewMCQQuestionResponse strips the answer key from a bank question.
func NewMCQQuestionResponse(question models.MCQQuestion) MCQQuestionResponse {
	return MCQQuestionResponse{
		QuestionID: question.QuestionID,
		Question:   question.Question,
		Option1:    question.Option1,
		Option2:    question.Option2,
		Option3:    question.Option3,
		Option4:    question.Option4,
	}
}

// NewMCQResponseItem converts a stored response into a DTO.
func NewMCQResponseItem(response models.MCQResponse) MCQResponseItem {
	return MCQResponseItem{
		QuestionID:   response.QuestionID,
		AnswerOption: response.AnswerOption,
		AnsweredAt:   response.AnsweredAt,
	}
}

// NewMCQResultResponse converts a graded result into a DTO.
func NewMCQResultResponse(result models.MCQResult) MCQResultResponse {
	grading := map[string]interface{}(nil)
	if result.Grading != nil {
		grading = map[string]interface{}(result.Grading)
	}
	return MCQResultResponse{
		CandidateID: result.CandidateID,
		Correct:     result.Correct,
		Wrong:       result.Wrong,
		Percentage:  result.Percentage,
		Grading:     grading,
		CreatedAt:   result.CreatedAt,
	}
}
