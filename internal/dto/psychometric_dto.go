package dto

import (
	"time"

	"github.com/talentgate-labs/talentgate-api/internal/models"
)

// PsychometricQuestionResponse is the candidate-facing view of a test item.
// Trait and keying stay server-side.
type PsychometricQuestionResponse struct {
	QuestionID int    `json:"question_id"`
	Statement  string `json:"statement"`
}

// PsychometricConfigRequest updates the active test configuration.
type PsychometricConfigRequest struct {
	SelectionMode       string `json:"selection_mode" validate:"required,oneof=random manual"`
	NumQuestions        int    `json:"num_questions" validate:"omitempty,gte=1,lte=50"`
	SelectedQuestionIDs []int  `json:"selected_question_ids" validate:"omitempty,min=1,dive,gt=0"`
}

// PsychometricTestStartResponse describes the test served to a candidate.
type PsychometricTestStartResponse struct {
	Instructions string                         `json:"instructions"`
	Scale        map[string]string              `json:"scale"`
	Questions    []PsychometricQuestionResponse `json:"questions"`
}

// PsychometricSubmitRequest carries the candidate's 1-5 answers keyed by
// question id.
type PsychometricSubmitRequest struct {
	Answers map[int]int `json:"answers" validate:"required,min=1,dive,gte=1,lte=5"`
}

// PsychometricResultResponse serializes the per-trait outcome.
type PsychometricResultResponse struct {
	CandidateID       uint           `json:"candidate_id"`
	TraitScores       map[string]int `json:"trait_scores"`
	QuestionsAnswered int            `json:"questions_answered"`
	TestCompleted     bool           `json:"test_completed"`
	CreatedAt         time.Time      `json:"created_at"`
}

// NewPsychometricQuestionResponse converts a bank item into a DTO.
func NewPsychometricQuestionResponse(question models.PsychometricQuestion) PsychometricQuestionResponse {
	return PsychometricQuestionResponse{
		QuestionID: question.QuestionID,
		Statement:  question.Statement,
	}
}

// NewPsychometricResultResponse converts a stored result into a DTO keyed by
// trait display name.
func NewPsychometricResultResponse(result models.PsychometricResult) PsychometricResultResponse {
	names := models.TraitNames()
	scores := make(map[string]int, len(names))
	for trait, score := range result.TraitScores() {
		scores[names[trait]] = score
	}
	return PsychometricResultResponse{
		CandidateID:       result.CandidateID,
		TraitScores:       scores,
		QuestionsAnswered: result.QuestionsAnswered,
		TestCompleted:     result.TestCompleted,
		CreatedAt:         result.CreatedAt,
	}
}
