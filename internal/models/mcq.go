package models

import (
	"time"

	"gorm.io/datatypes"
)

// MCQQuestion is a bank entry with four options and one correct answer.
type MCQQuestion struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	QuestionID    int       `gorm:"uniqueIndex;not null" json:"question_id"`
	Question      string    `gorm:"type:text;not null" json:"question"`
	Option1       string    `gorm:"type:text;not null" json:"option1"`
	Option2       string    `gorm:"type:text;not null" json:"option2"`
	Option3       string    `gorm:"type:text;not null" json:"option3"`
	Option4       string    `gorm:"type:text;not null" json:"option4"`
	CorrectAnswer int       `gorm:"not null" json:"correct_answer"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MCQResponse stores a candidate's selected option for one question.
// Resubmissions overwrite the previous pick (last write wins).
type MCQResponse struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	QuestionID   int       `gorm:"not null;index:idx_mcq_response,unique" json:"question_id"`
	CandidateID  uint      `gorm:"not null;index:idx_mcq_response,unique" json:"candidate_id"`
	AnswerOption int       `gorm:"not null" json:"answer_option"`
	AnsweredAt   time.Time `gorm:"not null" json:"answered_at"`
	Candidate    Candidate `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// MCQResult is the graded outcome of a completed MCQ round.
type MCQResult struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	CandidateID uint              `gorm:"uniqueIndex;not null" json:"candidate_id"`
	Correct     int               `gorm:"not null" json:"correct_answers"`
	Wrong       int               `gorm:"not null" json:"wrong_answers"`
	Percentage  float64           `gorm:"not null" json:"percentage"`
	Grading     datatypes.JSONMap `json:"grading"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Candidate   Candidate         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
