package models

import (
	"time"

	"gorm.io/datatypes"
)

// MaxTextAnswerWords bounds the length of a text-based answer.
const MaxTextAnswerWords = 200

// TextQuestion is an open-ended soft-skill question.
type TextQuestion struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID int       `gorm:"uniqueIndex;not null" json:"question_id"`
	Question   string    `gorm:"type:text;not null" json:"question"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TextAnswer holds a candidate's free-text response to one question.
type TextAnswer struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CandidateID uint         `gorm:"not null;index:idx_text_answer,unique" json:"candidate_id"`
	QuestionID  int          `gorm:"not null;index:idx_text_answer,unique" json:"question_id"`
	Answer      string       `gorm:"type:text;not null" json:"answer"`
	WordCount   int          `gorm:"not null" json:"word_count"`
	SubmittedAt time.Time    `json:"submitted_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Candidate   Candidate    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Question    TextQuestion `gorm:"foreignKey:QuestionID;references:QuestionID" json:"-"`
}

// TextAssessmentResult stores the AI grading outcome for a candidate's text
// round, including per-question remarks and the averaged communication score.
type TextAssessmentResult struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	CandidateID        uint              `gorm:"uniqueIndex;not null" json:"candidate_id"`
	CommunicationScore *float64          `json:"communication_score"`
	Grading            datatypes.JSONMap `json:"grading"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	Candidate          Candidate         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
