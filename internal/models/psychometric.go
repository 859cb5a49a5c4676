package models

import (
	"time"

	"gorm.io/datatypes"
)

// Big Five trait identifiers used by psychometric questions and results.
const (
	TraitExtraversion         = 1
	TraitAgreeableness        = 2
	TraitConscientiousness    = 3
	TraitEmotionalStability   = 4
	TraitIntellectImagination = 5
)

// TraitNames maps trait identifiers to display names.
func TraitNames() map[int]string {
	return map[int]string{
		TraitExtraversion:         "Extraversion",
		TraitAgreeableness:        "Agreeableness",
		TraitConscientiousness:    "Conscientiousness",
		TraitEmotionalStability:   "Emotional Stability",
		TraitIntellectImagination: "Intellect/Imagination",
	}
}

// PsychometricQuestion is a Likert-scale item keyed to one Big Five trait.
// ScoringDirection "+" scores the answer as-is; "-" reverse-scores it.
type PsychometricQuestion struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	QuestionID       int       `gorm:"uniqueIndex;not null" json:"question_id"`
	Statement        string    `gorm:"type:text;not null" json:"statement"`
	TraitType        int       `gorm:"not null" json:"trait_type"`
	ScoringDirection string    `gorm:"size:1;not null;default:+" json:"scoring_direction"`
	IsActive         bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PsychometricTestConfig controls which questions a test run serves.
type PsychometricTestConfig struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	SelectionMode       string         `gorm:"size:16;not null;default:random" json:"selection_mode"`
	NumQuestions        int            `gorm:"not null;default:50" json:"num_questions"`
	SelectedQuestionIDs datatypes.JSON `json:"selected_question_ids"`
	IsActive            bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// PsychometricResult stores per-trait sums for a completed test.
type PsychometricResult struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	CandidateID          uint           `gorm:"uniqueIndex;not null" json:"candidate_id"`
	Extraversion         int            `gorm:"not null" json:"extraversion"`
	Agreeableness        int            `gorm:"not null" json:"agreeableness"`
	Conscientiousness    int            `gorm:"not null" json:"conscientiousness"`
	EmotionalStability   int            `gorm:"not null" json:"emotional_stability"`
	IntellectImagination int            `gorm:"not null" json:"intellect_imagination"`
	QuestionsAnswered    int            `gorm:"not null" json:"questions_answered"`
	TestCompleted        bool           `gorm:"not null;default:false" json:"test_completed"`
	Answers              datatypes.JSON `json:"answers"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	Candidate            Candidate      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// TotalPoints sums all trait scores.
func (r PsychometricResult) TotalPoints() int {
	return r.Extraversion + r.Agreeableness + r.Conscientiousness + r.EmotionalStability + r.IntellectImagination
}

// TraitScores returns scores keyed by trait identifier.
func (r PsychometricResult) TraitScores() map[int]int {
	return map[int]int{
		TraitExtraversion:         r.Extraversion,
		TraitAgreeableness:        r.Agreeableness,
		TraitConscientiousness:    r.Conscientiousness,
		TraitEmotionalStability:   r.EmotionalStability,
		TraitIntellectImagination: r.IntellectImagination,
	}
}
