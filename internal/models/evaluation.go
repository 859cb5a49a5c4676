package models

import (
	"time"

	"gorm.io/datatypes"
)

// EvaluationCriteria holds recruiter-configured scoring weights. Percentages
// must sum to 100.
type EvaluationCriteria struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RecruiterID  uint      `gorm:"uniqueIndex;not null" json:"recruiter_id"`
	Technical    float64   `gorm:"not null" json:"technical_skill"`
	Psychometric float64   `gorm:"not null" json:"psychometric_assessment"`
	SoftSkill    float64   `gorm:"not null" json:"soft_skill"`
	Fairplay     float64   `gorm:"not null" json:"fairplay"`
	IsDefault    bool      `gorm:"not null;default:true" json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Recruiter    Recruiter `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// CandidateRationale stores the AI-generated hiring rationale report.
type CandidateRationale struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	CandidateID uint              `gorm:"uniqueIndex;not null" json:"candidate_id"`
	Rationale   datatypes.JSONMap `json:"rationale"`
	Provider    string            `gorm:"size:32" json:"provider"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Candidate   Candidate         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
