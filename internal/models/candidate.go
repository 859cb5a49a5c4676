package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Candidate represents an assessment taker provisioned by a recruiter.
type Candidate struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	ResumeURL        string     `gorm:"size:512" json:"resume_url"`
	ResumeFilename   string     `gorm:"size:255" json:"resume_filename"`
	ResumeUploadedAt *time.Time `json:"resume_uploaded_at"`

	MCQCompleted           bool       `gorm:"not null;default:false" json:"mcq_completed"`
	MCQCompletedAt         *time.Time `json:"mcq_completed_at"`
	PsychometricCompleted  bool       `gorm:"not null;default:false" json:"psychometric_completed"`
	PsychometricCompletedAt *time.Time `json:"psychometric_completed_at"`
	TextCompleted          bool       `gorm:"not null;default:false" json:"text_completed"`
	TextCompletedAt        *time.Time `json:"text_completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetPassword hashes and stores the candidate password.
func (c *Candidate) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (c Candidate) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(plain)) == nil
}

// HasCompletedAnyRound reports whether at least one assessment round has been
// finished.
func (c Candidate) HasCompletedAnyRound() bool {
	return c.MCQCompleted || c.PsychometricCompleted || c.TextCompleted
}
