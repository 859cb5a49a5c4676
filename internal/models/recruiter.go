package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Recruiter represents a hiring-side user who manages candidates and reviews
// assessment results.
type Recruiter struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SetPassword hashes and stores the recruiter password.
func (r *Recruiter) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	r.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (r Recruiter) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(r.PasswordHash), []byte(plain)) == nil
}
