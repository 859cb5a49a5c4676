package models

import (
	"time"

	"gorm.io/datatypes"
)

// Proctoring session lifecycle states.
const (
	ProctorSessionActive    = "active"
	ProctorSessionCompleted = "completed"
)

// ProctorSession tracks one webcam-proctored assessment sitting.
type ProctorSession struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	SessionUUID  string            `gorm:"size:36;uniqueIndex;not null" json:"session_uuid"`
	CandidateID  uint              `gorm:"not null;index" json:"candidate_id"`
	AssessmentID string            `gorm:"size:64" json:"assessment_id"`
	Status       string            `gorm:"size:16;not null" json:"status"`
	StartTime    time.Time         `json:"start_time"`
	EndTime      *time.Time        `json:"end_time"`
	// ViolationCounts redundantly persists the client-reported event list and
	// per-type summary captured when the session ended. The violation rows
	// remain the source of truth for recomputation.
	ViolationCounts datatypes.JSONMap `json:"violation_counts"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Candidate       Candidate         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// DurationMinutes returns the session length, or nil while still active.
func (s ProctorSession) DurationMinutes() *float64 {
	if s.EndTime == nil {
		return nil
	}
	minutes := s.EndTime.Sub(s.StartTime).Minutes()
	return &minutes
}

// ProctorViolation is one logged violation event. Rows are append-only.
type ProctorViolation struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	SessionUUID   string            `gorm:"size:36;not null;index" json:"session_uuid"`
	CandidateID   uint              `gorm:"not null;index" json:"candidate_id"`
	ViolationType string            `gorm:"size:32;not null" json:"violation_type"`
	Severity      string            `gorm:"size:8;not null" json:"severity"`
	Details       datatypes.JSONMap `json:"details"`
	Timestamp     time.Time         `gorm:"not null" json:"timestamp"`
	CreatedAt     time.Time         `json:"created_at"`
}
