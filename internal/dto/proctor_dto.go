package dto

import (
	"time"

	"github.com/talentgate-labs/talentgate-api/internal/models"
	"github.com/talentgate-labs/talentgate-api/internal/scoring"
)

// ProctorSessionStartRequest opens a proctored sitting.
type ProctorSessionStartRequest struct {
	AssessmentID string `json:"assessment_id" validate:"omitempty,max=64"`
}

// ProctorEventPayload is one client-reported violation event.
type ProctorEventPayload struct {
	ViolationType string                 `json:"violation_type" validate:"required,max=32"`
	Timestamp     time.Time              `json:"timestamp"`
	Details       map[string]interface{} `json:"details"`
}

// ProctorSessionEndRequest closes a session, optionally flushing any events
// buffered client-side.
type ProctorSessionEndRequest struct {
	Events []ProctorEventPayload `json:"events" validate:"omitempty,dive"`
}

// ProctorViolationRequest reports a single live violation.
type ProctorViolationRequest struct {
	SessionUUID   string                 `json:"session_uuid" validate:"required,uuid4"`
	ViolationType string                 `json:"violation_type" validate:"required,max=32"`
	Details       map[string]interface{} `json:"details"`
}

// ProctorSessionResponse serializes a session row.
type ProctorSessionResponse struct {
	SessionUUID     string     `json:"session_uuid"`
	CandidateID     uint       `json:"candidate_id"`
	AssessmentID    string     `json:"assessment_id,omitempty"`
	Status          string     `json:"status"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationMinutes *float64   `json:"duration_minutes"`
}

// ProctorViolationResponse serializes one logged event.
type ProctorViolationResponse struct {
	ViolationType string                 `json:"violation_type"`
	Severity      string                 `json:"severity"`
	Details       map[string]interface{} `json:"details,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
}

// ViolationTypeSummary aggregates one violation type within a session.
type ViolationTypeSummary struct {
	Count    int    `json:"count"`
	Severity string `json:"severity"`
}

// ProctorSessionSummaryResponse is the per-session integrity report.
type ProctorSessionSummaryResponse struct {
	Session         ProctorSessionResponse          `json:"session"`
	Violations      []ProctorViolationResponse      `json:"violations"`
	Summary         map[string]ViolationTypeSummary `json:"summary"`
	TotalViolations int                             `json:"total_violations"`
	FairplayScore   int                             `json:"fairplay_score"`
	RiskTier        string                          `json:"risk_tier"`
}

// ProctorFeedEvent is the payload fanned out to live feed subscribers.
type ProctorFeedEvent struct {
	SessionUUID   string                 `json:"session_uuid"`
	CandidateID   uint                   `json:"candidate_id"`
	ViolationType string                 `json:"violation_type"`
	Severity      string                 `json:"severity"`
	Details       map[string]interface{} `json:"details,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
}

// NewProctorSessionResponse converts a session model into a DTO.
func NewProctorSessionResponse(session models.ProctorSession) ProctorSessionResponse {
	return ProctorSessionResponse{
		SessionUUID:     session.SessionUUID,
		CandidateID:     session.CandidateID,
		AssessmentID:    session.AssessmentID,
		Status:          session.Status,
		StartTime:       session.StartTime,
		EndTime:         session.EndTime,
		DurationMinutes: session.DurationMinutes(),
	}
}

// NewProctorViolationResponse converts a violation row into a DTO.
func NewProctorViolationResponse(violation models.ProctorViolation) ProctorViolationResponse {
	details := map[string]interface{}(nil)
	if violation.Details != nil {
		details = map[string]interface{}(violation.Details)
	}
	return ProctorViolationResponse{
		ViolationType: violation.ViolationType,
		Severity:      violation.Severity,
		Details:       details,
		Timestamp:     violation.Timestamp,
	}
}

// NewViolationSummary flattens a scoring summary into serializable form,
// omitting types that never occurred.
func NewViolationSummary(summary scoring.ViolationSummary) map[string]ViolationTypeSummary {
	out := make(map[string]ViolationTypeSummary)
	for violationType, count := range summary {
		if count == 0 {
			continue
		}
		out[string(violationType)] = ViolationTypeSummary{
			Count:    count,
			Severity: violationType.Severity(),
		}
	}
	return out
}
