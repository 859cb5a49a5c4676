package dto

import (
	"time"

	"github.com/talentgate-labs/talentgate-api/internal/models"
	"github.com/talentgate-labs/talentgate-api/internal/scoring"
)

// EvaluationCriteriaRequest updates a recruiter's scoring weights. The four
// percentages must sum to 100.
type EvaluationCriteriaRequest struct {
	Technical    float64 `json:"technical_skill" validate:"gte=0,lte=100"`
	Psychometric float64 `json:"psychometric_assessment" validate:"gte=0,lte=100"`
	SoftSkill    float64 `json:"soft_skill" validate:"gte=0,lte=100"`
	Fairplay     float64 `json:"fairplay" validate:"gte=0,lte=100"`
}

// EvaluationCriteriaResponse serializes the active weights.
type EvaluationCriteriaResponse struct {
	Technical    float64   `json:"technical_skill"`
	Psychometric float64   `json:"psychometric_assessment"`
	SoftSkill    float64   `json:"soft_skill"`
	Fairplay     float64   `json:"fairplay"`
	IsDefault    bool      `json:"is_default"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CandidateOverviewResponse is one roster row on the dashboard.
type CandidateOverviewResponse struct {
	CandidateID   uint              `json:"candidate_id"`
	Email         string            `json:"email"`
	ResumeURL     string            `json:"resume_url,omitempty"`
	RoundsDone    map[string]bool   `json:"rounds_completed"`
	Evaluation    scoring.Composite `json:"evaluation"`
	LastActivity  time.Time         `json:"last_activity"`
	HasViolations bool              `json:"has_violations"`
}

// CandidateReportResponse is the full drill-down for one candidate.
type CandidateReportResponse struct {
	Candidate       CandidateOverviewResponse       `json:"candidate"`
	MCQ             *MCQResultResponse              `json:"mcq_result"`
	Text            *TextResultResponse             `json:"text_result"`
	TextAnswers     []TextAnswerResponse            `json:"text_answers"`
	Psychometric    *PsychometricResultResponse     `json:"psychometric_result"`
	Sessions        []ProctorSessionResponse        `json:"proctor_sessions"`
	ViolationCounts map[string]ViolationTypeSummary `json:"violation_summary"`
	Rationale       *RationaleResponse              `json:"rationale"`
}

// RationaleRequest triggers AI rationale generation for a candidate.
type RationaleRequest struct {
	Regenerate bool `json:"regenerate"`
}

// RationaleResponse serializes a stored AI hiring rationale.
type RationaleResponse struct {
	CandidateID uint                   `json:"candidate_id"`
	Rationale   map[string]interface{} `json:"rationale"`
	Provider    string                 `json:"provider"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// NewEvaluationCriteriaResponse converts a criteria row into a DTO.
func NewEvaluationCriteriaResponse(criteria models.EvaluationCriteria) EvaluationCriteriaResponse {
	return EvaluationCriteriaResponse{
		Technical:    criteria.Technical,
		Psychometric: criteria.Psychometric,
		SoftSkill:    criteria.SoftSkill,
		Fairplay:     criteria.Fairplay,
		IsDefault:    criteria.IsDefault,
		UpdatedAt:    criteria.UpdatedAt,
	}
}

// NewRationaleResponse converts a stored rationale into a DTO.
func NewRationaleResponse(rationale models.CandidateRationale) RationaleResponse {
	payload := map[string]interface{}(nil)
	if rationale.Rationale != nil {
		payload = map[string]interface{}(rationale.Rationale)
	}
	return RationaleResponse{
		CandidateID: rationale.CandidateID,
		Rationale:   payload,
		Provider:    rationale.Provider,
		GeneratedAt: rationale.UpdatedAt,
	}
}

// Weights converts the request percentages into scoring weights.
func (r EvaluationCriteriaRequest) Weights() scoring.Weights {
	return scoring.Weights{
		Technical:    r.Technical,
		Psychometric: r.Psychometric,
		SoftSkill:    r.SoftSkill,
		Fairplay:     r.Fairplay,
	}
}
