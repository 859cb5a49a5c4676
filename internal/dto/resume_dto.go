package dto

import (
	"time"

	"github.com/talentgate-labs/talentgate-api/internal/models"
)

// ResumeResponse serializes the stored resume reference on a candidate.
type ResumeResponse struct {
	ResumeURL  string     `json:"resume_url"`
	Filename   string     `json:"resume_filename"`
	UploadedAt *time.Time `json:"uploaded_at"`
}

// NewResumeResponse extracts the resume fields from a candidate.
func NewResumeResponse(candidate models.Candidate) ResumeResponse {
	return ResumeResponse{
		ResumeURL:  candidate.ResumeURL,
		Filename:   candidate.ResumeFilename,
		UploadedAt: candidate.ResumeUploadedAt,
	}
}
