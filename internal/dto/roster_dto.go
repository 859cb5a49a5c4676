package dto

// BulkRowError reports why a single spreadsheet row was rejected.
type BulkRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// BulkUploadResult summarizes a CSV/XLSX bulk upload.
type BulkUploadResult struct {
	Total   int            `json:"total"`
	Created int            `json:"created"`
	Updated int            `json:"updated"`
	Skipped int            `json:"skipped"`
	Errors  []BulkRowError `json:"errors"`
}

// CandidateCreateRequest provisions a single candidate account.
type CandidateCreateRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}
