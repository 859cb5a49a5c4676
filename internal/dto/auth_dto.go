package dto

// LoginRequest carries the credentials for candidate and recruiter login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// TokenResponse returns the signed JWT for an authenticated account.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

// IdentityResponse echoes the identity encoded in a verified token.
type IdentityResponse struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Type   string `json:"type"`
}
