package ai

import (
	"context"
	"fmt"
)

// AnthropicConfig placeholder for anthropic integration configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// AnthropicGrader is a stub implementation that can be expanded once the SDK is available.
type AnthropicGrader struct{}

// NewAnthropicGrader constructs a new stub grader.
func NewAnthropicGrader(cfg AnthropicConfig) (*AnthropicGrader, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	return &AnthropicGrader{}, nil
}

// GradeText is not yet implemented for Anthropic models.
func (a *AnthropicGrader) GradeText(ctx context.Context, input TextGradingInput) (TextGradingResult, error) {
	return TextGradingResult{}, fmt.Errorf("anthropic grader not implemented")
}

// Rationale is not yet implemented for Anthropic models.
func (a *AnthropicGrader) Rationale(ctx context.Context, input RationaleInput) (RationaleResult, error) {
	return RationaleResult{}, fmt.Errorf("anthropic grader not implemented")
}
