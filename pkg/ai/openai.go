package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "talentgate",
		Subsystem: "ai",
		Name:      "request_duration_seconds",
		Help:      "Duration of AI grading and rationale requests",
	}, []string{"model", "operation"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "talentgate",
		Subsystem: "ai",
		Name:      "request_failures_total",
		Help:      "Number of failed AI grading and rationale requests",
	}, []string{"model", "operation"})
)

// OpenAIConfig defines configuration options for the OpenAI-compatible grader.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIGrader implements Grader against an OpenAI-compatible chat
// completion API.
type OpenAIGrader struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIGrader builds a new grader using the provided configuration.
func NewOpenAIGrader(cfg OpenAIConfig) (*OpenAIGrader, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	tracer := otel.Tracer("github.com/talentgate-labs/talentgate-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(config)

	return &OpenAIGrader{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// GradeText asks the model for per-question grades and remarks, then averages
// them into a communication score.
func (g *OpenAIGrader) GradeText(parent context.Context, input TextGradingInput) (TextGradingResult, error) {
	ctx, span := g.tracer.Start(parent, "openai.grade_text", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
		attribute.Int("answers", len(input.Items)),
	))
	defer span.End()

	content, usage, err := g.complete(ctx, "grade_text", gradingSystemPrompt(), buildGradingPrompt(input))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return TextGradingResult{}, err
	}

	result, err := parseGradingResponse(content)
	if err != nil {
		aiFailures.WithLabelValues(g.cfg.Model, "grade_text").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return TextGradingResult{}, err
	}

	result.Raw = map[string]interface{}{"usage": usage}
	return result, nil
}

// Rationale asks the model for a structured hiring rationale.
func (g *OpenAIGrader) Rationale(parent context.Context, input RationaleInput) (RationaleResult, error) {
	ctx, span := g.tracer.Start(parent, "openai.rationale", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
	))
	defer span.End()

	content, usage, err := g.complete(ctx, "rationale", rationaleSystemPrompt(), buildRationalePrompt(input))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return RationaleResult{}, err
	}

	var rationale map[string]interface{}
	if err := json.Unmarshal([]byte(content), &rationale); err != nil {
		aiFailures.WithLabelValues(g.cfg.Model, "rationale").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return RationaleResult{}, fmt.Errorf("parse rationale json: %w", err)
	}

	return RationaleResult{
		Rationale: rationale,
		Raw:       map[string]interface{}{"usage": usage},
	}, nil
}

func (g *OpenAIGrader) complete(ctx context.Context, operation, system, user string) (string, interface{}, error) {
	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	aiDuration.WithLabelValues(g.cfg.Model, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues(g.cfg.Model, operation).Inc()
		return "", nil, fmt.Errorf("openai %s: %w", operation, err)
	}

	if len(resp.Choices) == 0 {
		aiFailures.WithLabelValues(g.cfg.Model, operation).Inc()
		return "", nil, fmt.Errorf("no choices returned from openai")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), resp.Usage, nil
}

func gradingSystemPrompt() string {
	return "You are an assessment grader for written interview answers. Respond with a JSON object containing a grades array" +
		" (question_id, grade 0-100, remarks) and a communication_score that averages the grades. Judge clarity, structure," +
		" and relevance to the question."
}

func buildGradingPrompt(input TextGradingInput) string {
	builder := strings.Builder{}
	builder.WriteString("# Candidate\n")
	builder.WriteString(input.CandidateEmail)
	for _, item := range input.Items {
		builder.WriteString(fmt.Sprintf("\n\n## Question %d\n", item.QuestionID))
		builder.WriteString(item.Question)
		builder.WriteString("\n\n### Answer\n")
		builder.WriteString(item.Answer)
	}
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}

func rationaleSystemPrompt() string {
	return "You are a hiring analyst. Given a candidate's assessment evidence, respond with a JSON object containing" +
		" strengths (array), concerns (array), summary (string), and recommendation (string). Be specific and ground every" +
		" point in the supplied evidence."
}

func buildRationalePrompt(input RationaleInput) string {
	builder := strings.Builder{}
	builder.WriteString("# Candidate\n")
	builder.WriteString(input.CandidateEmail)
	if input.ResumeURL != "" {
		builder.WriteString("\n\n## Resume\n")
		builder.WriteString(input.ResumeURL)
	}
	if input.TechnicalSummary != "" {
		builder.WriteString("\n\n## Technical Round\n")
		builder.WriteString(input.TechnicalSummary)
	}
	if len(input.TextAnswers) > 0 {
		builder.WriteString("\n\n## Written Answers\n")
		for _, item := range input.TextAnswers {
			builder.WriteString(fmt.Sprintf("- Q%d: %s\n  A: %s\n", item.QuestionID, item.Question, item.Answer))
		}
	}
	if len(input.PsychometricTraits) > 0 {
		builder.WriteString("\n## Personality Traits\n")
		for trait, score := range input.PsychometricTraits {
			builder.WriteString(fmt.Sprintf("- %s: %d\n", trait, score))
		}
	}
	if len(input.ViolationSummary) > 0 {
		builder.WriteString("\n## Proctoring Violations\n")
		for violation, count := range input.ViolationSummary {
			builder.WriteString(fmt.Sprintf("- %s: %d\n", violation, count))
		}
	}
	if input.OverallScore != nil {
		builder.WriteString(fmt.Sprintf("\n## Overall Score\n%.2f (%s)\n", *input.OverallScore, input.Status))
	}
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}

func parseGradingResponse(content string) (TextGradingResult, error) {
	type payload struct {
		Grades             []QuestionGrade `json:"grades"`
		CommunicationScore float64         `json:"communication_score"`
	}

	var data payload
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return TextGradingResult{}, fmt.Errorf("parse grading json: %w", err)
	}

	for i := range data.Grades {
		if data.Grades[i].Grade < 0 {
			data.Grades[i].Grade = 0
		}
		if data.Grades[i].Grade > 100 {
			data.Grades[i].Grade = 100
		}
	}

	// The model's averaging is advisory; recompute from the clamped grades.
	if len(data.Grades) > 0 {
		total := 0.0
		for _, grade := range data.Grades {
			total += grade.Grade
		}
		data.CommunicationScore = total / float64(len(data.Grades))
	}

	return TextGradingResult{
		Grades:             data.Grades,
		CommunicationScore: data.CommunicationScore,
	}, nil
}
