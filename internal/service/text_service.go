package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	"github.com/talentgate-labs/talentgate-api/internal/models"
	"github.com/talentgate-labs/talentgate-api/internal/repository"
	"github.com/talentgate-labs/talentgate-api/pkg/ai"
)

// ErrAnswerTooLong indicates the text answer exceeds the word limit.
var ErrAnswerTooLong = fmt.Errorf("answer exceeds %d words", models.MaxTextAnswerWords)

// TextService exposes the written soft-skill assessment round.
type TextService interface {
	ListQuestions(ctx context.Context) ([]dto.TextQuestionResponse, error)
	Submit(ctx context.Context, candidateID uint, payload dto.TextSubmitRequest) (dto.TextAnswerResponse, error)
	CompleteRound(ctx context.Context, candidateID uint) (dto.TextResultResponse, error)
	ListAnswers(ctx context.Context, candidateID uint) ([]dto.TextAnswerResponse, error)
	GetResult(ctx context.Context, candidateID uint) (dto.TextResultResponse, error)
}

type textService struct {
	repo       repository.TextRepository
	candidates repository.CandidateRepository
	grader     ai.Grader
	validator  *validator.Validate
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewTextService constructs the text round service. The grader may be nil
// when no AI provider is configured; completion then records an ungraded
// result.
func NewTextService(repo repository.TextRepository, candidates repository.CandidateRepository, grader ai.Grader, validate *validator.Validate, logger zerolog.Logger) TextService {
	return &textService{
		repo:       repo,
		candidates: candidates,
		grader:     grader,
		validator:  validate,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger.With().Str("component", "text_service").Logger(),
		tracer:     otel.Tracer("github.com/talentgate-labs/talentgate-api/internal/service/text"),
	}
}

func (s *textService) ListQuestions(ctx context.Context) ([]dto.TextQuestionResponse, error) {
	questions, err := s.repo.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TextQuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, dto.NewTextQuestionResponse(question))
	}
	return responses, nil
}

func (s *textService) Submit(ctx context.Context, candidateID uint, payload dto.TextSubmitRequest) (dto.TextAnswerResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TextAnswerResponse{}, err
	}

	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return dto.TextAnswerResponse{}, err
	}
	if candidate.TextCompleted {
		return dto.TextAnswerResponse{}, ErrRoundAlreadyCompleted
	}

	if _, err := s.repo.GetQuestion(ctx, payload.QuestionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TextAnswerResponse{}, ErrQuestionNotFound
		}
		return dto.TextAnswerResponse{}, err
	}

	clean := strings.TrimSpace(s.sanitizer.Sanitize(payload.Answer))
	words := strings.Fields(clean)
	if len(words) > models.MaxTextAnswerWords {
		return dto.TextAnswerResponse{}, ErrAnswerTooLong
	}

	answer := models.TextAnswer{
		CandidateID: candidateID,
		QuestionID:  payload.QuestionID,
		Answer:      clean,
		WordCount:   len(words),
		SubmittedAt: time.Now(),
	}
	if err := s.repo.UpsertAnswer(ctx, &answer); err != nil {
		return dto.TextAnswerResponse{}, err
	}

	return dto.NewTextAnswerResponse(answer), nil
}

// CompleteRound marks the round finished and grades the stored answers. A
// grading failure is logged and recorded, never surfaced to the candidate.
func (s *textService) CompleteRound(ctx context.Context, candidateID uint) (dto.TextResultResponse, error) {
	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return dto.TextResultResponse{}, err
	}

	if candidate.TextCompleted {
		return dto.TextResultResponse{}, ErrRoundAlreadyCompleted
	}

	answers, err := s.repo.ListAnswers(ctx, candidateID)
	if err != nil {
		return dto.TextResultResponse{}, err
	}

	result := s.gradeAnswers(ctx, candidate, answers)
	if err := s.repo.SaveResult(ctx, &result); err != nil {
		return dto.TextResultResponse{}, err
	}

	now := time.Now()
	candidate.TextCompleted = true
	candidate.TextCompletedAt = &now
	if err := s.candidates.Save(ctx, &candidate); err != nil {
		return dto.TextResultResponse{}, err
	}

	s.logger.Info().Uint("candidate_id", candidateID).Int("answers", len(answers)).Msg("text round completed")
	return dto.NewTextResultResponse(result), nil
}

func (s *textService) ListAnswers(ctx context.Context, candidateID uint) ([]dto.TextAnswerResponse, error) {
	answers, err := s.repo.ListAnswers(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TextAnswerResponse, 0, len(answers))
	for _, answer := range answers {
		responses = append(responses, dto.NewTextAnswerResponse(answer))
	}
	return responses, nil
}

func (s *textService) GetResult(ctx context.Context, candidateID uint) (dto.TextResultResponse, error) {
	result, err := s.repo.GetResult(ctx, candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TextResultResponse{}, ErrResultNotFound
		}
		return dto.TextResultResponse{}, err
	}
	return dto.NewTextResultResponse(result), nil
}

func (s *textService) gradeAnswers(ctx context.Context, candidate models.Candidate, answers []models.TextAnswer) models.TextAssessmentResult {
	result := models.TextAssessmentResult{CandidateID: candidate.ID}

	if len(answers) == 0 {
		result.Grading = datatypes.JSONMap{"status": "no_answers"}
		return result
	}

	if s.grader == nil {
		result.Grading = datatypes.JSONMap{"status": "grader_unavailable"}
		return result
	}

	items := make([]ai.TextGradingItem, 0, len(answers))
	for _, answer := range answers {
		items = append(items, ai.TextGradingItem{
			QuestionID: answer.QuestionID,
			Question:   answer.Question.Question,
			Answer:     answer.Answer,
		})
	}

	spanCtx, span := s.tracer.Start(ctx, "text.grade", trace.WithAttributes(
		attribute.Int("answers", len(items)),
	))
	defer span.End()

	graded, err := s.grader.GradeText(spanCtx, ai.TextGradingInput{
		CandidateEmail: candidate.Email,
		Items:          items,
	})
	if err != nil {
		span.RecordError(err)
		s.logger.Warn().Err(err).Uint("candidate_id", candidate.ID).Msg("text grading failed, storing ungraded result")
		result.Grading = datatypes.JSONMap{"status": "grading_failed", "error": err.Error()}
		return result
	}

	perQuestion := datatypes.JSONMap{"status": "graded"}
	for _, grade := range graded.Grades {
		perQuestion[fmt.Sprintf("%d", grade.QuestionID)] = map[string]interface{}{
			"grade":   grade.Grade,
			"remarks": grade.Remarks,
		}
	}

	score := graded.CommunicationScore
	result.CommunicationScore = &score
	result.Grading = perQuestion
	return result
}
