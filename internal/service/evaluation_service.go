package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	"github.com/talentgate-labs/talentgate-api/internal/models"
	"github.com/talentgate-labs/talentgate-api/internal/repository"
	"github.com/talentgate-labs/talentgate-api/internal/scoring"
	"github.com/talentgate-labs/talentgate-api/pkg/ai"
)

const weightSumTolerance = 0.01

// ErrWeightsDoNotSum indicates the supplied criteria do not sum to 100.
var ErrWeightsDoNotSum = errors.New("criteria weights must sum to 100")

// ErrCandidateNotFound indicates the candidate does not exist.
var ErrCandidateNotFound = errors.New("candidate not found")

// EvaluationService powers the recruiter dashboard: criteria management,
// composite candidate scoring, drill-down reports and AI rationales.
type EvaluationService interface {
	GetCriteria(ctx context.Context, recruiterID uint) (dto.EvaluationCriteriaResponse, error)
	UpdateCriteria(ctx context.Context, recruiterID uint, payload dto.EvaluationCriteriaRequest) (dto.EvaluationCriteriaResponse, error)
	ResetCriteria(ctx context.Context, recruiterID uint) (dto.EvaluationCriteriaResponse, error)
	ListCandidates(ctx context.Context, recruiterID uint) ([]dto.CandidateOverviewResponse, error)
	CandidateReport(ctx context.Context, recruiterID, candidateID uint) (dto.CandidateReportResponse, error)
	GenerateRationale(ctx context.Context, recruiterID, candidateID uint, payload dto.RationaleRequest) (dto.RationaleResponse, error)
}

type evaluationService struct {
	evaluations  repository.EvaluationRepository
	candidates   repository.CandidateRepository
	mcq          repository.MCQRepository
	text         repository.TextRepository
	psychometric repository.PsychometricRepository
	proctor      repository.ProctorRepository
	grader       ai.Grader
	redis        *redis.Client
	cacheTTL     time.Duration
	rules        scoring.RuleSet
	validator    *validator.Validate
	logger       zerolog.Logger
	tracer       trace.Tracer
	aiProvider   string
}

// EvaluationServiceDeps groups the collaborators for the dashboard service.
type EvaluationServiceDeps struct {
	Evaluations  repository.EvaluationRepository
	Candidates   repository.CandidateRepository
	MCQ          repository.MCQRepository
	Text         repository.TextRepository
	Psychometric repository.PsychometricRepository
	Proctor      repository.ProctorRepository
	Grader       ai.Grader
	Redis        *redis.Client
	CacheTTL     time.Duration
	Validator    *validator.Validate
	Logger       zerolog.Logger
	AIProvider   string
}

// NewEvaluationService constructs the recruiter dashboard service.
func NewEvaluationService(deps EvaluationServiceDeps) EvaluationService {
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = 5 * time.Minute
	}

	return &evaluationService{
		evaluations:  deps.Evaluations,
		candidates:   deps.Candidates,
		mcq:          deps.MCQ,
		text:         deps.Text,
		psychometric: deps.Psychometric,
		proctor:      deps.Proctor,
		grader:       deps.Grader,
		redis:        deps.Redis,
		cacheTTL:     deps.CacheTTL,
		rules:        scoring.DefaultRules(),
		validator:    deps.Validator,
		logger:       deps.Logger.With().Str("component", "evaluation_service").Logger(),
		tracer:       otel.Tracer("github.com/talentgate-labs/talentgate-api/internal/service/evaluation"),
		aiProvider:   deps.AIProvider,
	}
}

func (s *evaluationService) GetCriteria(ctx context.Context, recruiterID uint) (dto.EvaluationCriteriaResponse, error) {
	criteria, err := s.loadCriteria(ctx, recruiterID)
	if err != nil {
		return dto.EvaluationCriteriaResponse{}, err
	}
	return dto.NewEvaluationCriteriaResponse(criteria), nil
}

func (s *evaluationService) UpdateCriteria(ctx context.Context, recruiterID uint, payload dto.EvaluationCriteriaRequest) (dto.EvaluationCriteriaResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationCriteriaResponse{}, err
	}

	sum := payload.Technical + payload.Psychometric + payload.SoftSkill + payload.Fairplay
	if math.Abs(sum-100) > weightSumTolerance {
		return dto.EvaluationCriteriaResponse{}, ErrWeightsDoNotSum
	}

	criteria := models.EvaluationCriteria{
		RecruiterID:  recruiterID,
		Technical:    payload.Technical,
		Psychometric: payload.Psychometric,
		SoftSkill:    payload.SoftSkill,
		Fairplay:     payload.Fairplay,
		IsDefault:    false,
	}
	if err := s.evaluations.UpsertCriteria(ctx, &criteria); err != nil {
		return dto.EvaluationCriteriaResponse{}, err
	}

	s.invalidateRosterCache(ctx, recruiterID)
	s.logger.Info().Uint("recruiter_id", recruiterID).Msg("evaluation criteria updated")
	return dto.NewEvaluationCriteriaResponse(criteria), nil
}

func (s *evaluationService) ResetCriteria(ctx context.Context, recruiterID uint) (dto.EvaluationCriteriaResponse, error) {
	if err := s.evaluations.DeleteCriteria(ctx, recruiterID); err != nil {
		return dto.EvaluationCriteriaResponse{}, err
	}

	s.invalidateRosterCache(ctx, recruiterID)
	return dto.NewEvaluationCriteriaResponse(defaultCriteria(recruiterID)), nil
}

// ListCandidates assembles the roster with per-candidate composites. Results
// are cached per recruiter because the composite joins four result tables.
func (s *evaluationService) ListCandidates(ctx context.Context, recruiterID uint) ([]dto.CandidateOverviewResponse, error) {
	cacheKey := s.rosterCacheKey(recruiterID)
	if cached := s.fetchCachedRoster(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	spanCtx, span := s.tracer.Start(ctx, "evaluation.roster", trace.WithAttributes(
		attribute.Int("recruiter_id", int(recruiterID)),
	))
	defer span.End()

	candidates, err := s.candidates.List(spanCtx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	weights := s.weightsFor(spanCtx, recruiterID)

	overviews := make([]dto.CandidateOverviewResponse, 0, len(candidates))
	for _, candidate := range candidates {
		overview, err := s.buildOverview(spanCtx, candidate, weights)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		overviews = append(overviews, overview)
	}

	s.cacheRoster(spanCtx, cacheKey, overviews)
	return overviews, nil
}

func (s *evaluationService) CandidateReport(ctx context.Context, recruiterID, candidateID uint) (dto.CandidateReportResponse, error) {
	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CandidateReportResponse{}, ErrCandidateNotFound
		}
		return dto.CandidateReportResponse{}, err
	}

	weights := s.weightsFor(ctx, recruiterID)
	overview, err := s.buildOverview(ctx, candidate, weights)
	if err != nil {
		return dto.CandidateReportResponse{}, err
	}

	report := dto.CandidateReportResponse{Candidate: overview}

	if result, err := s.mcq.GetResult(ctx, candidateID); err == nil {
		response := dto.NewMCQResultResponse(result)
		report.MCQ = &response
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CandidateReportResponse{}, err
	}

	if result, err := s.text.GetResult(ctx, candidateID); err == nil {
		response := dto.NewTextResultResponse(result)
		report.Text = &response
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CandidateReportResponse{}, err
	}

	answers, err := s.text.ListAnswers(ctx, candidateID)
	if err != nil {
		return dto.CandidateReportResponse{}, err
	}
	for _, answer := range answers {
		report.TextAnswers = append(report.TextAnswers, dto.NewTextAnswerResponse(answer))
	}

	if result, err := s.psychometric.GetResult(ctx, candidateID); err == nil {
		response := dto.NewPsychometricResultResponse(result)
		report.Psychometric = &response
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CandidateReportResponse{}, err
	}

	sessions, err := s.proctor.ListSessionsByCandidate(ctx, candidateID)
	if err != nil {
		return dto.CandidateReportResponse{}, err
	}
	for _, session := range sessions {
		report.Sessions = append(report.Sessions, dto.NewProctorSessionResponse(session))
	}

	violations, err := s.proctor.ListViolationsByCandidate(ctx, candidateID)
	if err != nil {
		return dto.CandidateReportResponse{}, err
	}
	report.ViolationCounts = dto.NewViolationSummary(tallyViolations(violations))

	if rationale, err := s.evaluations.GetRationale(ctx, candidateID); err == nil {
		response := dto.NewRationaleResponse(rationale)
		report.Rationale = &response
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CandidateReportResponse{}, err
	}

	return report, nil
}

// GenerateRationale asks the AI provider for a hiring rationale. On failure
// an error payload is persisted so the dashboard still renders.
func (s *evaluationService) GenerateRationale(ctx context.Context, recruiterID, candidateID uint, payload dto.RationaleRequest) (dto.RationaleResponse, error) {
	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RationaleResponse{}, ErrCandidateNotFound
		}
		return dto.RationaleResponse{}, err
	}

	if !payload.Regenerate {
		if existing, err := s.evaluations.GetRationale(ctx, candidateID); err == nil {
			return dto.NewRationaleResponse(existing), nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RationaleResponse{}, err
		}
	}

	input, err := s.buildRationaleInput(ctx, recruiterID, candidate)
	if err != nil {
		return dto.RationaleResponse{}, err
	}

	record := models.CandidateRationale{CandidateID: candidateID, Provider: s.aiProvider}

	if s.grader == nil {
		record.Rationale = datatypes.JSONMap{"status": "grader_unavailable"}
	} else {
		spanCtx, span := s.tracer.Start(ctx, "evaluation.rationale", trace.WithAttributes(
			attribute.Int("candidate_id", int(candidateID)),
		))
		result, err := s.grader.Rationale(spanCtx, input)
		if err != nil {
			span.RecordError(err)
			s.logger.Warn().Err(err).Uint("candidate_id", candidateID).Msg("rationale generation failed")
			record.Rationale = datatypes.JSONMap{"status": "generation_failed", "error": err.Error()}
		} else {
			record.Rationale = datatypes.JSONMap(result.Rationale)
		}
		span.End()
	}

	if err := s.evaluations.UpsertRationale(ctx, &record); err != nil {
		return dto.RationaleResponse{}, err
	}

	record.UpdatedAt = time.Now()
	return dto.NewRationaleResponse(record), nil
}

func (s *evaluationService) buildOverview(ctx context.Context, candidate models.Candidate, weights scoring.Weights) (dto.CandidateOverviewResponse, error) {
	components := scoring.Components{}

	if result, err := s.mcq.GetResult(ctx, candidate.ID); err == nil {
		technical := scoring.TechnicalScore(result.Correct, result.Wrong)
		components.Technical = &technical
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CandidateOverviewResponse{}, err
	}

	hasTextAnswers := false
	if answers, err := s.text.ListAnswers(ctx, candidate.ID); err == nil {
		hasTextAnswers = len(answers) > 0
	} else {
		return dto.CandidateOverviewResponse{}, err
	}

	if result, err := s.text.GetResult(ctx, candidate.ID); err == nil {
		softSkill := scoring.SoftSkillScore(result.CommunicationScore, hasTextAnswers)
		components.SoftSkill = &softSkill
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CandidateOverviewResponse{}, err
	}

	if result, err := s.psychometric.GetResult(ctx, candidate.ID); err == nil {
		psychometric := scoring.PsychometricScore(result.TotalPoints(), result.QuestionsAnswered)
		components.Psychometric = &psychometric
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CandidateOverviewResponse{}, err
	}

	violations, err := s.proctor.ListViolationsByCandidate(ctx, candidate.ID)
	if err != nil {
		return dto.CandidateOverviewResponse{}, err
	}
	summary := tallyViolations(violations)
	components.Fairplay = s.rules.FairplayScore(summary)

	return dto.CandidateOverviewResponse{
		CandidateID: candidate.ID,
		Email:       candidate.Email,
		ResumeURL:   candidate.ResumeURL,
		RoundsDone: map[string]bool{
			"mcq":          candidate.MCQCompleted,
			"text":         candidate.TextCompleted,
			"psychometric": candidate.PsychometricCompleted,
		},
		Evaluation:    scoring.Compute(components, weights),
		LastActivity:  candidate.UpdatedAt,
		HasViolations: summary.Total() > 0,
	}, nil
}

func (s *evaluationService) buildRationaleInput(ctx context.Context, recruiterID uint, candidate models.Candidate) (ai.RationaleInput, error) {
	input := ai.RationaleInput{
		CandidateEmail: candidate.Email,
		ResumeURL:      candidate.ResumeURL,
	}

	if result, err := s.mcq.GetResult(ctx, candidate.ID); err == nil {
		input.TechnicalSummary = fmt.Sprintf("%d correct, %d wrong (%.1f%%)", result.Correct, result.Wrong, result.Percentage)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ai.RationaleInput{}, err
	}

	answers, err := s.text.ListAnswers(ctx, candidate.ID)
	if err != nil {
		return ai.RationaleInput{}, err
	}
	for _, answer := range answers {
		input.TextAnswers = append(input.TextAnswers, ai.TextGradingItem{
			QuestionID: answer.QuestionID,
			Question:   answer.Question.Question,
			Answer:     answer.Answer,
		})
	}

	if result, err := s.psychometric.GetResult(ctx, candidate.ID); err == nil {
		names := models.TraitNames()
		input.PsychometricTraits = make(map[string]int, len(names))
		for trait, score := range result.TraitScores() {
			input.PsychometricTraits[names[trait]] = score
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ai.RationaleInput{}, err
	}

	violations, err := s.proctor.ListViolationsByCandidate(ctx, candidate.ID)
	if err != nil {
		return ai.RationaleInput{}, err
	}
	summary := tallyViolations(violations)
	input.ViolationSummary = make(map[string]int)
	for violationType, count := range summary {
		if count > 0 {
			input.ViolationSummary[string(violationType)] = count
		}
	}

	overview, err := s.buildOverview(ctx, candidate, s.weightsFor(ctx, recruiterID))
	if err != nil {
		return ai.RationaleInput{}, err
	}
	input.OverallScore = overview.Evaluation.Overall
	input.Status = overview.Evaluation.Status

	return input, nil
}

func (s *evaluationService) loadCriteria(ctx context.Context, recruiterID uint) (models.EvaluationCriteria, error) {
	criteria, err := s.evaluations.GetCriteria(ctx, recruiterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaultCriteria(recruiterID), nil
		}
		return models.EvaluationCriteria{}, err
	}
	return criteria, nil
}

func (s *evaluationService) weightsFor(ctx context.Context, recruiterID uint) scoring.Weights {
	criteria, err := s.loadCriteria(ctx, recruiterID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("recruiter_id", recruiterID).Msg("falling back to default weights")
		return scoring.DefaultWeights()
	}

	return scoring.Weights{
		Technical:    criteria.Technical,
		Psychometric: criteria.Psychometric,
		SoftSkill:    criteria.SoftSkill,
		Fairplay:     criteria.Fairplay,
	}
}

func (s *evaluationService) rosterCacheKey(recruiterID uint) string {
	return fmt.Sprintf("talentgate:dashboard:roster:%d", recruiterID)
}

func (s *evaluationService) fetchCachedRoster(ctx context.Context, key string) []dto.CandidateOverviewResponse {
	if s.redis == nil {
		return nil
	}

	raw, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return nil
	}

	var overviews []dto.CandidateOverviewResponse
	if err := json.Unmarshal([]byte(raw), &overviews); err != nil {
		s.logger.Warn().Err(err).Msg("failed to unmarshal cached roster")
		return nil
	}
	return overviews
}

func (s *evaluationService) cacheRoster(ctx context.Context, key string, overviews []dto.CandidateOverviewResponse) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(overviews)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal roster for cache")
		return
	}

	if err := s.redis.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache roster")
	}
}

func (s *evaluationService) invalidateRosterCache(ctx context.Context, recruiterID uint) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(ctx, s.rosterCacheKey(recruiterID)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate roster cache")
	}
}

func defaultCriteria(recruiterID uint) models.EvaluationCriteria {
	weights := scoring.DefaultWeights()
	return models.EvaluationCriteria{
		RecruiterID:  recruiterID,
		Technical:    weights.Technical,
		Psychometric: weights.Psychometric,
		SoftSkill:    weights.SoftSkill,
		Fairplay:     weights.Fairplay,
		IsDefault:    true,
	}
}
