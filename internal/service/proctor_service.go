package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
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
)

// ErrSessionNotFound indicates the proctoring session does not exist.
var ErrSessionNotFound = errors.New("proctoring session not found")

// ErrSessionForbidden indicates the session belongs to another candidate.
var ErrSessionForbidden = errors.New("session belongs to another candidate")

// ProctorService manages proctoring sessions and violation logging.
type ProctorService interface {
	StartSession(ctx context.Context, candidateID uint, payload dto.ProctorSessionStartRequest) (dto.ProctorSessionResponse, error)
	EndSession(ctx context.Context, candidateID uint, sessionUUID string, payload dto.ProctorSessionEndRequest) (dto.ProctorSessionResponse, error)
	ReportViolation(ctx context.Context, candidateID uint, payload dto.ProctorViolationRequest) (dto.ProctorViolationResponse, error)
	SessionSummary(ctx context.Context, sessionUUID string) (dto.ProctorSessionSummaryResponse, error)
	ListCandidateSessions(ctx context.Context, candidateID uint) ([]dto.ProctorSessionResponse, error)
}

type proctorService struct {
	repo      repository.ProctorRepository
	feed      ProctorFeedService
	validator *validator.Validate
	rules     scoring.RuleSet
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewProctorService constructs the proctoring service. The feed may be nil
// when realtime streaming is disabled.
func NewProctorService(repo repository.ProctorRepository, feed ProctorFeedService, validate *validator.Validate, logger zerolog.Logger) ProctorService {
	return &proctorService{
		repo:      repo,
		feed:      feed,
		validator: validate,
		rules:     scoring.DefaultRules(),
		logger:    logger.With().Str("component", "proctor_service").Logger(),
		tracer:    otel.Tracer("github.com/talentgate-labs/talentgate-api/internal/service/proctor"),
	}
}

func (s *proctorService) StartSession(ctx context.Context, candidateID uint, payload dto.ProctorSessionStartRequest) (dto.ProctorSessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProctorSessionResponse{}, err
	}

	session := models.ProctorSession{
		SessionUUID:  uuid.NewString(),
		CandidateID:  candidateID,
		AssessmentID: payload.AssessmentID,
		Status:       models.ProctorSessionActive,
		StartTime:    time.Now(),
	}
	if err := s.repo.CreateSession(ctx, &session); err != nil {
		return dto.ProctorSessionResponse{}, err
	}

	s.logger.Info().Str("session_uuid", session.SessionUUID).Uint("candidate_id", candidateID).Msg("proctoring session started")
	return dto.NewProctorSessionResponse(session), nil
}

// EndSession closes a session and stores the final event list plus a per-type
// summary on the row. Ending an already completed session is a no-op.
func (s *proctorService) EndSession(ctx context.Context, candidateID uint, sessionUUID string, payload dto.ProctorSessionEndRequest) (dto.ProctorSessionResponse, error) {
	session, err := s.repo.GetSession(ctx, sessionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProctorSessionResponse{}, ErrSessionNotFound
		}
		return dto.ProctorSessionResponse{}, err
	}

	if session.CandidateID != candidateID {
		return dto.ProctorSessionResponse{}, ErrSessionForbidden
	}

	if session.Status == models.ProctorSessionCompleted {
		return dto.NewProctorSessionResponse(session), nil
	}

	for _, event := range payload.Events {
		if _, err := s.logViolation(ctx, session, event.ViolationType, event.Timestamp, event.Details); err != nil {
			return dto.ProctorSessionResponse{}, err
		}
	}

	violations, err := s.repo.ListViolationsBySession(ctx, sessionUUID)
	if err != nil {
		return dto.ProctorSessionResponse{}, err
	}

	summary := tallyViolations(violations)
	counts := datatypes.JSONMap{}
	for violationType, count := range summary {
		if count > 0 {
			counts[string(violationType)] = count
		}
	}

	now := time.Now()
	session.EndTime = &now
	session.Status = models.ProctorSessionCompleted
	session.ViolationCounts = counts
	if err := s.repo.SaveSession(ctx, &session); err != nil {
		return dto.ProctorSessionResponse{}, err
	}

	s.logger.Info().
		Str("session_uuid", sessionUUID).
		Int("violations", summary.Total()).
		Msg("proctoring session ended")

	return dto.NewProctorSessionResponse(session), nil
}

func (s *proctorService) ReportViolation(ctx context.Context, candidateID uint, payload dto.ProctorViolationRequest) (dto.ProctorViolationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProctorViolationResponse{}, err
	}

	session, err := s.repo.GetSession(ctx, payload.SessionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProctorViolationResponse{}, ErrSessionNotFound
		}
		return dto.ProctorViolationResponse{}, err
	}

	if session.CandidateID != candidateID {
		return dto.ProctorViolationResponse{}, ErrSessionForbidden
	}

	violation, err := s.logViolation(ctx, session, payload.ViolationType, time.Now(), payload.Details)
	if err != nil {
		return dto.ProctorViolationResponse{}, err
	}

	return dto.NewProctorViolationResponse(violation), nil
}

func (s *proctorService) SessionSummary(ctx context.Context, sessionUUID string) (dto.ProctorSessionSummaryResponse, error) {
	session, err := s.repo.GetSession(ctx, sessionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProctorSessionSummaryResponse{}, ErrSessionNotFound
		}
		return dto.ProctorSessionSummaryResponse{}, err
	}

	violations, err := s.repo.ListViolationsBySession(ctx, sessionUUID)
	if err != nil {
		return dto.ProctorSessionSummaryResponse{}, err
	}

	items := make([]dto.ProctorViolationResponse, 0, len(violations))
	for _, violation := range violations {
		items = append(items, dto.NewProctorViolationResponse(violation))
	}

	summary := tallyViolations(violations)
	score := s.rules.FairplayScore(summary)

	return dto.ProctorSessionSummaryResponse{
		Session:         dto.NewProctorSessionResponse(session),
		Violations:      items,
		Summary:         dto.NewViolationSummary(summary),
		TotalViolations: summary.Total(),
		FairplayScore:   score,
		RiskTier:        riskTier(score),
	}, nil
}

func (s *proctorService) ListCandidateSessions(ctx context.Context, candidateID uint) ([]dto.ProctorSessionResponse, error) {
	sessions, err := s.repo.ListSessionsByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ProctorSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, dto.NewProctorSessionResponse(session))
	}
	return responses, nil
}

func (s *proctorService) logViolation(ctx context.Context, session models.ProctorSession, violationType string, at time.Time, details map[string]interface{}) (models.ProctorViolation, error) {
	if at.IsZero() {
		at = time.Now()
	}

	spanCtx, span := s.tracer.Start(ctx, "proctor.violation", trace.WithAttributes(
		attribute.String("violation.type", violationType),
		attribute.String("session.uuid", session.SessionUUID),
	))
	defer span.End()

	violation := models.ProctorViolation{
		SessionUUID:   session.SessionUUID,
		CandidateID:   session.CandidateID,
		ViolationType: violationType,
		Severity:      scoring.ViolationType(violationType).Severity(),
		Details:       datatypes.JSONMap(details),
		Timestamp:     at,
	}
	if err := s.repo.CreateViolation(spanCtx, &violation); err != nil {
		span.RecordError(err)
		return models.ProctorViolation{}, err
	}

	if s.feed != nil {
		s.feed.Publish(spanCtx, dto.ProctorFeedEvent{
			SessionUUID:   violation.SessionUUID,
			CandidateID:   violation.CandidateID,
			ViolationType: violation.ViolationType,
			Severity:      violation.Severity,
			Details:       details,
			Timestamp:     violation.Timestamp,
		})
	}

	return violation, nil
}

func tallyViolations(violations []models.ProctorViolation) scoring.ViolationSummary {
	events := make([]scoring.ViolationEvent, 0, len(violations))
	for _, violation := range violations {
		events = append(events, scoring.ViolationEvent{
			Type:      scoring.ViolationType(violation.ViolationType),
			Timestamp: violation.Timestamp,
		})
	}
	return scoring.Tally(events)
}

func riskTier(fairplayScore int) string {
	switch {
	case fairplayScore >= 85:
		return "low"
	case fairplayScore >= 60:
		return "medium"
	default:
		return "high"
	}
}
