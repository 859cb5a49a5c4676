package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	"github.com/talentgate-labs/talentgate-api/internal/models"
	"github.com/talentgate-labs/talentgate-api/internal/repository"
)

const psychometricInstructions = "Rate how accurately each statement describes you on a scale of 1 (very inaccurate) to 5 (very accurate). Answer honestly; there are no right or wrong answers."

// ErrNoActiveTestConfig indicates no psychometric configuration is active.
var ErrNoActiveTestConfig = errors.New("no active test configuration")

// ErrUnknownAnswer indicates a submitted answer references a question outside
// the bank.
var ErrUnknownAnswer = errors.New("answer references unknown question")

// PsychometricService exposes the Big Five personality round.
type PsychometricService interface {
	StartTest(ctx context.Context, candidateID uint) (dto.PsychometricTestStartResponse, error)
	SubmitTest(ctx context.Context, candidateID uint, payload dto.PsychometricSubmitRequest) (dto.PsychometricResultResponse, error)
	GetResult(ctx context.Context, candidateID uint) (dto.PsychometricResultResponse, error)
	UpdateConfig(ctx context.Context, payload dto.PsychometricConfigRequest) (models.PsychometricTestConfig, error)
}

type psychometricService struct {
	repo       repository.PsychometricRepository
	candidates repository.CandidateRepository
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewPsychometricService constructs the psychometric round service.
func NewPsychometricService(repo repository.PsychometricRepository, candidates repository.CandidateRepository, validate *validator.Validate, logger zerolog.Logger) PsychometricService {
	return &psychometricService{
		repo:       repo,
		candidates: candidates,
		validator:  validate,
		logger:     logger.With().Str("component", "psychometric_service").Logger(),
	}
}

// StartTest selects questions per the active configuration and shuffles them.
func (s *psychometricService) StartTest(ctx context.Context, candidateID uint) (dto.PsychometricTestStartResponse, error) {
	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return dto.PsychometricTestStartResponse{}, err
	}
	if candidate.PsychometricCompleted {
		return dto.PsychometricTestStartResponse{}, ErrRoundAlreadyCompleted
	}

	questions, err := s.selectQuestions(ctx)
	if err != nil {
		return dto.PsychometricTestStartResponse{}, err
	}

	// The package-level shuffler is safe for concurrent round starts.
	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	items := make([]dto.PsychometricQuestionResponse, 0, len(questions))
	for _, question := range questions {
		items = append(items, dto.NewPsychometricQuestionResponse(question))
	}

	return dto.PsychometricTestStartResponse{
		Instructions: psychometricInstructions,
		Scale: map[string]string{
			"1": "Very Inaccurate",
			"2": "Moderately Inaccurate",
			"3": "Neither Accurate Nor Inaccurate",
			"4": "Moderately Accurate",
			"5": "Very Accurate",
		},
		Questions: items,
	}, nil
}

// SubmitTest scores the answers per trait. Reverse-keyed items score 6-answer.
func (s *psychometricService) SubmitTest(ctx context.Context, candidateID uint, payload dto.PsychometricSubmitRequest) (dto.PsychometricResultResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PsychometricResultResponse{}, err
	}

	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return dto.PsychometricResultResponse{}, err
	}
	if candidate.PsychometricCompleted {
		return dto.PsychometricResultResponse{}, ErrRoundAlreadyCompleted
	}

	questionIDs := make([]int, 0, len(payload.Answers))
	for questionID := range payload.Answers {
		questionIDs = append(questionIDs, questionID)
	}

	questions, err := s.repo.ListQuestionsByIDs(ctx, questionIDs)
	if err != nil {
		return dto.PsychometricResultResponse{}, err
	}
	if len(questions) != len(payload.Answers) {
		return dto.PsychometricResultResponse{}, ErrUnknownAnswer
	}

	traitSums := map[int]int{}
	for _, question := range questions {
		answer := payload.Answers[question.QuestionID]
		score := answer
		if question.ScoringDirection == "-" {
			score = 6 - answer
		}
		traitSums[question.TraitType] += score
	}

	rawAnswers, err := json.Marshal(payload.Answers)
	if err != nil {
		return dto.PsychometricResultResponse{}, err
	}

	result := models.PsychometricResult{
		CandidateID:          candidateID,
		Extraversion:         traitSums[models.TraitExtraversion],
		Agreeableness:        traitSums[models.TraitAgreeableness],
		Conscientiousness:    traitSums[models.TraitConscientiousness],
		EmotionalStability:   traitSums[models.TraitEmotionalStability],
		IntellectImagination: traitSums[models.TraitIntellectImagination],
		QuestionsAnswered:    len(payload.Answers),
		TestCompleted:        true,
		Answers:              datatypes.JSON(rawAnswers),
	}
	if err := s.repo.UpsertResult(ctx, &result); err != nil {
		return dto.PsychometricResultResponse{}, err
	}

	now := time.Now()
	candidate.PsychometricCompleted = true
	candidate.PsychometricCompletedAt = &now
	if err := s.candidates.Save(ctx, &candidate); err != nil {
		return dto.PsychometricResultResponse{}, err
	}

	s.logger.Info().Uint("candidate_id", candidateID).Int("answers", result.QuestionsAnswered).Msg("psychometric test completed")
	return dto.NewPsychometricResultResponse(result), nil
}

func (s *psychometricService) GetResult(ctx context.Context, candidateID uint) (dto.PsychometricResultResponse, error) {
	result, err := s.repo.GetResult(ctx, candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PsychometricResultResponse{}, ErrResultNotFound
		}
		return dto.PsychometricResultResponse{}, err
	}
	return dto.NewPsychometricResultResponse(result), nil
}

func (s *psychometricService) UpdateConfig(ctx context.Context, payload dto.PsychometricConfigRequest) (models.PsychometricTestConfig, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.PsychometricTestConfig{}, err
	}

	config := models.PsychometricTestConfig{
		SelectionMode: payload.SelectionMode,
		NumQuestions:  payload.NumQuestions,
		IsActive:      true,
	}

	if payload.SelectionMode == "manual" {
		selected, err := json.Marshal(payload.SelectedQuestionIDs)
		if err != nil {
			return models.PsychometricTestConfig{}, err
		}
		config.SelectedQuestionIDs = datatypes.JSON(selected)
		config.NumQuestions = len(payload.SelectedQuestionIDs)
	} else if config.NumQuestions <= 0 {
		config.NumQuestions = 50
	}

	if err := s.repo.SaveConfig(ctx, &config); err != nil {
		return models.PsychometricTestConfig{}, err
	}

	s.logger.Info().Str("mode", config.SelectionMode).Int("questions", config.NumQuestions).Msg("psychometric config updated")
	return config, nil
}

func (s *psychometricService) selectQuestions(ctx context.Context) ([]models.PsychometricQuestion, error) {
	config, err := s.repo.GetActiveConfig(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// No configuration yet: serve the full active bank.
		return s.repo.ListActiveQuestions(ctx)
	}

	if config.SelectionMode == "manual" && len(config.SelectedQuestionIDs) > 0 {
		var selected []int
		if err := json.Unmarshal(config.SelectedQuestionIDs, &selected); err != nil {
			return nil, err
		}
		return s.repo.ListQuestionsByIDs(ctx, selected)
	}

	questions, err := s.repo.ListActiveQuestions(ctx)
	if err != nil {
		return nil, err
	}

	if config.NumQuestions > 0 && config.NumQuestions < len(questions) {
		rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
		questions = questions[:config.NumQuestions]
	}

	return questions, nil
}
