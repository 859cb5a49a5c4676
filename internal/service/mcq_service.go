package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	"github.com/talentgate-labs/talentgate-api/internal/models"
	"github.com/talentgate-labs/talentgate-api/internal/repository"
)

// ErrQuestionNotFound indicates the referenced bank question does not exist.
var ErrQuestionNotFound = errors.New("question not found")

// ErrRoundAlreadyCompleted indicates the candidate already finished this round.
var ErrRoundAlreadyCompleted = errors.New("round already completed")

// ErrResultNotFound indicates no graded result exists for the candidate.
var ErrResultNotFound = errors.New("result not found")

// MCQService exposes the multiple-choice assessment round.
type MCQService interface {
	ListQuestions(ctx context.Context) ([]dto.MCQQuestionResponse, error)
	Submit(ctx context.Context, candidateID uint, payload dto.MCQSubmitRequest) (dto.MCQResponseItem, error)
	SubmitBatch(ctx context.Context, candidateID uint, payload dto.MCQBatchSubmitRequest) ([]dto.MCQResponseItem, error)
	CompleteRound(ctx context.Context, candidateID uint, payload dto.MCQBatchSubmitRequest) (dto.MCQResultResponse, error)
	ListResponses(ctx context.Context, candidateID uint) ([]dto.MCQResponseItem, error)
	GetResult(ctx context.Context, candidateID uint) (dto.MCQResultResponse, error)
}

type mcqService struct {
	repo       repository.MCQRepository
	candidates repository.CandidateRepository
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewMCQService constructs the MCQ round service.
func NewMCQService(repo repository.MCQRepository, candidates repository.CandidateRepository, validate *validator.Validate, logger zerolog.Logger) MCQService {
	return &mcqService{
		repo:       repo,
		candidates: candidates,
		validator:  validate,
		logger:     logger.With().Str("component", "mcq_service").Logger(),
	}
}

func (s *mcqService) ListQuestions(ctx context.Context) ([]dto.MCQQuestionResponse, error) {
	questions, err := s.repo.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MCQQuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, dto.NewMCQQuestionResponse(question))
	}
	return responses, nil
}

func (s *mcqService) Submit(ctx context.Context, candidateID uint, payload dto.MCQSubmitRequest) (dto.MCQResponseItem, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MCQResponseItem{}, err
	}

	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return dto.MCQResponseItem{}, err
	}
	if candidate.MCQCompleted {
		return dto.MCQResponseItem{}, ErrRoundAlreadyCompleted
	}

	response, err := s.storeAnswer(ctx, candidateID, payload)
	if err != nil {
		return dto.MCQResponseItem{}, err
	}
	return dto.NewMCQResponseItem(response), nil
}

func (s *mcqService) SubmitBatch(ctx context.Context, candidateID uint, payload dto.MCQBatchSubmitRequest) ([]dto.MCQResponseItem, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if candidate.MCQCompleted {
		return nil, ErrRoundAlreadyCompleted
	}

	items := make([]dto.MCQResponseItem, 0, len(payload.Answers))
	for _, answer := range payload.Answers {
		response, err := s.storeAnswer(ctx, candidateID, answer)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.NewMCQResponseItem(response))
	}
	return items, nil
}

// CompleteRound persists any final answers, grades the round by joining
// responses to the bank, and marks the candidate done. Completing twice is a
// client error.
func (s *mcqService) CompleteRound(ctx context.Context, candidateID uint, payload dto.MCQBatchSubmitRequest) (dto.MCQResultResponse, error) {
	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return dto.MCQResultResponse{}, err
	}

	if candidate.MCQCompleted {
		return dto.MCQResultResponse{}, ErrRoundAlreadyCompleted
	}

	for _, answer := range payload.Answers {
		if err := s.validator.Struct(answer); err != nil {
			return dto.MCQResultResponse{}, err
		}
		if _, err := s.storeAnswer(ctx, candidateID, answer); err != nil {
			return dto.MCQResultResponse{}, err
		}
	}

	result, err := s.grade(ctx, candidateID)
	if err != nil {
		return dto.MCQResultResponse{}, err
	}

	if err := s.repo.SaveResult(ctx, &result); err != nil {
		return dto.MCQResultResponse{}, err
	}

	now := time.Now()
	candidate.MCQCompleted = true
	candidate.MCQCompletedAt = &now
	if err := s.candidates.Save(ctx, &candidate); err != nil {
		return dto.MCQResultResponse{}, err
	}

	s.logger.Info().
		Uint("candidate_id", candidateID).
		Int("correct", result.Correct).
		Int("wrong", result.Wrong).
		Msg("mcq round completed")

	return dto.NewMCQResultResponse(result), nil
}

func (s *mcqService) ListResponses(ctx context.Context, candidateID uint) ([]dto.MCQResponseItem, error) {
	responses, err := s.repo.ListResponses(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.MCQResponseItem, 0, len(responses))
	for _, response := range responses {
		items = append(items, dto.NewMCQResponseItem(response))
	}
	return items, nil
}

func (s *mcqService) GetResult(ctx context.Context, candidateID uint) (dto.MCQResultResponse, error) {
	result, err := s.repo.GetResult(ctx, candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MCQResultResponse{}, ErrResultNotFound
		}
		return dto.MCQResultResponse{}, err
	}
	return dto.NewMCQResultResponse(result), nil
}

func (s *mcqService) storeAnswer(ctx context.Context, candidateID uint, payload dto.MCQSubmitRequest) (models.MCQResponse, error) {
	if _, err := s.repo.GetQuestion(ctx, payload.QuestionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.MCQResponse{}, ErrQuestionNotFound
		}
		return models.MCQResponse{}, err
	}

	response := models.MCQResponse{
		QuestionID:   payload.QuestionID,
		CandidateID:  candidateID,
		AnswerOption: payload.AnswerOption,
		AnsweredAt:   time.Now(),
	}
	if err := s.repo.UpsertResponse(ctx, &response); err != nil {
		return models.MCQResponse{}, err
	}
	return response, nil
}

func (s *mcqService) grade(ctx context.Context, candidateID uint) (models.MCQResult, error) {
	responses, err := s.repo.ListResponses(ctx, candidateID)
	if err != nil {
		return models.MCQResult{}, err
	}

	questions, err := s.repo.ListQuestions(ctx)
	if err != nil {
		return models.MCQResult{}, err
	}

	answerKey := make(map[int]int, len(questions))
	for _, question := range questions {
		answerKey[question.QuestionID] = question.CorrectAnswer
	}

	correct, wrong := 0, 0
	perQuestion := datatypes.JSONMap{}
	for _, response := range responses {
		key, ok := answerKey[response.QuestionID]
		if !ok {
			continue
		}
		outcome := "wrong"
		if response.AnswerOption == key {
			correct++
			outcome = "correct"
		} else {
			wrong++
		}
		perQuestion[fmt.Sprintf("%d", response.QuestionID)] = outcome
	}

	percentage := 0.0
	if correct+wrong > 0 {
		percentage = 100 * float64(correct) / float64(correct+wrong)
	}

	return models.MCQResult{
		CandidateID: candidateID,
		Correct:     correct,
		Wrong:       wrong,
		Percentage:  percentage,
		Grading:     perQuestion,
	}, nil
}
