package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talentgate-labs/talentgate-api/internal/models"
)

// MCQRepository provides access to the MCQ bank, candidate responses and
// graded results.
type MCQRepository interface {
	ListQuestions(ctx context.Context) ([]models.MCQQuestion, error)
	GetQuestion(ctx context.Context, questionID int) (models.MCQQuestion, error)
	ReplaceBank(ctx context.Context, questions []models.MCQQuestion) error

	UpsertResponse(ctx context.Context, response *models.MCQResponse) error
	ListResponses(ctx context.Context, candidateID uint) ([]models.MCQResponse, error)

	SaveResult(ctx context.Context, result *models.MCQResult) error
	GetResult(ctx context.Context, candidateID uint) (models.MCQResult, error)
}

type mcqRepository struct {
	db *gorm.DB
}

// NewMCQRepository constructs an MCQ repository backed by GORM.
func NewMCQRepository(db *gorm.DB) MCQRepository {
	return &mcqRepository{db: db}
}

func (r *mcqRepository) ListQuestions(ctx context.Context) ([]models.MCQQuestion, error) {
	var questions []models.MCQQuestion
	if err := r.db.WithContext(ctx).Order("question_id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *mcqRepository) GetQuestion(ctx context.Context, questionID int) (models.MCQQuestion, error) {
	var question models.MCQQuestion
	if err := r.db.WithContext(ctx).Where("question_id = ?", questionID).First(&question).Error; err != nil {
		return models.MCQQuestion{}, err
	}
	return question, nil
}

func (r *mcqRepository) ReplaceBank(ctx context.Context, questions []models.MCQQuestion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.MCQQuestion{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}

// UpsertResponse stores an answer pick. Resubmitting the same question
// overwrites the previous pick (last write wins).
func (r *mcqRepository) UpsertResponse(ctx context.Context, response *models.MCQResponse) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "question_id"}, {Name: "candidate_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answer_option", "answered_at"}),
	}).Create(response).Error
}

func (r *mcqRepository) ListResponses(ctx context.Context, candidateID uint) ([]models.MCQResponse, error) {
	var responses []models.MCQResponse
	if err := r.db.WithContext(ctx).Where("candidate_id = ?", candidateID).Order("question_id ASC").Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *mcqRepository) SaveResult(ctx context.Context, result *models.MCQResult) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"correct", "wrong", "percentage", "grading", "updated_at"}),
	}).Create(result).Error
}

func (r *mcqRepository) GetResult(ctx context.Context, candidateID uint) (models.MCQResult, error) {
	var result models.MCQResult
	if err := r.db.WithContext(ctx).Where("candidate_id = ?", candidateID).First(&result).Error; err != nil {
		return models.MCQResult{}, err
	}
	return result, nil
}
