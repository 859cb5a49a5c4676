package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talentgate-labs/talentgate-api/internal/models"
)

// PsychometricRepository provides access to the Big Five bank, test
// configuration and candidate results.
type PsychometricRepository interface {
	ListActiveQuestions(ctx context.Context) ([]models.PsychometricQuestion, error)
	ListQuestionsByIDs(ctx context.Context, questionIDs []int) ([]models.PsychometricQuestion, error)
	ReplaceBank(ctx context.Context, questions []models.PsychometricQuestion) error

	GetActiveConfig(ctx context.Context) (models.PsychometricTestConfig, error)
	SaveConfig(ctx context.Context, config *models.PsychometricTestConfig) error

	UpsertResult(ctx context.Context, result *models.PsychometricResult) error
	GetResult(ctx context.Context, candidateID uint) (models.PsychometricResult, error)
}

type psychometricRepository struct {
	db *gorm.DB
}

// NewPsychometricRepository constructs a psychometric repository backed by GORM.
func NewPsychometricRepository(db *gorm.DB) PsychometricRepository {
	return &psychometricRepository{db: db}
}

func (r *psychometricRepository) ListActiveQuestions(ctx context.Context) ([]models.PsychometricQuestion, error) {
	var questions []models.PsychometricQuestion
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("question_id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *psychometricRepository) ListQuestionsByIDs(ctx context.Context, questionIDs []int) ([]models.PsychometricQuestion, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}

	var questions []models.PsychometricQuestion
	if err := r.db.WithContext(ctx).Where("question_id IN ?", questionIDs).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *psychometricRepository) ReplaceBank(ctx context.Context, questions []models.PsychometricQuestion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.PsychometricQuestion{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}

func (r *psychometricRepository) GetActiveConfig(ctx context.Context) (models.PsychometricTestConfig, error) {
	var config models.PsychometricTestConfig
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("updated_at DESC").First(&config).Error
	if err != nil {
		return models.PsychometricTestConfig{}, err
	}
	return config, nil
}

// SaveConfig persists a configuration and deactivates any previously active
// one in the same transaction.
func (r *psychometricRepository) SaveConfig(ctx context.Context, config *models.PsychometricTestConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if config.IsActive {
			if err := tx.Model(&models.PsychometricTestConfig{}).Where("is_active = ?", true).Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(config).Error
	})
}

func (r *psychometricRepository) UpsertResult(ctx context.Context, result *models.PsychometricResult) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "candidate_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"extraversion", "agreeableness", "conscientiousness",
			"emotional_stability", "intellect_imagination",
			"questions_answered", "test_completed", "answers", "updated_at",
		}),
	}).Create(result).Error
}

func (r *psychometricRepository) GetResult(ctx context.Context, candidateID uint) (models.PsychometricResult, error) {
	var result models.PsychometricResult
	if err := r.db.WithContext(ctx).Where("candidate_id = ?", candidateID).First(&result).Error; err != nil {
		return models.PsychometricResult{}, err
	}
	return result, nil
}
