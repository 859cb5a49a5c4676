package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talentgate-labs/talentgate-api/internal/models"
)

// TextRepository provides access to the text-based round's bank, answers and
// grading results.
type TextRepository interface {
	ListQuestions(ctx context.Context) ([]models.TextQuestion, error)
	GetQuestion(ctx context.Context, questionID int) (models.TextQuestion, error)
	ReplaceBank(ctx context.Context, questions []models.TextQuestion) error

	UpsertAnswer(ctx context.Context, answer *models.TextAnswer) error
	ListAnswers(ctx context.Context, candidateID uint) ([]models.TextAnswer, error)

	SaveResult(ctx context.Context, result *models.TextAssessmentResult) error
	GetResult(ctx context.Context, candidateID uint) (models.TextAssessmentResult, error)
}

type textRepository struct {
	db *gorm.DB
}

// NewTextRepository constructs a text round repository backed by GORM.
func NewTextRepository(db *gorm.DB) TextRepository {
	return &textRepository{db: db}
}

func (r *textRepository) ListQuestions(ctx context.Context) ([]models.TextQuestion, error) {
	var questions []models.TextQuestion
	if err := r.db.WithContext(ctx).Order("question_id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *textRepository) GetQuestion(ctx context.Context, questionID int) (models.TextQuestion, error) {
	var question models.TextQuestion
	if err := r.db.WithContext(ctx).Where("question_id = ?", questionID).First(&question).Error; err != nil {
		return models.TextQuestion{}, err
	}
	return question, nil
}

func (r *textRepository) ReplaceBank(ctx context.Context, questions []models.TextQuestion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.TextQuestion{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}

func (r *textRepository) UpsertAnswer(ctx context.Context, answer *models.TextAnswer) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answer", "word_count", "submitted_at", "updated_at"}),
	}).Create(answer).Error
}

func (r *textRepository) ListAnswers(ctx context.Context, candidateID uint) ([]models.TextAnswer, error) {
	var answers []models.TextAnswer
	if err := r.db.WithContext(ctx).Preload("Question").Where("candidate_id = ?", candidateID).Order("question_id ASC").Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *textRepository) SaveResult(ctx context.Context, result *models.TextAssessmentResult) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"communication_score", "grading", "updated_at"}),
	}).Create(result).Error
}

func (r *textRepository) GetResult(ctx context.Context, candidateID uint) (models.TextAssessmentResult, error) {
	var result models.TextAssessmentResult
	if err := r.db.WithContext(ctx).Where("candidate_id = ?", candidateID).First(&result).Error; err != nil {
		return models.TextAssessmentResult{}, err
	}
	return result, nil
}
