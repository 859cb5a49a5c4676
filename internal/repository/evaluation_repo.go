package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talentgate-labs/talentgate-api/internal/models"
)

// EvaluationRepository persists recruiter scoring criteria and AI rationales.
type EvaluationRepository interface {
	GetCriteria(ctx context.Context, recruiterID uint) (models.EvaluationCriteria, error)
	UpsertCriteria(ctx context.Context, criteria *models.EvaluationCriteria) error
	DeleteCriteria(ctx context.Context, recruiterID uint) error

	UpsertRationale(ctx context.Context, rationale *models.CandidateRationale) error
	GetRationale(ctx context.Context, candidateID uint) (models.CandidateRationale, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository constructs an evaluation repository backed by GORM.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) GetCriteria(ctx context.Context, recruiterID uint) (models.EvaluationCriteria, error) {
	var criteria models.EvaluationCriteria
	if err := r.db.WithContext(ctx).Where("recruiter_id = ?", recruiterID).First(&criteria).Error; err != nil {
		return models.EvaluationCriteria{}, err
	}
	return criteria, nil
}

func (r *evaluationRepository) UpsertCriteria(ctx context.Context, criteria *models.EvaluationCriteria) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "recruiter_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"technical", "psychometric", "soft_skill", "fairplay", "is_default", "updated_at",
		}),
	}).Create(criteria).Error
}

func (r *evaluationRepository) DeleteCriteria(ctx context.Context, recruiterID uint) error {
	return r.db.WithContext(ctx).Where("recruiter_id = ?", recruiterID).Delete(&models.EvaluationCriteria{}).Error
}

func (r *evaluationRepository) UpsertRationale(ctx context.Context, rationale *models.CandidateRationale) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rationale", "provider", "updated_at"}),
	}).Create(rationale).Error
}

func (r *evaluationRepository) GetRationale(ctx context.Context, candidateID uint) (models.CandidateRationale, error) {
	var rationale models.CandidateRationale
	if err := r.db.WithContext(ctx).Where("candidate_id = ?", candidateID).First(&rationale).Error; err != nil {
		return models.CandidateRationale{}, err
	}
	return rationale, nil
}
