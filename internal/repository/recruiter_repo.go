package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/talentgate-labs/talentgate-api/internal/models"
)

// RecruiterRepository provides access to recruiter accounts.
type RecruiterRepository interface {
	Create(ctx context.Context, recruiter *models.Recruiter) error
	GetByID(ctx context.Context, id uint) (models.Recruiter, error)
	GetByEmail(ctx context.Context, email string) (models.Recruiter, error)
}

type recruiterRepository struct {
	db *gorm.DB
}

// NewRecruiterRepository constructs a recruiter repository backed by GORM.
func NewRecruiterRepository(db *gorm.DB) RecruiterRepository {
	return &recruiterRepository{db: db}
}

func (r *recruiterRepository) Create(ctx context.Context, recruiter *models.Recruiter) error {
	return r.db.WithContext(ctx).Create(recruiter).Error
}

func (r *recruiterRepository) GetByID(ctx context.Context, id uint) (models.Recruiter, error) {
	var recruiter models.Recruiter
	if err := r.db.WithContext(ctx).First(&recruiter, id).Error; err != nil {
		return models.Recruiter{}, err
	}
	return recruiter, nil
}

func (r *recruiterRepository) GetByEmail(ctx context.Context, email string) (models.Recruiter, error) {
	var recruiter models.Recruiter
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&recruiter).Error; err != nil {
		return models.Recruiter{}, err
	}
	return recruiter, nil
}
