package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/talentgate-labs/talentgate-api/internal/models"
)

// ProctorRepository persists proctoring sessions and their violation events.
// Violation rows are append-only.
type ProctorRepository interface {
	CreateSession(ctx context.Context, session *models.ProctorSession) error
	SaveSession(ctx context.Context, session *models.ProctorSession) error
	GetSession(ctx context.Context, sessionUUID string) (models.ProctorSession, error)
	ListSessionsByCandidate(ctx context.Context, candidateID uint) ([]models.ProctorSession, error)

	CreateViolation(ctx context.Context, violation *models.ProctorViolation) error
	ListViolationsBySession(ctx context.Context, sessionUUID string) ([]models.ProctorViolation, error)
	ListViolationsByCandidate(ctx context.Context, candidateID uint) ([]models.ProctorViolation, error)
}

type proctorRepository struct {
	db *gorm.DB
}

// NewProctorRepository constructs a proctoring repository backed by GORM.
func NewProctorRepository(db *gorm.DB) ProctorRepository {
	return &proctorRepository{db: db}
}

func (r *proctorRepository) CreateSession(ctx context.Context, session *models.ProctorSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *proctorRepository) SaveSession(ctx context.Context, session *models.ProctorSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *proctorRepository) GetSession(ctx context.Context, sessionUUID string) (models.ProctorSession, error) {
	var session models.ProctorSession
	if err := r.db.WithContext(ctx).Where("session_uuid = ?", sessionUUID).First(&session).Error; err != nil {
		return models.ProctorSession{}, err
	}
	return session, nil
}

func (r *proctorRepository) ListSessionsByCandidate(ctx context.Context, candidateID uint) ([]models.ProctorSession, error) {
	var sessions []models.ProctorSession
	if err := r.db.WithContext(ctx).Where("candidate_id = ?", candidateID).Order("start_time DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *proctorRepository) CreateViolation(ctx context.Context, violation *models.ProctorViolation) error {
	return r.db.WithContext(ctx).Create(violation).Error
}

func (r *proctorRepository) ListViolationsBySession(ctx context.Context, sessionUUID string) ([]models.ProctorViolation, error) {
	var violations []models.ProctorViolation
	if err := r.db.WithContext(ctx).Where("session_uuid = ?", sessionUUID).Order("timestamp ASC").Find(&violations).Error; err != nil {
		return nil, err
	}
	return violations, nil
}

func (r *proctorRepository) ListViolationsByCandidate(ctx context.Context, candidateID uint) ([]models.ProctorViolation, error) {
	var violations []models.ProctorViolation
	if err := r.db.WithContext(ctx).Where("candidate_id = ?", candidateID).Order("timestamp ASC").Find(&violations).Error; err != nil {
		return nil, err
	}
	return violations, nil
}
