package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/talentgate-labs/talentgate-api/internal/models"
)

func TestProctorRepositoryViolationsOrderedByTimestamp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProctorRepository(db)
	candidate := createTestCandidate(t, db, "proctor@example.com")

	sessionUUID := uuid.NewString()
	session := models.ProctorSession{
		SessionUUID: sessionUUID,
		CandidateID: candidate.ID,
		Status:      models.ProctorSessionActive,
		StartTime:   time.Now().Add(-10 * time.Minute),
	}
	require.NoError(t, repo.CreateSession(context.Background(), &session))

	later := models.ProctorViolation{
		SessionUUID:   sessionUUID,
		CandidateID:   candidate.ID,
		ViolationType: "tab_switch",
		Severity:      "medium",
		Timestamp:     time.Now(),
	}
	earlier := models.ProctorViolation{
		SessionUUID:   sessionUUID,
		CandidateID:   candidate.ID,
		ViolationType: "no_face",
		Severity:      "high",
		Timestamp:     time.Now().Add(-5 * time.Minute),
	}
	require.NoError(t, repo.CreateViolation(context.Background(), &later))
	require.NoError(t, repo.CreateViolation(context.Background(), &earlier))

	violations, err := repo.ListViolationsBySession(context.Background(), sessionUUID)
	require.NoError(t, err)
	require.Len(t, violations, 2)
	require.Equal(t, "no_face", violations[0].ViolationType, "expected chronological order")
	require.Equal(t, "tab_switch", violations[1].ViolationType)
}

func TestProctorRepositorySessionLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProctorRepository(db)
	candidate := createTestCandidate(t, db, "lifecycle@example.com")

	session := models.ProctorSession{
		SessionUUID: uuid.NewString(),
		CandidateID: candidate.ID,
		Status:      models.ProctorSessionActive,
		StartTime:   time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.CreateSession(context.Background(), &session))

	end := time.Now()
	session.EndTime = &end
	session.Status = models.ProctorSessionCompleted
	require.NoError(t, repo.SaveSession(context.Background(), &session))

	loaded, err := repo.GetSession(context.Background(), session.SessionUUID)
	require.NoError(t, err)
	require.Equal(t, models.ProctorSessionCompleted, loaded.Status)
	require.NotNil(t, loaded.EndTime)

	sessions, err := repo.ListSessionsByCandidate(context.Background(), candidate.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
}
