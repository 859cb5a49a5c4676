package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/talentgate-labs/talentgate-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Candidate{},
		&models.Recruiter{},
		&models.MCQQuestion{},
		&models.MCQResponse{},
		&models.MCQResult{},
		&models.TextQuestion{},
		&models.TextAnswer{},
		&models.TextAssessmentResult{},
		&models.PsychometricQuestion{},
		&models.PsychometricTestConfig{},
		&models.PsychometricResult{},
		&models.ProctorSession{},
		&models.ProctorViolation{},
		&models.EvaluationCriteria{},
		&models.CandidateRationale{},
	))
	return db
}

func createTestCandidate(t *testing.T, db *gorm.DB, email string) models.Candidate {
	t.Helper()
	candidate := models.Candidate{Email: email}
	require.NoError(t, candidate.SetPassword("secret123"))
	require.NoError(t, db.Create(&candidate).Error)
	return candidate
}

func TestMCQRepositoryUpsertResponseLastWriteWins(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMCQRepository(db)
	candidate := createTestCandidate(t, db, "mcq@example.com")

	first := models.MCQResponse{QuestionID: 7, CandidateID: candidate.ID, AnswerOption: 2, AnsweredAt: time.Now().Add(-time.Minute)}
	require.NoError(t, repo.UpsertResponse(context.Background(), &first))

	second := models.MCQResponse{QuestionID: 7, CandidateID: candidate.ID, AnswerOption: 4, AnsweredAt: time.Now()}
	require.NoError(t, repo.UpsertResponse(context.Background(), &second))

	responses, err := repo.ListResponses(context.Background(), candidate.ID)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	require.Equal(t, 4, responses[0].AnswerOption)
}

func TestMCQRepositoryReplaceBank(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMCQRepository(db)

	initial := []models.MCQQuestion{
		{QuestionID: 1, Question: "What is a goroutine?", Option1: "a", Option2: "b", Option3: "c", Option4: "d", CorrectAnswer: 1},
		{QuestionID: 2, Question: "What does GC stand for?", Option1: "a", Option2: "b", Option3: "c", Option4: "d", CorrectAnswer: 2},
	}
	require.NoError(t, repo.ReplaceBank(context.Background(), initial))

	replacement := []models.MCQQuestion{
		{QuestionID: 10, Question: "Explain channels.", Option1: "a", Option2: "b", Option3: "c", Option4: "d", CorrectAnswer: 3},
	}
	require.NoError(t, repo.ReplaceBank(context.Background(), replacement))

	questions, err := repo.ListQuestions(context.Background())
	require.NoError(t, err)
	require.Len(t, questions, 1)
	require.Equal(t, 10, questions[0].QuestionID)
}

func TestMCQRepositorySaveResultUpserts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMCQRepository(db)
	candidate := createTestCandidate(t, db, "result@example.com")

	first := models.MCQResult{CandidateID: candidate.ID, Correct: 3, Wrong: 7, Percentage: 30}
	require.NoError(t, repo.SaveResult(context.Background(), &first))

	second := models.MCQResult{CandidateID: candidate.ID, Correct: 8, Wrong: 2, Percentage: 80}
	require.NoError(t, repo.SaveResult(context.Background(), &second))

	result, err := repo.GetResult(context.Background(), candidate.ID)
	require.NoError(t, err)
	require.Equal(t, 8, result.Correct)
	require.Equal(t, 80.0, result.Percentage)
}
