package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	"github.com/talentgate-labs/talentgate-api/internal/models"
	"github.com/talentgate-labs/talentgate-api/internal/scoring"
	"github.com/talentgate-labs/talentgate-api/pkg/ai"
)

type evaluationFixture struct {
	svc          EvaluationService
	evaluations  *fakeEvaluationRepo
	candidates   *fakeCandidateRepo
	mcq          *fakeMCQRepo
	text         *fakeTextRepo
	psychometric *fakePsychometricRepo
	proctor      *fakeProctorRepo
}

func newEvaluationFixture(t *testing.T, grader ai.Grader) evaluationFixture {
	t.Helper()

	f := evaluationFixture{
		evaluations:  newFakeEvaluationRepo(),
		candidates:   newFakeCandidateRepo(),
		mcq:          newFakeMCQRepo(),
		text:         newFakeTextRepo(),
		psychometric: newFakePsychometricRepo(),
		proctor:      newFakeProctorRepo(),
	}

	f.svc = NewEvaluationService(EvaluationServiceDeps{
		Evaluations:  f.evaluations,
		Candidates:   f.candidates,
		MCQ:          f.mcq,
		Text:         f.text,
		Psychometric: f.psychometric,
		Proctor:      f.proctor,
		Grader:       grader,
		Validator:    validator.New(validator.WithRequiredStructEnabled()),
		Logger:       zerolog.Nop(),
		AIProvider:   "openai",
	})
	return f
}

func (f evaluationFixture) seedCandidate(t *testing.T, email string) uint {
	t.Helper()

	candidate := models.Candidate{Email: email}
	require.NoError(t, f.candidates.Create(context.Background(), &candidate))
	return candidate.ID
}

func TestEvaluationServiceCriteriaDefaultsWhenUnset(t *testing.T) {
	f := newEvaluationFixture(t, nil)

	criteria, err := f.svc.GetCriteria(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, criteria.IsDefault)
	require.InDelta(t, 37.5, criteria.Technical, 0.001)
	require.InDelta(t, 12.5, criteria.Fairplay, 0.001)
}

func TestEvaluationServiceUpdateCriteriaValidatesSum(t *testing.T) {
	f := newEvaluationFixture(t, nil)

	_, err := f.svc.UpdateCriteria(context.Background(), 1, dto.EvaluationCriteriaRequest{
		Technical: 50, Psychometric: 30, SoftSkill: 15, Fairplay: 10,
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrWeightsDoNotSum))

	updated, err := f.svc.UpdateCriteria(context.Background(), 1, dto.EvaluationCriteriaRequest{
		Technical: 50, Psychometric: 30, SoftSkill: 15, Fairplay: 5,
	})
	require.NoError(t, err)
	require.False(t, updated.IsDefault)
	require.InDelta(t, 50, updated.Technical, 0.001)

	reset, err := f.svc.ResetCriteria(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, reset.IsDefault)

	_, err = f.evaluations.GetCriteria(context.Background(), 1)
	require.Error(t, err)
}

func TestEvaluationServiceRosterComputesComposite(t *testing.T) {
	f := newEvaluationFixture(t, nil)
	candidateID := f.seedCandidate(t, "jo@example.com")

	require.NoError(t, f.mcq.SaveResult(context.Background(), &models.MCQResult{CandidateID: candidateID, Correct: 8, Wrong: 2, Percentage: 80}))

	comm := 70.0
	require.NoError(t, f.text.UpsertAnswer(context.Background(), &models.TextAnswer{CandidateID: candidateID, QuestionID: 1, Answer: "hello", WordCount: 1}))
	require.NoError(t, f.text.SaveResult(context.Background(), &models.TextAssessmentResult{CandidateID: candidateID, CommunicationScore: &comm}))

	require.NoError(t, f.psychometric.UpsertResult(context.Background(), &models.PsychometricResult{
		CandidateID:          candidateID,
		Extraversion:         10,
		Agreeableness:        10,
		Conscientiousness:    10,
		EmotionalStability:   5,
		IntellectImagination: 5,
		QuestionsAnswered:    10,
		TestCompleted:        true,
	}))

	roster, err := f.svc.ListCandidates(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, roster, 1)

	overview := roster[0]
	require.Equal(t, candidateID, overview.CandidateID)
	require.False(t, overview.HasViolations)
	require.Equal(t, 100, overview.Evaluation.Fairplay)
	require.NotNil(t, overview.Evaluation.Overall)
	// 80*0.375 + 80*0.25 + 70*0.25 + 100*0.125 with default weights.
	require.InDelta(t, 80.0, *overview.Evaluation.Overall, 0.01)
	require.Equal(t, scoring.StatusHighMatch, overview.Evaluation.Status)
}

func TestEvaluationServiceRosterMarksUntestedCandidates(t *testing.T) {
	f := newEvaluationFixture(t, nil)
	f.seedCandidate(t, "new@example.com")

	roster, err := f.svc.ListCandidates(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	require.Nil(t, roster[0].Evaluation.Overall)
	require.Equal(t, scoring.StatusNotTested, roster[0].Evaluation.Status)
}

func TestEvaluationServiceCandidateReportAggregates(t *testing.T) {
	f := newEvaluationFixture(t, nil)
	candidateID := f.seedCandidate(t, "jo@example.com")

	require.NoError(t, f.mcq.SaveResult(context.Background(), &models.MCQResult{CandidateID: candidateID, Correct: 5, Wrong: 5, Percentage: 50}))
	require.NoError(t, f.proctor.CreateViolation(context.Background(), &models.ProctorViolation{
		SessionUUID:   "s-1",
		CandidateID:   candidateID,
		ViolationType: "tab_switch",
		Severity:      "medium",
	}))

	report, err := f.svc.CandidateReport(context.Background(), 1, candidateID)
	require.NoError(t, err)
	require.NotNil(t, report.MCQ)
	require.Equal(t, 5, report.MCQ.Correct)
	require.Nil(t, report.Text)
	require.Nil(t, report.Psychometric)
	require.Equal(t, 1, report.ViolationCounts["tab_switch"].Count)
	require.True(t, report.Candidate.HasViolations)

	_, err = f.svc.CandidateReport(context.Background(), 1, 999)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrCandidateNotFound))
}

func TestEvaluationServiceRationaleDegradesOnFailure(t *testing.T) {
	f := newEvaluationFixture(t, stubGrader{err: errors.New("model overloaded")})
	candidateID := f.seedCandidate(t, "jo@example.com")

	resp, err := f.svc.GenerateRationale(context.Background(), 1, candidateID, dto.RationaleRequest{})
	require.NoError(t, err)
	require.Equal(t, "generation_failed", resp.Rationale["status"])

	stored, err := f.evaluations.GetRationale(context.Background(), candidateID)
	require.NoError(t, err)
	require.Equal(t, "generation_failed", stored.Rationale["status"])
}

func TestEvaluationServiceRationaleReusesStoredResult(t *testing.T) {
	f := newEvaluationFixture(t, stubGrader{err: errors.New("should not be called")})
	candidateID := f.seedCandidate(t, "jo@example.com")

	require.NoError(t, f.evaluations.UpsertRationale(context.Background(), &models.CandidateRationale{
		CandidateID: candidateID,
		Rationale:   datatypes.JSONMap{"status": "generated", "summary": "strong fit"},
		Provider:    "openai",
	}))

	resp, err := f.svc.GenerateRationale(context.Background(), 1, candidateID, dto.RationaleRequest{})
	require.NoError(t, err)
	require.Equal(t, "strong fit", resp.Rationale["summary"])
}
