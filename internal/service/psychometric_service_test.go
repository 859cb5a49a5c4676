package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	"github.com/talentgate-labs/talentgate-api/internal/models"
)

func newPsychometricFixture(t *testing.T) (PsychometricService, *fakePsychometricRepo, *fakeCandidateRepo, uint) {
	t.Helper()

	repo := newFakePsychometricRepo()
	require.NoError(t, repo.ReplaceBank(context.Background(), []models.PsychometricQuestion{
		{QuestionID: 1, Statement: "I am the life of the party.", TraitType: models.TraitExtraversion, ScoringDirection: "+", IsActive: true},
		{QuestionID: 2, Statement: "I don't talk a lot.", TraitType: models.TraitExtraversion, ScoringDirection: "-", IsActive: true},
		{QuestionID: 3, Statement: "I sympathize with others' feelings.", TraitType: models.TraitAgreeableness, ScoringDirection: "+", IsActive: true},
	}))

	candidates := newFakeCandidateRepo()
	candidate := models.Candidate{Email: "jo@example.com"}
	require.NoError(t, candidates.Create(context.Background(), &candidate))

	svc := NewPsychometricService(repo, candidates, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
	return svc, repo, candidates, candidate.ID
}

func TestPsychometricServiceStartTestServesBankWithoutConfig(t *testing.T) {
	svc, _, _, candidateID := newPsychometricFixture(t)

	resp, err := svc.StartTest(context.Background(), candidateID)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Instructions)
	require.Len(t, resp.Scale, 5)
	require.Len(t, resp.Questions, 3)
	for _, question := range resp.Questions {
		require.NotEmpty(t, question.Statement)
	}
}

func TestPsychometricServiceStartTestHonoursManualConfig(t *testing.T) {
	svc, _, _, candidateID := newPsychometricFixture(t)

	_, err := svc.UpdateConfig(context.Background(), dto.PsychometricConfigRequest{
		SelectionMode:       "manual",
		SelectedQuestionIDs: []int{1, 3},
	})
	require.NoError(t, err)

	resp, err := svc.StartTest(context.Background(), candidateID)
	require.NoError(t, err)
	require.Len(t, resp.Questions, 2)

	ids := map[int]bool{}
	for _, question := range resp.Questions {
		ids[question.QuestionID] = true
	}
	require.True(t, ids[1])
	require.True(t, ids[3])
}

func TestPsychometricServiceSubmitReverseScoresNegativeItems(t *testing.T) {
	svc, repo, candidates, candidateID := newPsychometricFixture(t)

	// Question 2 is reverse keyed, so an answer of 1 scores 5.
	resp, err := svc.SubmitTest(context.Background(), candidateID, dto.PsychometricSubmitRequest{Answers: map[int]int{
		1: 4,
		2: 1,
		3: 3,
	}})
	require.NoError(t, err)
	require.Equal(t, 3, resp.QuestionsAnswered)
	require.Equal(t, 9, resp.TraitScores["Extraversion"])
	require.Equal(t, 3, resp.TraitScores["Agreeableness"])

	stored, err := repo.GetResult(context.Background(), candidateID)
	require.NoError(t, err)
	require.Equal(t, 9, stored.Extraversion)
	require.Equal(t, 12, stored.TotalPoints())

	candidate, err := candidates.GetByID(context.Background(), candidateID)
	require.NoError(t, err)
	require.True(t, candidate.PsychometricCompleted)
}

func TestPsychometricServiceSubmitRejectsUnknownQuestion(t *testing.T) {
	svc, _, _, candidateID := newPsychometricFixture(t)

	_, err := svc.SubmitTest(context.Background(), candidateID, dto.PsychometricSubmitRequest{Answers: map[int]int{99: 3}})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownAnswer))
}

func TestPsychometricServiceSubmitTwiceIsRejected(t *testing.T) {
	svc, _, _, candidateID := newPsychometricFixture(t)

	answers := dto.PsychometricSubmitRequest{Answers: map[int]int{1: 3}}
	_, err := svc.SubmitTest(context.Background(), candidateID, answers)
	require.NoError(t, err)

	_, err = svc.SubmitTest(context.Background(), candidateID, answers)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrRoundAlreadyCompleted))

	_, err = svc.StartTest(context.Background(), candidateID)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrRoundAlreadyCompleted))
}

func TestPsychometricServiceRandomConfigLimitsCount(t *testing.T) {
	svc, _, _, candidateID := newPsychometricFixture(t)

	_, err := svc.UpdateConfig(context.Background(), dto.PsychometricConfigRequest{SelectionMode: "random", NumQuestions: 2})
	require.NoError(t, err)

	resp, err := svc.StartTest(context.Background(), candidateID)
	require.NoError(t, err)
	require.Len(t, resp.Questions, 2)
}

func TestPsychometricServiceStartTestConcurrentCandidates(t *testing.T) {
	svc, _, candidates, first := newPsychometricFixture(t)

	second := models.Candidate{Email: "mira@example.com"}
	require.NoError(t, candidates.Create(context.Background(), &second))

	_, err := svc.UpdateConfig(context.Background(), dto.PsychometricConfigRequest{
		SelectionMode: "random",
		NumQuestions:  2,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for _, candidateID := range []uint{first, second.ID} {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				resp, err := svc.StartTest(context.Background(), id)
				if err != nil {
					errs <- err
					return
				}
				if len(resp.Questions) != 2 {
					errs <- errors.New("unexpected question count")
					return
				}
			}
		}(candidateID)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
