package service

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/talentgate-labs/talentgate-api/internal/models"
)

type fakeCandidateRepo struct {
	candidates map[uint]models.Candidate
	nextID     uint
	err        error
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{candidates: map[uint]models.Candidate{}, nextID: 1}
}

func (f *fakeCandidateRepo) Create(ctx context.Context, candidate *models.Candidate) error {
	if f.err != nil {
		return f.err
	}
	candidate.ID = f.nextID
	f.nextID++
	f.candidates[candidate.ID] = *candidate
	return nil
}

func (f *fakeCandidateRepo) Save(ctx context.Context, candidate *models.Candidate) error {
	if f.err != nil {
		return f.err
	}
	f.candidates[candidate.ID] = *candidate
	return nil
}

func (f *fakeCandidateRepo) GetByID(ctx context.Context, id uint) (models.Candidate, error) {
	if f.err != nil {
		return models.Candidate{}, f.err
	}
	candidate, ok := f.candidates[id]
	if !ok {
		return models.Candidate{}, gorm.ErrRecordNotFound
	}
	return candidate, nil
}

func (f *fakeCandidateRepo) GetByEmail(ctx context.Context, email string) (models.Candidate, error) {
	if f.err != nil {
		return models.Candidate{}, f.err
	}
	for _, candidate := range f.candidates {
		if candidate.Email == email {
			return candidate, nil
		}
	}
	return models.Candidate{}, gorm.ErrRecordNotFound
}

func (f *fakeCandidateRepo) List(ctx context.Context) ([]models.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Candidate, 0, len(f.candidates))
	for _, candidate := range f.candidates {
		out = append(out, candidate)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeRecruiterRepo struct {
	recruiters map[uint]models.Recruiter
	nextID     uint
}

func newFakeRecruiterRepo() *fakeRecruiterRepo {
	return &fakeRecruiterRepo{recruiters: map[uint]models.Recruiter{}, nextID: 1}
}

func (f *fakeRecruiterRepo) Create(ctx context.Context, recruiter *models.Recruiter) error {
	recruiter.ID = f.nextID
	f.nextID++
	f.recruiters[recruiter.ID] = *recruiter
	return nil
}

func (f *fakeRecruiterRepo) GetByID(ctx context.Context, id uint) (models.Recruiter, error) {
	recruiter, ok := f.recruiters[id]
	if !ok {
		return models.Recruiter{}, gorm.ErrRecordNotFound
	}
	return recruiter, nil
}

func (f *fakeRecruiterRepo) GetByEmail(ctx context.Context, email string) (models.Recruiter, error) {
	for _, recruiter := range f.recruiters {
		if recruiter.Email == email {
			return recruiter, nil
		}
	}
	return models.Recruiter{}, gorm.ErrRecordNotFound
}

type mcqResponseKey struct {
	questionID  int
	candidateID uint
}

type fakeMCQRepo struct {
	questions map[int]models.MCQQuestion
	responses map[mcqResponseKey]models.MCQResponse
	results   map[uint]models.MCQResult
}

func newFakeMCQRepo() *fakeMCQRepo {
	return &fakeMCQRepo{
		questions: map[int]models.MCQQuestion{},
		responses: map[mcqResponseKey]models.MCQResponse{},
		results:   map[uint]models.MCQResult{},
	}
}

func (f *fakeMCQRepo) ListQuestions(ctx context.Context) ([]models.MCQQuestion, error) {
	out := make([]models.MCQQuestion, 0, len(f.questions))
	for _, question := range f.questions {
		out = append(out, question)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

func (f *fakeMCQRepo) GetQuestion(ctx context.Context, questionID int) (models.MCQQuestion, error) {
	question, ok := f.questions[questionID]
	if !ok {
		return models.MCQQuestion{}, gorm.ErrRecordNotFound
	}
	return question, nil
}

func (f *fakeMCQRepo) ReplaceBank(ctx context.Context, questions []models.MCQQuestion) error {
	f.questions = map[int]models.MCQQuestion{}
	for _, question := range questions {
		f.questions[question.QuestionID] = question
	}
	return nil
}

func (f *fakeMCQRepo) UpsertResponse(ctx context.Context, response *models.MCQResponse) error {
	f.responses[mcqResponseKey{response.QuestionID, response.CandidateID}] = *response
	return nil
}

func (f *fakeMCQRepo) ListResponses(ctx context.Context, candidateID uint) ([]models.MCQResponse, error) {
	out := []models.MCQResponse{}
	for _, response := range f.responses {
		if response.CandidateID == candidateID {
			out = append(out, response)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

func (f *fakeMCQRepo) SaveResult(ctx context.Context, result *models.MCQResult) error {
	f.results[result.CandidateID] = *result
	return nil
}

func (f *fakeMCQRepo) GetResult(ctx context.Context, candidateID uint) (models.MCQResult, error) {
	result, ok := f.results[candidateID]
	if !ok {
		return models.MCQResult{}, gorm.ErrRecordNotFound
	}
	return result, nil
}

type textAnswerKey struct {
	candidateID uint
	questionID  int
}

type fakeTextRepo struct {
	questions map[int]models.TextQuestion
	answers   map[textAnswerKey]models.TextAnswer
	results   map[uint]models.TextAssessmentResult
}

func newFakeTextRepo() *fakeTextRepo {
	return &fakeTextRepo{
		questions: map[int]models.TextQuestion{},
		answers:   map[textAnswerKey]models.TextAnswer{},
		results:   map[uint]models.TextAssessmentResult{},
	}
}

func (f *fakeTextRepo) ListQuestions(ctx context.Context) ([]models.TextQuestion, error) {
	out := make([]models.TextQuestion, 0, len(f.questions))
	for _, question := range f.questions {
		out = append(out, question)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

func (f *fakeTextRepo) GetQuestion(ctx context.Context, questionID int) (models.TextQuestion, error) {
	question, ok := f.questions[questionID]
	if !ok {
		return models.TextQuestion{}, gorm.ErrRecordNotFound
	}
	return question, nil
}

func (f *fakeTextRepo) ReplaceBank(ctx context.Context, questions []models.TextQuestion) error {
	f.questions = map[int]models.TextQuestion{}
	for _, question := range questions {
		f.questions[question.QuestionID] = question
	}
	return nil
}

func (f *fakeTextRepo) UpsertAnswer(ctx context.Context, answer *models.TextAnswer) error {
	f.answers[textAnswerKey{answer.CandidateID, answer.QuestionID}] = *answer
	return nil
}

func (f *fakeTextRepo) ListAnswers(ctx context.Context, candidateID uint) ([]models.TextAnswer, error) {
	out := []models.TextAnswer{}
	for key, answer := range f.answers {
		if key.candidateID == candidateID {
			answer.Question = f.questions[answer.QuestionID]
			out = append(out, answer)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

func (f *fakeTextRepo) SaveResult(ctx context.Context, result *models.TextAssessmentResult) error {
	f.results[result.CandidateID] = *result
	return nil
}

func (f *fakeTextRepo) GetResult(ctx context.Context, candidateID uint) (models.TextAssessmentResult, error) {
	result, ok := f.results[candidateID]
	if !ok {
		return models.TextAssessmentResult{}, gorm.ErrRecordNotFound
	}
	return result, nil
}

type fakePsychometricRepo struct {
	questions map[int]models.PsychometricQuestion
	config    *models.PsychometricTestConfig
	results   map[uint]models.PsychometricResult
}

func newFakePsychometricRepo() *fakePsychometricRepo {
	return &fakePsychometricRepo{
		questions: map[int]models.PsychometricQuestion{},
		results:   map[uint]models.PsychometricResult{},
	}
}

func (f *fakePsychometricRepo) ListActiveQuestions(ctx context.Context) ([]models.PsychometricQuestion, error) {
	out := []models.PsychometricQuestion{}
	for _, question := range f.questions {
		if question.IsActive {
			out = append(out, question)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

func (f *fakePsychometricRepo) ListQuestionsByIDs(ctx context.Context, questionIDs []int) ([]models.PsychometricQuestion, error) {
	out := []models.PsychometricQuestion{}
	for _, id := range questionIDs {
		if question, ok := f.questions[id]; ok {
			out = append(out, question)
		}
	}
	return out, nil
}

func (f *fakePsychometricRepo) ReplaceBank(ctx context.Context, questions []models.PsychometricQuestion) error {
	f.questions = map[int]models.PsychometricQuestion{}
	for _, question := range questions {
		f.questions[question.QuestionID] = question
	}
	return nil
}

func (f *fakePsychometricRepo) GetActiveConfig(ctx context.Context) (models.PsychometricTestConfig, error) {
	if f.config == nil {
		return models.PsychometricTestConfig{}, gorm.ErrRecordNotFound
	}
	return *f.config, nil
}

func (f *fakePsychometricRepo) SaveConfig(ctx context.Context, config *models.PsychometricTestConfig) error {
	clone := *config
	f.config = &clone
	return nil
}

func (f *fakePsychometricRepo) UpsertResult(ctx context.Context, result *models.PsychometricResult) error {
	f.results[result.CandidateID] = *result
	return nil
}

func (f *fakePsychometricRepo) GetResult(ctx context.Context, candidateID uint) (models.PsychometricResult, error) {
	result, ok := f.results[candidateID]
	if !ok {
		return models.PsychometricResult{}, gorm.ErrRecordNotFound
	}
	return result, nil
}

type fakeProctorRepo struct {
	sessions   map[string]models.ProctorSession
	violations []models.ProctorViolation
}

func newFakeProctorRepo() *fakeProctorRepo {
	return &fakeProctorRepo{sessions: map[string]models.ProctorSession{}}
}

func (f *fakeProctorRepo) CreateSession(ctx context.Context, session *models.ProctorSession) error {
	session.ID = uint(len(f.sessions) + 1)
	f.sessions[session.SessionUUID] = *session
	return nil
}

func (f *fakeProctorRepo) SaveSession(ctx context.Context, session *models.ProctorSession) error {
	f.sessions[session.SessionUUID] = *session
	return nil
}

func (f *fakeProctorRepo) GetSession(ctx context.Context, sessionUUID string) (models.ProctorSession, error) {
	session, ok := f.sessions[sessionUUID]
	if !ok {
		return models.ProctorSession{}, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (f *fakeProctorRepo) ListSessionsByCandidate(ctx context.Context, candidateID uint) ([]models.ProctorSession, error) {
	out := []models.ProctorSession{}
	for _, session := range f.sessions {
		if session.CandidateID == candidateID {
			out = append(out, session)
		}
	}
	return out, nil
}

func (f *fakeProctorRepo) CreateViolation(ctx context.Context, violation *models.ProctorViolation) error {
	violation.ID = uint(len(f.violations) + 1)
	f.violations = append(f.violations, *violation)
	return nil
}

func (f *fakeProctorRepo) ListViolationsBySession(ctx context.Context, sessionUUID string) ([]models.ProctorViolation, error) {
	out := []models.ProctorViolation{}
	for _, violation := range f.violations {
		if violation.SessionUUID == sessionUUID {
			out = append(out, violation)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *fakeProctorRepo) ListViolationsByCandidate(ctx context.Context, candidateID uint) ([]models.ProctorViolation, error) {
	out := []models.ProctorViolation{}
	for _, violation := range f.violations {
		if violation.CandidateID == candidateID {
			out = append(out, violation)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

type fakeEvaluationRepo struct {
	criteria   map[uint]models.EvaluationCriteria
	rationales map[uint]models.CandidateRationale
}

func newFakeEvaluationRepo() *fakeEvaluationRepo {
	return &fakeEvaluationRepo{
		criteria:   map[uint]models.EvaluationCriteria{},
		rationales: map[uint]models.CandidateRationale{},
	}
}

func (f *fakeEvaluationRepo) GetCriteria(ctx context.Context, recruiterID uint) (models.EvaluationCriteria, error) {
	criteria, ok := f.criteria[recruiterID]
	if !ok {
		return models.EvaluationCriteria{}, gorm.ErrRecordNotFound
	}
	return criteria, nil
}

func (f *fakeEvaluationRepo) UpsertCriteria(ctx context.Context, criteria *models.EvaluationCriteria) error {
	f.criteria[criteria.RecruiterID] = *criteria
	return nil
}

func (f *fakeEvaluationRepo) DeleteCriteria(ctx context.Context, recruiterID uint) error {
	delete(f.criteria, recruiterID)
	return nil
}

func (f *fakeEvaluationRepo) UpsertRationale(ctx context.Context, rationale *models.CandidateRationale) error {
	f.rationales[rationale.CandidateID] = *rationale
	return nil
}

func (f *fakeEvaluationRepo) GetRationale(ctx context.Context, candidateID uint) (models.CandidateRationale, error) {
	rationale, ok := f.rationales[candidateID]
	if !ok {
		return models.CandidateRationale{}, gorm.ErrRecordNotFound
	}
	return rationale, nil
}
