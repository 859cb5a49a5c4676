package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	"github.com/talentgate-labs/talentgate-api/internal/handler"
	"github.com/talentgate-labs/talentgate-api/internal/service"
)

type mockEvaluationService struct {
	criteria    dto.EvaluationCriteriaResponse
	roster      []dto.CandidateOverviewResponse
	report      dto.CandidateReportResponse
	rationale   dto.RationaleResponse
	recruiterID uint
	candidateID uint
	err         error
}

func (m *mockEvaluationService) GetCriteria(_ context.Context, recruiterID uint) (dto.EvaluationCriteriaResponse, error) {
	m.recruiterID = recruiterID
	return m.criteria, m.err
}

func (m *mockEvaluationService) UpdateCriteria(_ context.Context, recruiterID uint, payload dto.EvaluationCriteriaRequest) (dto.EvaluationCriteriaResponse, error) {
	m.recruiterID = recruiterID
	if m.err != nil {
		return dto.EvaluationCriteriaResponse{}, m.err
	}
	return m.criteria, nil
}

func (m *mockEvaluationService) ResetCriteria(_ context.Context, recruiterID uint) (dto.EvaluationCriteriaResponse, error) {
	m.recruiterID = recruiterID
	return m.criteria, m.err
}

func (m *mockEvaluationService) ListCandidates(_ context.Context, recruiterID uint) ([]dto.CandidateOverviewResponse, error) {
	m.recruiterID = recruiterID
	return m.roster, m.err
}

func (m *mockEvaluationService) CandidateReport(_ context.Context, recruiterID, candidateID uint) (dto.CandidateReportResponse, error) {
	m.recruiterID = recruiterID
	m.candidateID = candidateID
	if m.err != nil {
		return dto.CandidateReportResponse{}, m.err
	}
	return m.report, nil
}

func (m *mockEvaluationService) GenerateRationale(_ context.Context, recruiterID, candidateID uint, payload dto.RationaleRequest) (dto.RationaleResponse, error) {
	m.recruiterID = recruiterID
	m.candidateID = candidateID
	if m.err != nil {
		return dto.RationaleResponse{}, m.err
	}
	return m.rationale, nil
}

func newDashboardTestApp(svc service.EvaluationService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/recruiter/dashboard", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(3))
		return c.Next()
	})
	handler.NewDashboardHandler(svc, zerolog.Nop()).Register(group)
	return app
}

func TestDashboardHandler_UpdateCriteriaRejectsBadSum(t *testing.T) {
	svc := &mockEvaluationService{err: service.ErrWeightsDoNotSum}
	app := newDashboardTestApp(svc)

	req := jsonRequest(t, http.MethodPut, "/api/v1/recruiter/dashboard/criteria", dto.EvaluationCriteriaRequest{
		Technical: 60, Psychometric: 30, SoftSkill: 20, Fairplay: 10,
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var response struct {
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "criteria weights must sum to 100", response.Message)
}

func TestDashboardHandler_ListCandidates(t *testing.T) {
	svc := &mockEvaluationService{roster: []dto.CandidateOverviewResponse{{CandidateID: 1, Email: "jo@example.com"}}}
	app := newDashboardTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/recruiter/dashboard/candidates", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(3), svc.recruiterID)

	var response struct {
		Data []dto.CandidateOverviewResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Len(t, response.Data, 1)
	require.Equal(t, "jo@example.com", response.Data[0].Email)
}

func TestDashboardHandler_CandidateReportNotFound(t *testing.T) {
	svc := &mockEvaluationService{err: service.ErrCandidateNotFound}
	app := newDashboardTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/recruiter/dashboard/candidates/42/report", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.Equal(t, uint(42), svc.candidateID)
}

func TestDashboardHandler_CandidateReportRejectsBadID(t *testing.T) {
	svc := &mockEvaluationService{}
	app := newDashboardTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/recruiter/dashboard/candidates/abc/report", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDashboardHandler_GenerateRationale(t *testing.T) {
	svc := &mockEvaluationService{rationale: dto.RationaleResponse{CandidateID: 9, Provider: "openai"}}
	app := newDashboardTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/recruiter/dashboard/candidates/9/rationale", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.RationaleResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "openai", response.Data.Provider)
}
