package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	"github.com/talentgate-labs/talentgate-api/internal/handler"
	"github.com/talentgate-labs/talentgate-api/internal/service"
)

type mockProctorService struct {
	session     dto.ProctorSessionResponse
	violation   dto.ProctorViolationResponse
	summary     dto.ProctorSessionSummaryResponse
	candidateID uint
	sessionUUID string
	err         error
}

func (m *mockProctorService) StartSession(_ context.Context, candidateID uint, payload dto.ProctorSessionStartRequest) (dto.ProctorSessionResponse, error) {
	m.candidateID = candidateID
	if m.err != nil {
		return dto.ProctorSessionResponse{}, m.err
	}
	return m.session, nil
}

func (m *mockProctorService) EndSession(_ context.Context, candidateID uint, sessionUUID string, payload dto.ProctorSessionEndRequest) (dto.ProctorSessionResponse, error) {
	m.candidateID = candidateID
	m.sessionUUID = sessionUUID
	if m.err != nil {
		return dto.ProctorSessionResponse{}, m.err
	}
	return m.session, nil
}

func (m *mockProctorService) ReportViolation(_ context.Context, candidateID uint, payload dto.ProctorViolationRequest) (dto.ProctorViolationResponse, error) {
	m.candidateID = candidateID
	if m.err != nil {
		return dto.ProctorViolationResponse{}, m.err
	}
	return m.violation, nil
}

func (m *mockProctorService) SessionSummary(_ context.Context, sessionUUID string) (dto.ProctorSessionSummaryResponse, error) {
	m.sessionUUID = sessionUUID
	if m.err != nil {
		return dto.ProctorSessionSummaryResponse{}, m.err
	}
	return m.summary, nil
}

func (m *mockProctorService) ListCandidateSessions(_ context.Context, candidateID uint) ([]dto.ProctorSessionResponse, error) {
	m.candidateID = candidateID
	return nil, m.err
}

type noopFeed struct{}

func (noopFeed) ServeConnection(conn *websocket.Conn, opts service.FeedConnectionOptions) {}
func (noopFeed) Publish(ctx context.Context, event dto.ProctorFeedEvent)                 {}
func (noopFeed) Start(ctx context.Context)                                               {}

func newProctorTestApp(svc service.ProctorService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/proctor", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(7))
		return c.Next()
	})
	handler.NewProctorHandler(svc, noopFeed{}, zerolog.Nop()).Register(group)
	return app
}

func TestProctorHandler_StartSessionCreated(t *testing.T) {
	svc := &mockProctorService{session: dto.ProctorSessionResponse{SessionUUID: "abc", Status: "active"}}
	app := newProctorTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/proctor/sessions", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, uint(7), svc.candidateID)

	var response struct {
		Data dto.ProctorSessionResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "active", response.Data.Status)
}

func TestProctorHandler_ReportViolation(t *testing.T) {
	svc := &mockProctorService{violation: dto.ProctorViolationResponse{ViolationType: "no_face", Severity: "high"}}
	app := newProctorTestApp(svc)

	req := jsonRequest(t, http.MethodPost, "/api/v1/proctor/violations", dto.ProctorViolationRequest{
		SessionUUID:   "11111111-2222-4333-8444-555555555555",
		ViolationType: "no_face",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Data dto.ProctorViolationResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "high", response.Data.Severity)
}

func TestProctorHandler_EndForeignSessionForbidden(t *testing.T) {
	svc := &mockProctorService{err: service.ErrSessionForbidden}
	app := newProctorTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/proctor/sessions/some-uuid/end", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Equal(t, "some-uuid", svc.sessionUUID)
}

func TestProctorHandler_RecruiterSummary(t *testing.T) {
	svc := &mockProctorService{summary: dto.ProctorSessionSummaryResponse{TotalViolations: 2, FairplayScore: 80, RiskTier: "medium"}}
	app := fiber.New()
	group := app.Group("/api/v1/recruiter", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(3))
		return c.Next()
	})
	handler.NewProctorHandler(svc, noopFeed{}, zerolog.Nop()).RegisterRecruiter(group)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/recruiter/proctor/sessions/abc", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.ProctorSessionSummaryResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "medium", response.Data.RiskTier)
	require.Equal(t, 80, response.Data.FairplayScore)
}

func TestProctorHandler_FeedRequiresUpgrade(t *testing.T) {
	svc := &mockProctorService{}
	app := fiber.New()
	handler.NewProctorHandler(svc, noopFeed{}, zerolog.Nop()).RegisterRecruiter(app.Group("/api/v1/recruiter"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/recruiter/proctor/feed/ws", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
