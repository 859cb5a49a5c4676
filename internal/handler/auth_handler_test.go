package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
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

type mockAuthService struct {
	lastPayload dto.LoginRequest
	response    dto.TokenResponse
	err         error
}

func (m *mockAuthService) CandidateLogin(_ context.Context, payload dto.LoginRequest) (dto.TokenResponse, error) {
	m.lastPayload = payload
	if m.err != nil {
		return dto.TokenResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockAuthService) RecruiterLogin(_ context.Context, payload dto.LoginRequest) (dto.TokenResponse, error) {
	m.lastPayload = payload
	if m.err != nil {
		return dto.TokenResponse{}, m.err
	}
	return m.response, nil
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(body, target))
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandler_CandidateLoginSuccess(t *testing.T) {
	svc := &mockAuthService{response: dto.TokenResponse{Token: "jwt-token", TokenType: "Bearer", ExpiresIn: 3600}}
	app := fiber.New()
	handler.NewAuthHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/auth"))

	req := jsonRequest(t, http.MethodPost, "/api/v1/auth/candidate/login", dto.LoginRequest{Email: "jo@example.com", Password: "secret123"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool              `json:"success"`
		Data    dto.TokenResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Equal(t, "jwt-token", response.Data.Token)
	require.Equal(t, "jo@example.com", svc.lastPayload.Email)
}

func TestAuthHandler_LoginInvalidCredentials(t *testing.T) {
	svc := &mockAuthService{err: service.ErrInvalidCredentials}
	app := fiber.New()
	handler.NewAuthHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/auth"))

	req := jsonRequest(t, http.MethodPost, "/api/v1/auth/recruiter/login", dto.LoginRequest{Email: "hr@example.com", Password: "wrong"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &response)
	require.False(t, response.Success)
	require.Equal(t, "invalid email or password", response.Message)
}

func TestAuthHandler_VerifyReportsIdentity(t *testing.T) {
	svc := &mockAuthService{}
	app := fiber.New()
	group := app.Group("/api/v1/auth", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(7))
		c.Locals("user_email", "jo@example.com")
		c.Locals("user_role", "candidate")
		return c.Next()
	})
	handler.NewAuthHandler(svc, zerolog.Nop()).RegisterVerify(group)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/auth/verify", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.IdentityResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, uint(7), response.Data.UserID)
	require.Equal(t, "candidate", response.Data.Type)
}
