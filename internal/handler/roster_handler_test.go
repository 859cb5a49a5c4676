package handler_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	"github.com/talentgate-labs/talentgate-api/internal/handler"
	"github.com/talentgate-labs/talentgate-api/internal/models"
	"github.com/talentgate-labs/talentgate-api/internal/service"
)

type mockRosterService struct {
	lastFilename string
	lastContent  string
	result       dto.BulkUploadResult
	candidate    models.Candidate
	err          error
}

func (m *mockRosterService) CreateCandidate(_ context.Context, payload dto.CandidateCreateRequest) (models.Candidate, error) {
	if m.err != nil {
		return models.Candidate{}, m.err
	}
	return m.candidate, nil
}

func (m *mockRosterService) BulkUploadCandidates(_ context.Context, filename string, file io.Reader) (dto.BulkUploadResult, error) {
	return m.capture(filename, file)
}

func (m *mockRosterService) BulkUploadMCQQuestions(_ context.Context, filename string, file io.Reader) (dto.BulkUploadResult, error) {
	return m.capture(filename, file)
}

func (m *mockRosterService) BulkUploadTextQuestions(_ context.Context, filename string, file io.Reader) (dto.BulkUploadResult, error) {
	return m.capture(filename, file)
}

func (m *mockRosterService) capture(filename string, file io.Reader) (dto.BulkUploadResult, error) {
	m.lastFilename = filename
	content, err := io.ReadAll(file)
	if err != nil {
		return dto.BulkUploadResult{}, err
	}
	m.lastContent = string(content)
	if m.err != nil {
		return dto.BulkUploadResult{}, m.err
	}
	return m.result, nil
}

func newRosterTestApp(svc service.RosterService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/recruiter", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(3))
		return c.Next()
	})
	handler.NewRosterHandler(svc, zerolog.Nop()).Register(group)
	return app
}

func multipartUpload(t *testing.T, target, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestRosterHandler_BulkUploadCandidates(t *testing.T) {
	svc := &mockRosterService{result: dto.BulkUploadResult{Total: 2, Created: 2, Errors: []dto.BulkRowError{}}}
	app := newRosterTestApp(svc)

	req := multipartUpload(t, "/api/v1/recruiter/candidates/bulk", "candidates.csv", "email,password\njo@example.com,secret123\n")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "candidates.csv", svc.lastFilename)
	require.Contains(t, svc.lastContent, "jo@example.com")

	var response struct {
		Data dto.BulkUploadResult `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, 2, response.Data.Created)
}

func TestRosterHandler_BulkUploadRequiresFile(t *testing.T) {
	svc := &mockRosterService{}
	app := newRosterTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/recruiter/questions/mcq/bulk", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRosterHandler_BulkUploadUnsupportedFormat(t *testing.T) {
	svc := &mockRosterService{err: service.ErrUnsupportedUploadFormat}
	app := newRosterTestApp(svc)

	req := multipartUpload(t, "/api/v1/recruiter/questions/text/bulk", "questions.pdf", "nope")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var response struct {
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "upload must be a .csv or .xlsx file", response.Message)
}

func TestRosterHandler_CreateCandidate(t *testing.T) {
	svc := &mockRosterService{candidate: models.Candidate{ID: 11, Email: "jo@example.com"}}
	app := newRosterTestApp(svc)

	req := jsonRequest(t, http.MethodPost, "/api/v1/recruiter/candidates", dto.CandidateCreateRequest{Email: "jo@example.com", Password: "secret123"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Data map[string]interface{} `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.EqualValues(t, 11, response.Data["candidate_id"])
}
