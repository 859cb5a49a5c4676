package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	"github.com/talentgate-labs/talentgate-api/internal/service"
	"github.com/talentgate-labs/talentgate-api/internal/utils"
)

// RosterHandler manages candidate provisioning and bulk uploads.
type RosterHandler struct {
	service service.RosterService
	logger  zerolog.Logger
}

// NewRosterHandler builds a roster handler instance.
func NewRosterHandler(service service.RosterService, logger zerolog.Logger) *RosterHandler {
	return &RosterHandler{
		service: service,
		logger:  logger.With().Str("component", "roster_handler").Logger(),
	}
}

// Register attaches the roster routes. The group must carry recruiter
// authentication.
func (h *RosterHandler) Register(router fiber.Router) {
	router.Post("/candidates", h.createCandidate)
	router.Post("/candidates/bulk", h.bulkUploadCandidates)
	router.Post("/questions/mcq/bulk", h.bulkUploadMCQ)
	router.Post("/questions/text/bulk", h.bulkUploadText)
}

func (h *RosterHandler) createCandidate(c *fiber.Ctx) error {
	var payload dto.CandidateCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	candidate, err := h.service.CreateCandidate(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "candidate created", fiber.Map{
		"candidate_id": candidate.ID,
		"email":        candidate.Email,
	})
}

func (h *RosterHandler) bulkUploadCandidates(c *fiber.Ctx) error {
	return h.bulkUpload(c, h.service.BulkUploadCandidates, "candidate bulk upload processed")
}

func (h *RosterHandler) bulkUploadMCQ(c *fiber.Ctx) error {
	return h.bulkUpload(c, h.service.BulkUploadMCQQuestions, "mcq question bank replaced")
}

func (h *RosterHandler) bulkUploadText(c *fiber.Ctx) error {
	return h.bulkUpload(c, h.service.BulkUploadTextQuestions, "text question bank replaced")
}

func (h *RosterHandler) bulkUpload(c *fiber.Ctx, upload service.BulkUploadFunc, message string) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "unable to read uploaded file")
	}
	defer file.Close()

	result, err := upload(c.Context(), fileHeader.Filename, file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, message, result)
}

func (h *RosterHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrUnsupportedUploadFormat):
		return utils.SendError(c, fiber.StatusBadRequest, "upload must be a .csv or .xlsx file")
	case errors.Is(err, service.ErrEmptyUpload):
		return utils.SendError(c, fiber.StatusBadRequest, "upload contains no valid data rows")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
