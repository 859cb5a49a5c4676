package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/talentgate-labs/talentgate-api/internal/service"
	"github.com/talentgate-labs/talentgate-api/internal/utils"
)

// ResumeHandler manages candidate resume uploads.
type ResumeHandler struct {
	service service.ResumeService
	logger  zerolog.Logger
}

// NewResumeHandler builds a resume handler instance.
func NewResumeHandler(service service.ResumeService, logger zerolog.Logger) *ResumeHandler {
	return &ResumeHandler{
		service: service,
		logger:  logger.With().Str("component", "resume_handler").Logger(),
	}
}

// Register attaches the resume routes.
func (h *ResumeHandler) Register(router fiber.Router) {
	router.Post("/resume", h.upload)
	router.Get("/resume", h.get)
	router.Delete("/resume", h.delete)
}

func (h *ResumeHandler) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	resume, err := h.service.Upload(c.Context(), userIDFromContext(c), file)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "resume uploaded", resume)
}

func (h *ResumeHandler) get(c *fiber.Ctx) error {
	resume, err := h.service.Get(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "resume retrieved", resume)
}

func (h *ResumeHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), userIDFromContext(c)); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "resume removed", nil)
}

func (h *ResumeHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrResumeTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "resume exceeds the size limit")
	case errors.Is(err, service.ErrResumeTypeNotAllowed):
		return utils.SendError(c, fiber.StatusBadRequest, "resume must be a pdf or word document")
	case errors.Is(err, service.ErrNoResume):
		return utils.SendError(c, fiber.StatusNotFound, "no resume on file")
	case errors.Is(err, service.ErrStorageUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "resume storage is not configured")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
