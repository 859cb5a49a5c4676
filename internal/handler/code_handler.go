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

// CodeHandler runs candidate code inside the sandbox.
type CodeHandler struct {
	service service.CodeExecutionService
	logger  zerolog.Logger
}

// NewCodeHandler builds a code execution handler instance.
func NewCodeHandler(service service.CodeExecutionService, logger zerolog.Logger) *CodeHandler {
	return &CodeHandler{
		service: service,
		logger:  logger.With().Str("component", "code_handler").Logger(),
	}
}

// Register attaches the code execution route.
func (h *CodeHandler) Register(router fiber.Router) {
	router.Post("/execute", h.execute)
}

func (h *CodeHandler) execute(c *fiber.Ctx) error {
	var payload dto.CodeExecutionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Execute(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "code executed", result)
}

func (h *CodeHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrUnsupportedLanguage):
		return utils.SendError(c, fiber.StatusBadRequest, "unsupported language")
	case errors.Is(err, service.ErrExecutorUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "code execution is not available")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
