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

// PsychometricHandler manages the personality round endpoints.
type PsychometricHandler struct {
	service service.PsychometricService
	logger  zerolog.Logger
}

// NewPsychometricHandler builds a psychometric handler instance.
func NewPsychometricHandler(service service.PsychometricService, logger zerolog.Logger) *PsychometricHandler {
	return &PsychometricHandler{
		service: service,
		logger:  logger.With().Str("component", "psychometric_handler").Logger(),
	}
}

// Register attaches the candidate-facing psychometric routes.
func (h *PsychometricHandler) Register(router fiber.Router) {
	router.Get("/start", h.start)
	router.Post("/submit", h.submit)
	router.Get("/result", h.result)
}

// RegisterConfig attaches the recruiter-facing test configuration route.
func (h *PsychometricHandler) RegisterConfig(router fiber.Router) {
	router.Put("/psychometric/config", h.updateConfig)
}

func (h *PsychometricHandler) start(c *fiber.Ctx) error {
	test, err := h.service.StartTest(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "test started", test)
}

func (h *PsychometricHandler) submit(c *fiber.Ctx) error {
	var payload dto.PsychometricSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.SubmitTest(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "test submitted", result)
}

func (h *PsychometricHandler) result(c *fiber.Ctx) error {
	result, err := h.service.GetResult(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "result retrieved", result)
}

func (h *PsychometricHandler) updateConfig(c *fiber.Ctx) error {
	var payload dto.PsychometricConfigRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	config, err := h.service.UpdateConfig(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "test configuration updated", config)
}

func (h *PsychometricHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrRoundAlreadyCompleted):
		return utils.SendError(c, fiber.StatusBadRequest, "test already completed")
	case errors.Is(err, service.ErrUnknownAnswer):
		return utils.SendError(c, fiber.StatusBadRequest, "answer references unknown question")
	case errors.Is(err, service.ErrNoActiveTestConfig):
		return utils.SendError(c, fiber.StatusNotFound, "no active test configuration")
	case errors.Is(err, service.ErrResultNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "result not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
