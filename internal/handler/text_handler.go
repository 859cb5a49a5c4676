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

// TextHandler manages the written assessment round endpoints.
type TextHandler struct {
	service service.TextService
	logger  zerolog.Logger
}

// NewTextHandler builds a text round handler instance.
func NewTextHandler(service service.TextService, logger zerolog.Logger) *TextHandler {
	return &TextHandler{
		service: service,
		logger:  logger.With().Str("component", "text_handler").Logger(),
	}
}

// Register attaches the candidate-facing text round routes.
func (h *TextHandler) Register(router fiber.Router) {
	router.Get("/questions", h.listQuestions)
	router.Post("/submit", h.submit)
	router.Post("/complete", h.complete)
	router.Get("/answers", h.listAnswers)
	router.Get("/result", h.result)
}

func (h *TextHandler) listQuestions(c *fiber.Ctx) error {
	questions, err := h.service.ListQuestions(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "questions retrieved", questions)
}

func (h *TextHandler) submit(c *fiber.Ctx) error {
	var payload dto.TextSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	answer, err := h.service.Submit(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "answer recorded", answer)
}

func (h *TextHandler) complete(c *fiber.Ctx) error {
	result, err := h.service.CompleteRound(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "round completed", result)
}

func (h *TextHandler) listAnswers(c *fiber.Ctx) error {
	answers, err := h.service.ListAnswers(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "answers retrieved", answers)
}

func (h *TextHandler) result(c *fiber.Ctx) error {
	result, err := h.service.GetResult(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "result retrieved", result)
}

func (h *TextHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "question not found")
	case errors.Is(err, service.ErrAnswerTooLong):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRoundAlreadyCompleted):
		return utils.SendError(c, fiber.StatusBadRequest, "round already completed")
	case errors.Is(err, service.ErrResultNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "result not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
