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

// MCQHandler manages the multiple-choice round endpoints.
type MCQHandler struct {
	service service.MCQService
	logger  zerolog.Logger
}

// NewMCQHandler builds an MCQ handler instance.
func NewMCQHandler(service service.MCQService, logger zerolog.Logger) *MCQHandler {
	return &MCQHandler{
		service: service,
		logger:  logger.With().Str("component", "mcq_handler").Logger(),
	}
}

// Register attaches the candidate-facing MCQ routes.
func (h *MCQHandler) Register(router fiber.Router) {
	router.Get("/questions", h.listQuestions)
	router.Post("/submit", h.submit)
	router.Post("/submit-batch", h.submitBatch)
	router.Post("/complete", h.complete)
	router.Get("/responses", h.listResponses)
	router.Get("/result", h.result)
}

func (h *MCQHandler) listQuestions(c *fiber.Ctx) error {
	questions, err := h.service.ListQuestions(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "questions retrieved", questions)
}

func (h *MCQHandler) submit(c *fiber.Ctx) error {
	var payload dto.MCQSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Submit(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "answer recorded", response)
}

func (h *MCQHandler) submitBatch(c *fiber.Ctx) error {
	var payload dto.MCQBatchSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	responses, err := h.service.SubmitBatch(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "answers recorded", responses)
}

func (h *MCQHandler) complete(c *fiber.Ctx) error {
	var payload dto.MCQBatchSubmitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	result, err := h.service.CompleteRound(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "round completed", result)
}

func (h *MCQHandler) listResponses(c *fiber.Ctx) error {
	responses, err := h.service.ListResponses(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "responses retrieved", responses)
}

func (h *MCQHandler) result(c *fiber.Ctx) error {
	result, err := h.service.GetResult(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "result retrieved", result)
}

func (h *MCQHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "question not found")
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
