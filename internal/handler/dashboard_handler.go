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

// DashboardHandler exposes the recruiter dashboard: evaluation criteria,
// candidate roster, drill-down reports and AI rationales.
type DashboardHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewDashboardHandler builds a dashboard handler instance.
func NewDashboardHandler(service service.EvaluationService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard routes. The group must carry recruiter
// authentication.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/criteria", h.getCriteria)
	router.Put("/criteria", h.updateCriteria)
	router.Delete("/criteria", h.resetCriteria)
	router.Get("/candidates", h.listCandidates)
	router.Get("/candidates/:id/report", h.candidateReport)
	router.Post("/candidates/:id/rationale", h.generateRationale)
}

func (h *DashboardHandler) getCriteria(c *fiber.Ctx) error {
	criteria, err := h.service.GetCriteria(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "criteria retrieved", criteria)
}

func (h *DashboardHandler) updateCriteria(c *fiber.Ctx) error {
	var payload dto.EvaluationCriteriaRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	criteria, err := h.service.UpdateCriteria(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "criteria updated", criteria)
}

func (h *DashboardHandler) resetCriteria(c *fiber.Ctx) error {
	criteria, err := h.service.ResetCriteria(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "criteria reset to defaults", criteria)
}

func (h *DashboardHandler) listCandidates(c *fiber.Ctx) error {
	roster, err := h.service.ListCandidates(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "candidates retrieved", roster)
}

func (h *DashboardHandler) candidateReport(c *fiber.Ctx) error {
	candidateID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid candidate id")
	}

	report, err := h.service.CandidateReport(c.Context(), userIDFromContext(c), candidateID)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "candidate report", report)
}

func (h *DashboardHandler) generateRationale(c *fiber.Ctx) error {
	candidateID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid candidate id")
	}

	var payload dto.RationaleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	rationale, err := h.service.GenerateRationale(c.Context(), userIDFromContext(c), candidateID, payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "rationale generated", rationale)
}

func (h *DashboardHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrWeightsDoNotSum):
		return utils.SendError(c, fiber.StatusBadRequest, "criteria weights must sum to 100")
	case errors.Is(err, service.ErrCandidateNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "candidate not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
