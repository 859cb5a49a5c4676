package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/talentgate-labs/talentgate-api/internal/dto"
	"github.com/talentgate-labs/talentgate-api/internal/middleware"
	"github.com/talentgate-labs/talentgate-api/internal/service"
	"github.com/talentgate-labs/talentgate-api/internal/utils"
)

// ProctorHandler wires proctoring session endpoints plus the live recruiter
// feed websocket.
type ProctorHandler struct {
	service service.ProctorService
	feed    service.ProctorFeedService
	logger  zerolog.Logger
}

// NewProctorHandler builds a proctoring handler instance.
func NewProctorHandler(service service.ProctorService, feed service.ProctorFeedService, logger zerolog.Logger) *ProctorHandler {
	return &ProctorHandler{
		service: service,
		feed:    feed,
		logger:  logger.With().Str("component", "proctor_handler").Logger(),
	}
}

// Register attaches the candidate-facing proctoring routes.
func (h *ProctorHandler) Register(router fiber.Router) {
	router.Post("/sessions", h.startSession)
	router.Get("/sessions", h.listSessions)
	router.Post("/sessions/:uuid/end", h.endSession)
	router.Post("/violations", h.reportViolation)
}

// RegisterRecruiter attaches the recruiter-facing summary and live feed
// routes. The group must carry recruiter authentication.
func (h *ProctorHandler) RegisterRecruiter(router fiber.Router) {
	router.Get("/proctor/sessions/:uuid", h.sessionSummary)

	router.Use("/proctor/feed/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/proctor/feed/ws", websocket.New(h.handleFeedConnection))
}

func (h *ProctorHandler) startSession(c *fiber.Ctx) error {
	var payload dto.ProctorSessionStartRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	session, err := h.service.StartSession(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "session started", session)
}

func (h *ProctorHandler) listSessions(c *fiber.Ctx) error {
	sessions, err := h.service.ListCandidateSessions(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "sessions retrieved", sessions)
}

func (h *ProctorHandler) endSession(c *fiber.Ctx) error {
	sessionUUID := strings.TrimSpace(c.Params("uuid"))
	if sessionUUID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "session uuid required")
	}

	var payload dto.ProctorSessionEndRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	session, err := h.service.EndSession(c.Context(), userIDFromContext(c), sessionUUID, payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "session ended", session)
}

func (h *ProctorHandler) reportViolation(c *fiber.Ctx) error {
	var payload dto.ProctorViolationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	violation, err := h.service.ReportViolation(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "violation recorded", violation)
}

func (h *ProctorHandler) sessionSummary(c *fiber.Ctx) error {
	sessionUUID := strings.TrimSpace(c.Params("uuid"))
	if sessionUUID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "session uuid required")
	}

	summary, err := h.service.SessionSummary(c.Context(), sessionUUID)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "session summary", summary)
}

func (h *ProctorHandler) handleFeedConnection(conn *websocket.Conn) {
	recruiterID := websocketUserID(conn)
	if recruiterID == "" {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusUnauthorized, "user id missing"))
		_ = conn.Close()
		return
	}

	var candidateID uint
	if raw := strings.TrimSpace(conn.Query("candidate_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusBadRequest, "invalid candidate_id"))
			_ = conn.Close()
			return
		}
		candidateID = uint(parsed)
	}

	baseCtx, _ := conn.Locals("request_ctx").(context.Context)

	opts := service.FeedConnectionOptions{
		RecruiterID:   recruiterID,
		CandidateID:   candidateID,
		CorrelationID: websocketString(conn, "correlation_id"),
		Context:       baseCtx,
	}

	h.logger.Info().Str("recruiter_id", recruiterID).Uint("candidate_id", candidateID).Msg("proctor feed connected")
	h.feed.ServeConnection(conn, opts)
	h.logger.Info().Str("recruiter_id", recruiterID).Msg("proctor feed disconnected")
}

func (h *ProctorHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrSessionForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "session belongs to another candidate")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func websocketUserID(conn *websocket.Conn) string {
	if value := conn.Locals("user_id"); value != nil {
		switch v := value.(type) {
		case float64:
			return strconv.FormatUint(uint64(v), 10)
		case uint:
			return strconv.FormatUint(uint64(v), 10)
		case int:
			return strconv.Itoa(v)
		case string:
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func websocketString(conn *websocket.Conn, key string) string {
	if value := conn.Locals(key); value != nil {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}
