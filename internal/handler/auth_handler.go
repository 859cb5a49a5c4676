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

// AuthHandler exposes candidate and recruiter login endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler builds an auth handler instance.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the public login routes to the provided router group.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/candidate/login", h.candidateLogin)
	router.Post("/recruiter/login", h.recruiterLogin)
}

// RegisterVerify attaches the token introspection route. The group must carry
// the JWT middleware.
func (h *AuthHandler) RegisterVerify(router fiber.Router) {
	router.Get("/verify", h.verify)
}

func (h *AuthHandler) candidateLogin(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	token, err := h.service.CandidateLogin(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "login successful", token)
}

func (h *AuthHandler) recruiterLogin(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	token, err := h.service.RecruiterLogin(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "login successful", token)
}

func (h *AuthHandler) verify(c *fiber.Ctx) error {
	identity := dto.IdentityResponse{
		UserID: userIDFromContext(c),
		Email:  userEmailFromContext(c),
		Type:   userRoleFromContext(c),
	}
	return utils.SendSuccess(c, "token valid", identity)
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid email or password")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
