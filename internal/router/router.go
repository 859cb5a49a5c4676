package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/talentgate-labs/talentgate-api/internal/config"
	"github.com/talentgate-labs/talentgate-api/internal/handler"
	"github.com/talentgate-labs/talentgate-api/internal/middleware"
	"github.com/talentgate-labs/talentgate-api/internal/observability"
)

// Dependencies carries the handlers wired into the route tree. Handlers left
// nil are skipped so tests can register only the slice they exercise.
type Dependencies struct {
	Auth          *handler.AuthHandler
	MCQ           *handler.MCQHandler
	Text          *handler.TextHandler
	Psychometric  *handler.PsychometricHandler
	Proctor       *handler.ProctorHandler
	Dashboard     *handler.DashboardHandler
	Roster        *handler.RosterHandler
	Code          *handler.CodeHandler
	Resume        *handler.ResumeHandler
	JWTMiddleware fiber.Handler
}

// Register mounts every route group on the app.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	api.Get("/health", handler.HealthCheck(cfg))

	jwt := deps.JWTMiddleware
	if jwt == nil {
		jwt = middleware.JWTProtected(cfg.JWTSecret)
	}

	if deps.Auth != nil {
		deps.Auth.Register(api.Group("/auth"))
		deps.Auth.RegisterVerify(api.Group("/auth", jwt))
	}

	candidateOnly := middleware.RequireRole(middleware.RoleCandidate)

	if deps.MCQ != nil {
		deps.MCQ.Register(api.Group("/mcq", jwt, candidateOnly))
	}
	if deps.Text != nil {
		deps.Text.Register(api.Group("/text", jwt, candidateOnly))
	}
	if deps.Psychometric != nil {
		deps.Psychometric.Register(api.Group("/psychometric", jwt, candidateOnly))
	}
	if deps.Proctor != nil {
		deps.Proctor.Register(api.Group("/proctor", jwt, candidateOnly))
	}
	if deps.Resume != nil {
		deps.Resume.Register(api.Group("/candidate", jwt, candidateOnly))
	}
	if deps.Code != nil {
		code := api.Group("/code", jwt, candidateOnly)
		code.Use(middleware.RateLimit("code-execute", 10, time.Minute))
		deps.Code.Register(code)
	}

	recruiter := api.Group("/recruiter", jwt, middleware.RequireRole(middleware.RoleRecruiter))

	if deps.Dashboard != nil {
		deps.Dashboard.Register(recruiter.Group("/dashboard"))
	}
	if deps.Roster != nil {
		deps.Roster.Register(recruiter)
	}
	if deps.Proctor != nil {
		deps.Proctor.RegisterRecruiter(recruiter)
	}
	if deps.Psychometric != nil {
		deps.Psychometric.RegisterConfig(recruiter)
	}
}
