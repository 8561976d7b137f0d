package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/palclaw/engine/internal/api/handlers"
	"github.com/palclaw/engine/internal/api/middleware"
	"github.com/palclaw/engine/internal/services"
)

type RouterDeps struct {
	JWTSecret   []byte
	Auth        services.AuthService
	Deployments services.DeploymentService
	Agents      services.AgentService
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS)
	r.Use(middleware.RateLimit(10, 20))
	r.Use(chimid.Compress(5))

	health := handlers.NewHealthHandler()
	r.Get("/healthz", health.Liveness)
	r.Get("/readyz", health.Readiness)

	authHandler := handlers.NewAuthHandler(deps.Auth)
	deploymentsHandler := handlers.NewDeploymentsHandler(deps.Deployments)
	agentsHandler := handlers.NewAgentsHandler(deps.Agents)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.JWTSecret))

			r.Route("/deployments", func(r chi.Router) {
				r.Get("/", deploymentsHandler.List)
				r.Post("/", deploymentsHandler.Create)
				r.Get("/{id}", deploymentsHandler.Get)
				r.Delete("/{id}", deploymentsHandler.Delete)
			})

			r.Route("/agents", func(r chi.Router) {
				r.Get("/", agentsHandler.List)
				r.Post("/", agentsHandler.Create)
				r.Delete("/{id}", agentsHandler.Delete)
			})
		})
	})

	return r
}
