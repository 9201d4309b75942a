package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/fixture-engine/handlers"
	"github.com/Dosada05/fixture-engine/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

type Options struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func SetupRoutes(
	router chi.Router,
	competitionHandler *handlers.CompetitionHandler,
	healthHandler *handlers.HealthHandler,
	opts Options,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.Timeout(30 * time.Second))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", healthHandler.Healthz)
	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	router.Route("/competitions", func(r chi.Router) {
		r.Post("/", competitionHandler.CreateCompetition)

		r.Route("/{competitionID}", func(r chi.Router) {
			r.Get("/", competitionHandler.GetCompetition)

			r.Post("/teams", competitionHandler.AddTeam)
			r.Delete("/teams/{teamID}", competitionHandler.RemoveTeam)

			r.Post("/schedule", competitionHandler.GenerateSchedule)
			r.Get("/schedule.xlsx", competitionHandler.ExportSchedule)
			r.Post("/activate", competitionHandler.ActivateCompetition)

			r.Post("/rounds/{roundNumber}/advance", competitionHandler.AdvanceRound)
		})
	})
}
