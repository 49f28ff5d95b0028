package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/huntclub/hunt-api/internal/domain"
	"github.com/huntclub/hunt-api/internal/handler"
	"github.com/huntclub/hunt-api/internal/repository"
	"github.com/huntclub/hunt-api/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
	// Notifier receives successful redemptions; nil disables notifications.
	Notifier           service.Notifier
	CORSAllowedOrigins string
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	logger := deps.Logger

	// Repositories
	playerRepo := repository.NewPlayerRepository()
	teamRepo := repository.NewTeamRepository()
	codeRepo := repository.NewCodeRepository()
	attemptRepo := repository.NewAttemptRepository()
	leaderboardRepo := repository.NewLeaderboardRepository()

	// Services
	redemptionSvc := service.NewRedemptionService(pool, playerRepo, teamRepo, codeRepo, attemptRepo, deps.Notifier, logger)
	leaderboardSvc := service.NewLeaderboardService(pool, leaderboardRepo, logger)

	// Handlers
	redeemHandler := handler.NewRedeemHandler(redemptionSvc, logger)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardSvc, logger)

	origins := deps.CORSAllowedOrigins
	if origins == "" {
		origins = "*"
	}

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORSWithOrigins(origins))
	r.Use(handler.JSONContentType)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handler.RespondError(w, domain.ErrNotFound("route", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handler.RespondJSON(w, http.StatusMethodNotAllowed, map[string]string{
			"code":    "METHOD_NOT_ALLOWED",
			"message": r.Method + " not allowed on " + r.URL.Path,
		})
	})

	// Health
	r.Get("/health", handler.Liveness)
	r.Get("/health/ready", handler.HealthHandler(pool, logger))

	// Leaderboard
	r.Get("/", leaderboardHandler.Get)
	r.Get("/teams", leaderboardHandler.Get)

	// Redemption
	r.Route("/redeem", func(r chi.Router) {
		r.Post("/gift", redeemHandler.Gift)
		r.Post("/enigma", redeemHandler.Enigma)
	})

	return r
}
