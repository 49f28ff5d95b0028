package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/huntclub/hunt-api/internal/domain"
)

// LeaderboardBuilder is implemented by service.LeaderboardService.
type LeaderboardBuilder interface {
	Build(ctx context.Context) (*domain.Leaderboard, error)
}

// LeaderboardHandler serves the public scoreboard.
type LeaderboardHandler struct {
	svc    LeaderboardBuilder
	logger *slog.Logger
}

func NewLeaderboardHandler(svc LeaderboardBuilder, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{svc: svc, logger: logger}
}

// Get handles GET / and GET /teams.
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.Build(r.Context())
	if err != nil {
		RespondServiceError(w, r, h.logger, err)
		return
	}
	RespondJSON(w, http.StatusOK, board)
}
