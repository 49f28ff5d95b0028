package service

import (
	"context"
	"log/slog"

	"github.com/huntclub/hunt-api/internal/domain"
	"github.com/huntclub/hunt-api/internal/repository"
	"github.com/jackc/pgx/v5"
)

// LeaderboardService assembles the public scoreboard.
type LeaderboardService struct {
	db     DB
	repo   repository.LeaderboardRepository
	logger *slog.Logger
}

// NewLeaderboardService creates a LeaderboardService.
func NewLeaderboardService(db DB, repo repository.LeaderboardRepository, logger *slog.Logger) *LeaderboardService {
	return &LeaderboardService{db: db, repo: repo, logger: logger}
}

// Build reads every source inside one read-only snapshot and joins the rows
// onto their teams in memory. Any read failure fails the whole build.
func (s *LeaderboardService) Build(ctx context.Context) (*domain.Leaderboard, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, domain.ErrInternal("begin snapshot", err)
	}
	defer tx.Rollback(ctx)

	totals, err := s.repo.TeamTotals(ctx, tx)
	if err != nil {
		return nil, domain.ErrInternal("team totals", err)
	}
	board := domain.NewTeamBoard()
	for _, t := range totals {
		board.Add(t.Name, t.Points)
	}

	players, err := s.repo.Players(ctx, tx)
	if err != nil {
		return nil, domain.ErrInternal("players", err)
	}
	for _, p := range players {
		if v := s.team(board, p.TeamName, "player"); v != nil {
			v.Players = append(v.Players, p)
		}
	}

	gifts, err := s.repo.ClaimedGifts(ctx, tx)
	if err != nil {
		return nil, domain.ErrInternal("claimed gifts", err)
	}
	for _, g := range gifts {
		if v := s.team(board, g.TeamName, "gift"); v != nil {
			v.Gifts = append(v.Gifts, g)
		}
	}

	enigmas, err := s.repo.ClaimedEnigmas(ctx, tx)
	if err != nil {
		return nil, domain.ErrInternal("claimed enigmas", err)
	}
	for _, e := range enigmas {
		if v := s.team(board, e.TeamName, "enigma"); v != nil {
			v.Enigmas = append(v.Enigmas, e)
		}
	}

	results, err := s.repo.ActivityResults(ctx, tx)
	if err != nil {
		return nil, domain.ErrInternal("activity results", err)
	}
	for _, r := range results {
		if v := s.team(board, r.TeamName, "activity result"); v != nil {
			v.ActivitiesResults = append(v.ActivitiesResults, r)
		}
	}

	benefactors, err := s.repo.Benefactors(ctx, tx)
	if err != nil {
		return nil, domain.ErrInternal("benefactors", err)
	}
	if benefactors == nil {
		benefactors = []domain.Benefactor{}
	}

	availableGifts, availableEnigmas, err := s.repo.AvailableCodes(ctx, tx)
	if err != nil {
		return nil, domain.ErrInternal("available codes", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit snapshot", err)
	}

	return &domain.Leaderboard{
		Teams:                 board,
		Benefactors:           benefactors,
		AvailableGiftsCount:   availableGifts,
		AvailableEnigmasCount: availableEnigmas,
	}, nil
}

func (s *LeaderboardService) team(board *domain.TeamBoard, name, source string) *domain.TeamView {
	v, ok := board.Get(name)
	if !ok {
		s.logger.Warn("row references unknown team", "source", source, "team", name)
		return nil
	}
	return v
}
