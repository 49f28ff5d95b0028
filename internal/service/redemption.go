package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/huntclub/hunt-api/internal/domain"
	"github.com/huntclub/hunt-api/internal/repository"
	"github.com/jackc/pgx/v5"
)

// DB is the subset of *pgxpool.Pool the services need.
type DB interface {
	repository.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Notifier receives successful redemptions. Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, r domain.Redemption)
}

// RedemptionService claims gifts and enigmas for teams.
type RedemptionService struct {
	db       DB
	players  repository.PlayerRepository
	teams    repository.TeamRepository
	codes    repository.CodeRepository
	attempts repository.AttemptRepository
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewRedemptionService creates a RedemptionService. notifier may be nil.
func NewRedemptionService(
	db DB,
	players repository.PlayerRepository,
	teams repository.TeamRepository,
	codes repository.CodeRepository,
	attempts repository.AttemptRepository,
	notifier Notifier,
	logger *slog.Logger,
) *RedemptionService {
	return &RedemptionService{
		db:       db,
		players:  players,
		teams:    teams,
		codes:    codes,
		attempts: attempts,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Redeem runs one redemption attempt. The returned error is always a
// *domain.AppError: VALIDATION_ERROR for bad input, INTERNAL_ERROR when the
// store fails. Every other result is an Outcome.
func (s *RedemptionService) Redeem(ctx context.Context, req domain.RedeemRequest) (domain.Outcome, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	player, err := s.players.FindAssignedByEmail(ctx, s.db, req.Email)
	if err != nil {
		return 0, domain.ErrInternal("find player", err)
	}
	if player == nil {
		return domain.OutcomePlayerNotExisting, nil
	}

	team, err := s.teams.FindByName(ctx, s.db, req.RecipientTeam)
	if err != nil {
		return 0, domain.ErrInternal("find team", err)
	}
	if team == nil {
		return domain.OutcomeTeamNotExisting, nil
	}

	now := s.now()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	code, outcome, err := s.claim(ctx, tx, req, now)
	if err != nil {
		return 0, err
	}

	if err := s.attempts.Insert(ctx, tx, req.Attempt(outcome, now)); err != nil {
		return 0, domain.ErrInternal("record attempt", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("redemption",
		"kind", req.Kind.String(),
		"code", req.Code,
		"team", req.RecipientTeam,
		"email", req.Email,
		"status", outcome.String(),
	)

	if outcome == domain.OutcomeOK && s.notifier != nil {
		s.notifier.Notify(ctx, domain.Redemption{
			Kind:        req.Kind,
			Player:      player.Name,
			Email:       player.Email,
			Team:        team.Name,
			Code:        code.Code,
			Description: code.Description,
			Answer:      req.Answer,
			Points:      code.Points,
			RedeemedAt:  now,
		})
	}

	return outcome, nil
}

// claim decides the outcome inside tx. The conditional update is the only
// thing that can turn a code into OK; the prior read merely short-circuits.
func (s *RedemptionService) claim(ctx context.Context, tx pgx.Tx, req domain.RedeemRequest, now time.Time) (*domain.Code, domain.Outcome, error) {
	code, err := s.codes.FindByCode(ctx, tx, req.Kind, req.Code)
	if err != nil {
		return nil, 0, domain.ErrInternal("find code", err)
	}
	if code == nil {
		return nil, domain.OutcomeNotFound, nil
	}
	if req.Kind == domain.KindEnigma && !code.AnswerMatches(req.Answer) {
		return code, domain.OutcomeBadAnswer, nil
	}
	if code.Claimed() {
		return code, domain.OutcomeUsed, nil
	}

	claimed, err := s.codes.Claim(ctx, tx, req.Kind, req.Code, req.RecipientTeam, req.Email, now)
	if err != nil {
		return nil, 0, domain.ErrInternal("claim code", err)
	}
	if !claimed {
		return code, domain.OutcomeUsed, nil
	}
	return code, domain.OutcomeOK, nil
}
