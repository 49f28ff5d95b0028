package repository

import (
	"context"
	"time"

	"github.com/huntclub/hunt-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// PlayerRepository provides access to players.
type PlayerRepository interface {
	// FindAssignedByEmail returns the player only if they belong to a team.
	// Returns nil, nil when no such player exists.
	FindAssignedByEmail(ctx context.Context, db DBTX, email string) (*domain.Player, error)
}

// TeamRepository provides access to teams.
type TeamRepository interface {
	// FindByName returns nil, nil when the team does not exist.
	FindByName(ctx context.Context, db DBTX, name string) (*domain.Team, error)
}

// CodeRepository provides access to gifts and enigmas.
type CodeRepository interface {
	// FindByCode returns nil, nil when the code does not exist.
	FindByCode(ctx context.Context, db DBTX, kind domain.CodeKind, code string) (*domain.Code, error)

	// Claim sets team, player and date on the code only while it is still
	// unclaimed. It reports false when the row was already claimed at write time.
	Claim(ctx context.Context, db DBTX, kind domain.CodeKind, code, team, email string, at time.Time) (bool, error)
}

// AttemptRepository appends to gift_attempts and enigma_attempts.
type AttemptRepository interface {
	Insert(ctx context.Context, db DBTX, attempt domain.Attempt) error
}

// LeaderboardRepository runs the read-only aggregation queries.
type LeaderboardRepository interface {
	// TeamTotals returns every team with the sum of its four point sources,
	// highest first.
	TeamTotals(ctx context.Context, db DBTX) ([]domain.TeamTotal, error)

	// Players returns players with a team, by semester then last name.
	Players(ctx context.Context, db DBTX) ([]domain.RosterPlayer, error)

	// ClaimedGifts returns claimed gifts, most recent first.
	ClaimedGifts(ctx context.Context, db DBTX) ([]domain.ClaimedGift, error)

	// ClaimedEnigmas returns solved enigmas, most recent first.
	ClaimedEnigmas(ctx context.Context, db DBTX) ([]domain.ClaimedEnigma, error)

	// ActivityResults returns all activity results, most recent first.
	ActivityResults(ctx context.Context, db DBTX) ([]domain.ActivityResult, error)

	Benefactors(ctx context.Context, db DBTX) ([]domain.Benefactor, error)

	// AvailableCodes counts unclaimed gifts and enigmas.
	AvailableCodes(ctx context.Context, db DBTX) (gifts, enigmas int, err error)
}
