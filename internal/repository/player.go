package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/huntclub/hunt-api/internal/domain"
	"github.com/jackc/pgx/v5"
)

type playerRepo struct{}

// NewPlayerRepository returns a pgx-backed PlayerRepository.
func NewPlayerRepository() PlayerRepository {
	return &playerRepo{}
}

func (r *playerRepo) FindAssignedByEmail(ctx context.Context, db DBTX, email string) (*domain.Player, error) {
	var p domain.Player
	err := db.QueryRow(ctx, `
		SELECT email, first_name, last_name, semester, team_name
		FROM players WHERE team_name IS NOT NULL AND email = $1`, email).
		Scan(&p.Email, &p.Name.First, &p.Name.Last, &p.Semester, &p.Team)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan player: %w", err)
	}
	return &p, nil
}

type teamRepo struct{}

// NewTeamRepository returns a pgx-backed TeamRepository.
func NewTeamRepository() TeamRepository {
	return &teamRepo{}
}

func (r *teamRepo) FindByName(ctx context.Context, db DBTX, name string) (*domain.Team, error) {
	var t domain.Team
	err := db.QueryRow(ctx, `SELECT name FROM teams WHERE name = $1`, name).Scan(&t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan team: %w", err)
	}
	return &t, nil
}
