package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huntclub/hunt-api/internal/domain"
	"github.com/jackc/pgx/v5"
)

// codeTable and attemptTable map a kind to its tables. Table names never come
// from request input.
func codeTable(kind domain.CodeKind) (string, error) {
	switch kind {
	case domain.KindGift:
		return "gifts", nil
	case domain.KindEnigma:
		return "enigmas", nil
	default:
		return "", fmt.Errorf("unknown code kind %d", int(kind))
	}
}

func attemptTable(kind domain.CodeKind) (string, error) {
	switch kind {
	case domain.KindGift:
		return "gift_attempts", nil
	case domain.KindEnigma:
		return "enigma_attempts", nil
	default:
		return "", fmt.Errorf("unknown code kind %d", int(kind))
	}
}

type codeRepo struct{}

// NewCodeRepository returns a pgx-backed CodeRepository.
func NewCodeRepository() CodeRepository {
	return &codeRepo{}
}

func (r *codeRepo) FindByCode(ctx context.Context, db DBTX, kind domain.CodeKind, code string) (*domain.Code, error) {
	var query string
	switch kind {
	case domain.KindGift:
		query = `
			SELECT code, description, points, '' AS answer, team_name, player_email, redeem_date
			FROM gifts WHERE code = $1`
	case domain.KindEnigma:
		query = `
			SELECT code, description, points, answer, team_name, player_email, redeem_date
			FROM enigmas WHERE code = $1`
	default:
		return nil, fmt.Errorf("unknown code kind %d", int(kind))
	}

	c := domain.Code{Kind: kind}
	err := db.QueryRow(ctx, query, code).Scan(
		&c.Code, &c.Description, &c.Points, &c.Answer, &c.TeamName, &c.PlayerEmail, &c.RedeemDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan %s: %w", kind, err)
	}
	return &c, nil
}

// Claim is a compare-and-set on team_name. Under READ COMMITTED a second
// writer waits on the row lock, re-checks the predicate and updates nothing.
func (r *codeRepo) Claim(ctx context.Context, db DBTX, kind domain.CodeKind, code, team, email string, at time.Time) (bool, error) {
	table, err := codeTable(kind)
	if err != nil {
		return false, err
	}
	tag, err := db.Exec(ctx, `
		UPDATE `+table+` SET team_name = $1, player_email = $2, redeem_date = $3
		WHERE code = $4 AND team_name IS NULL`,
		team, email, at, code)
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", kind, err)
	}
	return tag.RowsAffected() == 1, nil
}

type attemptRepo struct{}

// NewAttemptRepository returns a pgx-backed AttemptRepository.
func NewAttemptRepository() AttemptRepository {
	return &attemptRepo{}
}

func (r *attemptRepo) Insert(ctx context.Context, db DBTX, a domain.Attempt) error {
	table, err := attemptTable(a.Kind)
	if err != nil {
		return err
	}
	if a.Kind == domain.KindEnigma {
		_, err = db.Exec(ctx, `
			INSERT INTO `+table+` (code, answer, team_name, player_email, status, date)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			a.Code, a.Answer, a.TeamName, a.PlayerEmail, a.Status.String(), a.Date)
	} else {
		_, err = db.Exec(ctx, `
			INSERT INTO `+table+` (code, team_name, player_email, status, date)
			VALUES ($1, $2, $3, $4, $5)`,
			a.Code, a.TeamName, a.PlayerEmail, a.Status.String(), a.Date)
	}
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}
