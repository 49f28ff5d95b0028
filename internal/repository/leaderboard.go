package repository

import (
	"context"
	"fmt"

	"github.com/huntclub/hunt-api/internal/domain"
)

type leaderboardRepo struct{}

// NewLeaderboardRepository returns a pgx-backed LeaderboardRepository.
func NewLeaderboardRepository() LeaderboardRepository {
	return &leaderboardRepo{}
}

// TeamTotals uses UNION ALL: two rows with the same team and points are two
// separate contributions.
func (r *leaderboardRepo) TeamTotals(ctx context.Context, db DBTX) ([]domain.TeamTotal, error) {
	rows, err := db.Query(ctx, `
		SELECT q.name, SUM(q.points)::bigint AS points FROM (
			SELECT t.name, 0 AS points FROM teams t
			UNION ALL
			SELECT g.team_name, g.points FROM gifts g WHERE g.team_name IS NOT NULL
			UNION ALL
			SELECT e.team_name, e.points FROM enigmas e WHERE e.team_name IS NOT NULL
			UNION ALL
			SELECT a.team_name, a.points FROM activities_results a
		) q
		GROUP BY q.name
		ORDER BY points DESC`)
	if err != nil {
		return nil, fmt.Errorf("query team totals: %w", err)
	}
	defer rows.Close()

	var totals []domain.TeamTotal
	for rows.Next() {
		var t domain.TeamTotal
		var points int64
		if err := rows.Scan(&t.Name, &points); err != nil {
			return nil, fmt.Errorf("scan team total: %w", err)
		}
		t.Points = int(points)
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (r *leaderboardRepo) Players(ctx context.Context, db DBTX) ([]domain.RosterPlayer, error) {
	rows, err := db.Query(ctx, `
		SELECT team_name, first_name, last_name, semester
		FROM players
		WHERE team_name IS NOT NULL
		ORDER BY semester ASC, last_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var players []domain.RosterPlayer
	for rows.Next() {
		var p domain.RosterPlayer
		if err := rows.Scan(&p.TeamName, &p.Name.First, &p.Name.Last, &p.Semester); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *leaderboardRepo) ClaimedGifts(ctx context.Context, db DBTX) ([]domain.ClaimedGift, error) {
	rows, err := db.Query(ctx, `
		SELECT g.team_name, g.code, g.description, g.points, g.redeem_date,
		       p.first_name, p.last_name, p.semester
		FROM gifts g
		INNER JOIN players p ON p.email = g.player_email
		WHERE g.team_name IS NOT NULL
		ORDER BY g.redeem_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("query claimed gifts: %w", err)
	}
	defer rows.Close()

	var gifts []domain.ClaimedGift
	for rows.Next() {
		var g domain.ClaimedGift
		if err := rows.Scan(&g.TeamName, &g.Code, &g.Description, &g.Points, &g.RedeemDate,
			&g.Player.Name.First, &g.Player.Name.Last, &g.Player.Semester); err != nil {
			return nil, fmt.Errorf("scan claimed gift: %w", err)
		}
		g.Player.TeamName = g.TeamName
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}

func (r *leaderboardRepo) ClaimedEnigmas(ctx context.Context, db DBTX) ([]domain.ClaimedEnigma, error) {
	rows, err := db.Query(ctx, `
		SELECT e.team_name, e.code, e.answer, e.description, e.points, e.redeem_date,
		       p.first_name, p.last_name, p.semester
		FROM enigmas e
		INNER JOIN players p ON p.email = e.player_email
		WHERE e.team_name IS NOT NULL
		ORDER BY e.redeem_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("query claimed enigmas: %w", err)
	}
	defer rows.Close()

	var enigmas []domain.ClaimedEnigma
	for rows.Next() {
		var e domain.ClaimedEnigma
		if err := rows.Scan(&e.TeamName, &e.Code, &e.Answer, &e.Description, &e.Points, &e.RedeemDate,
			&e.Player.Name.First, &e.Player.Name.Last, &e.Player.Semester); err != nil {
			return nil, fmt.Errorf("scan claimed enigma: %w", err)
		}
		e.Player.TeamName = e.TeamName
		enigmas = append(enigmas, e)
	}
	return enigmas, rows.Err()
}

func (r *leaderboardRepo) ActivityResults(ctx context.Context, db DBTX) ([]domain.ActivityResult, error) {
	rows, err := db.Query(ctx, `
		SELECT a.team_name, a.title, a.description, a.points, a.date
		FROM activities_results a
		ORDER BY a.date DESC`)
	if err != nil {
		return nil, fmt.Errorf("query activity results: %w", err)
	}
	defer rows.Close()

	var results []domain.ActivityResult
	for rows.Next() {
		var a domain.ActivityResult
		if err := rows.Scan(&a.TeamName, &a.Title, &a.Description, &a.Points, &a.Date); err != nil {
			return nil, fmt.Errorf("scan activity result: %w", err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

func (r *leaderboardRepo) Benefactors(ctx context.Context, db DBTX) ([]domain.Benefactor, error) {
	rows, err := db.Query(ctx, `SELECT b.first_name, b.last_name FROM benefactors b ORDER BY b.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query benefactors: %w", err)
	}
	defer rows.Close()

	var benefactors []domain.Benefactor
	for rows.Next() {
		var b domain.Benefactor
		if err := rows.Scan(&b.Name.First, &b.Name.Last); err != nil {
			return nil, fmt.Errorf("scan benefactor: %w", err)
		}
		benefactors = append(benefactors, b)
	}
	return benefactors, rows.Err()
}

func (r *leaderboardRepo) AvailableCodes(ctx context.Context, db DBTX) (int, int, error) {
	var gifts, enigmas int64
	err := db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM gifts WHERE team_name IS NULL) AS available_gifts_count,
			(SELECT COUNT(*) FROM enigmas WHERE team_name IS NULL) AS available_enigmas_count`).
		Scan(&gifts, &enigmas)
	if err != nil {
		return 0, 0, fmt.Errorf("count available codes: %w", err)
	}
	return int(gifts), int(enigmas), nil
}
