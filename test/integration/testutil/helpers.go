//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/huntclub/hunt-api/internal/domain"
)

// RecordingNotifier captures notifications instead of sending them.
type RecordingNotifier struct {
	mu  sync.Mutex
	got []domain.Redemption
}

func (n *RecordingNotifier) Notify(_ context.Context, r domain.Redemption) {
	n.mu.Lock()
	n.got = append(n.got, r)
	n.mu.Unlock()
}

// Redemptions returns a copy of everything notified so far.
func (n *RecordingNotifier) Redemptions() []domain.Redemption {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Redemption(nil), n.got...)
}

// GET performs a GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	resp, err := http.Get(env.Server.URL + path)
	if err != nil {
		env.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// POST performs a JSON POST request.
func (env *TestEnv) POST(path string, body interface{}) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("POST %s: encode: %v", path, err)
		}
	}
	req, err := http.NewRequest("POST", env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("POST %s: new request: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

// OPTIONS performs a CORS preflight request.
func (env *TestEnv) OPTIONS(path string) *http.Response {
	env.t.Helper()
	req, err := http.NewRequest("OPTIONS", env.Server.URL+path, nil)
	if err != nil {
		env.t.Fatalf("OPTIONS %s: new request: %v", path, err)
	}
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("OPTIONS %s: %v", path, err)
	}
	return resp
}

// RedeemGift posts to /redeem/gift and returns the reported status.
func (env *TestEnv) RedeemGift(team, email, code string) string {
	env.t.Helper()
	return env.redeem("/redeem/gift", map[string]string{
		"recipientTeam": team,
		"email":         email,
		"code":          code,
	})
}

// RedeemEnigma posts to /redeem/enigma and returns the reported status.
func (env *TestEnv) RedeemEnigma(team, email, code, answer string) string {
	env.t.Helper()
	return env.redeem("/redeem/enigma", map[string]string{
		"recipientTeam": team,
		"email":         email,
		"code":          code,
		"answer":        answer,
	})
}

func (env *TestEnv) redeem(path string, body map[string]string) string {
	env.t.Helper()
	resp := env.POST(path, body)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		env.t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
	}
	var result struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("%s: decode: %v", path, err)
	}
	return result.Status
}

func (env *TestEnv) exec(what, sql string, args ...interface{}) {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := env.Pool.Exec(ctx, sql, args...); err != nil {
		env.t.Fatalf("%s: %v", what, err)
	}
}

// SeedTeam inserts a team.
func (env *TestEnv) SeedTeam(name string) {
	env.t.Helper()
	env.exec("SeedTeam", `INSERT INTO teams (name) VALUES ($1)`, name)
}

// SeedPlayer inserts a player; an empty team leaves the player unassigned.
func (env *TestEnv) SeedPlayer(email, first, last, semester, team string) {
	env.t.Helper()
	var teamName *string
	if team != "" {
		teamName = &team
	}
	env.exec("SeedPlayer",
		`INSERT INTO players (email, first_name, last_name, semester, team_name) VALUES ($1, $2, $3, $4, $5)`,
		email, first, last, semester, teamName)
}

// SeedGift inserts an unclaimed gift.
func (env *TestEnv) SeedGift(code, description string, points int) {
	env.t.Helper()
	env.exec("SeedGift",
		`INSERT INTO gifts (code, description, points) VALUES ($1, $2, $3)`,
		code, description, points)
}

// SeedEnigma inserts an unsolved enigma.
func (env *TestEnv) SeedEnigma(code, description, answer string, points int) {
	env.t.Helper()
	env.exec("SeedEnigma",
		`INSERT INTO enigmas (code, description, answer, points) VALUES ($1, $2, $3, $4)`,
		code, description, answer, points)
}

// SeedActivityResult inserts an activity result for a team.
func (env *TestEnv) SeedActivityResult(team, title string, points int, date time.Time) {
	env.t.Helper()
	env.exec("SeedActivityResult",
		`INSERT INTO activities_results (team_name, title, description, points, date) VALUES ($1, $2, '', $3, $4)`,
		team, title, points, date)
}

// SeedBenefactor inserts a benefactor.
func (env *TestEnv) SeedBenefactor(first, last string) {
	env.t.Helper()
	env.exec("SeedBenefactor",
		`INSERT INTO benefactors (first_name, last_name) VALUES ($1, $2)`, first, last)
}
