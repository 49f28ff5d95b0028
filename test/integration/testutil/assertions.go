//go:build integration

package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

// DecodeJSON reads and decodes a JSON response body into dst.
func DecodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
}

// AssertStatus checks that the response has the expected HTTP status code.
func AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// AssertErrorCode checks that the response body contains the expected error code.
func AssertErrorCode(t *testing.T, resp *http.Response, expectedCode string) {
	t.Helper()
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	DecodeJSON(t, resp, &errResp)
	if errResp.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, errResp.Code, errResp.Message)
	}
}

// AttemptStatuses returns the audited statuses for a code, oldest first.
// table is gift_attempts or enigma_attempts.
func AttemptStatuses(t *testing.T, env *TestEnv, table, code string) []string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := env.Pool.Query(ctx, "SELECT status FROM "+table+" WHERE code = $1 ORDER BY id", code)
	if err != nil {
		t.Fatalf("AttemptStatuses: query: %v", err)
	}
	defer rows.Close()

	var statuses []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			t.Fatalf("AttemptStatuses: scan: %v", err)
		}
		statuses = append(statuses, s)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("AttemptStatuses: rows: %v", err)
	}
	return statuses
}

// CountAttempts returns the number of rows in an attempts table.
func CountAttempts(t *testing.T, env *TestEnv, table string) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	if err := env.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		t.Fatalf("CountAttempts: %v", err)
	}
	return count
}

// ClaimingTeam returns the team that owns a code, or "" while unclaimed.
// table is gifts or enigmas.
func ClaimingTeam(t *testing.T, env *TestEnv, table, code string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var team *string
	if err := env.Pool.QueryRow(ctx, "SELECT team_name FROM "+table+" WHERE code = $1", code).Scan(&team); err != nil {
		t.Fatalf("ClaimingTeam: %v", err)
	}
	if team == nil {
		return ""
	}
	return *team
}
