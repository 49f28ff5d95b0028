//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/huntclub/hunt-api/test/integration/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBleuRouge(env *testutil.TestEnv) {
	env.SeedTeam("Bleu")
	env.SeedTeam("Rouge")
	env.SeedPlayer("a@x.com", "Ada", "Lovelace", "A26", "Bleu")
	env.SeedPlayer("b@x.com", "Bob", "Morane", "A26", "Rouge")
	env.SeedPlayer("free@x.com", "Sans", "Equipe", "A26", "")
}

// ─── Gift Redemption ──────────────────────────────────────────────────────

func TestRedeemGift_ClaimThenUsed(t *testing.T) {
	env := testutil.NewTestEnv(t)
	seedBleuRouge(env)
	env.SeedGift("G1", "Un bonnet", 10)

	assert.Equal(t, "OK", env.RedeemGift("Bleu", "a@x.com", "G1"))
	assert.Equal(t, "Bleu", testutil.ClaimingTeam(t, env, "gifts", "G1"))

	assert.Equal(t, "USED", env.RedeemGift("Rouge", "b@x.com", "G1"))
	assert.Equal(t, "Bleu", testutil.ClaimingTeam(t, env, "gifts", "G1"))

	assert.Equal(t, []string{"OK", "USED"}, testutil.AttemptStatuses(t, env, "gift_attempts", "G1"))

	notified := env.Notifier.Redemptions()
	require.Len(t, notified, 1)
	assert.Equal(t, "G1", notified[0].Code)
	assert.Equal(t, "Ada", notified[0].Player.First)
}

func TestRedeemGift_Unknown(t *testing.T) {
	env := testutil.NewTestEnv(t)
	seedBleuRouge(env)

	assert.Equal(t, "NOT_FOUND", env.RedeemGift("Bleu", "a@x.com", "NOPE"))
	assert.Equal(t, []string{"NOT_FOUND"}, testutil.AttemptStatuses(t, env, "gift_attempts", "NOPE"))
}

func TestRedeemGift_UnknownEmailIsNotAudited(t *testing.T) {
	env := testutil.NewTestEnv(t)
	seedBleuRouge(env)
	env.SeedGift("G1", "Un bonnet", 10)

	assert.Equal(t, "PLAYER_NOT_EXISTING", env.RedeemGift("Bleu", "ghost@x.com", "G1"))
	assert.Equal(t, "PLAYER_NOT_EXISTING", env.RedeemGift("Bleu", "free@x.com", "G1"))
	assert.Equal(t, "TEAM_NOT_EXISTING", env.RedeemGift("Violet", "a@x.com", "G1"))

	assert.Zero(t, testutil.CountAttempts(t, env, "gift_attempts"))
	assert.Empty(t, testutil.ClaimingTeam(t, env, "gifts", "G1"))
	assert.Empty(t, env.Notifier.Redemptions())
}

func TestRedeemGift_MissingFieldsIs400(t *testing.T) {
	env := testutil.NewTestEnv(t)
	seedBleuRouge(env)

	resp := env.POST("/redeem/gift", map[string]string{"email": "a@x.com", "code": "G1"})
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.AssertErrorCode(t, resp, "VALIDATION_ERROR")

	assert.Zero(t, testutil.CountAttempts(t, env, "gift_attempts"))
}

func TestRedeemGift_ConcurrentClaimsSucceedOnce(t *testing.T) {
	env := testutil.NewTestEnv(t)
	seedBleuRouge(env)
	env.SeedGift("G1", "Un bonnet", 10)

	const n = 16
	body, err := json.Marshal(map[string]string{"recipientTeam": "Rouge", "email": "b@x.com", "code": "G1"})
	require.NoError(t, err)

	start := make(chan struct{})
	statuses := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			resp, err := http.Post(env.Server.URL+"/redeem/gift", "application/json", bytes.NewReader(body))
			if err != nil {
				errs[i] = err
				return
			}
			defer resp.Body.Close()
			var out struct {
				Status string `json:"status"`
			}
			errs[i] = json.NewDecoder(resp.Body).Decode(&out)
			statuses[i] = out.Status
		}(i)
	}
	close(start)
	wg.Wait()

	counts := map[string]int{}
	for i := range statuses {
		require.NoError(t, errs[i])
		counts[statuses[i]]++
	}
	assert.Equal(t, 1, counts["OK"])
	assert.Equal(t, n-1, counts["USED"])

	audited := testutil.AttemptStatuses(t, env, "gift_attempts", "G1")
	assert.Len(t, audited, n)
	assert.Len(t, env.Notifier.Redemptions(), 1)
}

// ─── Enigma Redemption ────────────────────────────────────────────────────

func TestRedeemEnigma_BadAnswerThenSolve(t *testing.T) {
	env := testutil.NewTestEnv(t)
	seedBleuRouge(env)
	env.SeedEnigma("E1", "La grande question", "42", 25)

	assert.Equal(t, "BAD_ANSWER", env.RedeemEnigma("Bleu", "a@x.com", "E1", "41"))
	assert.Empty(t, testutil.ClaimingTeam(t, env, "enigmas", "E1"))

	assert.Equal(t, "OK", env.RedeemEnigma("Bleu", "a@x.com", "E1", "42"))
	assert.Equal(t, "USED", env.RedeemEnigma("Rouge", "b@x.com", "E1", "42"))

	assert.Equal(t, []string{"BAD_ANSWER", "OK", "USED"}, testutil.AttemptStatuses(t, env, "enigma_attempts", "E1"))
	assert.Zero(t, testutil.CountAttempts(t, env, "gift_attempts"))
}

func TestRedeemEnigma_MissingAnswerIs400(t *testing.T) {
	env := testutil.NewTestEnv(t)
	seedBleuRouge(env)
	env.SeedEnigma("E1", "La grande question", "42", 25)

	resp := env.POST("/redeem/enigma", map[string]string{"recipientTeam": "Bleu", "email": "a@x.com", "code": "E1"})
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
	testutil.AssertErrorCode(t, resp, "VALIDATION_ERROR")
}

// ─── Routing ──────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.GET("/health")
	defer resp.Body.Close()
	testutil.AssertStatus(t, resp, http.StatusOK)

	ready := env.GET("/health/ready")
	defer ready.Body.Close()
	testutil.AssertStatus(t, ready, http.StatusOK)
}

func TestUnknownRouteIs404(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.GET("/nope")
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	testutil.AssertErrorCode(t, resp, "NOT_FOUND")
}

func TestCORSPreflight(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.OPTIONS("/redeem/gift")
	defer resp.Body.Close()
	testutil.AssertStatus(t, resp, http.StatusNoContent)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
