//go:build integration

package testutil

import (
	"context"
	"time"
)

// CleanAll truncates every hunt table. CASCADE takes care of ordering.
func (env *TestEnv) CleanAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tables := []string{
		"gift_attempts",
		"enigma_attempts",
		"activities_results",
		"benefactors",
		"gifts",
		"enigmas",
		"players",
		"teams",
	}

	for _, table := range tables {
		_, _ = env.Pool.Exec(ctx, "TRUNCATE TABLE "+table+" RESTART IDENTITY CASCADE")
	}
}
