//go:build integration

package testutil

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"

	"github.com/huntclub/hunt-api/internal/infra"
)

// runMigrations applies the embedded schema to the test database.
func runMigrations(dsn string) error {
	m, err := infra.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
