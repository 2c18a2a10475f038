package db

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations 執行 migration 目錄下所有 up 檔
// migrationPath 例如 internal/infra/repository/db/migration
func RunMigrations(migrationPath, databaseURL string) error {
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationPath), databaseURL)
	if err != nil {
		return fmt.Errorf("create migrate instance failed: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up failed: %w", err)
	}
	return nil
}
