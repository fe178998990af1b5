package sqlite

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate aplica las migraciones embebidas pendientes sobre la base dada.
// Se ejecuta al arranque y tras cada restauración, para que un respaldo
// viejo quede al día con el esquema actual.
func Migrate(sdb *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(sdb, "migrations"); err != nil {
		return fmt.Errorf("aplicar migraciones: %w", err)
	}
	return nil
}

// RunMigrationCommand ejecuta un subcomando de goose (up, down, status,
// version, ...) sobre las migraciones embebidas.
func RunMigrationCommand(sdb *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return goose.Run(command, sdb, "migrations", args...)
}
