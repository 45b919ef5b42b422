package infrastructure

import (
	"database/sql"
	"fmt"
	"log"
)

// MigrationsRegistry bootstraps the migrations schema and the registry table
// every other migration checks before running.
type MigrationsRegistry struct{}

func (m *MigrationsRegistry) UpMigration(db *sql.DB) error {
	query := `
	CREATE SCHEMA IF NOT EXISTS migrations;
	CREATE TABLE IF NOT EXISTS migrations.migrations (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		time TIMESTAMP WITH TIME ZONE NOT NULL
	);`
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create migrations registry: %w", err)
	}
	log.Println("Migrations registry ready.")
	return nil
}
