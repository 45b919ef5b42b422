package inventory

import (
	"database/sql"
	"fmt"
	"log"
)

type CreateInventorySchema struct{}

func (m *CreateInventorySchema) UpMigration(db *sql.DB) error {
	if ok, err := checkAndSkipMigration(db, "inventory.schema"); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `
	CREATE SCHEMA IF NOT EXISTS inventory;`
	if err := executeAndMarkMigration(db, query, "inventory.schema"); err != nil {
		return err
	}
	log.Println("Migration 'inventory.schema' completed successfully.")
	return nil
}

type CreateProductsTable struct{}

func (m *CreateProductsTable) UpMigration(db *sql.DB) error {
	if ok, err := checkAndSkipMigration(db, "inventory.products"); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `
	CREATE TABLE IF NOT EXISTS inventory.products (
		id SERIAL PRIMARY KEY,
		sku VARCHAR(100) NOT NULL DEFAULT '',
		brand VARCHAR(255) NOT NULL DEFAULT '',
		model VARCHAR(255) NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		condition VARCHAR(50) NOT NULL DEFAULT '',
		base_price NUMERIC(12,2) NOT NULL DEFAULT 0,
		status VARCHAR(50) NOT NULL DEFAULT 'active',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP NOT NULL
	);`
	if err := executeAndMarkMigration(db, query, "inventory.products"); err != nil {
		return err
	}
	log.Println("Migration 'inventory.products' completed successfully.")
	return nil
}

type CreateChannelLinksTable struct{}

func (m *CreateChannelLinksTable) UpMigration(db *sql.DB) error {
	if ok, err := checkAndSkipMigration(db, "inventory.channel_links"); err != nil {
		return err
	} else if ok {
		return nil
	}
	// product_id is NOT NULL with a plain FK: a link must always point at a
	// live product. The merge executor moves links before it deletes anything.
	query := `
	CREATE TABLE IF NOT EXISTS inventory.channel_links (
		id BIGSERIAL PRIMARY KEY,
		product_id INT NOT NULL REFERENCES inventory.products(id),
		channel VARCHAR(100) NOT NULL,
		external_id VARCHAR(255) NOT NULL,
		CONSTRAINT unique_channel_external UNIQUE(channel, external_id)
	);
	CREATE INDEX IF NOT EXISTS channel_links_product_id_idx
	ON inventory.channel_links(product_id);`
	if err := executeAndMarkMigration(db, query, "inventory.channel_links"); err != nil {
		return err
	}
	log.Println("Migration 'inventory.channel_links' completed successfully.")
	return nil
}

type CreateChannelPricesTable struct{}

func (m *CreateChannelPricesTable) UpMigration(db *sql.DB) error {
	if ok, err := checkAndSkipMigration(db, "inventory.channel_prices"); err != nil {
		return err
	} else if ok {
		return nil
	}
	query := `
	CREATE TABLE IF NOT EXISTS inventory.channel_prices (
		id BIGSERIAL PRIMARY KEY,
		product_id INT NOT NULL REFERENCES inventory.products(id) ON DELETE CASCADE,
		channel VARCHAR(100) NOT NULL,
		price NUMERIC(12,2) NOT NULL,
		CONSTRAINT unique_product_channel_price UNIQUE(product_id, channel)
	);`
	if err := executeAndMarkMigration(db, query, "inventory.channel_prices"); err != nil {
		return err
	}
	log.Println("Migration 'inventory.channel_prices' completed successfully.")
	return nil
}

type CreateMergeRecordsTable struct{}

func (m *CreateMergeRecordsTable) UpMigration(db *sql.DB) error {
	if ok, err := checkAndSkipMigration(db, "inventory.merge_records"); err != nil {
		return err
	} else if ok {
		return nil
	}
	// Append-only audit of merges. No FK on merged_product_id: the row must
	// outlive the product it archives.
	query := `
	CREATE TABLE IF NOT EXISTS inventory.merge_records (
		id BIGSERIAL PRIMARY KEY,
		run_id VARCHAR(36) NOT NULL DEFAULT '',
		kept_product_id INT NOT NULL,
		merged_product_id INT NOT NULL,
		merged_product_data JSONB NOT NULL,
		merged_at TIMESTAMP WITH TIME ZONE NOT NULL,
		merged_by VARCHAR(255) NOT NULL DEFAULT '',
		reason TEXT NOT NULL DEFAULT 'duplicate listing merge'
	);
	CREATE INDEX IF NOT EXISTS merge_records_merged_product_idx
	ON inventory.merge_records(merged_product_id);`
	if err := executeAndMarkMigration(db, query, "inventory.merge_records"); err != nil {
		return err
	}
	log.Println("Migration 'inventory.merge_records' completed successfully.")
	return nil
}

func checkAndSkipMigration(db *sql.DB, migrationName string) (bool, error) {
	var migrationExists bool
	err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM migrations.migrations WHERE name = $1)", migrationName).Scan(&migrationExists)
	if err != nil {
		return migrationExists, fmt.Errorf("failed to check migration status: %w", err)
	}
	if migrationExists {
		log.Printf("Migration '%s' already completed. Skipping.\n", migrationName)
		return migrationExists, nil
	}
	return migrationExists, nil
}

func executeAndMarkMigration(db *sql.DB, query string, migrationName string) error {
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to execute migration '%s': %w", migrationName, err)
	}
	_, err = db.Exec("INSERT INTO migrations.migrations (name, time) VALUES ($1, current_timestamp)", migrationName)
	if err != nil {
		return fmt.Errorf("failed to mark migration '%s' as complete: %w", migrationName, err)
	}
	return nil
}
