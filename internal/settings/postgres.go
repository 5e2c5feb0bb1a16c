package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore keeps the settings as a single row, upserted on save.
// Missing settings fall back to the defaults so the storefront always has a
// WhatsApp number to hand off to.
type PostgresStore struct {
	db *sql.DB
}

const settingsRowID = "store"

func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to ensure settings schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS store_settings (
			id         TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

func (s *PostgresStore) Get(ctx context.Context) (*StoreSettings, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM store_settings WHERE id = $1`, settingsRowID).Scan(&data)
	if err == sql.ErrNoRows {
		defaults := Defaults()
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}

	var settings StoreSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *PostgresStore) Put(ctx context.Context, settings StoreSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO store_settings (id, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
	`, settingsRowID, data, time.Now())
	return err
}
