package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// PostgresStore persists order records in PostgreSQL with items as JSONB.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to ensure orders schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS orders (
			id         TEXT PRIMARY KEY,
			items      JSONB NOT NULL DEFAULT '[]',
			total      DOUBLE PRECISION NOT NULL,
			source     TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

func (s *PostgresStore) Create(ctx context.Context, r Record) (string, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if r.Status == "" {
		r.Status = StatusPending
	}

	itemsJSON, err := json.Marshal(r.Items)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orders (id, items, total, source, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.ID, itemsJSON, r.Total, r.Source, string(r.Status), r.CreatedAt)
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

func (s *PostgresStore) List(ctx context.Context, from, to time.Time) ([]Record, error) {
	query := `SELECT id, items, total, source, status, created_at FROM orders`
	var args []any
	switch {
	case !from.IsZero() && !to.IsZero():
		query += ` WHERE created_at >= $1 AND created_at <= $2`
		args = append(args, from, to)
	case !from.IsZero():
		query += ` WHERE created_at >= $1`
		args = append(args, from)
	case !to.IsZero():
		query += ` WHERE created_at <= $1`
		args = append(args, to)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var itemsJSON []byte
		var status string
		if err := rows.Scan(&r.ID, &itemsJSON, &r.Total, &r.Source, &status, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Status = Status(status)
		if err := json.Unmarshal(itemsJSON, &r.Items); err != nil {
			r.Items = nil
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
