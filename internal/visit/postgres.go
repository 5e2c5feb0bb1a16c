package visit

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// PostgresStore persists visits in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to ensure visits schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS visits (
			id         TEXT PRIMARY KEY,
			product_id TEXT NOT NULL DEFAULT '',
			page       TEXT NOT NULL,
			source     TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT '',
			referrer   TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

func (s *PostgresStore) Record(ctx context.Context, v Visit) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visits (id, product_id, page, source, user_agent, referrer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, v.ID, v.ProductID, v.Page, v.Source, v.UserAgent, v.Referrer, v.CreatedAt)
	if err != nil {
		log.Printf("[Visit] Failed to record visit: %v", err)
	}
}

func (s *PostgresStore) List(ctx context.Context, from, to time.Time) ([]Visit, error) {
	query := `SELECT id, product_id, page, source, user_agent, referrer, created_at FROM visits`
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

	var visits []Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Page, &v.Source, &v.UserAgent, &v.Referrer, &v.CreatedAt); err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
