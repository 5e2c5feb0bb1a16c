package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// PostgresStore persists products in PostgreSQL. Images are stored as JSONB.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to ensure products schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id             TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			name_ar        TEXT NOT NULL DEFAULT '',
			description    TEXT NOT NULL DEFAULT '',
			description_ar TEXT NOT NULL DEFAULT '',
			category       TEXT NOT NULL DEFAULT '',
			category_ar    TEXT NOT NULL DEFAULT '',
			price          DOUBLE PRECISION NOT NULL DEFAULT 0,
			stock          INTEGER NOT NULL DEFAULT 0,
			images         JSONB NOT NULL DEFAULT '[]',
			is_active      BOOLEAN NOT NULL DEFAULT TRUE,
			views          INTEGER NOT NULL DEFAULT 0,
			created_at     TIMESTAMPTZ NOT NULL,
			updated_at     TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

const productColumns = `id, name, name_ar, description, description_ar, category, category_ar,
	price, stock, images, is_active, views, created_at, updated_at`

func (s *PostgresStore) List(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) Create(ctx context.Context, p *Product) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	now := time.Now()
	p.ID = uuid.New().String()
	p.Views = 0
	p.CreatedAt = now
	p.UpdatedAt = now

	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, p.ID, p.Name, p.NameAr, p.Description, p.DescriptionAr, p.Category, p.CategoryAr,
		p.Price, p.Stock, imagesJSON, p.IsActive, p.Views, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE products SET
			name = $2, name_ar = $3, description = $4, description_ar = $5,
			category = $6, category_ar = $7, price = $8, stock = $9,
			images = $10, is_active = $11, updated_at = $12
		WHERE id = $1
	`, id, p.Name, p.NameAr, p.Description, p.DescriptionAr, p.Category, p.CategoryAr,
		p.Price, p.Stock, imagesJSON, p.IsActive, time.Now())
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *PostgresStore) IncrementViews(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE products SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	var imagesJSON []byte
	err := row.Scan(&p.ID, &p.Name, &p.NameAr, &p.Description, &p.DescriptionAr,
		&p.Category, &p.CategoryAr, &p.Price, &p.Stock, &imagesJSON,
		&p.IsActive, &p.Views, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
		p.Images = nil
	}
	return &p, nil
}

// ConnectPostgres establishes a connection to PostgreSQL
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}
