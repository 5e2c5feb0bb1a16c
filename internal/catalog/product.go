package catalog

import (
	"context"
	"errors"
	"time"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidStock    = errors.New("stock must not be negative")
)

// Product is a catalog entry with French fields and optional Arabic variants.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	NameAr        string    `json:"name_ar,omitempty"`
	Description   string    `json:"description"`
	DescriptionAr string    `json:"description_ar,omitempty"`
	Category      string    `json:"category"`
	CategoryAr    string    `json:"category_ar,omitempty"`
	Price         float64   `json:"price"`
	Stock         int       `json:"stock"`
	Images        []string  `json:"images"`
	IsActive      bool      `json:"is_active"`
	Views         int       `json:"views"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Validate checks the catalog invariants before a write.
func (p *Product) Validate() error {
	if p.Price < 0 {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// Store is the remote product store collaborator.
type Store interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) (string, error)
	Update(ctx context.Context, id string, p *Product) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}
