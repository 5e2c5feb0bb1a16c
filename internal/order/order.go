package order

import (
	"context"
	"time"
)

// Status of an order record. Records are written as pending at checkout and
// advanced by the shopkeeper from the back office.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Item is the snapshot of one cart line at checkout time.
type Item struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Record is an immutable order written at checkout. Source is the optional
// acquisition tag carried over from the inbound link.
type Record struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	Total     float64   `json:"total"`
	Source    string    `json:"source,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the remote order store collaborator. List bounds are inclusive;
// a zero time means unbounded on that side.
type Store interface {
	Create(ctx context.Context, r Record) (string, error)
	List(ctx context.Context, from, to time.Time) ([]Record, error)
}
