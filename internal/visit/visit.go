// Package visit tracks storefront page and product views with their
// acquisition source. Recording is fire and forget: a tracking failure is
// logged and never surfaced to the visitor.
package visit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Visit is one tracked page or product view.
type Visit struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id,omitempty"`
	Page      string    `json:"page"`
	Source    string    `json:"source,omitempty"`
	UserAgent string    `json:"user_agent"`
	Referrer  string    `json:"referrer"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists visits. Record errors are the store's to log; callers do
// not check them.
type Store interface {
	Record(ctx context.Context, v Visit)
	List(ctx context.Context, from, to time.Time) ([]Visit, error)
}

// MemoryStore keeps visits in memory for tests and storeless mode.
type MemoryStore struct {
	mu     sync.RWMutex
	visits []Visit
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Record(ctx context.Context, v Visit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	s.visits = append(s.visits, v)
}

func (s *MemoryStore) List(ctx context.Context, from, to time.Time) ([]Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var visits []Visit
	for _, v := range s.visits {
		if !from.IsZero() && v.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && v.CreatedAt.After(to) {
			continue
		}
		visits = append(visits, v)
	}
	return visits, nil
}
