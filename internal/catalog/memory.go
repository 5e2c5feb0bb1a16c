package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory product store used in tests and when no
// database is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]*Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{products: make(map[string]*Product)}
}

// NewSampleStore returns a memory store seeded with the demo catalog served
// when the shop runs without a configured backend.
func NewSampleStore() *MemoryStore {
	s := NewMemoryStore()
	for _, p := range sampleProducts() {
		s.products[p.ID] = p
	}
	return s
}

func (s *MemoryStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, *p)
	}
	// Newest first, matching the PostgreSQL store ordering.
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *MemoryStore) Create(ctx context.Context, p *Product) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	p.ID = uuid.New().String()
	p.Views = 0
	p.CreatedAt = now
	p.UpdatedAt = now

	copied := *p
	s.products[p.ID] = &copied
	return p.ID, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[id]
	if !ok {
		return ErrProductNotFound
	}

	updated := *p
	updated.ID = id
	updated.Views = current.Views
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = time.Now()
	s.products[id] = &updated
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) IncrementViews(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return ErrProductNotFound
	}
	p.Views++
	return nil
}

func sampleProducts() []*Product {
	return []*Product{
		{
			ID:            "1",
			Name:          "T-Shirt Premium",
			NameAr:        "تيشيرت فاخر",
			Description:   "T-shirt 100% coton, disponible en plusieurs couleurs",
			DescriptionAr: "تيشيرت قطن 100%، متوفر بعدة ألوان",
			Category:      "Vêtements",
			CategoryAr:    "ملابس",
			Price:         150,
			Stock:         25,
			Images:        []string{"https://images.pexels.com/photos/1183266/pexels-photo-1183266.jpeg"},
			IsActive:      true,
			Views:         45,
			CreatedAt:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:            "2",
			Name:          "Sac à Main Cuir",
			NameAr:        "حقيبة يد جلدية",
			Description:   "Sac élégant en cuir véritable avec fermeture éclair",
			DescriptionAr: "حقيبة أنيقة من الجلد الطبيعي مع سحاب",
			Category:      "Accessoires",
			CategoryAr:    "إكسسوارات",
			Price:         480,
			Stock:         12,
			Images:        []string{"https://images.pexels.com/photos/1152077/pexels-photo-1152077.jpeg"},
			IsActive:      true,
			Views:         32,
			CreatedAt:     time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:            "3",
			Name:          "Baskets Sport",
			NameAr:        "حذاء رياضي",
			Description:   "Chaussures de sport confortables pour tous les jours",
			DescriptionAr: "أحذية رياضية مريحة للاستخدام اليومي",
			Category:      "Chaussures",
			CategoryAr:    "أحذية",
			Price:         320,
			Stock:         8,
			Images:        []string{"https://images.pexels.com/photos/2529148/pexels-photo-2529148.jpeg"},
			IsActive:      true,
			Views:         67,
			CreatedAt:     time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC),
		},
	}
}
