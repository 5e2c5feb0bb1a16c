package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// CRUD Tests
// ============================================

func TestMemoryStore_CreateAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, &Product{
		Name:     "Bougie Parfumée",
		NameAr:   "شمعة معطرة",
		Category: "Décoration",
		Price:    85,
		Stock:    30,
		IsActive: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	p, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Bougie Parfumée", p.Name)
	assert.Equal(t, 85.0, p.Price)
	assert.Zero(t, p.Views)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestMemoryStore_Create_Validation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	tests := []struct {
		name        string
		product     Product
		expectedErr error
	}{
		{"negative price", Product{Name: "X", Price: -1, Stock: 1}, ErrInvalidPrice},
		{"negative stock", Product{Name: "X", Price: 1, Stock: -1}, ErrInvalidStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, &tt.product)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestMemoryStore_Get_NotFound(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryStore_Update(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, &Product{Name: "Avant", Price: 100, Stock: 5})
	require.NoError(t, err)
	created, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NoError(t, s.IncrementViews(ctx, id))

	err = s.Update(ctx, id, &Product{Name: "Après", Price: 120, Stock: 4, IsActive: true})
	require.NoError(t, err)

	p, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Après", p.Name)
	assert.Equal(t, 120.0, p.Price)
	// Views and creation time survive an update.
	assert.Equal(t, 1, p.Views)
	assert.Equal(t, created.CreatedAt, p.CreatedAt)
}

func TestMemoryStore_Update_NotFound(t *testing.T) {
	s := NewMemoryStore()

	err := s.Update(context.Background(), "missing", &Product{Name: "X", Price: 1, Stock: 1})

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, &Product{Name: "Éphémère", Price: 10, Stock: 1})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))

	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, s.Delete(ctx, id), ErrProductNotFound)
}

func TestMemoryStore_IncrementViews(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, &Product{Name: "Vu", Price: 10, Stock: 1})
	require.NoError(t, err)

	require.NoError(t, s.IncrementViews(ctx, id))
	require.NoError(t, s.IncrementViews(ctx, id))

	p, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Views)

	assert.ErrorIs(t, s.IncrementViews(ctx, "missing"), ErrProductNotFound)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, &Product{Name: "Original", Price: 10, Stock: 1})
	require.NoError(t, err)

	p, err := s.Get(ctx, id)
	require.NoError(t, err)
	p.Name = "Mutated"

	again, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Name)
}

// ============================================
// Sample Catalog Tests
// ============================================

func TestNewSampleStore(t *testing.T) {
	s := NewSampleStore()

	products, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	// Newest first.
	assert.Equal(t, "Baskets Sport", products[0].Name)
	assert.Equal(t, "Sac à Main Cuir", products[1].Name)
	assert.Equal(t, "T-Shirt Premium", products[2].Name)

	for _, p := range products {
		assert.True(t, p.IsActive)
		assert.NotEmpty(t, p.NameAr)
		assert.Greater(t, p.Price, 0.0)
		assert.Greater(t, p.Stock, 0)
	}
}
