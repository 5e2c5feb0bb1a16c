package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateDefaults(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.Create(ctx, Record{Total: 100})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	records, err := s.List(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].ID)
	assert.Equal(t, StatusPending, records[0].Status)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestMemoryStore_ListDateRange(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := s.Create(ctx, Record{Total: float64(i), CreatedAt: base.AddDate(0, 0, i)})
		require.NoError(t, err)
	}

	records, err := s.List(ctx, base.AddDate(0, 0, 1), base.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Newest first.
	assert.Equal(t, 3.0, records[0].Total)
	assert.Equal(t, 1.0, records[2].Total)

	// Zero bounds are unbounded.
	all, err := s.List(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	fromOnly, err := s.List(ctx, base.AddDate(0, 0, 3), time.Time{})
	require.NoError(t, err)
	assert.Len(t, fromOnly, 2)
}

func TestNewPlacedEvent(t *testing.T) {
	placedAt := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	r := Record{
		ID:     "order-1",
		Total:  780,
		Source: "whatsapp",
		Items: []Item{
			{ProductID: "p1", Quantity: 2, Price: 150},
			{ProductID: "p2", Quantity: 1, Price: 480},
		},
		CreatedAt: placedAt,
	}

	e := NewPlacedEvent(r)

	assert.Equal(t, EventOrderPlaced, e.Event)
	assert.Equal(t, "order-1", e.OrderID)
	assert.Equal(t, 780.0, e.Total)
	assert.Equal(t, 3, e.ItemCount)
	assert.Equal(t, "whatsapp", e.Source)
	assert.Equal(t, placedAt, e.PlacedAt)
}
