package order

import "time"

// EventOrderPlaced is the event type published at checkout.
const EventOrderPlaced = "order.placed"

// PlacedEvent notifies the back office that a customer handed an order to
// the messenger. Published best-effort; the order message itself carries the
// same information redundantly.
type PlacedEvent struct {
	Event     string    `json:"event"`
	OrderID   string    `json:"order_id"`
	Total     float64   `json:"total"`
	ItemCount int       `json:"item_count"`
	Source    string    `json:"source,omitempty"`
	PlacedAt  time.Time `json:"placed_at"`
}

// NewPlacedEvent builds the event for a freshly written order record.
func NewPlacedEvent(r Record) PlacedEvent {
	itemCount := 0
	for _, item := range r.Items {
		itemCount += item.Quantity
	}
	return PlacedEvent{
		Event:     EventOrderPlaced,
		OrderID:   r.ID,
		Total:     r.Total,
		ItemCount: itemCount,
		Source:    r.Source,
		PlacedAt:  r.CreatedAt,
	}
}
