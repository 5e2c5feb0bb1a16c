// Package notification turns order.placed events into shopkeeper
// notifications. The shop has no transactional email; orders arrive over
// WhatsApp, so the notifier logs a structured line the back office tails.
package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/boutique/internal/cart"
	"github.com/example/boutique/internal/order"
)

// Handler processes shop events for notifications
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var e order.PlacedEvent
	if err := json.Unmarshal(value, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	// Only order.placed events are published on this topic today.
	if e.Event != order.EventOrderPlaced {
		return nil
	}

	source := e.Source
	if source == "" {
		source = "direct"
	}
	log.Printf("[Notifier] Nouvelle commande %s: %d article(s), %s %s (source: %s)",
		e.OrderID, e.ItemCount, cart.FormatAmount(e.Total), cart.Currency, source)
	return nil
}
