// Package checkout turns the session cart into an order record and the
// WhatsApp deep link the storefront opens. There is no payment flow; the
// pre-filled message IS the checkout protocol.
package checkout

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/example/boutique/internal/cart"
	"github.com/example/boutique/internal/order"
)

var ErrEmptyCart = errors.New("cart is empty")

// EventPublisher publishes shop events. Satisfied by the Kafka producer.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Service performs the external messenger handoff.
type Service struct {
	orders    order.Store
	publisher EventPublisher
}

// NewService wires the order store and an optional event publisher. A nil
// publisher disables order events.
func NewService(orders order.Store, publisher EventPublisher) *Service {
	return &Service{orders: orders, publisher: publisher}
}

// Result of a checkout. OrderID is empty when the order store write failed;
// the handoff still succeeds in that case.
type Result struct {
	OrderID     string `json:"order_id,omitempty"`
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsapp_url"`
}

// Checkout snapshots the cart into a pending order record, persists it
// best-effort, publishes order.placed best-effort, and returns the composer
// link. The cart is left untouched; the caller clears it once the composer
// has opened.
func (s *Service) Checkout(ctx context.Context, eng *cart.Engine, whatsappNumber, source string) (*Result, error) {
	lines := eng.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	record := order.Record{
		Items:     make([]order.Item, 0, len(lines)),
		Total:     eng.TotalPrice(),
		Source:    source,
		Status:    order.StatusPending,
		CreatedAt: time.Now(),
	}
	for _, line := range lines {
		record.Items = append(record.Items, order.Item{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Price:       line.Product.Price,
		})
	}

	// Best effort: the message carries the order redundantly, so a store
	// failure must not block the handoff.
	orderID, err := s.orders.Create(ctx, record)
	if err != nil {
		log.Printf("[Checkout] Failed to save order: %v", err)
		orderID = ""
	} else if s.publisher != nil {
		record.ID = orderID
		if err := s.publisher.Publish(ctx, orderID, order.NewPlacedEvent(record)); err != nil {
			log.Printf("[Checkout] Failed to publish order event: %v", err)
		}
	}

	message := eng.Message()
	return &Result{
		OrderID:     orderID,
		Message:     message,
		WhatsAppURL: ComposerURL(whatsappNumber, message),
	}, nil
}

// ComposerURL builds the wa.me deep link carrying the order text.
func ComposerURL(whatsappNumber, message string) string {
	number := strings.TrimPrefix(whatsappNumber, "+")
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(message)
}
