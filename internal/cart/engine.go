// Package cart owns the client-session shopping cart: stock-clamped line
// mutations, totals, the WhatsApp order message, and persistence of the
// full cart snapshot into a durable key/value store after every change.
package cart

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"github.com/example/boutique/internal/catalog"
	"github.com/example/boutique/internal/storage"
)

// Currency is the display currency of the shop.
const Currency = "MAD"

// DefaultKey is the storage key of the default (single-browser) session.
const DefaultKey = "store_cart"

// StorageKey returns the cart storage key for a session.
func StorageKey(sessionID string) string {
	if sessionID == "" {
		return DefaultKey
	}
	return DefaultKey + ":" + sessionID
}

// Line is one product plus its quantity. The product is a snapshot taken at
// add time, so the message renders even if the catalog entry changes later.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Engine holds the lines of one session cart, ordered by insertion and
// unique by product id. Every line satisfies 0 < Quantity <= Product.Stock.
type Engine struct {
	kv    storage.KV
	key   string
	lines []Line
}

// NewEngine restores the cart stored under the given key. An unreadable or
// malformed snapshot yields an empty cart, never an error.
func NewEngine(ctx context.Context, kv storage.KV, key string) *Engine {
	e := &Engine{kv: kv, key: key}

	value, ok, err := kv.Get(ctx, key)
	if err != nil {
		log.Printf("[Cart] Failed to read stored cart %s: %v", key, err)
		return e
	}
	if !ok {
		return e
	}

	var lines []Line
	if err := json.Unmarshal([]byte(value), &lines); err != nil {
		log.Printf("[Cart] Discarding malformed stored cart %s: %v", key, err)
		return e
	}
	for _, line := range lines {
		if line.Product.ID == "" || line.Quantity <= 0 {
			continue
		}
		if line.Quantity > line.Product.Stock {
			line.Quantity = line.Product.Stock
		}
		if line.Quantity == 0 {
			continue
		}
		e.lines = append(e.lines, line)
	}
	return e
}

// Add puts quantity units of the product in the cart. Quantities are clamped
// to the product's stock; exceeding it is not an error, the caller can diff
// TotalItems to detect the clamp.
func (e *Engine) Add(ctx context.Context, p catalog.Product, quantity int) {
	if p.ID == "" || quantity <= 0 {
		return
	}

	for i := range e.lines {
		if e.lines[i].Product.ID == p.ID {
			e.lines[i].Product = p
			e.lines[i].Quantity = clamp(e.lines[i].Quantity+quantity, p.Stock)
			if e.lines[i].Quantity == 0 {
				e.lines = append(e.lines[:i], e.lines[i+1:]...)
			}
			e.persist(ctx)
			return
		}
	}

	if q := clamp(quantity, p.Stock); q > 0 {
		e.lines = append(e.lines, Line{Product: p, Quantity: q})
	}
	e.persist(ctx)
}

// Remove drops the line for the product. Unknown ids are a no-op.
func (e *Engine) Remove(ctx context.Context, productID string) {
	for i := range e.lines {
		if e.lines[i].Product.ID == productID {
			e.lines = append(e.lines[:i], e.lines[i+1:]...)
			break
		}
	}
	e.persist(ctx)
}

// SetQuantity sets the line quantity, clamped to stock. Zero or negative
// quantities remove the line.
func (e *Engine) SetQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		e.Remove(ctx, productID)
		return
	}
	for i := range e.lines {
		if e.lines[i].Product.ID == productID {
			e.lines[i].Quantity = clamp(quantity, e.lines[i].Product.Stock)
			if e.lines[i].Quantity == 0 {
				e.lines = append(e.lines[:i], e.lines[i+1:]...)
			}
			break
		}
	}
	e.persist(ctx)
}

// Clear empties the cart. Called explicitly after the checkout handoff, not
// by the checkout itself.
func (e *Engine) Clear(ctx context.Context) {
	e.lines = nil
	e.persist(ctx)
}

// Lines returns a copy of the cart lines in insertion order.
func (e *Engine) Lines() []Line {
	lines := make([]Line, len(e.lines))
	copy(lines, e.lines)
	return lines
}

// TotalPrice sums unit price times quantity over all lines.
func (e *Engine) TotalPrice() float64 {
	var total float64
	for _, line := range e.lines {
		total += line.Product.Price * float64(line.Quantity)
	}
	return total
}

// TotalItems sums the quantities over all lines.
func (e *Engine) TotalItems() int {
	var total int
	for _, line := range e.lines {
		total += line.Quantity
	}
	return total
}

// Message renders the order text handed to the WhatsApp composer. An empty
// cart renders as the empty string.
func (e *Engine) Message() string {
	if len(e.lines) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Bonjour, j'aimerais commander:\n")
	for _, line := range e.lines {
		lineTotal := line.Product.Price * float64(line.Quantity)
		b.WriteString("- " + strconv.Itoa(line.Quantity) + "x " + line.Product.Name +
			" – " + FormatAmount(lineTotal) + " " + Currency + "\n")
	}
	b.WriteString("\nTotal: " + FormatAmount(e.TotalPrice()) + " " + Currency + "\n")
	b.WriteString("\nNom: _____\nAdresse: _____\nTéléphone: _____")
	return b.String()
}

// FormatAmount renders a monetary amount without trailing zeros (300, 299.5).
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (e *Engine) persist(ctx context.Context) {
	lines := e.lines
	if lines == nil {
		lines = []Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		log.Printf("[Cart] Failed to marshal cart %s: %v", e.key, err)
		return
	}
	if err := e.kv.Set(ctx, e.key, string(data)); err != nil {
		log.Printf("[Cart] Failed to persist cart %s: %v", e.key, err)
	}
}

func clamp(quantity, stock int) int {
	if quantity > stock {
		return stock
	}
	return quantity
}
