package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// ItemCategory classifies a purchasable item
type ItemCategory string

const (
	CategoryTicket ItemCategory = "ticket"
	CategoryMerch  ItemCategory = "merch"
	CategoryOther  ItemCategory = "other"
)

// Valid returns true if the category is a known category
func (c ItemCategory) Valid() bool {
	switch c {
	case CategoryTicket, CategoryMerch, CategoryOther:
		return true
	default:
		return false
	}
}

// CartLineItem represents an unconfirmed, user-editable item pending checkout
type CartLineItem struct {
	ID        string       `json:"id"`
	Category  ItemCategory `json:"category"`
	Label     string       `json:"label"`
	Quantity  int          `json:"quantity"`
	UnitPrice int          `json:"unit_price"` // in cents
	Subtotal  int          `json:"subtotal"`   // in cents

	// Ticket-specific fields
	Park       string `json:"park,omitempty"`
	VisitDate  string `json:"visit_date,omitempty"` // YYYY-MM-DD
	VisitTime  string `json:"visit_time,omitempty"` // HH:MM
	TicketType string `json:"ticket_type,omitempty"`

	// Merchandise-specific fields
	Color    string `json:"color,omitempty"`
	ColorHex string `json:"color_hex,omitempty"`
}

// Cart represents a shopping cart
type Cart struct {
	Items []CartLineItem `json:"items"`
}

// Normalize coerces a cart line item to safe defaults: unknown categories
// become CategoryOther, missing quantities default to 1, negative prices to 0.
// The subtotal is recomputed afterwards.
func (i *CartLineItem) Normalize() {
	if !i.Category.Valid() {
		i.Category = CategoryOther
	}
	if i.Quantity < 1 {
		i.Quantity = 1
	}
	if i.UnitPrice < 0 {
		i.UnitPrice = 0
	}
	i.Recalculate()
}

// Recalculate refreshes the cached subtotal from quantity and unit price
func (i *CartLineItem) Recalculate() {
	i.Subtotal = i.Quantity * i.UnitPrice
}

// ParsedVisitDate parses the ticket visit date. The boolean is false when the
// item carries no parseable date.
func (i *CartLineItem) ParsedVisitDate() (time.Time, bool) {
	if i.VisitDate == "" {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", i.VisitDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ItemCount returns the total number of units in the cart (sum of quantities)
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// TotalAmount returns the cart total in cents
func (c *Cart) TotalAmount() int {
	total := 0
	for _, item := range c.Items {
		total += item.UnitPrice * item.Quantity
	}
	return total
}

// Breakdown returns the ticket and merchandise unit counts for summary display
func (c *Cart) Breakdown() (ticketCount, merchCount int) {
	for _, item := range c.Items {
		switch item.Category {
		case CategoryTicket:
			ticketCount += item.Quantity
		case CategoryMerch:
			merchCount += item.Quantity
		}
	}
	return ticketCount, merchCount
}

// Find returns the index of the item with the given id, or -1 if absent
func (c *Cart) Find(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// GenerateItemID generates a synthetic cart item id
func GenerateItemID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("item-%d", time.Now().UnixNano())
	}
	return "item-" + hex.EncodeToString(buf)
}
