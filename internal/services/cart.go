package services

import (
	"park-ticketing-platform/internal/models"
)

// QuantityOutcome describes the result of a cart quantity change
type QuantityOutcome string

const (
	// QuantityUpdated means the item quantity was changed in place
	QuantityUpdated QuantityOutcome = "updated"
	// QuantityRemoved means the item was removed from the cart
	QuantityRemoved QuantityOutcome = "removed"
	// QuantityConfirmRemoval means the change would remove the item and
	// needs the user to confirm first; nothing was changed
	QuantityConfirmRemoval QuantityOutcome = "confirm_removal"
	// QuantityNoop means the item was not found; nothing was changed
	QuantityNoop QuantityOutcome = "noop"
)

// CartService owns the cart line-item operations. The cart value itself is
// carried by the caller (the HTTP layer keeps it in the session), so every
// operation is a plain function over a cart.
type CartService struct {
	maxItems int
}

// NewCartService creates a cart service with the given line-item capacity
func NewCartService(maxItems int) *CartService {
	if maxItems <= 0 {
		maxItems = 6
	}
	return &CartService{maxItems: maxItems}
}

// AddItem coerces the item to safe defaults, assigns a fresh id, inserts it
// at the front of the cart and truncates the cart to its capacity. There are
// no error conditions. The caller should open the cart view afterwards.
func (s *CartService) AddItem(cart *models.Cart, item models.CartLineItem) models.CartLineItem {
	item.ID = models.GenerateItemID()
	item.Normalize()

	cart.Items = append([]models.CartLineItem{item}, cart.Items...)
	if len(cart.Items) > s.maxItems {
		cart.Items = cart.Items[:s.maxItems]
	}

	return item
}

// ChangeQuantity applies a quantity delta to a cart item. Decrementing an
// item at quantity 1 removes it, but only when the caller has confirmed the
// removal; without confirmation the cart is left untouched and the outcome
// asks for confirmation. Any other change clamps the quantity to a minimum
// of 1. An unknown item id is a silent no-op.
func (s *CartService) ChangeQuantity(cart *models.Cart, itemID string, delta int, confirmed bool) QuantityOutcome {
	idx := cart.Find(itemID)
	if idx < 0 {
		return QuantityNoop
	}

	item := &cart.Items[idx]
	if item.Quantity == 1 && delta < 0 {
		if !confirmed {
			return QuantityConfirmRemoval
		}
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		return QuantityRemoved
	}

	item.Quantity += delta
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	item.Recalculate()
	return QuantityUpdated
}

// RemoveItem deletes the matching cart entry; absent ids are a no-op
func (s *CartService) RemoveItem(cart *models.Cart, itemID string) {
	idx := cart.Find(itemID)
	if idx < 0 {
		return
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
}
