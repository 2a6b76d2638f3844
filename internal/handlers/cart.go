package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"park-ticketing-platform/internal/models"
	"park-ticketing-platform/internal/services"
)

// CartHandler handles shopping cart requests. The cart itself rides in the
// cookie session; the service layer holds the aggregation rules.
type CartHandler struct {
	carts      *services.CartService
	store      sessions.Store
	adultPrice int // in cents
	childPrice int // in cents
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *services.CartService, store sessions.Store, adultPrice, childPrice int) *CartHandler {
	return &CartHandler{
		carts:      carts,
		store:      store,
		adultPrice: adultPrice,
		childPrice: childPrice,
	}
}

// cartView is the cart payload returned to the client
type cartView struct {
	Items       []models.CartLineItem `json:"items"`
	ItemCount   int                   `json:"item_count"`
	TotalAmount int                   `json:"total_amount"`
	TicketCount int                   `json:"ticket_count"`
	MerchCount  int                   `json:"merch_count"`
}

func newCartView(cart *models.Cart) cartView {
	tickets, merch := cart.Breakdown()
	items := cart.Items
	if items == nil {
		items = []models.CartLineItem{}
	}
	return cartView{
		Items:       items,
		ItemCount:   cart.ItemCount(),
		TotalAmount: cart.TotalAmount(),
		TicketCount: tickets,
		MerchCount:  merch,
	}
}

// AddTickets adds admission tickets to the cart from the ticket form. All
// field values are untrusted; non-numeric visitor counts coerce to 0.
func (h *CartHandler) AddTickets(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	park := strings.TrimSpace(r.FormValue("park"))
	ticketType := strings.TrimSpace(r.FormValue("type"))
	visitDate := strings.TrimSpace(r.FormValue("date"))
	visitTime := strings.TrimSpace(r.FormValue("time"))
	adults := formCount(r.FormValue("adults"))
	kids := formCount(r.FormValue("kids"))

	if adults <= 0 && kids <= 0 {
		respondMessage(w, http.StatusBadRequest, "Select at least one visitor")
		return
	}

	session, cart := cartFromSession(h.store, r)

	var added []models.CartLineItem
	if adults > 0 {
		added = append(added, h.carts.AddItem(cart, models.CartLineItem{
			Category:   models.CategoryTicket,
			Label:      "Adult ticket",
			Quantity:   adults,
			UnitPrice:  h.adultPrice,
			Park:       park,
			VisitDate:  visitDate,
			VisitTime:  visitTime,
			TicketType: ticketType,
		}))
	}
	if kids > 0 {
		added = append(added, h.carts.AddItem(cart, models.CartLineItem{
			Category:   models.CategoryTicket,
			Label:      "Child ticket",
			Quantity:   kids,
			UnitPrice:  h.childPrice,
			Park:       park,
			VisitDate:  visitDate,
			VisitTime:  visitTime,
			TicketType: ticketType,
		}))
	}

	if err := saveCartToSession(session, w, r, cart); err != nil {
		respondMessage(w, http.StatusInternalServerError, "Failed to save cart")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"cart":      newCartView(cart),
		"added":     added,
		"open_cart": true,
	})
}

// AddMerch adds a merchandise item to the cart from the merch form
func (h *CartHandler) AddMerch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	label := strings.TrimSpace(r.FormValue("label"))
	if label == "" {
		respondMessage(w, http.StatusBadRequest, "Merchandise name is required")
		return
	}

	session, cart := cartFromSession(h.store, r)

	added := h.carts.AddItem(cart, models.CartLineItem{
		Category:  models.CategoryMerch,
		Label:     label,
		Quantity:  formCount(r.FormValue("quantity")),
		UnitPrice: formCount(r.FormValue("price")),
		Color:     strings.TrimSpace(r.FormValue("color")),
		ColorHex:  strings.TrimSpace(r.FormValue("color_hex")),
	})

	if err := saveCartToSession(session, w, r, cart); err != nil {
		respondMessage(w, http.StatusInternalServerError, "Failed to save cart")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"cart":      newCartView(cart),
		"added":     []models.CartLineItem{added},
		"open_cart": true,
	})
}

// ChangeQuantity applies a quantity delta to a cart item. Removing the last
// unit requires the confirmed flag; without it the response asks the client
// to confirm and nothing changes.
func (h *CartHandler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	var req struct {
		Delta     int  `json:"delta"`
		Confirmed bool `json:"confirmed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, cart := cartFromSession(h.store, r)
	outcome := h.carts.ChangeQuantity(cart, itemID, req.Delta, req.Confirmed)

	if outcome == services.QuantityUpdated || outcome == services.QuantityRemoved {
		if err := saveCartToSession(session, w, r, cart); err != nil {
			respondMessage(w, http.StatusInternalServerError, "Failed to save cart")
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"outcome": outcome,
		"cart":    newCartView(cart),
	})
}

// RemoveItem deletes a cart entry; unknown ids are a silent no-op
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")

	session, cart := cartFromSession(h.store, r)
	h.carts.RemoveItem(cart, itemID)

	if err := saveCartToSession(session, w, r, cart); err != nil {
		respondMessage(w, http.StatusInternalServerError, "Failed to save cart")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cart": newCartView(cart),
	})
}

// GetCart returns the cart with its derived totals and category breakdown
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	_, cart := cartFromSession(h.store, r)
	respondJSON(w, http.StatusOK, newCartView(cart))
}

// formCount parses an untrusted numeric field, coercing anything invalid or
// negative to 0
func formCount(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
