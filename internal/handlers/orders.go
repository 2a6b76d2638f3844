package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"park-ticketing-platform/internal/middleware"
	"park-ticketing-platform/internal/models"
	"park-ticketing-platform/internal/services"
)

// OrderHandler handles checkout and order queries
type OrderHandler struct {
	orders *services.OrderService
	stats  *services.StatsService
	store  sessions.Store
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *services.OrderService, stats *services.StatsService, store sessions.Store) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		stats:  stats,
		store:  store,
	}
}

// orderView decorates an order with its derived display fields
type orderView struct {
	models.Order
	Badge              models.StatusBadge `json:"badge"`
	Past               bool               `json:"past"`
	CancellationLocked bool               `json:"cancellation_locked"`
}

func (h *OrderHandler) newOrderView(order models.Order) orderView {
	return orderView{
		Order:              order,
		Badge:              order.Badge(),
		Past:               h.orders.IsOrderPast(&order),
		CancellationLocked: h.orders.IsCancellationLocked(&order),
	}
}

// Checkout converts the session cart into an order. An empty cart yields an
// advisory message and no state change; on success the cart is cleared and
// the new order's id and total are reported.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	session, cart := cartFromSession(h.store, r)

	customer := models.GuestCustomer()
	if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil {
		customer = claims.CustomerRef()
	}

	order, err := h.orders.Checkout(cart.Items, customer)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			respondMessage(w, http.StatusBadRequest, "Add at least one item to checkout")
			return
		}
		respondMessage(w, http.StatusInternalServerError, "Checkout failed")
		return
	}

	h.stats.RecordOrder(order)

	cart.Items = nil
	if err := saveCartToSession(session, w, r, cart); err != nil {
		// The order exists either way; an unsaved cart just lingers
		respondJSON(w, http.StatusCreated, map[string]interface{}{
			"order_id":     order.ID,
			"total_amount": order.TotalAmount,
			"order":        h.newOrderView(*order),
		})
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
		"order":        h.newOrderView(*order),
	})
}

// List returns orders for the requested view and sort mode. Absent query
// parameters fall back to the remembered preferences; the chosen combination
// becomes the new preference.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	prefView, prefSort := h.orders.Preferences()

	view := prefView
	if q := r.URL.Query().Get("view"); q != "" {
		view = services.NormalizeView(q)
	}
	sortMode := prefSort
	if q := r.URL.Query().Get("sort"); q != "" {
		sortMode = services.NormalizeSort(q)
	}

	orders := h.orders.ListOrders(view, sortMode)

	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, h.newOrderView(order))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"view":   view,
		"sort":   sortMode,
		"orders": views,
	})
}

// Get returns a single order by id
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(chi.URLParam(r, "orderID"))
	if err != nil {
		respondMessage(w, http.StatusNotFound, "Order not found")
		return
	}
	respondJSON(w, http.StatusOK, h.newOrderView(*order))
}

// QRPayload returns the scannable payload for an order. Rendering the code
// itself is the client's job; the payload string is the contract.
func (h *OrderHandler) QRPayload(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(chi.URLParam(r, "orderID"))
	if err != nil {
		respondMessage(w, http.StatusNotFound, "Order not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"order_id": order.ID,
		"payload":  order.QRPayload,
	})
}

// RequestCancellation asks for an order to be cancelled. Orders already in
// the cancellation flow or past their window are rejected unchanged.
func (h *OrderHandler) RequestCancellation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
		Notes  string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.orders.RequestCancellation(
		chi.URLParam(r, "orderID"),
		models.CancellationReason(req.Reason),
		req.Notes,
	)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			respondMessage(w, http.StatusNotFound, "Order not found")
		case errors.Is(err, services.ErrCancellationLocked):
			respondMessage(w, http.StatusConflict, "This order can no longer be cancelled")
		default:
			respondMessage(w, http.StatusInternalServerError, "Cancellation request failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, h.newOrderView(*order))
}
