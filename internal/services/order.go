package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"park-ticketing-platform/internal/models"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no items
	ErrEmptyCart = errors.New("add at least one item to checkout")
	// ErrOrderNotFound is returned when an order id is unknown
	ErrOrderNotFound = errors.New("order not found")
	// ErrCancellationLocked is returned when an order can no longer be cancelled
	ErrCancellationLocked = errors.New("order is no longer eligible for cancellation")
)

// OrderView filters the order list for display
type OrderView string

const (
	ViewUpcoming OrderView = "upcoming"
	ViewPast     OrderView = "past"
)

// OrderSort selects the order list sort mode
type OrderSort string

const (
	SortCreatedDesc OrderSort = "created_desc"
	SortCreatedAsc  OrderSort = "created_asc"
	SortTotalDesc   OrderSort = "total_desc"
	SortTotalAsc    OrderSort = "total_asc"
)

// NormalizeView maps arbitrary input to a valid view, defaulting to upcoming
func NormalizeView(v string) OrderView {
	if OrderView(v) == ViewPast {
		return ViewPast
	}
	return ViewUpcoming
}

// NormalizeSort maps arbitrary input to a valid sort mode, defaulting to
// newest first
func NormalizeSort(s string) OrderSort {
	switch OrderSort(s) {
	case SortCreatedAsc, SortTotalDesc, SortTotalAsc:
		return OrderSort(s)
	default:
		return SortCreatedDesc
	}
}

// OrderStateStore is the persistence contract the order service depends on
type OrderStateStore interface {
	LoadOrders() ([]models.Order, error)
	SaveOrders(orders []models.Order) error
	LoadOrderPrefs() (view, sort string)
	SaveOrderPrefs(view, sort string) error
}

// OrderOverrides replaces generated fields when building an order
type OrderOverrides struct {
	OrderID       string
	Status        models.OrderStatus
	PaymentID     string
	PaymentStatus string
	ReceiptID     string
	QRPayload     string
	CreatedAt     *time.Time
}

// OrderService builds orders from cart snapshots and owns the persisted order
// list. The in-memory list is the source of truth; persistence failures are
// logged and the session continues on memory alone.
type OrderService struct {
	store      OrderStateStore
	windowDays int

	mu     sync.RWMutex
	orders []models.Order
	view   OrderView
	sort   OrderSort

	now func() time.Time
}

// NewOrderService creates an order service, restoring the persisted order
// list and view preferences. Unreadable state resolves to an empty list.
func NewOrderService(store OrderStateStore, cancellationWindowDays int) *OrderService {
	s := &OrderService{
		store:      store,
		windowDays: cancellationWindowDays,
		now:        time.Now,
	}

	orders, err := store.LoadOrders()
	if err != nil {
		log.Printf("Warning: failed to load orders, starting empty: %v", err)
		orders = nil
	}
	s.orders = orders

	view, sortMode := store.LoadOrderPrefs()
	s.view = NormalizeView(view)
	s.sort = NormalizeSort(sortMode)

	return s
}

// Checkout converts a snapshot of cart items into a persisted order. An empty
// snapshot fails with ErrEmptyCart and changes nothing. The caller is
// responsible for clearing the cart afterwards.
func (s *OrderService) Checkout(items []models.CartLineItem, customer models.CustomerRef) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := s.BuildOrder(items, customer, nil)

	s.mu.Lock()
	s.orders = append([]models.Order{order}, s.orders...)
	s.persistLocked()
	s.mu.Unlock()

	return &order, nil
}

// BuildOrder builds an order from cart items: it groups identical items,
// computes the total and category counts, derives the summary line and badge
// status, and assigns synthetic payment, receipt and QR identifiers unless
// overridden.
func (s *OrderService) BuildOrder(items []models.CartLineItem, customer models.CustomerRef, overrides *OrderOverrides) models.Order {
	if customer.ID == "" {
		customer = models.GuestCustomer()
	}

	grouped := groupItems(items)

	total := 0
	ticketCount := 0
	merchCount := 0
	for _, item := range grouped {
		total += item.Subtotal()
		switch item.Category {
		case models.CategoryTicket:
			ticketCount += item.Quantity
		case models.CategoryMerch:
			merchCount += item.Quantity
		}
	}

	order := models.Order{
		ID:            models.GenerateOrderNumber(),
		CreatedAt:     s.now(),
		Status:        models.OrderCompleted,
		Summary:       buildSummary(grouped, ticketCount, merchCount),
		Items:         grouped,
		TotalAmount:   total,
		TicketCount:   ticketCount,
		MerchCount:    merchCount,
		PaymentStatus: "Paid",
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		CustomerType:  customer.Type,
	}

	if overrides != nil {
		if overrides.OrderID != "" {
			order.ID = overrides.OrderID
		}
		if overrides.Status != "" && overrides.Status.Valid() {
			order.Status = overrides.Status
		}
		if overrides.PaymentID != "" {
			order.PaymentID = overrides.PaymentID
		}
		if overrides.PaymentStatus != "" {
			order.PaymentStatus = overrides.PaymentStatus
		}
		if overrides.ReceiptID != "" {
			order.ReceiptID = overrides.ReceiptID
		}
		if overrides.QRPayload != "" {
			order.QRPayload = overrides.QRPayload
		}
		if overrides.CreatedAt != nil {
			order.CreatedAt = *overrides.CreatedAt
		}
	}

	if order.PaymentID == "" {
		order.PaymentID = models.GeneratePaymentID()
	}
	if order.ReceiptID == "" {
		order.ReceiptID = models.GenerateReceiptID()
	}
	if order.QRPayload == "" {
		order.QRPayload = models.GenerateQRPayload(order.ID)
	}

	return order
}

// groupKey is the identity key for order line aggregation
type groupKey struct {
	label      string
	category   models.ItemCategory
	park       string
	date       string
	time       string
	color      string
	ticketType string
}

// groupItems flattens cart items into order lines, one per distinct identity
// key in first-seen order, summing quantities within each group
func groupItems(items []models.CartLineItem) []models.OrderLineItem {
	var grouped []models.OrderLineItem
	index := make(map[groupKey]int)

	for _, item := range items {
		key := groupKey{
			label:      item.Label,
			category:   item.Category,
			park:       item.Park,
			date:       item.VisitDate,
			time:       item.VisitTime,
			color:      item.Color,
			ticketType: item.TicketType,
		}

		if at, ok := index[key]; ok {
			grouped[at].Quantity += item.Quantity
			continue
		}

		index[key] = len(grouped)
		grouped = append(grouped, models.OrderLineItem{
			Label:     item.Label,
			Category:  item.Category,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Meta:      lineMeta(item),
			Park:      item.Park,
			VisitDate: item.VisitDate,
			VisitTime: item.VisitTime,
		})
	}

	return grouped
}

// lineMeta renders the human description of a line item
func lineMeta(item models.CartLineItem) string {
	switch item.Category {
	case models.CategoryTicket:
		var parts []string
		if item.Park != "" {
			parts = append(parts, item.Park)
		}
		if d, ok := item.ParsedVisitDate(); ok {
			parts = append(parts, d.Format("Jan 2, 2006"))
		}
		if item.VisitTime != "" {
			parts = append(parts, item.VisitTime)
		}
		if item.TicketType != "" {
			parts = append(parts, item.TicketType)
		}
		return strings.Join(parts, " · ")
	case models.CategoryMerch:
		if item.Color != "" {
			return "Color: " + item.Color
		}
		return ""
	default:
		return ""
	}
}

// buildSummary derives the order's one-line summary. Ticket orders lead with
// the park; the visit date and time join in only when the order is tickets
// alone. Pure merchandise orders get a fixed label, a lone other-category
// item keeps its own label, and anything else falls back to an item count.
func buildSummary(items []models.OrderLineItem, ticketCount, merchCount int) string {
	if ticketCount > 0 {
		first := firstTicket(items)
		if merchCount > 0 {
			if first.Park != "" {
				return first.Park
			}
			return fmt.Sprintf("%d items", len(items))
		}

		var parts []string
		if first.Park != "" {
			parts = append(parts, first.Park)
		}
		if d, ok := first.ParsedVisitDate(); ok {
			parts = append(parts, d.Format("Jan 2, 2006"))
		}
		if first.VisitTime != "" {
			parts = append(parts, first.VisitTime)
		}
		if len(parts) > 0 {
			return strings.Join(parts, " · ")
		}
		return fmt.Sprintf("%d items", len(items))
	}

	if merchCount > 0 {
		return "Merchandise order"
	}

	if len(items) == 1 {
		return items[0].Label
	}

	return fmt.Sprintf("%d items", len(items))
}

func firstTicket(items []models.OrderLineItem) models.OrderLineItem {
	for _, item := range items {
		if item.Category == models.CategoryTicket {
			return item
		}
	}
	return models.OrderLineItem{}
}

// RequestCancellation moves an order into cancel_pending and attaches the
// cancellation record. Unknown orders and orders that are locked (already in
// the cancellation flow, or past their cancellation window) are rejected
// without any state change. The transition is one-way; resolution to
// cancelled happens in an external back-office process.
func (s *OrderService) RequestCancellation(orderID string, reason models.CancellationReason, notes string) (*models.Order, error) {
	if !reason.Valid() {
		reason = models.ReasonOther
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrOrderNotFound
	}

	order := &s.orders[idx]
	if s.isLocked(order) {
		return nil, ErrCancellationLocked
	}

	next, err := models.Transition(order.Status, models.EventCancelRequested)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCancellationLocked, err)
	}

	order.Status = next
	order.PaymentStatus = "Pending refund"
	order.Cancellation = &models.CancellationRecord{
		Status:      models.CancellationRequested,
		Reason:      reason,
		Notes:       strings.TrimSpace(notes),
		RequestedAt: s.now(),
	}

	s.persistLocked()

	result := *order
	return &result, nil
}

// IsCancellationLocked reports whether the order can no longer be cancelled:
// it already is cancelled or awaiting cancellation, or every one of its
// dated tickets falls before the cancellation threshold. Orders without
// ticket items are never locked by the date rule.
func (s *OrderService) IsCancellationLocked(order *models.Order) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLocked(order)
}

func (s *OrderService) isLocked(order *models.Order) bool {
	if order.Status == models.OrderCancelled || order.Status == models.OrderCancelPending {
		return true
	}
	return s.allTicketsBefore(order, s.threshold())
}

// IsOrderPast reports whether the order belongs in the past view: cancelled
// or cancel_pending orders always do, ticket orders do once every dated
// ticket falls before the threshold, and non-ticket orders never do.
func (s *OrderService) IsOrderPast(order *models.Order) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isPast(order)
}

func (s *OrderService) isPast(order *models.Order) bool {
	if order.Status == models.OrderCancelled || order.Status == models.OrderCancelPending {
		return true
	}
	return s.allTicketsBefore(order, s.threshold())
}

// threshold is the start of today minus the cancellation window. With the
// default zero-day window a same-day visit remains cancellable up to the
// start of its day.
func (s *OrderService) threshold() time.Time {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, 0, -s.windowDays)
}

// allTicketsBefore reports whether the order has ticket lines and every one
// of them carries a parseable date strictly before the threshold. A ticket
// without a parseable date keeps the order eligible.
func (s *OrderService) allTicketsBefore(order *models.Order, threshold time.Time) bool {
	hasTickets := false
	for _, item := range order.Items {
		if item.Category != models.CategoryTicket {
			continue
		}
		hasTickets = true

		d, ok := item.ParsedVisitDate()
		if !ok {
			return false
		}
		if !d.Before(threshold) {
			return false
		}
	}
	return hasTickets
}

// GetOrder returns a copy of the order with the given id
func (s *OrderService) GetOrder(orderID string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.orders {
		if s.orders[i].ID == orderID {
			order := s.orders[i]
			return &order, nil
		}
	}
	return nil, ErrOrderNotFound
}

// ListOrders returns the orders for the given view and sort mode: sorted
// first, then filtered into the upcoming or past bucket. The selection is
// remembered as the new preference.
func (s *OrderService) ListOrders(view OrderView, sortMode OrderSort) []models.Order {
	s.mu.Lock()
	if view != s.view || sortMode != s.sort {
		s.view = view
		s.sort = sortMode
		if err := s.store.SaveOrderPrefs(string(view), string(sortMode)); err != nil {
			log.Printf("Warning: failed to persist view preferences: %v", err)
		}
	}

	sorted := make([]models.Order, len(s.orders))
	copy(sorted, s.orders)
	s.mu.Unlock()

	switch sortMode {
	case SortCreatedAsc:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })
	case SortTotalDesc:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TotalAmount > sorted[j].TotalAmount })
	case SortTotalAsc:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TotalAmount < sorted[j].TotalAmount })
	default:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []models.Order
	for _, order := range sorted {
		past := s.isPast(&order)
		if (view == ViewPast) == past {
			filtered = append(filtered, order)
		}
	}
	return filtered
}

// Preferences returns the remembered view filter and sort mode
func (s *OrderService) Preferences() (OrderView, OrderSort) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view, s.sort
}

// persistLocked writes the order list through the store. Failures are logged
// and otherwise ignored; the in-memory list stays authoritative for the rest
// of the session. Callers must hold the write lock.
func (s *OrderService) persistLocked() {
	if err := s.store.SaveOrders(s.orders); err != nil {
		log.Printf("Warning: failed to persist orders: %v", err)
	}
}
