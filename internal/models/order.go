package models

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderPending       OrderStatus = "pending"
	OrderCompleted     OrderStatus = "completed"
	OrderRefunded      OrderStatus = "refunded"
	OrderCancelPending OrderStatus = "cancel_pending"
	OrderCancelled     OrderStatus = "cancelled"
)

// ErrInvalidTransition is returned when an order event is not legal for the
// order's current status.
var ErrInvalidTransition = errors.New("invalid order status transition")

// OrderEvent represents an event that can drive an order status transition
type OrderEvent string

const (
	// EventCancelRequested is raised when a customer requests cancellation
	EventCancelRequested OrderEvent = "cancel_requested"
	// EventCancelResolved is raised when the back office confirms a cancellation
	EventCancelResolved OrderEvent = "cancel_resolved"
	// EventRefunded is raised by an external refund process
	EventRefunded OrderEvent = "refunded"
)

// StatusBadge is the display badge derived from an order status
type StatusBadge struct {
	Label   string `json:"label"`
	Variant string `json:"variant"`
}

// Valid returns true if the status is a known order status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderCompleted, OrderRefunded, OrderCancelPending, OrderCancelled:
		return true
	default:
		return false
	}
}

// Badge returns the display badge for the status
func (s OrderStatus) Badge() StatusBadge {
	switch s {
	case OrderPending:
		return StatusBadge{Label: "Pending", Variant: "warning"}
	case OrderRefunded:
		return StatusBadge{Label: "Refunded", Variant: "danger"}
	case OrderCancelPending:
		return StatusBadge{Label: "Cancellation requested", Variant: "warning"}
	case OrderCancelled:
		return StatusBadge{Label: "Cancelled", Variant: "danger"}
	default:
		return StatusBadge{Label: "Completed", Variant: "success"}
	}
}

// Transition is the total transition function over (status, event). Any pair
// not listed below is rejected with ErrInvalidTransition, so a cancelled or
// cancel_pending order can never re-enter an active state.
func Transition(status OrderStatus, event OrderEvent) (OrderStatus, error) {
	switch event {
	case EventCancelRequested:
		if status == OrderPending || status == OrderCompleted {
			return OrderCancelPending, nil
		}
	case EventCancelResolved:
		if status == OrderCancelPending {
			return OrderCancelled, nil
		}
	case EventRefunded:
		if status == OrderPending || status == OrderCompleted {
			return OrderRefunded, nil
		}
	}
	return status, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, status)
}

// CancellationStatus tracks the lifecycle of a cancellation request
type CancellationStatus string

const (
	CancellationRequested CancellationStatus = "requested"
	CancellationResolved  CancellationStatus = "resolved"
)

// CancellationReason enumerates the accepted reasons for a cancellation request
type CancellationReason string

const (
	ReasonChangeOfPlans  CancellationReason = "change_of_plans"
	ReasonWeather        CancellationReason = "weather"
	ReasonDuplicateOrder CancellationReason = "duplicate_order"
	ReasonOther          CancellationReason = "other"
)

// Valid returns true if the reason is a known cancellation reason
func (r CancellationReason) Valid() bool {
	switch r {
	case ReasonChangeOfPlans, ReasonWeather, ReasonDuplicateOrder, ReasonOther:
		return true
	default:
		return false
	}
}

// CancellationRecord is attached to an order once cancellation is requested
type CancellationRecord struct {
	Status      CancellationStatus `json:"status"`
	Reason      CancellationReason `json:"reason"`
	Notes       string             `json:"notes,omitempty"`
	RequestedAt time.Time          `json:"requested_at"`
	CancelledAt *time.Time         `json:"cancelled_at,omitempty"`
}

// OrderLineItem is an immutable, deduplicated item within a finalized order
type OrderLineItem struct {
	Label     string       `json:"label"`
	Category  ItemCategory `json:"category"`
	Quantity  int          `json:"quantity"`
	UnitPrice int          `json:"unit_price"` // in cents
	Meta      string       `json:"meta,omitempty"`
	Park      string       `json:"park,omitempty"`
	VisitDate string       `json:"visit_date,omitempty"` // YYYY-MM-DD
	VisitTime string       `json:"visit_time,omitempty"` // HH:MM
}

// Subtotal returns the line total in cents
func (i OrderLineItem) Subtotal() int {
	return i.Quantity * i.UnitPrice
}

// ParsedVisitDate parses the visit date. The boolean is false when the line
// carries no parseable date.
func (i OrderLineItem) ParsedVisitDate() (time.Time, bool) {
	if i.VisitDate == "" {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", i.VisitDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Order represents a finalized order. Apart from the status and cancellation
// fields, which move only through the cancellation flow, an order is immutable
// after creation: items are never added, removed or reordered, and the total
// is never recomputed.
type Order struct {
	ID            string              `json:"id"`
	CreatedAt     time.Time           `json:"created_at"`
	Status        OrderStatus         `json:"status"`
	Summary       string              `json:"summary"`
	Items         []OrderLineItem     `json:"items"`
	TotalAmount   int                 `json:"total_amount"` // in cents
	TicketCount   int                 `json:"ticket_count"`
	MerchCount    int                 `json:"merch_count"`
	PaymentID     string              `json:"payment_id"`
	PaymentStatus string              `json:"payment_status"`
	ReceiptID     string              `json:"receipt_id"`
	CustomerID    string              `json:"customer_id"`
	CustomerName  string              `json:"customer_name"`
	CustomerType  string              `json:"customer_type"`
	QRPayload     string              `json:"qr_payload"`
	Cancellation  *CancellationRecord `json:"cancellation,omitempty"`
}

// Badge returns the display badge for the order's current status
func (o *Order) Badge() StatusBadge {
	return o.Status.Badge()
}

// HasTickets returns true if the order contains at least one ticket line
func (o *Order) HasTickets() bool {
	for _, item := range o.Items {
		if item.Category == CategoryTicket {
			return true
		}
	}
	return false
}

// TicketDates returns the parseable visit dates of all ticket lines
func (o *Order) TicketDates() []time.Time {
	var dates []time.Time
	for _, item := range o.Items {
		if item.Category != CategoryTicket {
			continue
		}
		if d, ok := item.ParsedVisitDate(); ok {
			dates = append(dates, d)
		}
	}
	return dates
}

// TotalAmountInCurrency returns the order total in the main currency unit
func (o *Order) TotalAmountInCurrency() float64 {
	return float64(o.TotalAmount) / 100.0
}

// GenerateOrderNumber generates a unique order number in the format
// ORD-YYYYMMDD-XXXXXX (e.g., ORD-20260101-123456)
func GenerateOrderNumber() string {
	now := time.Now()
	dateStr := now.Format("20060102")

	max := big.NewInt(1000000)
	randomNum, err := rand.Int(rand.Reader, max)
	if err != nil {
		// Fallback to timestamp-based generation if crypto/rand fails
		return fmt.Sprintf("ORD-%s-%06d", dateStr, now.UnixNano()%1000000)
	}

	return fmt.Sprintf("ORD-%s-%06d", dateStr, randomNum.Int64())
}

// GeneratePaymentID generates a synthetic payment identifier
func GeneratePaymentID() string {
	return "PAY-" + uuid.NewString()
}

// GenerateReceiptID generates a synthetic receipt identifier
func GenerateReceiptID() string {
	return "RCT-" + uuid.NewString()
}

// GenerateQRPayload generates the opaque scannable payload for an order. The
// format is scheme, order id and a random token, colon separated.
func GenerateQRPayload(orderID string) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("PARKPASS:%s:%d", orderID, time.Now().UnixNano())
	}
	return fmt.Sprintf("PARKPASS:%s:%s", orderID, hex.EncodeToString(buf))
}
