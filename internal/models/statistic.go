package models

import "fmt"

// Statistic tracks running sales figures across all checkouts
type Statistic struct {
	TotalOrders    int            `json:"total_orders"`
	TotalRevenue   int            `json:"total_revenue"` // in cents
	ItemQuantities map[string]int `json:"item_quantities,omitempty"`
}

// RecordOrder folds a completed order into the running totals
func (s *Statistic) RecordOrder(order *Order) {
	s.TotalOrders++
	s.TotalRevenue += order.TotalAmount

	if s.ItemQuantities == nil {
		s.ItemQuantities = make(map[string]int)
	}
	for _, item := range order.Items {
		s.ItemQuantities[item.Label] += item.Quantity
	}
}

// TopSellingItem returns the label with the highest cumulative quantity, or
// the empty string when nothing has sold. Ties break lexicographically so the
// result is deterministic.
func (s *Statistic) TopSellingItem() string {
	top := ""
	best := 0
	for label, qty := range s.ItemQuantities {
		if qty > best || (qty == best && best > 0 && label < top) {
			top = label
			best = qty
		}
	}
	return top
}

// Report returns a formatted one-line summary for the admin dashboard
func (s *Statistic) Report() string {
	return fmt.Sprintf("Total Orders: %d, Total Revenue: $%.2f", s.TotalOrders, float64(s.TotalRevenue)/100.0)
}
