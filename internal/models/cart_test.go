package models

import (
	"testing"
)

func TestCartLineItem_Normalize(t *testing.T) {
	tests := []struct {
		name         string
		item         CartLineItem
		wantCategory ItemCategory
		wantQuantity int
		wantPrice    int
		wantSubtotal int
	}{
		{
			name:         "valid item unchanged",
			item:         CartLineItem{Category: CategoryTicket, Quantity: 3, UnitPrice: 4500},
			wantCategory: CategoryTicket,
			wantQuantity: 3,
			wantPrice:    4500,
			wantSubtotal: 13500,
		},
		{
			name:         "missing quantity defaults to 1",
			item:         CartLineItem{Category: CategoryMerch, UnitPrice: 1999},
			wantCategory: CategoryMerch,
			wantQuantity: 1,
			wantPrice:    1999,
			wantSubtotal: 1999,
		},
		{
			name:         "negative price coerced to 0",
			item:         CartLineItem{Category: CategoryMerch, Quantity: 2, UnitPrice: -100},
			wantCategory: CategoryMerch,
			wantQuantity: 2,
			wantPrice:    0,
			wantSubtotal: 0,
		},
		{
			name:         "unknown category becomes other",
			item:         CartLineItem{Category: "gift", Quantity: 1, UnitPrice: 500},
			wantCategory: CategoryOther,
			wantQuantity: 1,
			wantPrice:    500,
			wantSubtotal: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.item.Normalize()
			if tt.item.Category != tt.wantCategory {
				t.Errorf("Category = %v, want %v", tt.item.Category, tt.wantCategory)
			}
			if tt.item.Quantity != tt.wantQuantity {
				t.Errorf("Quantity = %d, want %d", tt.item.Quantity, tt.wantQuantity)
			}
			if tt.item.UnitPrice != tt.wantPrice {
				t.Errorf("UnitPrice = %d, want %d", tt.item.UnitPrice, tt.wantPrice)
			}
			if tt.item.Subtotal != tt.wantSubtotal {
				t.Errorf("Subtotal = %d, want %d", tt.item.Subtotal, tt.wantSubtotal)
			}
		})
	}
}

func TestCart_DerivedViews(t *testing.T) {
	cart := &Cart{Items: []CartLineItem{
		{Category: CategoryTicket, Quantity: 2, UnitPrice: 4500},
		{Category: CategoryTicket, Quantity: 1, UnitPrice: 2500},
		{Category: CategoryMerch, Quantity: 3, UnitPrice: 1000},
	}}

	if got := cart.ItemCount(); got != 6 {
		t.Errorf("ItemCount() = %d, want 6", got)
	}
	if got := cart.TotalAmount(); got != 2*4500+2500+3*1000 {
		t.Errorf("TotalAmount() = %d, want %d", got, 2*4500+2500+3*1000)
	}

	tickets, merch := cart.Breakdown()
	if tickets != 3 {
		t.Errorf("ticket count = %d, want 3", tickets)
	}
	if merch != 3 {
		t.Errorf("merch count = %d, want 3", merch)
	}
}

func TestCart_Find(t *testing.T) {
	cart := &Cart{Items: []CartLineItem{{ID: "a"}, {ID: "b"}}}

	if got := cart.Find("b"); got != 1 {
		t.Errorf("Find(b) = %d, want 1", got)
	}
	if got := cart.Find("missing"); got != -1 {
		t.Errorf("Find(missing) = %d, want -1", got)
	}
}

func TestCartLineItem_ParsedVisitDate(t *testing.T) {
	item := CartLineItem{VisitDate: "2026-09-15"}
	d, ok := item.ParsedVisitDate()
	if !ok {
		t.Fatal("expected a parseable date")
	}
	if d.Year() != 2026 || d.Month() != 9 || d.Day() != 15 {
		t.Errorf("parsed date = %v", d)
	}

	for _, bad := range []string{"", "not-a-date", "15/09/2026"} {
		badItem := CartLineItem{VisitDate: bad}
		if _, ok := badItem.ParsedVisitDate(); ok {
			t.Errorf("ParsedVisitDate(%q) unexpectedly ok", bad)
		}
	}
}
