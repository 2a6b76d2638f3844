package services

import (
	"errors"
	"testing"

	"park-ticketing-platform/internal/models"
)

type mockStatisticStore struct {
	stat          *models.Statistic
	shouldFailOps map[string]bool
}

func newMockStatisticStore() *mockStatisticStore {
	return &mockStatisticStore{stat: &models.Statistic{}, shouldFailOps: make(map[string]bool)}
}

func (m *mockStatisticStore) LoadStatistic() (*models.Statistic, error) {
	if m.shouldFailOps["LoadStatistic"] {
		return nil, errors.New("mock error")
	}
	return m.stat, nil
}

func (m *mockStatisticStore) SaveStatistic(stat *models.Statistic) error {
	if m.shouldFailOps["SaveStatistic"] {
		return errors.New("mock error")
	}
	saved := *stat
	m.stat = &saved
	return nil
}

func TestStatsService_RecordOrder(t *testing.T) {
	store := newMockStatisticStore()
	svc := NewStatsService(store)

	svc.RecordOrder(&models.Order{
		TotalAmount: 11500,
		Items: []models.OrderLineItem{
			{Label: "Adult ticket", Quantity: 2},
			{Label: "Child ticket", Quantity: 1},
		},
	})
	svc.RecordOrder(&models.Order{
		TotalAmount: 2500,
		Items:       []models.OrderLineItem{{Label: "Child ticket", Quantity: 2}},
	})

	report := svc.Report()
	if report.TotalOrders != 2 {
		t.Errorf("TotalOrders = %d, want 2", report.TotalOrders)
	}
	if report.TotalRevenue != 14000 {
		t.Errorf("TotalRevenue = %d, want 14000", report.TotalRevenue)
	}
	if report.RevenueDisplay != 140.0 {
		t.Errorf("RevenueDisplay = %v, want 140.0", report.RevenueDisplay)
	}
	if report.TopSellingItem != "Child ticket" {
		t.Errorf("TopSellingItem = %q, want %q", report.TopSellingItem, "Child ticket")
	}

	// Counters are persisted after each checkout
	if store.stat.TotalOrders != 2 {
		t.Errorf("persisted TotalOrders = %d, want 2", store.stat.TotalOrders)
	}
}

func TestStatsService_RestoresPersistedCounters(t *testing.T) {
	store := newMockStatisticStore()
	store.stat = &models.Statistic{TotalOrders: 7, TotalRevenue: 90000}

	svc := NewStatsService(store)
	report := svc.Report()
	if report.TotalOrders != 7 || report.TotalRevenue != 90000 {
		t.Errorf("report = %+v", report)
	}
}

func TestStatsService_StartsAtZeroOnLoadFailure(t *testing.T) {
	store := newMockStatisticStore()
	store.shouldFailOps["LoadStatistic"] = true

	svc := NewStatsService(store)
	if report := svc.Report(); report.TotalOrders != 0 || report.TotalRevenue != 0 {
		t.Errorf("report = %+v, want zeroed", report)
	}
}
