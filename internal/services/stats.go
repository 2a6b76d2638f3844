package services

import (
	"log"
	"sync"

	"park-ticketing-platform/internal/models"
)

// StatisticStore is the persistence contract the stats service depends on
type StatisticStore interface {
	LoadStatistic() (*models.Statistic, error)
	SaveStatistic(stat *models.Statistic) error
}

// StatsService tracks running sales figures across checkouts
type StatsService struct {
	store StatisticStore

	mu   sync.Mutex
	stat *models.Statistic
}

// NewStatsService creates a stats service, restoring persisted counters
func NewStatsService(store StatisticStore) *StatsService {
	stat, err := store.LoadStatistic()
	if err != nil {
		log.Printf("Warning: failed to load statistics, starting at zero: %v", err)
		stat = &models.Statistic{}
	}

	return &StatsService{store: store, stat: stat}
}

// RecordOrder folds a completed checkout into the running totals
func (s *StatsService) RecordOrder(order *models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stat.RecordOrder(order)
	if err := s.store.SaveStatistic(s.stat); err != nil {
		log.Printf("Warning: failed to persist statistics: %v", err)
	}
}

// StatisticReport is the admin-facing snapshot of the sales counters
type StatisticReport struct {
	TotalOrders    int     `json:"total_orders"`
	TotalRevenue   int     `json:"total_revenue"`
	RevenueDisplay float64 `json:"revenue_display"`
	TopSellingItem string  `json:"top_selling_item,omitempty"`
	Summary        string  `json:"summary"`
}

// Report returns a snapshot of the current totals
func (s *StatsService) Report() StatisticReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StatisticReport{
		TotalOrders:    s.stat.TotalOrders,
		TotalRevenue:   s.stat.TotalRevenue,
		RevenueDisplay: float64(s.stat.TotalRevenue) / 100.0,
		TopSellingItem: s.stat.TopSellingItem(),
		Summary:        s.stat.Report(),
	}
}
