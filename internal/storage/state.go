package storage

import (
	"encoding/json"
	"fmt"
	"log"

	"park-ticketing-platform/internal/models"
)

// OrdersSchemaVersion is the current on-disk schema version for the order
// list record. Records written under any other version (including the legacy
// bare-array payload, which has no version at all) are discarded on load
// rather than migrated; this one-time reset policy is intentional.
const OrdersSchemaVersion = 2

// Storage keys for the individual state records
const (
	keyOrders     = "parkpass.orders"
	keyOrdersView = "parkpass.orders.view"
	keyOrdersSort = "parkpass.orders.sort"
	keyReviews    = "parkpass.reviews"
	keyStatistics = "parkpass.statistics"
	keyUsers      = "parkpass.users"
)

// ordersRecord is the persisted shape of the order list
type ordersRecord struct {
	Version int            `json:"version"`
	Orders  []models.Order `json:"orders"`
}

// StateStore persists typed application state through a KV backend
type StateStore struct {
	kv KV
}

// NewStateStore creates a state store over the given backend
func NewStateStore(kv KV) *StateStore {
	return &StateStore{kv: kv}
}

// LoadOrders loads the persisted order list. Corrupt payloads and schema
// version mismatches resolve to an empty list, never an error; only a failing
// backend read is reported.
func (s *StateStore) LoadOrders() ([]models.Order, error) {
	data, ok, err := s.kv.Get(keyOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var record ordersRecord
	if err := json.Unmarshal(data, &record); err != nil {
		// Legacy payloads were a bare JSON array; those are discarded along
		// with anything else that does not parse as a versioned record.
		log.Printf("Discarding unreadable order record: %v", err)
		return nil, nil
	}

	if record.Version != OrdersSchemaVersion {
		log.Printf("Discarding order record with schema version %d (want %d)", record.Version, OrdersSchemaVersion)
		return nil, nil
	}

	return record.Orders, nil
}

// SaveOrders persists the order list under the current schema version
func (s *StateStore) SaveOrders(orders []models.Order) error {
	record := ordersRecord{Version: OrdersSchemaVersion, Orders: orders}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode orders: %w", err)
	}
	if err := s.kv.Set(keyOrders, data); err != nil {
		return fmt.Errorf("failed to save orders: %w", err)
	}
	return nil
}

// LoadOrderPrefs loads the persisted view filter and sort mode. Missing or
// unreadable values come back empty and callers apply their defaults.
func (s *StateStore) LoadOrderPrefs() (view, sort string) {
	if data, ok, err := s.kv.Get(keyOrdersView); err == nil && ok {
		view = string(data)
	}
	if data, ok, err := s.kv.Get(keyOrdersSort); err == nil && ok {
		sort = string(data)
	}
	return view, sort
}

// SaveOrderPrefs persists the last-selected view filter and sort mode under
// their own keys
func (s *StateStore) SaveOrderPrefs(view, sort string) error {
	if err := s.kv.Set(keyOrdersView, []byte(view)); err != nil {
		return fmt.Errorf("failed to save view preference: %w", err)
	}
	if err := s.kv.Set(keyOrdersSort, []byte(sort)); err != nil {
		return fmt.Errorf("failed to save sort preference: %w", err)
	}
	return nil
}

// LoadReviews loads the persisted review list; unreadable data resolves to
// an empty list
func (s *StateStore) LoadReviews() ([]models.Review, error) {
	data, ok, err := s.kv.Get(keyReviews)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var reviews []models.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		log.Printf("Discarding unreadable review record: %v", err)
		return nil, nil
	}
	return reviews, nil
}

// SaveReviews persists the review list
func (s *StateStore) SaveReviews(reviews []models.Review) error {
	data, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("failed to encode reviews: %w", err)
	}
	if err := s.kv.Set(keyReviews, data); err != nil {
		return fmt.Errorf("failed to save reviews: %w", err)
	}
	return nil
}

// LoadStatistic loads the persisted sales statistic; unreadable data resolves
// to zeroed counters
func (s *StateStore) LoadStatistic() (*models.Statistic, error) {
	data, ok, err := s.kv.Get(keyStatistics)
	if err != nil {
		return nil, fmt.Errorf("failed to load statistics: %w", err)
	}
	if !ok {
		return &models.Statistic{}, nil
	}

	var stat models.Statistic
	if err := json.Unmarshal(data, &stat); err != nil {
		log.Printf("Discarding unreadable statistics record: %v", err)
		return &models.Statistic{}, nil
	}
	return &stat, nil
}

// SaveStatistic persists the sales statistic
func (s *StateStore) SaveStatistic(stat *models.Statistic) error {
	data, err := json.Marshal(stat)
	if err != nil {
		return fmt.Errorf("failed to encode statistics: %w", err)
	}
	if err := s.kv.Set(keyStatistics, data); err != nil {
		return fmt.Errorf("failed to save statistics: %w", err)
	}
	return nil
}

// userRecord is the persisted shape of a user account. The password hash is
// excluded from the model's public JSON, so persistence uses its own record.
type userRecord struct {
	models.User
	PasswordHash string `json:"password_hash"`
}

// LoadUsers loads the persisted account list; unreadable data resolves to an
// empty list
func (s *StateStore) LoadUsers() ([]models.User, error) {
	data, ok, err := s.kv.Get(keyUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var records []userRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("Discarding unreadable user record: %v", err)
		return nil, nil
	}

	users := make([]models.User, 0, len(records))
	for _, r := range records {
		user := r.User
		user.PasswordHash = r.PasswordHash
		users = append(users, user)
	}
	return users, nil
}

// SaveUsers persists the account list
func (s *StateStore) SaveUsers(users []models.User) error {
	records := make([]userRecord, 0, len(users))
	for _, u := range users {
		records = append(records, userRecord{User: u, PasswordHash: u.PasswordHash})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	if err := s.kv.Set(keyUsers, data); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}
