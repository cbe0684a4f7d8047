package db

import (
	"errors"
	"sort"
	"sync"

	"github.com/mspro/rentalbooks/backend/internal/models"
)

var ErrNotFound = errors.New("record not found")

// Store is the persistence interface shared by the server and the
// import job. Booking and expense rows are only ever written through
// ReplaceAll; user rows only through the explicit account operations.
type Store interface {
	CreateUser(u models.User) error
	GetUser(id string) (models.User, error)
	UpdateUserAccess(id string, units []string, feePercent float64) error
	UpdateUserPassword(id, passwordHash string) error
	AdminExists() (bool, error)

	// ReplaceAll swaps in a freshly imported dataset as one logical
	// operation. On error the previous dataset must remain intact.
	ReplaceAll(bookings []models.Booking, expenses []models.Expense) error

	// month == 0 means the full calendar year.
	BookingsInPeriod(year, month int) ([]models.Booking, error)
	ExpensesInPeriod(year, month int) ([]models.Expense, error)

	DistinctUnits() ([]string, error)
	BookingYears() ([]int, error)

	Close() error
}

// MemoryStore is an in-memory Store used for local development and tests
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]models.User
	bookings []models.Booking
	expenses []models.Expense
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]models.User)}
}

func (s *MemoryStore) CreateUser(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[u.ID]; exists {
		return errors.New("user already exists")
	}
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) GetUser(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) UpdateUserAccess(id string, units []string, feePercent float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.AllowedUnits = units
	u.FeePercent = feePercent
	s.users[id] = u
	return nil
}

func (s *MemoryStore) UpdateUserPassword(id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

func (s *MemoryStore) AdminExists() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Role == models.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ReplaceAll(bookings []models.Booking, expenses []models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = append([]models.Booking(nil), bookings...)
	s.expenses = append([]models.Expense(nil), expenses...)
	return nil
}

func (s *MemoryStore) BookingsInPeriod(year, month int) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.Booking
	for _, b := range s.bookings {
		if b.Checkin.Year() != year {
			continue
		}
		if month != 0 && int(b.Checkin.Month()) != month {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (s *MemoryStore) ExpensesInPeriod(year, month int) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.Expense
	for _, e := range s.expenses {
		if e.Date.Year() != year {
			continue
		}
		if month != 0 && int(e.Date.Month()) != month {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (s *MemoryStore) DistinctUnits() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var units []string
	for _, b := range s.bookings {
		if b.UnitName != "" && !seen[b.UnitName] {
			seen[b.UnitName] = true
			units = append(units, b.UnitName)
		}
	}
	sort.Strings(units)
	return units, nil
}

func (s *MemoryStore) BookingYears() ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[int]bool)
	var years []int
	for _, b := range s.bookings {
		y := b.Checkin.Year()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

func (s *MemoryStore) Close() error { return nil }
