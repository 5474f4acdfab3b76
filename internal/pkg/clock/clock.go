package clock

import (
	"sync"
	"time"

	"library-api/internal/pkg/dateonly"
)

// Clock supplies the current calendar date
type Clock interface {
	Today() dateonly.Date
}

// System reads the wall clock in the given location (Local when nil)
type System struct {
	Location *time.Location
}

// Today returns the current date
func (s System) Today() dateonly.Date {
	now := time.Now()
	if s.Location != nil {
		now = now.In(s.Location)
	}
	return dateonly.Of(now)
}

// Manual is a settable clock for tests and simulations
type Manual struct {
	mu    sync.Mutex
	today dateonly.Date
}

// NewManual creates a manual clock set to today
func NewManual(today dateonly.Date) *Manual {
	return &Manual{today: today}
}

// Today returns the configured date
func (m *Manual) Today() dateonly.Date {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.today
}

// Set moves the clock to d
func (m *Manual) Set(d dateonly.Date) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.today = d
}

// Advance moves the clock forward by days
func (m *Manual) Advance(days int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.today = m.today.AddDays(days)
}
