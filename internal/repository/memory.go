package repository

import (
	"context"
	"sync"
	"time"

	"github.com/mehan05/venue-backend-new/internal/models"
)

// MemoryBookingCache is the in-process fallback when Redis is absent or
// unhealthy.
type MemoryBookingCache struct {
	mu        sync.RWMutex
	bookings  []*models.Booking
	populated bool
	expiresAt time.Time
}

func NewMemoryBookingCache() *MemoryBookingCache {
	return &MemoryBookingCache{}
}

func (m *MemoryBookingCache) GetBookings(ctx context.Context) ([]*models.Booking, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.populated || time.Now().After(m.expiresAt) {
		return nil, false, nil
	}
	out := make([]*models.Booking, len(m.bookings))
	copy(out, m.bookings)
	return out, true, nil
}

func (m *MemoryBookingCache) SetBookings(ctx context.Context, bookings []*models.Booking, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = make([]*models.Booking, len(bookings))
	copy(m.bookings, bookings)
	m.populated = true
	m.expiresAt = time.Now().Add(ttl)
	return nil
}

func (m *MemoryBookingCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = nil
	m.populated = false
	return nil
}
