package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/mehan05/venue-backend-new/internal/domain"
	"github.com/mehan05/venue-backend-new/internal/models"
)

// FailoverBookingCache prefers the primary cache and falls back to the
// secondary after a failure. The primary is retried after a recovery
// window.
type FailoverBookingCache struct {
	primary   domain.BookingCache
	fallback  domain.BookingCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64 // unix nanos of the last failed primary call
}

const recoveryWindow = time.Minute

func NewFailoverBookingCache(primary, fallback domain.BookingCache, logger *zerolog.Logger) *FailoverBookingCache {
	return &FailoverBookingCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (c *FailoverBookingCache) markDown(err error) {
	c.logger.Error().Err(err).Msg("Primary booking cache failed, falling back to memory")
	c.isDown.Store(true)
	c.lastCheck.Store(time.Now().UnixNano())
}

func (c *FailoverBookingCache) primaryUsable() bool {
	if !c.isDown.Load() {
		return true
	}
	if time.Since(time.Unix(0, c.lastCheck.Load())) > recoveryWindow {
		c.isDown.Store(false)
		return true
	}
	return false
}

func (c *FailoverBookingCache) GetBookings(ctx context.Context) ([]*models.Booking, bool, error) {
	if c.primaryUsable() {
		bookings, ok, err := c.primary.GetBookings(ctx)
		if err == nil {
			return bookings, ok, nil
		}
		c.markDown(err)
	}
	return c.fallback.GetBookings(ctx)
}

func (c *FailoverBookingCache) SetBookings(ctx context.Context, bookings []*models.Booking, ttl time.Duration) error {
	if c.primaryUsable() {
		err := c.primary.SetBookings(ctx, bookings, ttl)
		if err == nil {
			return nil
		}
		c.markDown(err)
	}
	return c.fallback.SetBookings(ctx, bookings, ttl)
}

func (c *FailoverBookingCache) Invalidate(ctx context.Context) error {
	// Both sides are invalidated so a recovered primary cannot serve a
	// stale listing.
	var primaryErr error
	if c.primaryUsable() {
		if primaryErr = c.primary.Invalidate(ctx); primaryErr != nil {
			c.markDown(primaryErr)
		}
	}
	if err := c.fallback.Invalidate(ctx); err != nil {
		return err
	}
	return nil
}
