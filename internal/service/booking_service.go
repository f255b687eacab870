package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mehan05/venue-backend-new/internal/domain"
	"github.com/mehan05/venue-backend-new/internal/events"
	"github.com/mehan05/venue-backend-new/internal/models"
)

type BookingService struct {
	store      domain.Store
	cache      domain.BookingCache
	eventBus   domain.EventPublisher
	syncWorker domain.SyncWorker
	cacheTTL   time.Duration
	logger     *zerolog.Logger
}

func NewBookingService(store domain.Store, cache domain.BookingCache, eventBus domain.EventPublisher, syncWorker domain.SyncWorker, cacheTTL time.Duration, logger *zerolog.Logger) *BookingService {
	if cacheTTL <= 0 {
		cacheTTL = models.BookingsCacheTTL * time.Second
	}
	return &BookingService{
		store:      store,
		cache:      cache,
		eventBus:   eventBus,
		syncWorker: syncWorker,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Submit stores a new booking request. All four fields are opaque strings
// and accepted as-is; status always starts Pending with an empty remark.
func (s *BookingService) Submit(ctx context.Context, venue, date, timeSlot, purpose string) (*models.Booking, error) {
	booking := &models.Booking{
		Venue:   venue,
		Date:    date,
		Time:    timeSlot,
		Purpose: purpose,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.publishEvent(events.EventBookingSubmitted, booking, "")
	s.enqueueSync(ctx, "append", booking)

	return booking, nil
}

// List returns bookings matching the optional facultyID filter. The
// unfiltered listing is served from the cache when fresh. A non-empty
// filter always bypasses the cache and, with no owner ever recorded on a
// booking, always comes back empty.
func (s *BookingService) List(ctx context.Context, facultyID string) ([]*models.Booking, error) {
	if facultyID == "" && s.cache != nil {
		if bookings, ok, err := s.cache.GetBookings(ctx); err == nil && ok {
			return bookings, nil
		} else if err != nil {
			s.logger.Warn().Err(err).Msg("bookings cache read error")
		}
	}

	bookings, err := s.store.ListBookings(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	if facultyID == "" && s.cache != nil {
		if err := s.cache.SetBookings(ctx, bookings, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("bookings cache write error")
		}
	}

	return bookings, nil
}

// SetStatus overwrites a booking's status and remark, failing with the
// store's not-found error when the id is unknown. The status value is not
// checked against the lifecycle enum and any prior value is replaced,
// including re-entry into a decided state.
func (s *BookingService) SetStatus(ctx context.Context, id, status, remark string) (*models.Booking, error) {
	booking, err := s.store.SetBookingStatus(ctx, id, status, remark)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.publishEvent(events.EventBookingStatusChanged, booking, "set")
	s.enqueueSync(ctx, "update_status", booking)

	return booking, nil
}

// PatchStatus is the find-and-update sibling of SetStatus: one store
// round-trip, and an unknown id yields (nil, nil) instead of an error.
func (s *BookingService) PatchStatus(ctx context.Context, id, status, remark string) (*models.Booking, error) {
	booking, err := s.store.PatchBookingStatus(ctx, id, status, remark)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, nil
	}

	s.invalidateCache(ctx)
	s.publishEvent(events.EventBookingStatusChanged, booking, "patch")
	s.enqueueSync(ctx, "update_status", booking)

	return booking, nil
}

func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	return s.store.GetBooking(ctx, id)
}

func (s *BookingService) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.store.CountBookingsByStatus(ctx)
}

func (s *BookingService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("bookings cache invalidate error")
	}
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, via string) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		Venue:     booking.Venue,
		Date:      booking.Date,
		Time:      booking.Time,
		Purpose:   booking.Purpose,
		Status:    booking.Status,
		Remark:    booking.Remark,
		Via:       via,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueSync(ctx context.Context, taskType string, booking *models.Booking) {
	if s.syncWorker == nil {
		return
	}

	if err := s.syncWorker.EnqueueTask(ctx, taskType, booking); err != nil {
		s.logger.Error().Err(err).Str("booking_id", booking.ID).Str("task", taskType).Msg("sheets enqueue error")
	}
}
