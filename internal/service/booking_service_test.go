package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehan05/venue-backend-new/internal/database"
	"github.com/mehan05/venue-backend-new/internal/events"
	"github.com/mehan05/venue-backend-new/internal/models"
	"github.com/mehan05/venue-backend-new/internal/repository"
)

type enqueuedTask struct {
	taskType string
	booking  *models.Booking
}

type fakeSyncWorker struct {
	tasks []enqueuedTask
}

func (f *fakeSyncWorker) EnqueueTask(ctx context.Context, taskType string, booking *models.Booking) error {
	f.tasks = append(f.tasks, enqueuedTask{taskType: taskType, booking: booking})
	return nil
}

func setupBookingService(t *testing.T) (*BookingService, *database.DB, *events.EventBus, *fakeSyncWorker) {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bus := events.NewEventBus()
	worker := &fakeSyncWorker{}
	svc := NewBookingService(db, repository.NewMemoryBookingCache(), bus, worker, time.Minute, &logger)
	return svc, db, bus, worker
}

func TestBookingService_Submit(t *testing.T) {
	svc, _, bus, worker := setupBookingService(t)

	var published []*events.Event
	bus.Subscribe(events.EventBookingSubmitted, func(e *events.Event) error {
		published = append(published, e)
		return nil
	})

	booking, err := svc.Submit(context.Background(), "Main Auditorium", "2026-09-10", "10:00-12:00", "Orientation")
	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, "", booking.Remark)

	require.Len(t, published, 1)
	var payload events.BookingEventPayload
	require.NoError(t, json.Unmarshal(published[0].Payload, &payload))
	assert.Equal(t, booking.ID, payload.BookingID)
	assert.Equal(t, models.StatusPending, payload.Status)

	require.Len(t, worker.tasks, 1)
	assert.Equal(t, "append", worker.tasks[0].taskType)
}

func TestBookingService_ListUsesCache(t *testing.T) {
	svc, db, _, _ := setupBookingService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "Seminar Hall A", "2026-09-11", "14:00", "Lecture")
	require.NoError(t, err)

	first, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Bypass the service and write directly; the cached listing must still
	// be served until something invalidates it
	extra := &models.Booking{Venue: "Seminar Hall B", Date: "2026-09-12", Time: "09:00", Purpose: "Workshop"}
	require.NoError(t, db.CreateBooking(ctx, extra))

	cached, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, cached, 1)
}

func TestBookingService_ListFacultyFilterBypassesCache(t *testing.T) {
	svc, _, _, _ := setupBookingService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "Conference Room", "2026-09-13", "11:00", "Review")
	require.NoError(t, err)

	// Warm the cache with the unfiltered listing
	_, err = svc.List(ctx, "")
	require.NoError(t, err)

	// The owner column is never written, so a filtered listing is empty
	filtered, err := svc.List(ctx, "faculty-123")
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestBookingService_SetStatus(t *testing.T) {
	svc, _, bus, worker := setupBookingService(t)
	ctx := context.Background()

	var payloads []events.BookingEventPayload
	bus.Subscribe(events.EventBookingStatusChanged, func(e *events.Event) error {
		var p events.BookingEventPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return err
		}
		payloads = append(payloads, p)
		return nil
	})

	booking, err := svc.Submit(ctx, "Main Auditorium", "2026-09-10", "10:00", "Orientation")
	require.NoError(t, err)

	updated, err := svc.SetStatus(ctx, booking.ID, models.StatusRejected, "venue under repair")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Status)
	assert.Equal(t, "venue under repair", updated.Remark)

	require.Len(t, payloads, 1)
	assert.Equal(t, "set", payloads[0].Via)
	assert.Equal(t, models.StatusRejected, payloads[0].Status)

	require.Len(t, worker.tasks, 2)
	assert.Equal(t, "update_status", worker.tasks[1].taskType)
}

func TestBookingService_SetStatusNotFound(t *testing.T) {
	svc, _, _, _ := setupBookingService(t)

	_, err := svc.SetStatus(context.Background(), "missing", models.StatusApproved, "")
	assert.ErrorIs(t, err, database.ErrBookingNotFound)
}

func TestBookingService_SetStatusInvalidatesCache(t *testing.T) {
	svc, _, _, _ := setupBookingService(t)
	ctx := context.Background()

	booking, err := svc.Submit(ctx, "Open Air Theatre", "2026-09-15", "18:00", "Cultural night")
	require.NoError(t, err)

	_, err = svc.List(ctx, "")
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, booking.ID, models.StatusApproved, "")
	require.NoError(t, err)

	// The next listing reflects the new status, not the cached Pending one
	listed, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, models.StatusApproved, listed[0].Status)
}

func TestBookingService_PatchStatus(t *testing.T) {
	svc, _, bus, _ := setupBookingService(t)
	ctx := context.Background()

	var payloads []events.BookingEventPayload
	bus.Subscribe(events.EventBookingStatusChanged, func(e *events.Event) error {
		var p events.BookingEventPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			return err
		}
		payloads = append(payloads, p)
		return nil
	})

	booking, err := svc.Submit(ctx, "Seminar Hall A", "2026-09-16", "10:00", "Seminar")
	require.NoError(t, err)

	patched, err := svc.PatchStatus(ctx, booking.ID, models.StatusApproved, "confirmed")
	require.NoError(t, err)
	require.NotNil(t, patched)
	assert.Equal(t, models.StatusApproved, patched.Status)

	require.Len(t, payloads, 1)
	assert.Equal(t, "patch", payloads[0].Via)
}

func TestBookingService_PatchStatusMissing(t *testing.T) {
	svc, _, bus, worker := setupBookingService(t)

	fired := false
	bus.Subscribe(events.EventBookingStatusChanged, func(e *events.Event) error {
		fired = true
		return nil
	})

	patched, err := svc.PatchStatus(context.Background(), "missing", models.StatusApproved, "")
	require.NoError(t, err)
	assert.Nil(t, patched)

	// A no-op patch publishes nothing and enqueues nothing
	assert.False(t, fired)
	assert.Empty(t, worker.tasks)
}

func TestBookingService_CountByStatus(t *testing.T) {
	svc, _, _, _ := setupBookingService(t)
	ctx := context.Background()

	b1, err := svc.Submit(ctx, "Main Auditorium", "2026-09-10", "10:00", "A")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "Main Auditorium", "2026-09-11", "10:00", "B")
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, b1.ID, models.StatusApproved, "")
	require.NoError(t, err)

	counts, err := svc.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.StatusPending])
	assert.Equal(t, 1, counts[models.StatusApproved])
}
