package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehan05/venue-backend-new/internal/models"
)

func TestRedisBookingCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	cache := NewRedisBookingCache(client)
	ctx := context.Background()

	t.Run("MissOnEmptyCache", func(t *testing.T) {
		bookings, ok, err := cache.GetBookings(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, bookings)
	})

	t.Run("SetAndGet", func(t *testing.T) {
		stored := []*models.Booking{
			{ID: "b1", Venue: "Main Auditorium", Date: "2026-09-10", Time: "10:00", Purpose: "Orientation", Status: models.StatusPending},
			{ID: "b2", Venue: "Seminar Hall A", Date: "2026-09-11", Time: "14:00", Purpose: "Lecture", Status: models.StatusApproved},
		}
		require.NoError(t, cache.SetBookings(ctx, stored, time.Minute))

		got, ok, err := cache.GetBookings(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, got, 2)
		assert.Equal(t, "b1", got[0].ID)
		assert.Equal(t, models.StatusApproved, got[1].Status)
	})

	t.Run("Invalidate", func(t *testing.T) {
		require.NoError(t, cache.Invalidate(ctx))

		_, ok, err := cache.GetBookings(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("TTLExpiry", func(t *testing.T) {
		require.NoError(t, cache.SetBookings(ctx, []*models.Booking{{ID: "b3"}}, time.Minute))

		s.FastForward(2 * time.Minute)

		_, ok, err := cache.GetBookings(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestPing(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	assert.NoError(t, Ping(context.Background(), client))

	s.Close()
	assert.Error(t, Ping(context.Background(), client))
}
