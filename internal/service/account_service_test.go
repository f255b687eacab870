package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehan05/venue-backend-new/internal/database"
	"github.com/mehan05/venue-backend-new/internal/events"
	"github.com/mehan05/venue-backend-new/internal/models"
)

func setupAccountService(t *testing.T) (*AccountService, *events.EventBus) {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bus := events.NewEventBus()
	return NewAccountService(db, bus, &logger), bus
}

func TestAccountService_Register(t *testing.T) {
	svc, bus := setupAccountService(t)

	var published []*events.Event
	bus.Subscribe(events.EventAccountRegistered, func(e *events.Event) error {
		published = append(published, e)
		return nil
	})

	account, err := svc.Register(context.Background(), "prof", "prof@college.edu", "secret", models.RoleFaculty)
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, models.RoleFaculty, account.Role)

	require.Len(t, published, 1)
	var payload events.AccountEventPayload
	require.NoError(t, json.Unmarshal(published[0].Payload, &payload))
	assert.Equal(t, account.ID, payload.AccountID)

	// The password must never travel through the event bus
	assert.False(t, strings.Contains(string(published[0].Payload), "secret"))
}

func TestAccountService_RegisterInvalidRole(t *testing.T) {
	svc, _ := setupAccountService(t)

	_, err := svc.Register(context.Background(), "x", "x@college.edu", "pw", "director")
	assert.ErrorIs(t, err, database.ErrInvalidRole)
}

func TestAccountService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := setupAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a", "dup@college.edu", "1", models.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "b", "dup@college.edu", "2", models.RoleAdmin)
	assert.Error(t, err)

	// Same email under the other role is a different namespace
	_, err = svc.Register(ctx, "c", "dup@college.edu", "3", models.RoleFaculty)
	assert.NoError(t, err)
}

func TestAccountService_Login(t *testing.T) {
	svc, _ := setupAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "prof", "prof@college.edu", "secret", models.RoleFaculty)
	require.NoError(t, err)

	account, err := svc.Login(ctx, "prof@college.edu", "secret", models.RoleFaculty)
	require.NoError(t, err)
	assert.Equal(t, "prof", account.Username)

	_, err = svc.Login(ctx, "prof@college.edu", "wrong", models.RoleFaculty)
	assert.ErrorIs(t, err, database.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "prof@college.edu", "secret", models.RoleAdmin)
	assert.ErrorIs(t, err, database.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "prof@college.edu", "secret", "root")
	assert.ErrorIs(t, err, database.ErrInvalidRole)
}
