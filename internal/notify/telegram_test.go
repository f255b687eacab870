package notify

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehan05/venue-backend-new/internal/events"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestNotifier_BookingSubmitted(t *testing.T) {
	sender := &fakeSender{}
	logger := zerolog.Nop()
	notifier := NewTelegramNotifier(sender, []int64{100, 200}, &logger)

	bus := events.NewEventBus()
	notifier.Subscribe(bus)

	require.NoError(t, bus.PublishJSON(events.EventBookingSubmitted, events.BookingEventPayload{
		BookingID: "b1", Venue: "Main Auditorium", Date: "2026-09-10", Time: "10:00", Purpose: "Orientation",
	}))

	require.Len(t, sender.sent, 2)
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(100), msg.ChatID)
	assert.Contains(t, msg.Text, "Main Auditorium")
	assert.Contains(t, msg.Text, "b1")
}

func TestNotifier_StatusChanged(t *testing.T) {
	sender := &fakeSender{}
	logger := zerolog.Nop()
	notifier := NewTelegramNotifier(sender, []int64{100}, &logger)

	bus := events.NewEventBus()
	notifier.Subscribe(bus)

	require.NoError(t, bus.PublishJSON(events.EventBookingStatusChanged, events.BookingEventPayload{
		BookingID: "b2", Status: "Rejected", Remark: "venue closed",
	}))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0].(tgbotapi.MessageConfig)
	assert.Contains(t, msg.Text, "Rejected")
	assert.Contains(t, msg.Text, "venue closed")
}

func TestNotifier_SendErrorIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("telegram down")}
	logger := zerolog.Nop()
	notifier := NewTelegramNotifier(sender, []int64{100, 200}, &logger)

	bus := events.NewEventBus()
	notifier.Subscribe(bus)

	// Delivery failure must not surface to the publisher
	require.NoError(t, bus.PublishJSON(events.EventBookingSubmitted, events.BookingEventPayload{BookingID: "b3"}))

	// Both chats are still attempted
	assert.Len(t, sender.sent, 2)
}

func TestNotifier_BadPayload(t *testing.T) {
	sender := &fakeSender{}
	logger := zerolog.Nop()
	notifier := NewTelegramNotifier(sender, []int64{100}, &logger)

	err := notifier.handleSubmitted(&events.Event{
		Type:    events.EventBookingSubmitted,
		Payload: []byte("{not json"),
	})
	assert.Error(t, err)
	assert.Empty(t, sender.sent)
}
