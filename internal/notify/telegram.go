package notify

import (
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/mehan05/venue-backend-new/internal/domain"
	"github.com/mehan05/venue-backend-new/internal/events"
)

// TelegramNotifier forwards booking events to the configured admin chats.
// It is a passive consumer: delivery failures are logged and never affect
// the request that produced the event.
type TelegramNotifier struct {
	sender  domain.TelegramSender
	chatIDs []int64
	logger  *zerolog.Logger
}

func NewTelegramNotifier(sender domain.TelegramSender, chatIDs []int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		sender:  sender,
		chatIDs: chatIDs,
		logger:  logger,
	}
}

// Subscribe attaches the notifier to booking events on the bus.
func (n *TelegramNotifier) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingSubmitted, n.handleSubmitted)
	bus.Subscribe(events.EventBookingStatusChanged, n.handleStatusChanged)
}

func (n *TelegramNotifier) handleSubmitted(event *events.Event) error {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Msg("decode booking event")
		return err
	}

	text := fmt.Sprintf("New booking request\nVenue: %s\nDate: %s %s\nPurpose: %s\nID: %s",
		payload.Venue, payload.Date, payload.Time, payload.Purpose, payload.BookingID)
	n.broadcast(text)
	return nil
}

func (n *TelegramNotifier) handleStatusChanged(event *events.Event) error {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Msg("decode booking event")
		return err
	}

	text := fmt.Sprintf("Booking %s is now %s", payload.BookingID, payload.Status)
	if payload.Remark != "" {
		text += fmt.Sprintf("\nRemark: %s", payload.Remark)
	}
	n.broadcast(text)
	return nil
}

func (n *TelegramNotifier) broadcast(text string) {
	for _, chatID := range n.chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.sender.Send(msg); err != nil {
			n.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("telegram send failed")
		}
	}
}

// NewBot creates the underlying bot API client.
func NewBot(token string, debug bool) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	bot.Debug = debug
	return bot, nil
}
