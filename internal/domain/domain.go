package domain

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mehan05/venue-backend-new/internal/models"
)

// Store is the persistence surface the services depend on.
type Store interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	Authenticate(ctx context.Context, email, password, role string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email, role string) (*models.Account, error)
	ListAccounts(ctx context.Context, role string) ([]*models.Account, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, facultyID string) ([]*models.Booking, error)
	SetBookingStatus(ctx context.Context, id, status, remark string) (*models.Booking, error)
	PatchBookingStatus(ctx context.Context, id, status, remark string) (*models.Booking, error)
	CountBookingsByStatus(ctx context.Context) (map[string]int, error)
}

// BookingCache caches the unfiltered bookings listing.
type BookingCache interface {
	GetBookings(ctx context.Context) ([]*models.Booking, bool, error)
	SetBookings(ctx context.Context, bookings []*models.Booking, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SheetsWriter mirrors bookings into a spreadsheet.
type SheetsWriter interface {
	AppendBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatus(ctx context.Context, bookingID, status, remark string) error
}

// SyncWorker accepts sheet-sync tasks for asynchronous processing.
type SyncWorker interface {
	EnqueueTask(ctx context.Context, taskType string, booking *models.Booking) error
}

// TelegramSender is the subset of the bot API the notifier needs.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}
