package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mehan05/venue-backend-new/internal/database"
	"github.com/mehan05/venue-backend-new/internal/domain"
	"github.com/mehan05/venue-backend-new/internal/events"
	"github.com/mehan05/venue-backend-new/internal/models"
)

type AccountService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewAccountService(store domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *AccountService {
	return &AccountService{
		store:    store,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Register creates a principal in the table matching role. Fields are
// persisted exactly as supplied; the only check is the role value itself.
// A duplicate email within a role is reported by the store's unique
// constraint, not by a dedicated lookup.
func (s *AccountService) Register(ctx context.Context, username, email, password, role string) (*models.Account, error) {
	if role != models.RoleAdmin && role != models.RoleFaculty {
		return nil, database.ErrInvalidRole
	}

	account := &models.Account{
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.publishRegistered(account)
	return account, nil
}

// Login authenticates by exact email+password match within the role's
// table. No session or token is issued; the caller is trusted to remember
// the role.
func (s *AccountService) Login(ctx context.Context, email, password, role string) (*models.Account, error) {
	if role != models.RoleAdmin && role != models.RoleFaculty {
		return nil, database.ErrInvalidRole
	}

	account, err := s.store.Authenticate(ctx, email, password, role)
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context, role string) ([]*models.Account, error) {
	return s.store.ListAccounts(ctx, role)
}

func (s *AccountService) publishRegistered(account *models.Account) {
	if s.eventBus == nil {
		return
	}

	payload := events.AccountEventPayload{
		AccountID: account.ID,
		Username:  account.Username,
		Email:     account.Email,
		Role:      account.Role,
	}
	if err := s.eventBus.PublishJSON(events.EventAccountRegistered, payload); err != nil {
		s.logger.Error().Err(err).Str("account_id", account.ID).Msg("publish event error")
	}
}
