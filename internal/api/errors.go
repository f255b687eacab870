package api

import (
	"errors"

	"github.com/mehan05/venue-backend-new/internal/database"
)

func isInvalidRole(err error) bool {
	return errors.Is(err, database.ErrInvalidRole)
}

func isInvalidCredentials(err error) bool {
	return errors.Is(err, database.ErrInvalidCredentials)
}

func isNotFound(err error) bool {
	return errors.Is(err, database.ErrBookingNotFound)
}
