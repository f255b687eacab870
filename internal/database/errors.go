package database

import "errors"

var (
	// ErrInvalidRole is returned when a role is not "admin" or "faculty".
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidCredentials is returned when no account matches the
	// supplied email and password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrBookingNotFound is returned by status updates that load the
	// booking first. The find-and-update path reports absence as a nil
	// booking instead.
	ErrBookingNotFound = errors.New("booking not found")
)
