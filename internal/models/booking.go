package models

import "time"

// Booking is a venue reservation request. Date and time are kept as the
// caller supplied them; no calendar semantics are enforced.
type Booking struct {
	ID        string    `json:"id"`
	Venue     string    `json:"venue"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Purpose   string    `json:"purpose"`
	Status    string    `json:"status"` // Pending, Approved, Rejected
	Remark    string    `json:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
