package models

import "time"

// Account is a registered principal, either a faculty member or an admin.
// Faculty and admin accounts share one shape but live in separate tables,
// so the same email may exist once per role.
type Account struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"` // stored as received, no hashing
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
