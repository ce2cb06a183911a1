package domain

import "github.com/google/uuid"

// Account is the tenant boundary. All data and notifications are scoped to
// exactly one account.
type Account struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
