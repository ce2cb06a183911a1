package domain

import (
	"time"

	"github.com/google/uuid"
)

// Receipt is a scanned purchase receipt owned by exactly one account.
// Optional fields are nil until the owner fills them in or links the
// receipt to an expense.
type Receipt struct {
	ID           uuid.UUID  `json:"id"`
	AccountID    uuid.UUID  `json:"account_id"`
	ThumbnailURL *string    `json:"thumbnail_url,omitempty"`
	PropertyID   *uuid.UUID `json:"property_id,omitempty"`
	PropertyName *string    `json:"property_name,omitempty"`
	ExpenseID    *uuid.UUID `json:"expense_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
