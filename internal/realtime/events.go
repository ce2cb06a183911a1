package realtime

import (
	"time"

	"github.com/google/uuid"
)

// Outbound message kinds. Clients subscribe to a single channel and
// dispatch on this value.
const (
	KindReceiptAdded   = "ReceiptAdded"
	KindReceiptLinked  = "ReceiptLinked"
	KindReceiptDeleted = "ReceiptDeleted"
)

// Envelope is the wire shape of every outbound broadcast message.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ReceiptAddedEvent announces a newly stored receipt. Display fields are
// denormalized so clients can render without an extra fetch.
type ReceiptAddedEvent struct {
	ID           uuid.UUID  `json:"id"`
	ThumbnailURL *string    `json:"thumbnailUrl,omitempty"`
	PropertyID   *uuid.UUID `json:"propertyId,omitempty"`
	PropertyName *string    `json:"propertyName,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ReceiptLinkedEvent announces a receipt being attached to an expense.
type ReceiptLinkedEvent struct {
	ReceiptID uuid.UUID `json:"receiptId"`
	ExpenseID uuid.UUID `json:"expenseId"`
}

// ReceiptDeletedEvent announces a receipt removal.
type ReceiptDeletedEvent struct {
	ReceiptID uuid.UUID `json:"receiptId"`
}
