package realtime

import "context"

// groupPrefix is the shared naming convention between the registrar and the
// publisher. It is the single point of coupling: both sides must address the
// exact same case-sensitive group name for a tenant.
const groupPrefix = "account-"

// GroupName returns the broadcast group for an account.
func GroupName(accountID string) string {
	return groupPrefix + accountID
}

// Broadcaster is the group-membership index and fan-out port. The hub owns
// the index; the registrar and publisher only go through these operations,
// so no locking discipline is required above this interface. All operations
// are idempotent, which makes a cancelled-and-retried call safe.
type Broadcaster interface {
	AddToGroup(ctx context.Context, group, connID string) error
	RemoveFromGroup(ctx context.Context, group, connID string) error

	// SendToGroup issues one best-effort broadcast to every connection
	// currently in the group. Zero members is not an error; the event is
	// silently dropped. Completion means the send was dispatched, not that
	// every connection received it.
	SendToGroup(ctx context.Context, group string, env Envelope) error
}
