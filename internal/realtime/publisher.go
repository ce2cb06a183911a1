package realtime

import "context"

// Publisher is the domain-facing contract for announcing receipt changes to
// exactly one account's connections. Callers get the dispatch result back,
// but a failed broadcast must never fail the domain operation that triggered
// it; the state change has already committed.
type Publisher interface {
	ReceiptAdded(ctx context.Context, accountID string, ev ReceiptAddedEvent) error
	ReceiptLinked(ctx context.Context, accountID string, ev ReceiptLinkedEvent) error
	ReceiptDeleted(ctx context.Context, accountID string, ev ReceiptDeletedEvent) error
}

// GroupPublisher broadcasts through the account group named by the same
// convention the registrar enrolls with. It never enumerates connections.
type GroupPublisher struct {
	broadcaster Broadcaster
}

var _ Publisher = (*GroupPublisher)(nil)

func NewGroupPublisher(b Broadcaster) *GroupPublisher {
	return &GroupPublisher{broadcaster: b}
}

func (p *GroupPublisher) ReceiptAdded(ctx context.Context, accountID string, ev ReceiptAddedEvent) error {
	return p.broadcaster.SendToGroup(ctx, GroupName(accountID), Envelope{Type: KindReceiptAdded, Data: ev})
}

func (p *GroupPublisher) ReceiptLinked(ctx context.Context, accountID string, ev ReceiptLinkedEvent) error {
	return p.broadcaster.SendToGroup(ctx, GroupName(accountID), Envelope{Type: KindReceiptLinked, Data: ev})
}

func (p *GroupPublisher) ReceiptDeleted(ctx context.Context, accountID string, ev ReceiptDeletedEvent) error {
	return p.broadcaster.SendToGroup(ctx, GroupName(accountID), Envelope{Type: KindReceiptDeleted, Data: ev})
}
