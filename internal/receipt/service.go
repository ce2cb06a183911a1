package receipt

import (
	"context"
	"errors"
	"time"

	"github.com/daveharmswebdev/property-manager-sub008/internal/domain"
	"github.com/daveharmswebdev/property-manager-sub008/internal/realtime"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrInvalidLimit = errors.New("limit must be > 0")

// EventRelay mirrors notification events to a durable per-account queue for
// offline consumers. Like the real-time broadcast it is fire-and-forget.
type EventRelay interface {
	RelayEvent(ctx context.Context, accountID string, env realtime.Envelope) error
}

// AddReceiptInput carries the optional display fields of a new receipt.
type AddReceiptInput struct {
	ThumbnailURL *string
	PropertyID   *uuid.UUID
	PropertyName *string
}

// Service implements the receipt commands. Each command persists first;
// notification is an auxiliary, non-transactional side effect. A failed
// broadcast or relay is logged and never fails the command, because the
// state change has already committed.
type Service struct {
	repository Repository
	notifier   realtime.Publisher
	relay      EventRelay
	log        zerolog.Logger
}

func NewService(repo Repository, notifier realtime.Publisher, relay EventRelay, log zerolog.Logger) *Service {
	return &Service{
		repository: repo,
		notifier:   notifier,
		relay:      relay,
		log:        log,
	}
}

func (s *Service) Add(ctx context.Context, accountID uuid.UUID, in AddReceiptInput) (*domain.Receipt, error) {
	receipt := &domain.Receipt{
		ID:           uuid.New(),
		AccountID:    accountID,
		ThumbnailURL: in.ThumbnailURL,
		PropertyID:   in.PropertyID,
		PropertyName: in.PropertyName,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repository.Insert(ctx, receipt); err != nil {
		return nil, err
	}

	ev := realtime.ReceiptAddedEvent{
		ID:           receipt.ID,
		ThumbnailURL: receipt.ThumbnailURL,
		PropertyID:   receipt.PropertyID,
		PropertyName: receipt.PropertyName,
		CreatedAt:    receipt.CreatedAt,
	}
	if err := s.notifier.ReceiptAdded(ctx, accountID.String(), ev); err != nil {
		s.log.Error().Err(err).Str("account_id", accountID.String()).Msg("Failed to broadcast receipt added")
	}
	s.relayEvent(ctx, accountID, realtime.Envelope{Type: realtime.KindReceiptAdded, Data: ev})

	return receipt, nil
}

func (s *Service) Link(ctx context.Context, accountID, receiptID, expenseID uuid.UUID) error {
	if err := s.repository.LinkExpense(ctx, accountID, receiptID, expenseID); err != nil {
		return err
	}

	ev := realtime.ReceiptLinkedEvent{ReceiptID: receiptID, ExpenseID: expenseID}
	if err := s.notifier.ReceiptLinked(ctx, accountID.String(), ev); err != nil {
		s.log.Error().Err(err).Str("account_id", accountID.String()).Msg("Failed to broadcast receipt linked")
	}
	s.relayEvent(ctx, accountID, realtime.Envelope{Type: realtime.KindReceiptLinked, Data: ev})

	return nil
}

func (s *Service) Delete(ctx context.Context, accountID, receiptID uuid.UUID) error {
	if err := s.repository.Delete(ctx, accountID, receiptID); err != nil {
		return err
	}

	ev := realtime.ReceiptDeletedEvent{ReceiptID: receiptID}
	if err := s.notifier.ReceiptDeleted(ctx, accountID.String(), ev); err != nil {
		s.log.Error().Err(err).Str("account_id", accountID.String()).Msg("Failed to broadcast receipt deleted")
	}
	s.relayEvent(ctx, accountID, realtime.Envelope{Type: realtime.KindReceiptDeleted, Data: ev})

	return nil
}

func (s *Service) List(ctx context.Context, accountID uuid.UUID, cursor string, limit int) ([]*domain.Receipt, string, error) {
	if limit <= 0 {
		return nil, "", ErrInvalidLimit
	}
	return s.repository.ListWithCursor(ctx, accountID, cursor, limit)
}

func (s *Service) relayEvent(ctx context.Context, accountID uuid.UUID, env realtime.Envelope) {
	if s.relay == nil {
		return
	}
	if err := s.relay.RelayEvent(ctx, accountID.String(), env); err != nil {
		s.log.Error().Err(err).Str("account_id", accountID.String()).Str("type", env.Type).Msg("Failed to relay event to queue")
	}
}
