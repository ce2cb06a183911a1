package receipt

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daveharmswebdev/property-manager-sub008/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("receipt not found")
	ErrInvalidCursor = errors.New("invalid cursor")
)

// decodeCursor reverses encodeCursor. Every failure wraps ErrInvalidCursor
// so callers can treat a bad cursor as client input, not a store fault.
func decodeCursor(cursor string) (time.Time, uuid.UUID, error) {
	decoded, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: not base64 encoded", ErrInvalidCursor)
	}

	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: malformed structure", ErrInvalidCursor)
	}

	afterTime, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: could not parse time", ErrInvalidCursor)
	}

	afterID, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("%w: could not parse id", ErrInvalidCursor)
	}

	return afterTime, afterID, nil
}

func encodeCursor(createdAt time.Time, id uuid.UUID) string {
	raw := fmt.Sprintf("%s|%s", createdAt.Format(time.RFC3339Nano), id)
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// Repository is the account-scoped receipt store. Every query filters on
// account_id; there is no unscoped access path.
type Repository interface {
	Insert(ctx context.Context, r *domain.Receipt) error
	Get(ctx context.Context, accountID, id uuid.UUID) (*domain.Receipt, error)
	LinkExpense(ctx context.Context, accountID, id, expenseID uuid.UUID) error
	Delete(ctx context.Context, accountID, id uuid.UUID) error
	ListWithCursor(ctx context.Context, accountID uuid.UUID, cursor string, limit int) ([]*domain.Receipt, string, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, receipt *domain.Receipt) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO receipts (id, account_id, thumbnail_url, property_id, property_name, expense_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, receipt.ID, receipt.AccountID, receipt.ThumbnailURL, receipt.PropertyID, receipt.PropertyName, receipt.ExpenseID, receipt.CreatedAt)
	if err != nil {
		return fmt.Errorf("could not insert receipt %s: %w", receipt.ID, err)
	}
	return nil
}

func (r *repository) Get(ctx context.Context, accountID, id uuid.UUID) (*domain.Receipt, error) {
	var receipt domain.Receipt
	err := r.db.QueryRow(ctx, `
		SELECT id, account_id, thumbnail_url, property_id, property_name, expense_id, created_at
		FROM receipts
		WHERE account_id = $1 AND id = $2
	`, accountID, id).Scan(
		&receipt.ID, &receipt.AccountID, &receipt.ThumbnailURL,
		&receipt.PropertyID, &receipt.PropertyName, &receipt.ExpenseID, &receipt.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not load receipt %s: %w", id, err)
	}
	return &receipt, nil
}

func (r *repository) LinkExpense(ctx context.Context, accountID, id, expenseID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE receipts SET expense_id = $3
		WHERE account_id = $1 AND id = $2
	`, accountID, id, expenseID)
	if err != nil {
		return fmt.Errorf("could not link receipt %s to expense %s: %w", id, expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM receipts
		WHERE account_id = $1 AND id = $2
	`, accountID, id)
	if err != nil {
		return fmt.Errorf("could not delete receipt %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ListWithCursor(ctx context.Context, accountID uuid.UUID, cursor string, limit int) ([]*domain.Receipt, string, error) {
	var afterTime time.Time
	var afterID uuid.UUID

	if cursor != "" {
		var err error
		afterTime, afterID, err = decodeCursor(cursor)
		if err != nil {
			return nil, "", err
		}
	}

	query := `
		SELECT id, account_id, thumbnail_url, property_id, property_name, expense_id, created_at
		FROM receipts
		WHERE account_id = $1 AND ($2 = '' OR (created_at, id) > ($3, $4))
		ORDER BY created_at, id
		LIMIT $5
	`

	rows, err := r.db.Query(ctx, query, accountID, cursor, afterTime, afterID, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	receipts := []*domain.Receipt{}
	var nextCursor string

	for rows.Next() {
		var receipt domain.Receipt
		err := rows.Scan(
			&receipt.ID, &receipt.AccountID, &receipt.ThumbnailURL,
			&receipt.PropertyID, &receipt.PropertyName, &receipt.ExpenseID, &receipt.CreatedAt,
		)
		if err != nil {
			return nil, "", err
		}
		receipts = append(receipts, &receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	if len(receipts) == limit {
		last := receipts[len(receipts)-1]
		nextCursor = encodeCursor(last.CreatedAt, last.ID)
	}

	return receipts, nextCursor, nil
}
