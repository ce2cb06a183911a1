package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/daveharmswebdev/property-manager-sub008/api/handler"
	"github.com/daveharmswebdev/property-manager-sub008/internal/auth"
	"github.com/daveharmswebdev/property-manager-sub008/internal/domain"
	"github.com/daveharmswebdev/property-manager-sub008/internal/realtime"
	"github.com/daveharmswebdev/property-manager-sub008/internal/receipt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type memRepository struct {
	receipts map[uuid.UUID]*domain.Receipt
}

func newMemRepository() *memRepository {
	return &memRepository{receipts: make(map[uuid.UUID]*domain.Receipt)}
}

func (m *memRepository) Insert(ctx context.Context, r *domain.Receipt) error {
	m.receipts[r.ID] = r
	return nil
}

func (m *memRepository) Get(ctx context.Context, accountID, id uuid.UUID) (*domain.Receipt, error) {
	r, ok := m.receipts[id]
	if !ok || r.AccountID != accountID {
		return nil, receipt.ErrNotFound
	}
	return r, nil
}

func (m *memRepository) LinkExpense(ctx context.Context, accountID, id, expenseID uuid.UUID) error {
	r, ok := m.receipts[id]
	if !ok || r.AccountID != accountID {
		return receipt.ErrNotFound
	}
	r.ExpenseID = &expenseID
	return nil
}

func (m *memRepository) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	r, ok := m.receipts[id]
	if !ok || r.AccountID != accountID {
		return receipt.ErrNotFound
	}
	delete(m.receipts, id)
	return nil
}

func (m *memRepository) ListWithCursor(ctx context.Context, accountID uuid.UUID, cursor string, limit int) ([]*domain.Receipt, string, error) {
	// The fake never hands out cursors, so any non-empty one is bogus.
	if cursor != "" {
		return nil, "", receipt.ErrInvalidCursor
	}
	out := []*domain.Receipt{}
	for _, r := range m.receipts {
		if r.AccountID == accountID {
			out = append(out, r)
		}
	}
	return out, "", nil
}

type kindRecorder struct {
	kinds []string
}

func (k *kindRecorder) ReceiptAdded(ctx context.Context, accountID string, ev realtime.ReceiptAddedEvent) error {
	k.kinds = append(k.kinds, realtime.KindReceiptAdded)
	return nil
}

func (k *kindRecorder) ReceiptLinked(ctx context.Context, accountID string, ev realtime.ReceiptLinkedEvent) error {
	k.kinds = append(k.kinds, realtime.KindReceiptLinked)
	return nil
}

func (k *kindRecorder) ReceiptDeleted(ctx context.Context, accountID string, ev realtime.ReceiptDeletedEvent) error {
	k.kinds = append(k.kinds, realtime.KindReceiptDeleted)
	return nil
}

// newReceiptAPI assembles the handler behind a stub middleware that injects
// verified claims, the way the JWT middleware does in production.
func newReceiptAPI(accountID uuid.UUID, repo receipt.Repository, notifier realtime.Publisher) *echo.Echo {
	svc := receipt.NewService(repo, notifier, nil, zerolog.Nop())

	e := echo.New()
	g := e.Group("/api", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(auth.ContextClaimsKey, &auth.Claims{UserID: "user-1", AccountID: accountID.String()})
			return next(c)
		}
	})
	handler.NewReceiptHandler(svc).RegisterReceiptRoutes(g)
	return e
}

func TestAddReceiptEndpoint(t *testing.T) {
	accountID := uuid.New()
	repo := newMemRepository()
	notifier := &kindRecorder{}
	e := newReceiptAPI(accountID, repo, notifier)

	body := bytes.NewBufferString(`{"property_name": "128 Elm Street"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/receipts", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Receipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, accountID, created.AccountID)
	require.NotNil(t, created.PropertyName)
	require.Equal(t, "128 Elm Street", *created.PropertyName)

	require.Equal(t, []string{realtime.KindReceiptAdded}, notifier.kinds)
}

func TestAddReceiptRejectsInvalidPropertyID(t *testing.T) {
	e := newReceiptAPI(uuid.New(), newMemRepository(), &kindRecorder{})

	body := bytes.NewBufferString(`{"property_id": "not-a-uuid"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/receipts", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLinkReceiptEndpoint(t *testing.T) {
	accountID := uuid.New()
	repo := newMemRepository()
	notifier := &kindRecorder{}
	e := newReceiptAPI(accountID, repo, notifier)

	existing := &domain.Receipt{ID: uuid.New(), AccountID: accountID}
	repo.receipts[existing.ID] = existing

	expenseID := uuid.New()
	body := bytes.NewBufferString(fmt.Sprintf(`{"expense_id": %q}`, expenseID))
	req := httptest.NewRequest(http.MethodPut, "/api/receipts/"+existing.ID.String()+"/expense", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, existing.ExpenseID)
	require.Equal(t, expenseID, *existing.ExpenseID)
	require.Equal(t, []string{realtime.KindReceiptLinked}, notifier.kinds)
}

func TestLinkUnknownReceiptReturns404(t *testing.T) {
	e := newReceiptAPI(uuid.New(), newMemRepository(), &kindRecorder{})

	body := bytes.NewBufferString(fmt.Sprintf(`{"expense_id": %q}`, uuid.New()))
	req := httptest.NewRequest(http.MethodPut, "/api/receipts/"+uuid.New().String()+"/expense", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteReceiptEndpoint(t *testing.T) {
	accountID := uuid.New()
	repo := newMemRepository()
	notifier := &kindRecorder{}
	e := newReceiptAPI(accountID, repo, notifier)

	existing := &domain.Receipt{ID: uuid.New(), AccountID: accountID}
	repo.receipts[existing.ID] = existing

	req := httptest.NewRequest(http.MethodDelete, "/api/receipts/"+existing.ID.String(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotContains(t, repo.receipts, existing.ID)
	require.Equal(t, []string{realtime.KindReceiptDeleted}, notifier.kinds)
}

func TestDeleteOtherAccountsReceiptReturns404(t *testing.T) {
	accountID := uuid.New()
	repo := newMemRepository()
	e := newReceiptAPI(accountID, repo, &kindRecorder{})

	foreign := &domain.Receipt{ID: uuid.New(), AccountID: uuid.New()}
	repo.receipts[foreign.ID] = foreign

	req := httptest.NewRequest(http.MethodDelete, "/api/receipts/"+foreign.ID.String(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, repo.receipts, foreign.ID)
}

func TestListReceiptsEndpoint(t *testing.T) {
	accountID := uuid.New()
	repo := newMemRepository()
	e := newReceiptAPI(accountID, repo, &kindRecorder{})

	mine := &domain.Receipt{ID: uuid.New(), AccountID: accountID}
	other := &domain.Receipt{ID: uuid.New(), AccountID: uuid.New()}
	repo.receipts[mine.ID] = mine
	repo.receipts[other.ID] = other

	req := httptest.NewRequest(http.MethodGet, "/api/receipts", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []*domain.Receipt `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1, "listing must only return the authenticated account's receipts")
}

func TestListReceiptsRejectsMalformedCursor(t *testing.T) {
	accountID := uuid.New()
	e := newReceiptAPI(accountID, newMemRepository(), &kindRecorder{})

	req := httptest.NewRequest(http.MethodGet, "/api/receipts?cursor=%25%25bogus%25%25", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListReceiptsRejectsNonPositiveLimit(t *testing.T) {
	accountID := uuid.New()
	e := newReceiptAPI(accountID, newMemRepository(), &kindRecorder{})

	for _, limit := range []string{"0", "-1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/receipts?limit="+limit, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}
