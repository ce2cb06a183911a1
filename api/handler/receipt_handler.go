package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/daveharmswebdev/property-manager-sub008/api/dto"
	"github.com/daveharmswebdev/property-manager-sub008/internal/auth"
	"github.com/daveharmswebdev/property-manager-sub008/internal/receipt"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ReceiptHandler handles the receipt command and query endpoints. Account
// identity always comes from the verified claims, never from the request.
type ReceiptHandler struct {
	receiptService *receipt.Service
}

func NewReceiptHandler(receiptService *receipt.Service) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
	}
}

// RegisterReceiptRoutes registers receipt-related routes to the Echo router
func (h *ReceiptHandler) RegisterReceiptRoutes(e *echo.Group) {
	e.POST("/receipts", h.Add)
	e.PUT("/receipts/:id/expense", h.Link)
	e.DELETE("/receipts/:id", h.Delete)
	e.GET("/receipts", h.List)
}

// Add godoc
// @Summary     Add a receipt
// @Description Stores a new receipt for the authenticated account and notifies its connected clients.
// @Tags        receipts
// @Accept      json
// @Produce     json
// @Param       receipt body dto.AddReceiptRequest true "Receipt fields"
// @Success     201 {object} domain.Receipt
// @Failure     400 {object} dto.ErrorResponse
// @Failure     500 {object} dto.ErrorResponse
// @Security 	BearerAuth
// @Router      /api/receipts [post]
func (h *ReceiptHandler) Add(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "missing identity"})
	}
	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid account claim"})
	}

	var req dto.AddReceiptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid json payload"})
	}

	in := receipt.AddReceiptInput{
		ThumbnailURL: req.ThumbnailURL,
		PropertyName: req.PropertyName,
	}
	if req.PropertyID != nil {
		propertyID, err := uuid.Parse(*req.PropertyID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid property_id"})
		}
		in.PropertyID = &propertyID
	}

	created, err := h.receiptService.Add(c.Request().Context(), accountID, in)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusCreated, created)
}

// Link godoc
// @Summary     Link a receipt to an expense
// @Tags        receipts
// @Accept      json
// @Produce     json
// @Param       id path string true "Receipt ID"
// @Param       request body dto.LinkReceiptRequest true "Expense to link"
// @Success     200 {object} dto.MessageResponse
// @Failure     400 {object} dto.ErrorResponse
// @Failure     404 {object} dto.ErrorResponse
// @Security 	BearerAuth
// @Router      /api/receipts/{id}/expense [put]
func (h *ReceiptHandler) Link(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "missing identity"})
	}
	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid account claim"})
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid receipt id"})
	}

	var req dto.LinkReceiptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid json payload"})
	}
	expenseID, err := uuid.Parse(req.ExpenseID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid expense_id"})
	}

	if err := h.receiptService.Link(c.Request().Context(), accountID, receiptID, expenseID); err != nil {
		if errors.Is(err, receipt.ErrNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "receipt linked successfully"})
}

// Delete godoc
// @Summary     Delete a receipt
// @Tags        receipts
// @Param       id path string true "Receipt ID"
// @Success     204 "No Content"
// @Failure     404 {object} dto.ErrorResponse
// @Failure     500 {object} dto.ErrorResponse
// @Security 	BearerAuth
// @Router      /api/receipts/{id} [delete]
func (h *ReceiptHandler) Delete(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "missing identity"})
	}
	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid account claim"})
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid receipt id"})
	}

	if err := h.receiptService.Delete(c.Request().Context(), accountID, receiptID); err != nil {
		if errors.Is(err, receipt.ErrNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}

	return c.NoContent(http.StatusNoContent)
}

// List godoc
// @Summary     Get receipts with cursor-based pagination
// @Description Retrieves the authenticated account's receipts.
// @Tags        receipts
// @Produce     json
// @Param       cursor query string false "Cursor for pagination"
// @Param       limit query int false "Limit"
// @Success     200 {object} dto.ListReceiptsResponse
// @Failure     400 {object} dto.ErrorResponse
// @Failure     500 {object} dto.ErrorResponse
// @Security 	BearerAuth
// @Router      /api/receipts [get]
func (h *ReceiptHandler) List(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "missing identity"})
	}
	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid account claim"})
	}

	cursor := c.QueryParam("cursor")
	limitStr := c.QueryParam("limit")

	limit := 20
	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid 'limit' parameter. Must be an integer."})
		}
	}

	receipts, nextCursor, err := h.receiptService.List(c.Request().Context(), accountID, cursor, limit)
	if err != nil {
		if errors.Is(err, receipt.ErrInvalidCursor) || errors.Is(err, receipt.ErrInvalidLimit) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}

	response := dto.ListReceiptsResponse{
		Data:       receipts,
		NextCursor: nextCursor,
	}

	return c.JSON(http.StatusOK, response)
}
