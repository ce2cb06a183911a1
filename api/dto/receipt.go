package dto

import (
	"github.com/daveharmswebdev/property-manager-sub008/internal/domain"
)

type AddReceiptRequest struct {
	ThumbnailURL *string `json:"thumbnail_url,omitempty" example:"https://cdn.example.com/receipts/abc_thumb.png"`
	PropertyID   *string `json:"property_id,omitempty" example:"b3c9e4f2-11aa-4bcd-9e01-2233445566aa"`
	PropertyName *string `json:"property_name,omitempty" example:"128 Elm Street"`
}

type LinkReceiptRequest struct {
	ExpenseID string `json:"expense_id" example:"5f1c0b3a-77dd-4e21-a5f9-889900aabbcc"`
}

type ListReceiptsResponse struct {
	Data       []*domain.Receipt `json:"data"`
	NextCursor string            `json:"next_cursor,omitempty" example:"eyJpZCI6ImYx...YjAifQ=="`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"resource not found"`
}
