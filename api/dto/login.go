package dto

type LoginRequest struct {
	UserID    string `json:"user_id" example:"e7a1c330-2f44-4d4b-9a34-07f8c1b2d301"`
	AccountID string `json:"account_id" example:"12345678-1234-1234-1234-123456789012"`
}

type LoginResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}
