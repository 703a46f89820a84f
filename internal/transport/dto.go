package transport

import "github.com/shopspring/decimal"

type ProductRequest struct {
	Label        string           `json:"label"        validate:"required,max=120"`
	PricePerUnit *decimal.Decimal `json:"pricePerUnit" validate:"required,price"`
	CategoryID   uint             `json:"categoryId"   validate:"required"`
	IsActive     *bool            `json:"isActive,omitempty"`
}

type CategoryRequest struct {
	Label string `json:"label" validate:"required,max=80"`
	Unit  string `json:"unit"  validate:"required,unit"`
}

type Credentials struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

type RoleResponse struct {
	Role string `json:"role"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
