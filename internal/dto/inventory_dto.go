package dto

import "github.com/shopspring/decimal"

type CreateInventoryItemRequest struct {
	Code           string           `json:"code" validate:"required"`
	QuantityOnHand int              `json:"quantityOnHand" validate:"min=0"`
	Category       string           `json:"category" validate:"required"`
	UnitCost       *decimal.Decimal `json:"unitCost,omitempty"`
	Image          *string          `json:"image,omitempty"`
	Datas          *string          `json:"datas,omitempty"`
}

type UpdateInventoryItemRequest struct {
	Code     *string          `json:"code,omitempty"`
	Category *string          `json:"category,omitempty"`
	UnitCost *decimal.Decimal `json:"unitCost,omitempty"`
	Image    *string          `json:"image,omitempty"`
	Datas    *string          `json:"datas,omitempty"`
}

// QuantityRequest is the body of the add / remove stock endpoints.
type QuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}
