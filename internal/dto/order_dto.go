package dto

import (
	"github.com/shopspring/decimal"

	"github.com/GiacomoGuaresi/LiteERP/internal/model"
)

type CreateOrderRequest struct {
	ProductID         uint    `json:"productId" validate:"required"`
	QuantityRequested int     `json:"quantityRequested" validate:"required,gt=0"`
	Date              string  `json:"date" validate:"required"` // "2006-01-02"
	Status            string  `json:"status,omitempty"`         // defaults to Planned
	Notes             *string `json:"notes,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderCostResponse is the recursive cost roll-up of an order subtree.
type OrderCostResponse struct {
	OrderID       uint            `json:"orderId"`
	ComponentCost decimal.Decimal `json:"componentCost"`
	SubOrderCost  decimal.Decimal `json:"subOrderCost"`
	TotalCost     decimal.Decimal `json:"totalCost"`
}

type OrderListResponse struct {
	Data  []model.ProductionOrder `json:"data"`
	Total int64                   `json:"total"`
}
