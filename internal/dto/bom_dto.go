package dto

type CreateBOMEdgeRequest struct {
	ParentProductID uint `json:"parentProductId" validate:"required"`
	ChildProductID  uint `json:"childProductId" validate:"required"`
	QuantityPerUnit int  `json:"quantityPerUnit" validate:"required,gt=0"`
}

type UpdateBOMEdgeRequest struct {
	QuantityPerUnit int `json:"quantityPerUnit" validate:"required,gt=0"`
}
