package model

// BOMEdge is one parent→child edge of the bill-of-materials graph:
// building one unit of ParentProductID consumes QuantityPerUnit units of
// ChildProductID. The graph must stay acyclic — the service layer rejects
// edges that would close a cycle.
type BOMEdge struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	ParentProductID uint `gorm:"index;not null" json:"parentProductId"`
	ChildProductID  uint `gorm:"index;not null" json:"childProductId"`
	QuantityPerUnit int  `gorm:"not null" json:"quantityPerUnit"`
}

func (BOMEdge) TableName() string { return "bill_of_materials" }
