package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item categories. Subassembly items are themselves manufacturable: a stock
// shortfall during BOM explosion spawns a sub-order instead of stopping at
// the shortage.
const (
	CategorySubassembly = "Subassembly"
	CategoryRaw         = "Raw"
	CategoryFinished    = "Finished"
)

// InventoryItem doubles as the product master: every product id referenced by
// BOM edges and production orders is an inventory row.
//
// Invariant: QuantityOnHand + QuantityLocked is the item's total owned stock;
// both fields stay >= 0 at all times. Mutations go through the repository's
// row-locked transactional helpers, never through raw updates.
type InventoryItem struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Code           string `gorm:"uniqueIndex;not null" json:"code"`
	QuantityOnHand int    `gorm:"not null;default:0" json:"quantityOnHand"`
	QuantityLocked int    `gorm:"not null;default:0" json:"quantityLocked"`
	Category       string `gorm:"not null" json:"category"`
	// UnitCost feeds the order cost roll-up; zero for items never costed.
	UnitCost  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unitCost"`
	Image     *string         `json:"image,omitempty"` // base64, optional
	Datas     *string         `json:"datas,omitempty"` // opaque metadata blob
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (InventoryItem) TableName() string { return "inventory" }

// IsSubassembly reports whether a shortfall on this item should be covered by
// a recursively created sub-order.
func (i *InventoryItem) IsSubassembly() bool { return i.Category == CategorySubassembly }
