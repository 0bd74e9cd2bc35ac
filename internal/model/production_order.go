package model

import "time"

// Order lifecycle. Strictly linear: Planned → InProgress → Completed.
// Completed is terminal; there is no reversion.
const (
	StatusPlanned    = "Planned"
	StatusInProgress = "InProgress"
	StatusCompleted  = "Completed"
)

// statusRank orders the lifecycle for monotonicity checks. Unknown statuses
// rank -1 so they never compare as "ahead".
func statusRank(s string) int {
	switch s {
	case StatusPlanned:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	}
	return -1
}

// StatusAtOrPast reports whether status a has already reached status b in the
// lifecycle ordering.
func StatusAtOrPast(a, b string) bool { return statusRank(a) >= statusRank(b) }

// ValidStatus reports whether s is one of the known status literals.
func ValidStatus(s string) bool { return statusRank(s) >= 0 }

// ProductionOrder is a request to manufacture QuantityRequested units of a
// product. Orders form a forest: a top-level order has a nil ParentDetailID;
// a sub-order points back at the detail row whose shortfall spawned it.
type ProductionOrder struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Date              time.Time `gorm:"index;not null" json:"date"`
	ProductID         uint      `gorm:"index;not null" json:"productId"`
	QuantityRequested int       `gorm:"not null" json:"quantityRequested"`
	QuantityProduced  int       `gorm:"not null;default:0" json:"quantityProduced"`
	Status            string    `gorm:"not null" json:"status"`
	ParentDetailID    *uint     `gorm:"index" json:"parentDetailId,omitempty"`
	Notes             *string   `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	Details []ProductionOrderDetail `gorm:"foreignKey:ProductionOrderID" json:"details,omitempty"`
}

func (ProductionOrder) TableName() string { return "production_orders" }

// ProductionOrderDetail is one component reservation line: the order needs
// QuantityRequired units of ProductID and has QuantityLocked of them reserved
// from inventory. 0 <= QuantityLocked <= QuantityRequired always holds.
type ProductionOrderDetail struct {
	ID                uint `gorm:"primaryKey" json:"id"`
	ProductionOrderID uint `gorm:"index;not null" json:"productionOrderId"`
	ProductID         uint `gorm:"index;not null" json:"productId"`
	QuantityRequired  int  `gorm:"not null" json:"quantityRequired"`
	QuantityLocked    int  `gorm:"not null;default:0" json:"quantityLocked"`
}

func (ProductionOrderDetail) TableName() string { return "production_order_details" }
