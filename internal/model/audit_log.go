package model

import "time"

// AuditLog records one mutating operation (order created, stock added, …).
// Rows are written asynchronously by the audit worker so request latency is
// not tied to log persistence.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Timestamp  time.Time `gorm:"index;not null" json:"timestamp"`
	Message    string    `gorm:"not null" json:"message"`
	ExecutedBy *string   `json:"executedBy,omitempty"`
}

func (AuditLog) TableName() string { return "logs" }
