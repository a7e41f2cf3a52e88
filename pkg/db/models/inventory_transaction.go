package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/techvent/inventory-backend/pkg/enums"
)

// InventoryTransaction is one append-only audit entry for a stock
// movement. Rows are never updated or deleted. The auto-increment ID
// gives a total insertion order, which recency listings use as the
// tie-break when timestamps collide.
//
// Quantity is the signed net change the movement applied to on-hand
// stock: positive for stock_in, negative for stock_out, and the
// difference from the previous level for adjustments. Summing a
// record's rows reconstructs its current quantity.
type InventoryTransaction struct {
	ID              int64                 `gorm:"primaryKey;autoIncrement"`
	InventoryID     uuid.UUID             `gorm:"column:inventory_id;type:char(36);not null;index"`
	TransactionType enums.TransactionType `gorm:"column:transaction_type;type:varchar(20);not null"`
	Quantity        int                   `gorm:"not null"`
	Notes           *string               `gorm:"size:500"`
	UserID          *uuid.UUID            `gorm:"column:user_id;type:char(36)"`
	CreatedAt       time.Time             `gorm:"not null;index"`

	Inventory *InventoryRecord `gorm:"foreignKey:InventoryID"`
	User      *User            `gorm:"foreignKey:UserID"`
}

// TableName keeps the legacy table name.
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}
