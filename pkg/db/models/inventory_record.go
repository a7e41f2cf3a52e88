package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryRecord tracks stock for exactly one product. The unique index
// on ProductID enforces the one-record-per-product rule at the database
// level; the service layer maps the violation to a conflict.
//
// QuantityInStock is the single source of truth for on-hand stock. Units
// held back for pending orders sit in QuantityReserved; stock status is
// derived from the available remainder on read and never persisted.
type InventoryRecord struct {
	ID               uuid.UUID       `gorm:"type:char(36);primaryKey"`
	ProductID        uuid.UUID       `gorm:"type:char(36);not null;uniqueIndex"`
	QuantityInStock  int             `gorm:"not null;default:0"`
	QuantityReserved int             `gorm:"not null;default:0"`
	ReorderLevel     int             `gorm:"not null;default:0"`
	ReorderQuantity  int             `gorm:"not null;default:0"`
	CostPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Location         *string         `gorm:"size:255"`
	LastRestocked    *time.Time      `gorm:"column:last_restocked"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

// QuantityAvailable is on-hand stock minus reserved units.
func (r *InventoryRecord) QuantityAvailable() int {
	return r.QuantityInStock - r.QuantityReserved
}

// TableName keeps the legacy table name.
func (InventoryRecord) TableName() string {
	return "inventory"
}

func (r *InventoryRecord) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
