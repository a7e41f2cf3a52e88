package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/techvent/inventory-backend/pkg/enums"
)

// Product is a catalog entry. Pricing uses decimal columns so unit prices
// and margins never go through float arithmetic.
type Product struct {
	ID               uuid.UUID           `gorm:"type:char(36);primaryKey"`
	SupplierID       uuid.UUID           `gorm:"type:char(36);not null;index"`
	Name             string              `gorm:"size:255;not null"`
	Description      *string             `gorm:"type:text"`
	SKU              string              `gorm:"size:64;not null;uniqueIndex"`
	Category         *string             `gorm:"size:100;index"`
	Brand            *string             `gorm:"size:100"`
	UnitPrice        decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	MinOrderQuantity int                 `gorm:"not null;default:1"`
	Status           enums.ProductStatus `gorm:"type:varchar(20);not null;default:active"`
	CreatedAt        time.Time           `gorm:"not null"`
	UpdatedAt        time.Time           `gorm:"not null"`

	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
