package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier is a vendor products are sourced from.
type Supplier struct {
	ID            uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name          string    `gorm:"size:255;not null"`
	ContactPerson *string   `gorm:"size:255"`
	Email         *string   `gorm:"size:255"`
	Phone         *string   `gorm:"size:32"`
	Address       *string   `gorm:"size:500"`
	Website       *string   `gorm:"size:255"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (s *Supplier) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
