package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techvent/inventory-backend/pkg/enums"
)

// User is an account on the platform. Admins manage the catalog and
// inventory; regular users get the read-only storefront surface.
type User struct {
	ID           uuid.UUID      `gorm:"type:char(36);primaryKey"`
	FirstName    string         `gorm:"size:100;not null"`
	MiddleName   *string        `gorm:"size:100"`
	LastName     string         `gorm:"size:100;not null"`
	Suffix       *string        `gorm:"size:20"`
	Email        string         `gorm:"size:255;not null;uniqueIndex"`
	Phone        *string        `gorm:"size:32"`
	Department   *string        `gorm:"size:100"`
	PasswordHash string         `gorm:"size:255;not null"`
	UserType     enums.UserRole `gorm:"type:varchar(20);not null;default:user"`
	IsActive     bool           `gorm:"not null;default:true"`
	LastLoginAt  *time.Time

	CreatedAt    time.Time      `gorm:"not null"`
	UpdatedAt    time.Time      `gorm:"not null"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName joins the name parts, skipping the optional ones when empty.
func (u *User) FullName() string {
	name := u.FirstName
	if u.MiddleName != nil && *u.MiddleName != "" {
		name += " " + *u.MiddleName
	}
	name += " " + u.LastName
	if u.Suffix != nil && *u.Suffix != "" {
		name += " " + *u.Suffix
	}
	return name
}
