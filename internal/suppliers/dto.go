package suppliers

import (
	"time"

	"github.com/google/uuid"

	"github.com/techvent/inventory-backend/pkg/db/models"
)

// SupplierDTO is the API-facing shape of a supplier.
type SupplierDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactPerson *string   `json:"contact_person,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Website       *string   `json:"website,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SupplierListResult carries one page of suppliers plus the next cursor.
type SupplierListResult struct {
	Suppliers  []SupplierDTO `json:"suppliers"`
	NextCursor *string       `json:"next_cursor,omitempty"`
}

// NewSupplierDTO maps the model onto the API shape.
func NewSupplierDTO(supplier *models.Supplier) *SupplierDTO {
	return &SupplierDTO{
		ID:            supplier.ID,
		Name:          supplier.Name,
		ContactPerson: supplier.ContactPerson,
		Email:         supplier.Email,
		Phone:         supplier.Phone,
		Address:       supplier.Address,
		Website:       supplier.Website,
		CreatedAt:     supplier.CreatedAt,
		UpdatedAt:     supplier.UpdatedAt,
	}
}
