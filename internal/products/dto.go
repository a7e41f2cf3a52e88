package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/techvent/inventory-backend/pkg/db/models"
	"github.com/techvent/inventory-backend/pkg/enums"
)

// ProductDTO is the API-facing shape of a catalog product.
type ProductDTO struct {
	ID               uuid.UUID           `json:"id"`
	SupplierID       uuid.UUID           `json:"supplier_id"`
	SupplierName     string              `json:"supplier_name,omitempty"`
	Name             string              `json:"name"`
	Description      *string             `json:"description,omitempty"`
	SKU              string              `json:"sku"`
	Category         *string             `json:"category,omitempty"`
	Brand            *string             `json:"brand,omitempty"`
	UnitPrice        decimal.Decimal     `json:"unit_price"`
	MinOrderQuantity int                 `json:"min_order_quantity"`
	Status           enums.ProductStatus `json:"status"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// ProductListResult carries one page of products plus the next cursor.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

// NewProductDTO maps the model onto the API shape.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:               product.ID,
		SupplierID:       product.SupplierID,
		Name:             product.Name,
		Description:      product.Description,
		SKU:              product.SKU,
		Category:         product.Category,
		Brand:            product.Brand,
		UnitPrice:        product.UnitPrice,
		MinOrderQuantity: product.MinOrderQuantity,
		Status:           product.Status,
		CreatedAt:        product.CreatedAt,
		UpdatedAt:        product.UpdatedAt,
	}
	if product.Supplier != nil {
		dto.SupplierName = product.Supplier.Name
	}
	return dto
}
