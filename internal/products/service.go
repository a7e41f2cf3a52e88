package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/techvent/inventory-backend/pkg/db"
	"github.com/techvent/inventory-backend/pkg/db/models"
	"github.com/techvent/inventory-backend/pkg/enums"
	pkgerrors "github.com/techvent/inventory-backend/pkg/errors"
	"github.com/techvent/inventory-backend/pkg/pagination"
)

// Service exposes catalog product management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SupplierID       uuid.UUID
	Name             string
	Description      *string
	SKU              string
	Category         *string
	Brand            *string
	UnitPrice        decimal.Decimal
	MinOrderQuantity int
	Status           enums.ProductStatus
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	SupplierID       *uuid.UUID
	Name             *string
	Description      *string
	SKU              *string
	Category         *string
	Brand            *string
	UnitPrice        *decimal.Decimal
	MinOrderQuantity *int
	Status           *enums.ProductStatus
}

// ListProductsInput narrows and paginates product listings.
type ListProductsInput struct {
	SupplierID *uuid.UUID
	Category   string
	Status     *enums.ProductStatus
	Search     string
	Limit      int
	Cursor     string
}

type supplierLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
}

type inventoryChecker interface {
	HasRecordForProduct(ctx context.Context, productID uuid.UUID) (bool, error)
}

type service struct {
	repo      Repository
	suppliers supplierLoader
	inventory inventoryChecker
}

// NewService constructs a product service instance.
func NewService(repo Repository, suppliers supplierLoader, inventory inventoryChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if suppliers == nil {
		return nil, fmt.Errorf("supplier loader required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory checker required")
	}
	return &service{
		repo:      repo,
		suppliers: suppliers,
		inventory: inventory,
	}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductFields(input.Name, input.SKU, input.UnitPrice, input.MinOrderQuantity); err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = enums.ProductStatusActive
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid product status %q", status))
	}

	if err := s.ensureSupplier(ctx, input.SupplierID); err != nil {
		return nil, err
	}

	product := &models.Product{
		SupplierID:       input.SupplierID,
		Name:             strings.TrimSpace(input.Name),
		Description:      input.Description,
		SKU:              strings.TrimSpace(input.SKU),
		Category:         input.Category,
		Brand:            input.Brand,
		UnitPrice:        input.UnitPrice,
		MinOrderQuantity: input.MinOrderQuantity,
		Status:           status,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsDuplicateEntry(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this SKU already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}

	return s.GetProduct(ctx, product.ID)
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.SupplierID != nil {
		if err := s.ensureSupplier(ctx, *input.SupplierID); err != nil {
			return nil, err
		}
		product.SupplierID = *input.SupplierID
	}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.SKU != nil {
		if strings.TrimSpace(*input.SKU) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku cannot be empty")
		}
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Category != nil {
		product.Category = input.Category
	}
	if input.Brand != nil {
		product.Brand = input.Brand
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		product.UnitPrice = *input.UnitPrice
	}
	if input.MinOrderQuantity != nil {
		if *input.MinOrderQuantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min order quantity must be at least 1")
		}
		product.MinOrderQuantity = *input.MinOrderQuantity
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid product status %q", *input.Status))
		}
		product.Status = *input.Status
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if db.IsDuplicateEntry(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this SKU already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}

	return s.GetProduct(ctx, productID)
}

// DeleteProduct removes a product unless inventory is tracking it. The
// guard preserves the audit trail behind existing stock history.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return err
	}

	tracked, err := s.inventory.HasRecordForProduct(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check inventory record")
	}
	if tracked {
		return pkgerrors.New(pkgerrors.CodeConflict, "product has inventory history and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid product status %q", *input.Status))
	}

	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	rows, err := s.repo.List(ctx, ListFilter{
		SupplierID: input.SupplierID,
		Category:   input.Category,
		Status:     input.Status,
		Search:     input.Search,
		Limit:      pagination.LimitWithBuffer(input.Limit),
		Cursor:     cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	result := &ProductListResult{Products: make([]ProductDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Products = append(result.Products, *NewProductDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

func (s *service) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	return categories, nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

func (s *service) ensureSupplier(ctx context.Context, supplierID uuid.UUID) error {
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeValidation, "supplier does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}
	return nil
}

func validateProductFields(name, sku string, unitPrice decimal.Decimal, minOrderQuantity int) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(sku) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if unitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	if minOrderQuantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "min order quantity must be at least 1")
	}
	return nil
}
