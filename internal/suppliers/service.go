package suppliers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/techvent/inventory-backend/pkg/db"
	"github.com/techvent/inventory-backend/pkg/db/models"
	pkgerrors "github.com/techvent/inventory-backend/pkg/errors"
	"github.com/techvent/inventory-backend/pkg/pagination"
)

// Service exposes supplier management operations.
type Service interface {
	CreateSupplier(ctx context.Context, input CreateSupplierInput) (*SupplierDTO, error)
	UpdateSupplier(ctx context.Context, supplierID uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error)
	DeleteSupplier(ctx context.Context, supplierID uuid.UUID) error
	GetSupplier(ctx context.Context, supplierID uuid.UUID) (*SupplierDTO, error)
	ListSuppliers(ctx context.Context, input ListSuppliersInput) (*SupplierListResult, error)
}

// CreateSupplierInput holds the validated payload to create a supplier.
type CreateSupplierInput struct {
	Name          string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
	Website       *string
}

// UpdateSupplierInput holds optional mutation values for a supplier.
type UpdateSupplierInput struct {
	Name          *string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *string
	Website       *string
}

// ListSuppliersInput narrows and paginates supplier listings.
type ListSuppliersInput struct {
	Search string
	Limit  int
	Cursor string
}

type productCounter interface {
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)
}

type service struct {
	repo     Repository
	products productCounter
}

// NewService constructs a supplier service instance.
func NewService(repo Repository, products productCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product counter required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) CreateSupplier(ctx context.Context, input CreateSupplierInput) (*SupplierDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	supplier := &models.Supplier{
		Name:          strings.TrimSpace(input.Name),
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		Website:       input.Website,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert supplier")
	}
	return NewSupplierDTO(supplier), nil
}

func (s *service) UpdateSupplier(ctx context.Context, supplierID uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error) {
	supplier, err := s.loadSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		supplier.Name = strings.TrimSpace(*input.Name)
	}
	if input.ContactPerson != nil {
		supplier.ContactPerson = input.ContactPerson
	}
	if input.Email != nil {
		supplier.Email = input.Email
	}
	if input.Phone != nil {
		supplier.Phone = input.Phone
	}
	if input.Address != nil {
		supplier.Address = input.Address
	}
	if input.Website != nil {
		supplier.Website = input.Website
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update supplier")
	}
	return NewSupplierDTO(supplier), nil
}

// DeleteSupplier removes a supplier unless products still reference it.
func (s *service) DeleteSupplier(ctx context.Context, supplierID uuid.UUID) error {
	if _, err := s.loadSupplier(ctx, supplierID); err != nil {
		return err
	}

	count, err := s.products.CountBySupplier(ctx, supplierID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count supplier products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "supplier still has products and cannot be deleted").
			WithDetails(map[string]any{"product_count": count})
	}

	if err := s.repo.Delete(ctx, supplierID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete supplier")
	}
	return nil
}

func (s *service) GetSupplier(ctx context.Context, supplierID uuid.UUID) (*SupplierDTO, error) {
	supplier, err := s.loadSupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return NewSupplierDTO(supplier), nil
}

func (s *service) ListSuppliers(ctx context.Context, input ListSuppliersInput) (*SupplierListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	rows, err := s.repo.List(ctx, input.Search, pagination.LimitWithBuffer(input.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list suppliers")
	}

	result := &SupplierListResult{Suppliers: make([]SupplierDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Suppliers = append(result.Suppliers, *NewSupplierDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

func (s *service) loadSupplier(ctx context.Context, supplierID uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, supplierID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}
	return supplier, nil
}
