package suppliers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/techvent/inventory-backend/pkg/db/models"
	"github.com/techvent/inventory-backend/pkg/pagination"
)

// Repository manages persistence for suppliers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, supplier *models.Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, limit int, cursor *pagination.Cursor) ([]models.Supplier, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a supplier repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *repository) Update(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Supplier{}, "id = ?", id).Error
}

func (r *repository) List(ctx context.Context, search string, limit int, cursor *pagination.Cursor) ([]models.Supplier, error) {
	query := r.db.WithContext(ctx).Model(&models.Supplier{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR contact_person LIKE ? OR email LIKE ?", like, like, like)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Supplier
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
