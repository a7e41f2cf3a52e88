package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/techvent/inventory-backend/pkg/db/models"
	"github.com/techvent/inventory-backend/pkg/enums"
	"github.com/techvent/inventory-backend/pkg/pagination"
)

// Repository manages persistence for inventory records and their
// append-only transaction log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateRecord(ctx context.Context, record *models.InventoryRecord) error
	FindRecordByID(ctx context.Context, id uuid.UUID) (*models.InventoryRecord, error)
	FindRecordByProductID(ctx context.Context, productID uuid.UUID) (*models.InventoryRecord, error)
	FindRecordByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryRecord, error)
	UpdateQuantityGuarded(ctx context.Context, id uuid.UUID, fromQty, toQty int, touchedAt time.Time) (bool, error)
	UpdateSettings(ctx context.Context, record *models.InventoryRecord) error
	ListRecords(ctx context.Context, filter RecordFilter) ([]models.InventoryRecord, error)
	HasRecordForProduct(ctx context.Context, productID uuid.UUID) (bool, error)

	CreateTransaction(ctx context.Context, txn *models.InventoryTransaction) error
	ListRecentTransactions(ctx context.Context, limit int, cursor *pagination.SeqCursor) ([]models.InventoryTransaction, error)
	ListTransactionsByRecord(ctx context.Context, recordID uuid.UUID, limit int, cursor *pagination.SeqCursor) ([]models.InventoryTransaction, error)
	SumMovementDeltas(ctx context.Context, recordID uuid.UUID) (int64, error)
}

// RecordFilter narrows record listings. Status filters are expressed as
// SQL over quantity and reorder level so the derived value never needs
// to be stored.
type RecordFilter struct {
	Status *enums.StockStatus
	Search string
	Limit  int
	Cursor *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateRecord(ctx context.Context, record *models.InventoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindRecordByID(ctx context.Context, id uuid.UUID) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	if err := r.db.WithContext(ctx).
		Preload("Product").
		First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindRecordByProductID(ctx context.Context, productID uuid.UUID) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	if err := r.db.WithContext(ctx).
		Preload("Product").
		First(&record, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindRecordByIDForUpdate takes a row lock so concurrent movements against
// the same record serialize at the database.
func (r *repository) FindRecordByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateQuantityGuarded applies the new quantity only when the row still
// holds the quantity the caller read. A false return means another writer
// got there first.
func (r *repository) UpdateQuantityGuarded(ctx context.Context, id uuid.UUID, fromQty, toQty int, touchedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("id = ? AND quantity_in_stock = ?", id, fromQty).
		Updates(map[string]any{
			"quantity_in_stock": toQty,
			"last_restocked":    touchedAt,
			"updated_at":        touchedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) UpdateSettings(ctx context.Context, record *models.InventoryRecord) error {
	return r.db.WithContext(ctx).
		Model(record).
		Select("reorder_level", "reorder_quantity", "cost_price", "selling_price", "location", "updated_at").
		Updates(record).Error
}

func (r *repository) ListRecords(ctx context.Context, filter RecordFilter) ([]models.InventoryRecord, error) {
	query := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Preload("Product")

	if filter.Status != nil {
		available := "(quantity_in_stock - quantity_reserved)"
		switch *filter.Status {
		case enums.StockStatusOutOfStock:
			query = query.Where(available + " <= 0")
		case enums.StockStatusLowStock:
			query = query.Where(available + " > 0 AND " + available + " <= reorder_level")
		case enums.StockStatusInStock:
			query = query.Where(available + " > reorder_level")
		}
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.
			Joins("JOIN products ON products.id = inventory.product_id").
			Where("products.name LIKE ? OR products.sku LIKE ?", like, like)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"(inventory.created_at < ?) OR (inventory.created_at = ? AND inventory.id < ?)",
			filter.Cursor.CreatedAt, filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}

	var records []models.InventoryRecord
	if err := query.
		Order("inventory.created_at DESC, inventory.id DESC").
		Limit(filter.Limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) HasRecordForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) ListRecentTransactions(ctx context.Context, limit int, cursor *pagination.SeqCursor) ([]models.InventoryTransaction, error) {
	query := r.db.WithContext(ctx).
		Preload("Inventory").
		Preload("Inventory.Product").
		Preload("User")
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.Seq,
		)
	}

	var txns []models.InventoryTransaction
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// ListTransactionsByRecord returns one record's history oldest first, so
// replaying the page sequence walks the record's life in order.
func (r *repository) ListTransactionsByRecord(ctx context.Context, recordID uuid.UUID, limit int, cursor *pagination.SeqCursor) ([]models.InventoryTransaction, error) {
	query := r.db.WithContext(ctx).
		Preload("User").
		Where("inventory_id = ?", recordID)
	if cursor != nil {
		query = query.Where(
			"(created_at > ?) OR (created_at = ? AND id > ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.Seq,
		)
	}

	var txns []models.InventoryTransaction
	if err := query.
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// SumMovementDeltas totals the signed deltas logged for a record.
// Reconciliation jobs compare the result against the current on-hand
// quantity.
func (r *repository) SumMovementDeltas(ctx context.Context, recordID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.InventoryTransaction{}).
		Where("inventory_id = ?", recordID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
