package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/techvent/inventory-backend/pkg/db"
	"github.com/techvent/inventory-backend/pkg/db/models"
	"github.com/techvent/inventory-backend/pkg/enums"
	pkgerrors "github.com/techvent/inventory-backend/pkg/errors"
	"github.com/techvent/inventory-backend/pkg/metrics"
	"github.com/techvent/inventory-backend/pkg/pagination"
)

const defaultInitialStockNotes = "Initial stock"

// Service exposes inventory ledger operations.
type Service interface {
	CreateRecord(ctx context.Context, input CreateRecordInput) (*RecordDTO, error)
	ApplyMovement(ctx context.Context, recordID uuid.UUID, input MovementInput) (*RecordDTO, error)
	UpdateSettings(ctx context.Context, recordID uuid.UUID, input UpdateSettingsInput) (*RecordDTO, error)
	GetRecord(ctx context.Context, recordID uuid.UUID) (*RecordDTO, error)
	GetRecordByProduct(ctx context.Context, productID uuid.UUID) (*RecordDTO, error)
	ListRecords(ctx context.Context, input ListRecordsInput) (*RecordListResult, error)
	ListRecentTransactions(ctx context.Context, params pagination.Params) (*TransactionListResult, error)
	ListRecordTransactions(ctx context.Context, recordID uuid.UUID, params pagination.Params) (*TransactionListResult, error)
}

// CreateRecordInput holds the validated payload to start tracking a product.
type CreateRecordInput struct {
	ProductID       uuid.UUID
	InitialQuantity int
	ReorderLevel    int
	ReorderQuantity int
	CostPrice       decimal.Decimal
	SellingPrice    decimal.Decimal
	Location        *string
	Notes           *string
	UserID          *uuid.UUID
}

// MovementInput describes one stock movement. Quantity carries the
// amount moved for stock_in/stock_out and the absolute target level for
// adjustments.
type MovementInput struct {
	Type     enums.TransactionType
	Quantity int
	Notes    *string
	UserID   *uuid.UUID
}

// UpdateSettingsInput holds optional mutation values for record settings.
// On-hand quantity is deliberately absent: it only changes through
// movements so the audit log stays complete.
type UpdateSettingsInput struct {
	ReorderLevel    *int
	ReorderQuantity *int
	CostPrice       *decimal.Decimal
	SellingPrice    *decimal.Decimal
	Location        *string
}

// ListRecordsInput narrows and paginates record listings.
type ListRecordsInput struct {
	Status *enums.StockStatus
	Search string
	Limit  int
	Cursor string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	products productLoader
	metrics  *metrics.MovementMetrics
	retries  int
	now      func() time.Time
}

// NewService constructs the ledger service.
func NewService(repo Repository, tx txRunner, products productLoader, movementMetrics *metrics.MovementMetrics, movementRetries int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if movementRetries < 1 {
		movementRetries = 1
	}
	return &service{
		repo:     repo,
		tx:       tx,
		products: products,
		metrics:  movementMetrics,
		retries:  movementRetries,
		now:      time.Now,
	}, nil
}

// CreateRecord starts tracking stock for a product. The unique index on
// product_id rejects a second record; a positive starting quantity is
// logged as the record's first stock_in movement.
func (s *service) CreateRecord(ctx context.Context, input CreateRecordInput) (*RecordDTO, error) {
	if input.InitialQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "initial quantity cannot be negative")
	}
	if input.ReorderLevel < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder level cannot be negative")
	}
	if input.ReorderQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder quantity cannot be negative")
	}
	if input.CostPrice.IsNegative() || input.SellingPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative")
	}

	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	now := s.now().UTC()
	record := &models.InventoryRecord{
		ProductID:       input.ProductID,
		QuantityInStock: input.InitialQuantity,
		ReorderLevel:    input.ReorderLevel,
		ReorderQuantity: input.ReorderQuantity,
		CostPrice:       input.CostPrice,
		SellingPrice:    input.SellingPrice,
		Location:        input.Location,
	}
	if input.InitialQuantity > 0 {
		record.LastRestocked = &now
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := txRepo.CreateRecord(ctx, record); err != nil {
			if db.IsDuplicateEntry(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "inventory record already exists for this product")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert inventory record")
		}

		// The opening movement is logged even at zero so the audit log
		// starts at the record's birth.
		notes := input.Notes
		if notes == nil || *notes == "" {
			defaulted := defaultInitialStockNotes
			notes = &defaulted
		}
		txn := &models.InventoryTransaction{
			InventoryID:     record.ID,
			TransactionType: enums.TransactionTypeStockIn,
			Quantity:        input.InitialQuantity,
			Notes:           notes,
			UserID:          input.UserID,
		}
		if err := txRepo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert inventory transaction")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory record")
	}

	return s.GetRecord(ctx, record.ID)
}

// ApplyMovement applies one stock movement atomically. Failed movements
// leave both the record and the audit log untouched. Concurrent writers
// detected by the quantity guard are retried up to the configured bound.
func (s *service) ApplyMovement(ctx context.Context, recordID uuid.UUID, input MovementInput) (*RecordDTO, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid transaction type %q", input.Type))
	}
	switch input.Type {
	case enums.TransactionTypeStockIn, enums.TransactionTypeStockOut:
		if input.Quantity < 0 {
			s.metrics.IncRejected(input.Type.String(), "validation")
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
	case enums.TransactionTypeAdjustment:
		if input.Quantity < 0 {
			s.metrics.IncRejected(input.Type.String(), "validation")
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "target quantity cannot be negative")
		}
	}

	start := s.now()
	var lastErr error
	for attempt := 0; attempt < s.retries; attempt++ {
		err := s.applyOnce(ctx, recordID, input)
		if err == nil {
			s.metrics.IncApplied(input.Type.String())
			s.metrics.ObserveDuration(input.Type.String(), s.now().Sub(start))
			return s.GetRecord(ctx, recordID)
		}

		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeConcurrency {
			s.metrics.IncConflict()
			lastErr = err
			continue
		}

		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeInsufficientStock {
			s.metrics.IncRejected(input.Type.String(), "insufficient_stock")
		}
		return nil, err
	}

	s.metrics.IncRejected(input.Type.String(), "concurrency")
	return nil, lastErr
}

func (s *service) applyOnce(ctx context.Context, recordID uuid.UUID, input MovementInput) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		record, err := txRepo.FindRecordByIDForUpdate(ctx, recordID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock inventory record")
		}

		newQty := record.QuantityInStock
		switch input.Type {
		case enums.TransactionTypeStockIn:
			newQty = record.QuantityInStock + input.Quantity
		case enums.TransactionTypeStockOut:
			if input.Quantity > record.QuantityInStock {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
					WithDetails(map[string]any{
						"available": record.QuantityInStock,
						"requested": input.Quantity,
					})
			}
			newQty = record.QuantityInStock - input.Quantity
		case enums.TransactionTypeAdjustment:
			newQty = input.Quantity
		}

		touched := s.now().UTC()
		ok, err := txRepo.UpdateQuantityGuarded(ctx, record.ID, record.QuantityInStock, newQty, touched)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update inventory quantity")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConcurrency, "inventory record changed concurrently")
		}

		txn := &models.InventoryTransaction{
			InventoryID:     record.ID,
			TransactionType: input.Type,
			Quantity:        newQty - record.QuantityInStock,
			Notes:           input.Notes,
			UserID:          input.UserID,
		}
		if err := txRepo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert inventory transaction")
		}
		return nil
	})
}

// UpdateSettings mutates record settings in place. It never changes the
// on-hand quantity and never appends to the audit log.
func (s *service) UpdateSettings(ctx context.Context, recordID uuid.UUID, input UpdateSettingsInput) (*RecordDTO, error) {
	if input.ReorderLevel != nil && *input.ReorderLevel < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder level cannot be negative")
	}
	if input.ReorderQuantity != nil && *input.ReorderQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder quantity cannot be negative")
	}
	if input.CostPrice != nil && input.CostPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost price cannot be negative")
	}
	if input.SellingPrice != nil && input.SellingPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "selling price cannot be negative")
	}

	record, err := s.repo.FindRecordByID(ctx, recordID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load inventory record")
	}

	if input.ReorderLevel != nil {
		record.ReorderLevel = *input.ReorderLevel
	}
	if input.ReorderQuantity != nil {
		record.ReorderQuantity = *input.ReorderQuantity
	}
	if input.CostPrice != nil {
		record.CostPrice = *input.CostPrice
	}
	if input.SellingPrice != nil {
		record.SellingPrice = *input.SellingPrice
	}
	if input.Location != nil {
		record.Location = input.Location
	}
	record.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateSettings(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update inventory settings")
	}

	return s.GetRecord(ctx, recordID)
}

func (s *service) GetRecord(ctx context.Context, recordID uuid.UUID) (*RecordDTO, error) {
	record, err := s.repo.FindRecordByID(ctx, recordID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load inventory record")
	}
	return NewRecordDTO(record), nil
}

// GetRecordByProduct resolves the record tracking the given product. A
// missing record is reported as not found; callers render that state as
// not managed.
func (s *service) GetRecordByProduct(ctx context.Context, productID uuid.UUID) (*RecordDTO, error) {
	record, err := s.repo.FindRecordByProductID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load inventory record")
	}
	return NewRecordDTO(record), nil
}

func (s *service) ListRecords(ctx context.Context, input ListRecordsInput) (*RecordListResult, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid stock status %q", *input.Status))
	}

	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	records, err := s.repo.ListRecords(ctx, RecordFilter{
		Status: input.Status,
		Search: input.Search,
		Limit:  pagination.LimitWithBuffer(input.Limit),
		Cursor: cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventory records")
	}

	result := &RecordListResult{Records: make([]RecordDTO, 0, len(records))}
	hasMore := len(records) > limit
	if hasMore {
		records = records[:limit]
	}
	for i := range records {
		result.Records = append(result.Records, *NewRecordDTO(&records[i]))
	}
	if hasMore {
		last := records[len(records)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

func (s *service) ListRecentTransactions(ctx context.Context, params pagination.Params) (*TransactionListResult, error) {
	cursor, err := pagination.ParseSeqCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	txns, err := s.repo.ListRecentTransactions(ctx, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventory transactions")
	}
	return newTransactionListResult(txns, limit), nil
}

func (s *service) ListRecordTransactions(ctx context.Context, recordID uuid.UUID, params pagination.Params) (*TransactionListResult, error) {
	if _, err := s.repo.FindRecordByID(ctx, recordID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load inventory record")
	}

	cursor, err := pagination.ParseSeqCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	txns, err := s.repo.ListTransactionsByRecord(ctx, recordID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventory transactions")
	}
	return newTransactionListResult(txns, limit), nil
}

func newTransactionListResult(txns []models.InventoryTransaction, limit int) *TransactionListResult {
	result := &TransactionListResult{Transactions: make([]TransactionDTO, 0, len(txns))}
	hasMore := len(txns) > limit
	if hasMore {
		txns = txns[:limit]
	}
	for i := range txns {
		result.Transactions = append(result.Transactions, *NewTransactionDTO(&txns[i]))
	}
	if hasMore {
		last := txns[len(txns)-1]
		next := pagination.EncodeSeqCursor(pagination.SeqCursor{CreatedAt: last.CreatedAt, Seq: last.ID})
		result.NextCursor = &next
	}
	return result
}
