package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/techvent/inventory-backend/pkg/db/models"
	"github.com/techvent/inventory-backend/pkg/enums"
)

// RecordDTO is the API-facing shape of an inventory record. Stock status
// and profit margin are derived at read time.
type RecordDTO struct {
	ID                  uuid.UUID         `json:"id"`
	ProductID           uuid.UUID         `json:"product_id"`
	ProductName         string            `json:"product_name,omitempty"`
	ProductSKU          string            `json:"product_sku,omitempty"`
	QuantityInStock     int               `json:"quantity_in_stock"`
	QuantityReserved    int               `json:"quantity_reserved"`
	QuantityAvailable   int               `json:"quantity_available"`
	ReorderLevel        int               `json:"reorder_level"`
	ReorderQuantity     int               `json:"reorder_quantity"`
	CostPrice           decimal.Decimal   `json:"cost_price"`
	SellingPrice        decimal.Decimal   `json:"selling_price"`
	ProfitMarginPercent decimal.Decimal   `json:"profit_margin_percent"`
	Location            *string           `json:"location,omitempty"`
	Status              enums.StockStatus `json:"status"`
	LastRestocked       *time.Time        `json:"last_restocked,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// TransactionDTO is the API-facing shape of one audit log entry.
type TransactionDTO struct {
	ID              int64                 `json:"id"`
	InventoryID     uuid.UUID             `json:"inventory_id"`
	ProductName     string                `json:"product_name,omitempty"`
	TransactionType enums.TransactionType `json:"transaction_type"`
	Quantity        int                   `json:"quantity"`
	Notes           *string               `json:"notes,omitempty"`
	UserID          *uuid.UUID            `json:"user_id,omitempty"`
	UserName        string                `json:"user_name,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

// RecordListResult carries one page of records plus the next cursor.
type RecordListResult struct {
	Records    []RecordDTO `json:"records"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

// TransactionListResult carries one page of transactions plus the next cursor.
type TransactionListResult struct {
	Transactions []TransactionDTO `json:"transactions"`
	NextCursor   *string          `json:"next_cursor,omitempty"`
}

// NewRecordDTO maps the model onto the API shape and computes the
// derived fields.
func NewRecordDTO(record *models.InventoryRecord) *RecordDTO {
	dto := &RecordDTO{
		ID:                  record.ID,
		ProductID:           record.ProductID,
		QuantityInStock:     record.QuantityInStock,
		QuantityReserved:    record.QuantityReserved,
		QuantityAvailable:   record.QuantityAvailable(),
		ReorderLevel:        record.ReorderLevel,
		ReorderQuantity:     record.ReorderQuantity,
		CostPrice:           record.CostPrice,
		SellingPrice:        record.SellingPrice,
		ProfitMarginPercent: ProfitMarginPercent(record.CostPrice, record.SellingPrice),
		Location:            record.Location,
		Status:              StatusOf(record.QuantityAvailable(), record.ReorderLevel),
		LastRestocked:       record.LastRestocked,
		CreatedAt:           record.CreatedAt,
		UpdatedAt:           record.UpdatedAt,
	}
	if record.Product != nil {
		dto.ProductName = record.Product.Name
		dto.ProductSKU = record.Product.SKU
	}
	return dto
}

// NewTransactionDTO maps the model onto the API shape.
func NewTransactionDTO(txn *models.InventoryTransaction) *TransactionDTO {
	dto := &TransactionDTO{
		ID:              txn.ID,
		InventoryID:     txn.InventoryID,
		TransactionType: txn.TransactionType,
		Quantity:        txn.Quantity,
		Notes:           txn.Notes,
		UserID:          txn.UserID,
		CreatedAt:       txn.CreatedAt,
	}
	if txn.Inventory != nil && txn.Inventory.Product != nil {
		dto.ProductName = txn.Inventory.Product.Name
	}
	if txn.User != nil {
		dto.UserName = txn.User.FullName()
	}
	return dto
}
