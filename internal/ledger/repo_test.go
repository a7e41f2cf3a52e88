package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/techvent/inventory-backend/pkg/db/models"
	"github.com/techvent/inventory-backend/pkg/enums"
	"github.com/techvent/inventory-backend/pkg/pagination"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := []string{
		`CREATE TABLE IF NOT EXISTS suppliers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  contact_person TEXT,
  email TEXT,
  phone TEXT,
  address TEXT,
  website TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  supplier_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  sku TEXT NOT NULL UNIQUE,
  category TEXT,
  brand TEXT,
  unit_price TEXT NOT NULL DEFAULT '0',
  min_order_quantity INTEGER NOT NULL DEFAULT 1,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS inventory (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL UNIQUE,
  quantity_in_stock INTEGER NOT NULL DEFAULT 0,
  quantity_reserved INTEGER NOT NULL DEFAULT 0,
  reorder_level INTEGER NOT NULL DEFAULT 0,
  reorder_quantity INTEGER NOT NULL DEFAULT 0,
  cost_price TEXT NOT NULL DEFAULT '0',
  selling_price TEXT NOT NULL DEFAULT '0',
  location TEXT,
  last_restocked DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS inventory_transactions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  inventory_id TEXT NOT NULL,
  transaction_type TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  notes TEXT,
  user_id TEXT,
  created_at DATETIME
);`,
	}
	for _, stmt := range schema {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func createTestProduct(t *testing.T, gdb *gorm.DB, name, sku string) *models.Product {
	t.Helper()
	supplier := &models.Supplier{ID: uuid.New(), Name: "Acme Supply"}
	require.NoError(t, gdb.Create(supplier).Error)

	product := &models.Product{
		ID:               uuid.New(),
		SupplierID:       supplier.ID,
		Name:             name,
		SKU:              sku,
		UnitPrice:        decimal.NewFromInt(10),
		MinOrderQuantity: 1,
		Status:           enums.ProductStatusActive,
	}
	require.NoError(t, gdb.Create(product).Error)
	return product
}

func TestRepositoryCreateAndFindByProduct(t *testing.T) {
	gdb := setupLedgerTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	product := createTestProduct(t, gdb, "Widget", "WID-001")
	record := &models.InventoryRecord{
		ProductID:       product.ID,
		QuantityInStock: 12,
		ReorderLevel:    5,
		CostPrice:       decimal.NewFromInt(4),
		SellingPrice:    decimal.NewFromInt(6),
	}
	require.NoError(t, repo.CreateRecord(ctx, record))
	require.NotEqual(t, uuid.Nil, record.ID)

	found, err := repo.FindRecordByProductID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)
	assert.Equal(t, 12, found.QuantityInStock)
	require.NotNil(t, found.Product)
	assert.Equal(t, "Widget", found.Product.Name)

	dup := &models.InventoryRecord{ProductID: product.ID}
	require.Error(t, repo.CreateRecord(ctx, dup))
}

func TestRepositoryUpdateQuantityGuarded(t *testing.T) {
	gdb := setupLedgerTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	product := createTestProduct(t, gdb, "Widget", "WID-001")
	record := &models.InventoryRecord{ProductID: product.ID, QuantityInStock: 10}
	require.NoError(t, repo.CreateRecord(ctx, record))

	touched := time.Now().UTC()
	ok, err := repo.UpdateQuantityGuarded(ctx, record.ID, 10, 7, touched)
	require.NoError(t, err)
	assert.True(t, ok)

	// Stale expected quantity must not win.
	ok, err = repo.UpdateQuantityGuarded(ctx, record.ID, 10, 3, touched)
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.FindRecordByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, found.QuantityInStock)
	require.NotNil(t, found.LastRestocked)
}

func TestRepositoryListRecordsStatusFilter(t *testing.T) {
	gdb := setupLedgerTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	depleted := createTestProduct(t, gdb, "Depleted", "DEP-001")
	low := createTestProduct(t, gdb, "Low", "LOW-001")
	healthy := createTestProduct(t, gdb, "Healthy", "HLT-001")
	reserved := createTestProduct(t, gdb, "Reserved", "RSV-001")

	for _, seed := range []struct {
		productID uuid.UUID
		qty       int
		reserved  int
		reorder   int
	}{
		{depleted.ID, 0, 0, 5},
		{low.ID, 3, 0, 5},
		{healthy.ID, 50, 0, 5},
		// 10 on hand but 8 held back, so only 2 are available.
		{reserved.ID, 10, 8, 5},
	} {
		record := &models.InventoryRecord{
			ProductID:        seed.productID,
			QuantityInStock:  seed.qty,
			QuantityReserved: seed.reserved,
			ReorderLevel:     seed.reorder,
		}
		require.NoError(t, repo.CreateRecord(ctx, record))
	}

	out := enums.StockStatusOutOfStock
	records, err := repo.ListRecords(ctx, RecordFilter{Status: &out, Limit: 10})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, depleted.ID, records[0].ProductID)

	lowStatus := enums.StockStatusLowStock
	records, err = repo.ListRecords(ctx, RecordFilter{Status: &lowStatus, Limit: 10})
	require.NoError(t, err)
	require.Len(t, records, 2)
	gotProducts := []uuid.UUID{records[0].ProductID, records[1].ProductID}
	assert.ElementsMatch(t, []uuid.UUID{low.ID, reserved.ID}, gotProducts)

	inStock := enums.StockStatusInStock
	records, err = repo.ListRecords(ctx, RecordFilter{Status: &inStock, Limit: 10})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, healthy.ID, records[0].ProductID)
}

func TestRepositoryListRecordsSearch(t *testing.T) {
	gdb := setupLedgerTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	widget := createTestProduct(t, gdb, "Steel Widget", "WID-001")
	gadget := createTestProduct(t, gdb, "Brass Gadget", "GAD-001")
	for _, id := range []uuid.UUID{widget.ID, gadget.ID} {
		require.NoError(t, repo.CreateRecord(ctx, &models.InventoryRecord{ProductID: id, QuantityInStock: 5}))
	}

	records, err := repo.ListRecords(ctx, RecordFilter{Search: "Widget", Limit: 10})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, widget.ID, records[0].ProductID)

	records, err = repo.ListRecords(ctx, RecordFilter{Search: "GAD", Limit: 10})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, gadget.ID, records[0].ProductID)
}

func TestRepositoryTransactionsOrderAndSum(t *testing.T) {
	gdb := setupLedgerTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	product := createTestProduct(t, gdb, "Widget", "WID-001")
	record := &models.InventoryRecord{ProductID: product.ID, QuantityInStock: 0}
	require.NoError(t, repo.CreateRecord(ctx, record))

	// Signed deltas: 50 in, 20 out, adjusted from 30 to 40, then 5 in.
	movements := []struct {
		kind  enums.TransactionType
		delta int
	}{
		{enums.TransactionTypeStockIn, 50},
		{enums.TransactionTypeStockOut, -20},
		{enums.TransactionTypeAdjustment, 10},
		{enums.TransactionTypeStockIn, 5},
	}
	for _, m := range movements {
		require.NoError(t, repo.CreateTransaction(ctx, &models.InventoryTransaction{
			InventoryID:     record.ID,
			TransactionType: m.kind,
			Quantity:        m.delta,
		}))
	}

	txns, err := repo.ListTransactionsByRecord(ctx, record.ID, 10, nil)
	require.NoError(t, err)
	require.Len(t, txns, 4)
	// Oldest first, insertion order breaks timestamp ties.
	assert.Equal(t, enums.TransactionTypeStockIn, txns[0].TransactionType)
	assert.Equal(t, 50, txns[0].Quantity)
	assert.Equal(t, enums.TransactionTypeStockOut, txns[1].TransactionType)
	assert.Equal(t, enums.TransactionTypeStockIn, txns[3].TransactionType)
	assert.Equal(t, 5, txns[3].Quantity)

	total, err := repo.SumMovementDeltas(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(45), total)
}

func TestRepositoryTransactionSeqCursor(t *testing.T) {
	gdb := setupLedgerTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	product := createTestProduct(t, gdb, "Widget", "WID-001")
	record := &models.InventoryRecord{ProductID: product.ID}
	require.NoError(t, repo.CreateRecord(ctx, record))

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.CreateTransaction(ctx, &models.InventoryTransaction{
			InventoryID:     record.ID,
			TransactionType: enums.TransactionTypeStockIn,
			Quantity:        i + 1,
		}))
	}

	first, err := repo.ListTransactionsByRecord(ctx, record.ID, 2, nil)
	require.NoError(t, err)
	require.Len(t, first, 2)

	assert.Less(t, first[0].ID, first[1].ID)

	cursor := &pagination.SeqCursor{CreatedAt: first[1].CreatedAt, Seq: first[1].ID}
	second, err := repo.ListTransactionsByRecord(ctx, record.ID, 10, cursor)
	require.NoError(t, err)
	require.Len(t, second, 3)
	assert.Greater(t, second[0].ID, first[1].ID)
}
