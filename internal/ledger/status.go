package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/techvent/inventory-backend/pkg/enums"
)

var hundred = decimal.NewFromInt(100)

// StatusOf derives the stock status from available quantity (on-hand
// minus reserved) and reorder level. Out-of-stock wins over low-stock
// when both would apply, so a reorder level of zero never reports a
// depleted record as merely low.
func StatusOf(quantityAvailable, reorderLevel int) enums.StockStatus {
	switch {
	case quantityAvailable <= 0:
		return enums.StockStatusOutOfStock
	case quantityAvailable <= reorderLevel:
		return enums.StockStatusLowStock
	default:
		return enums.StockStatusInStock
	}
}

// ProfitMarginPercent computes (selling - cost) / cost * 100. Records
// priced at or below zero on either side report a zero margin rather
// than dividing by zero or producing a misleading negative number.
func ProfitMarginPercent(costPrice, sellingPrice decimal.Decimal) decimal.Decimal {
	if !costPrice.IsPositive() || !sellingPrice.IsPositive() {
		return decimal.Zero
	}
	return sellingPrice.Sub(costPrice).Div(costPrice).Mul(hundred)
}
