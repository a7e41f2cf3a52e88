package enums

import "fmt"

// TransactionType identifies the kind of stock movement recorded in the ledger.
type TransactionType string

const (
	TransactionTypeStockIn    TransactionType = "stock_in"
	TransactionTypeStockOut   TransactionType = "stock_out"
	TransactionTypeAdjustment TransactionType = "adjustment"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeStockIn,
	TransactionTypeStockOut,
	TransactionTypeAdjustment,
}

// String implements fmt.Stringer.
func (t TransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value matches a known TransactionType.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransactionType converts raw input into a TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
