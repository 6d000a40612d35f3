package enums

import "fmt"

// StockMutationType maps to the stock_mutation_type_enum enum in Postgres.
type StockMutationType string

const (
	StockMutationTypeIn         StockMutationType = "in"
	StockMutationTypeOut        StockMutationType = "out"
	StockMutationTypeAdjustment StockMutationType = "adjustment"
)

var validStockMutationTypes = []StockMutationType{
	StockMutationTypeIn,
	StockMutationTypeOut,
	StockMutationTypeAdjustment,
}

// IsValid reports whether the value matches the canonical stock mutation type enum.
func (t StockMutationType) IsValid() bool {
	for _, candidate := range validStockMutationTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseStockMutationType converts raw input into StockMutationType.
func ParseStockMutationType(value string) (StockMutationType, error) {
	for _, candidate := range validStockMutationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock mutation type %q", value)
}
