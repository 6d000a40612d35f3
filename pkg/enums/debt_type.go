package enums

import "fmt"

// DebtType maps to the debt_type_enum enum in Postgres.
type DebtType string

const (
	// DebtTypePayable is money the business owes a supplier.
	DebtTypePayable DebtType = "payable"
	// DebtTypeReceivable is money a customer owes the business.
	DebtTypeReceivable DebtType = "receivable"
)

var validDebtTypes = []DebtType{
	DebtTypePayable,
	DebtTypeReceivable,
}

// IsValid reports whether the value matches the canonical debt type enum.
func (t DebtType) IsValid() bool {
	for _, candidate := range validDebtTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseDebtType converts raw input into DebtType.
func ParseDebtType(value string) (DebtType, error) {
	for _, candidate := range validDebtTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid debt type %q", value)
}
