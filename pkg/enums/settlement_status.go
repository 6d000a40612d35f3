package enums

import "fmt"

// SettlementStatus maps to the settlement_status_enum enum in Postgres.
// It applies to orders, purchases, and debts alike.
type SettlementStatus string

const (
	SettlementStatusUnpaid  SettlementStatus = "unpaid"
	SettlementStatusPartial SettlementStatus = "partial"
	SettlementStatusPaid    SettlementStatus = "paid"
)

var validSettlementStatuses = []SettlementStatus{
	SettlementStatusUnpaid,
	SettlementStatusPartial,
	SettlementStatusPaid,
}

// IsValid reports whether the value matches the canonical settlement status enum.
func (s SettlementStatus) IsValid() bool {
	for _, candidate := range validSettlementStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSettlementStatus converts raw input into SettlementStatus.
func ParseSettlementStatus(value string) (SettlementStatus, error) {
	for _, candidate := range validSettlementStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid settlement status %q", value)
}
