// Package settlement derives the paid/partial/unpaid status of an order,
// purchase, or debt from what is still owed against the total.
package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/kasbookhq/kasbook-backend/pkg/enums"
)

// Derive maps a remaining balance against the total owed onto a settlement
// status. remaining == total means nothing was paid; zero remaining means
// fully settled. A zero total is treated as settled.
func Derive(remaining, total decimal.Decimal) enums.SettlementStatus {
	switch {
	case total.IsZero(), !remaining.IsPositive():
		return enums.SettlementStatusPaid
	case remaining.GreaterThanOrEqual(total):
		return enums.SettlementStatusUnpaid
	default:
		return enums.SettlementStatusPartial
	}
}

// FromPayments derives status from the amount already received against the
// total owed.
func FromPayments(paid, total decimal.Decimal) enums.SettlementStatus {
	return Derive(total.Sub(paid), total)
}
