package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	"github.com/kasbookhq/kasbook-backend/pkg/types"
)

// Debt is the outstanding payable/receivable balance spawned by an order or
// purchase that was not fully paid at creation. Invariant: 0 <= Remaining <=
// Amount, and Status is derived from Remaining against Amount. Only payment
// application mutates Remaining.
type Debt struct {
	ID         uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	ContactID  uuid.UUID              `gorm:"column:contact_id;type:uuid;not null"`
	OrderID    *uuid.UUID             `gorm:"column:order_id;type:uuid"`
	PurchaseID *uuid.UUID             `gorm:"column:purchase_id;type:uuid"`
	Type       enums.DebtType         `gorm:"column:type;type:debt_type_enum;not null"`
	Amount     decimal.Decimal        `gorm:"column:amount;type:numeric(20,4);not null"`
	Remaining  decimal.Decimal        `gorm:"column:remaining;type:numeric(20,4);not null"`
	DueDate    *time.Time             `gorm:"column:due_date"`
	Status     enums.SettlementStatus `gorm:"column:status;type:settlement_status_enum;not null"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// Ref rebuilds the owning document reference from the FK pair.
func (d *Debt) Ref() (types.EntityRef, error) {
	return types.RefFromColumns(d.OrderID, d.PurchaseID)
}

// SetRef writes the FK pair from a tagged reference.
func (d *Debt) SetRef(ref types.EntityRef) {
	d.OrderID = ref.OrderID()
	d.PurchaseID = ref.PurchaseID()
}
