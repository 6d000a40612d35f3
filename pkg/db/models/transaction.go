package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	"github.com/kasbookhq/kasbook-backend/pkg/types"
)

// Transaction is a single money movement on an account. It can be owned by at
// most one of order/purchase (via the FK pair managed through types.EntityRef)
// and can optionally pay down a debt. Soft-deleted rows no longer contribute
// to the account balance.
type Transaction struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	AccountID       uuid.UUID             `gorm:"column:account_id;type:uuid;not null"`
	Type            enums.TransactionType `gorm:"column:type;type:transaction_type_enum;not null"`
	Amount          decimal.Decimal       `gorm:"column:amount;type:numeric(20,4);not null"`
	Note            string                `gorm:"column:note"`
	CategoryID      *uuid.UUID            `gorm:"column:category_id;type:uuid"`
	OrderID         *uuid.UUID            `gorm:"column:order_id;type:uuid"`
	PurchaseID      *uuid.UUID            `gorm:"column:purchase_id;type:uuid"`
	DebtID          *uuid.UUID            `gorm:"column:debt_id;type:uuid"`
	TransactionDate time.Time             `gorm:"column:transaction_date;not null"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt       gorm.DeletedAt        `gorm:"column:deleted_at;index"`
}

// Ref rebuilds the owning document reference from the FK pair.
func (t *Transaction) Ref() (types.EntityRef, error) {
	return types.RefFromColumns(t.OrderID, t.PurchaseID)
}

// SetRef writes the FK pair from a tagged reference.
func (t *Transaction) SetRef(ref types.EntityRef) {
	t.OrderID = ref.OrderID()
	t.PurchaseID = ref.PurchaseID()
}
