package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	"github.com/kasbookhq/kasbook-backend/pkg/types"
)

// StockMutation is an append-only audit row for one stock movement.
// CurrentQty and CurrentAvgCost snapshot the stock state after the movement
// was applied. Rows are never updated or deleted; corrections are posted as
// compensating adjustments.
type StockMutation struct {
	ID             uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	StockID        uuid.UUID               `gorm:"column:stock_id;type:uuid;not null;index"`
	Type           enums.StockMutationType `gorm:"column:type;type:stock_mutation_type_enum;not null"`
	Qty            decimal.Decimal         `gorm:"column:qty;type:numeric(20,4);not null"`
	CurrentQty     decimal.Decimal         `gorm:"column:current_qty;type:numeric(20,4);not null"`
	CurrentAvgCost decimal.Decimal         `gorm:"column:current_avg_cost;type:numeric(20,4);not null"`
	OrderID        *uuid.UUID              `gorm:"column:order_id;type:uuid"`
	PurchaseID     *uuid.UUID              `gorm:"column:purchase_id;type:uuid"`
	Note           string                  `gorm:"column:note"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime"`
}

// Ref rebuilds the owning document reference from the FK pair.
func (m *StockMutation) Ref() (types.EntityRef, error) {
	return types.RefFromColumns(m.OrderID, m.PurchaseID)
}

// SetRef writes the FK pair from a tagged reference.
func (m *StockMutation) SetRef(ref types.EntityRef) {
	m.OrderID = ref.OrderID()
	m.PurchaseID = ref.PurchaseID()
}
