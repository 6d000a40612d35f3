package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasbookhq/kasbook-backend/pkg/enums"
)

// Purchase mirrors Order on the supplier side. The optional OrderID links a
// purchase to the sales order that consumed its stock, for cost tracing.
type Purchase struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	ContactID       *uuid.UUID             `gorm:"column:contact_id;type:uuid"`
	OrderID         *uuid.UUID             `gorm:"column:order_id;type:uuid"`
	ReferenceNumber string                 `gorm:"column:reference_number"`
	TransactionDate time.Time              `gorm:"column:transaction_date;not null"`
	GrandTotal      decimal.Decimal        `gorm:"column:grand_total;type:numeric(20,4);not null"`
	Status          enums.SettlementStatus `gorm:"column:status;type:settlement_status_enum;not null"`
	Items           []PurchaseItem         `gorm:"foreignKey:PurchaseID"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// PurchaseItem is a purchase line. Stock-tracked lines drive IN mutations at
// the line's unit cost when the purchase is confirmed.
type PurchaseItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	PurchaseID uuid.UUID       `gorm:"column:purchase_id;type:uuid;not null;index"`
	StockID    *uuid.UUID      `gorm:"column:stock_id;type:uuid"`
	Name       string          `gorm:"column:name;not null"`
	Qty        decimal.Decimal `gorm:"column:qty;type:numeric(20,4);not null"`
	UnitCost   decimal.Decimal `gorm:"column:unit_cost;type:numeric(20,4);not null"`
	LineTotal  decimal.Decimal `gorm:"column:line_total;type:numeric(20,4);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
