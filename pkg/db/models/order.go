package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasbookhq/kasbook-backend/pkg/enums"
)

// Order is a sales order. Status caches the settlement derivation and is
// refreshed whenever money is received against the order or its debt.
type Order struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	ContactID       *uuid.UUID             `gorm:"column:contact_id;type:uuid"`
	InvoiceNumber   string                 `gorm:"column:invoice_number;not null;uniqueIndex"`
	TransactionDate time.Time              `gorm:"column:transaction_date;not null"`
	GrandTotal      decimal.Decimal        `gorm:"column:grand_total;type:numeric(20,4);not null"`
	Status          enums.SettlementStatus `gorm:"column:status;type:settlement_status_enum;not null"`
	Items           []OrderItem            `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is a sales order line. StockID is set only for stock-tracked
// items; those lines drive OUT mutations when the order is confirmed.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	StockID   *uuid.UUID      `gorm:"column:stock_id;type:uuid"`
	Name      string          `gorm:"column:name;not null"`
	Qty       decimal.Decimal `gorm:"column:qty;type:numeric(20,4);not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(20,4);not null"`
	LineTotal decimal.Decimal `gorm:"column:line_total;type:numeric(20,4);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
