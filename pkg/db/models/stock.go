package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock tracks on-hand quantity and moving-average unit cost for one catalog
// item. Qty and AvgCost are written only by the stock mutation recorder;
// AvgCost changes only on inbound movement.
type Stock struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name         string          `gorm:"column:name;not null"`
	Unit         string          `gorm:"column:unit;not null"`
	Qty          decimal.Decimal `gorm:"column:qty;type:numeric(20,4);not null"`
	AvgCost      decimal.Decimal `gorm:"column:avg_cost;type:numeric(20,4);not null"`
	SellingPrice decimal.Decimal `gorm:"column:selling_price;type:numeric(20,4);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
