package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a cash account. Balance is a materialized running total: it must
// always equal the initial balance plus the signed sum of every non-deleted
// transaction on the account. Only the transaction engine writes it.
type Account struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Balance   decimal.Decimal `gorm:"column:balance;type:numeric(20,4);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
