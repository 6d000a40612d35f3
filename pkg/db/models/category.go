package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kasbookhq/kasbook-backend/pkg/enums"
)

// Category labels transactions for reporting. Master data only.
type Category struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Name      string                `gorm:"column:name;not null"`
	Type      enums.TransactionType `gorm:"column:type;type:transaction_type_enum;not null"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
