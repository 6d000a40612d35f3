// Package stock holds the stock ledger: per-item on-hand quantity with a
// moving-average unit cost, and an append-only mutation trail. Apply is the
// single write path; correcting a mistake means posting a compensating
// adjustment, never editing history.
package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kasbookhq/kasbook-backend/pkg/db/models"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
	"github.com/kasbookhq/kasbook-backend/pkg/types"
)

// MovementInput describes one stock movement.
type MovementInput struct {
	StockID uuid.UUID
	Type    enums.StockMutationType
	// Qty is the moved quantity for in/out, or the absolute target quantity
	// for adjustments.
	Qty      decimal.Decimal
	UnitCost decimal.Decimal
	Ref      types.EntityRef
	Note     string
	// AllowNegative lets an out movement drive the quantity below zero.
	// Reserved for adjustment corrections; normal sales must not set it.
	AllowNegative bool
}

// Apply executes one movement against the stock ledger inside the caller's
// transaction: loads the item with its row locked, recomputes quantity and
// average cost, appends the immutable mutation snapshot, and saves the item.
func Apply(ctx context.Context, tx *gorm.DB, input MovementInput) (*models.StockMutation, error) {
	if input.StockID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock id required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid stock mutation type")
	}

	repo := NewRepository(tx)
	item, err := repo.FindByIDForUpdate(ctx, input.StockID)
	if err != nil {
		return nil, err
	}

	switch input.Type {
	case enums.StockMutationTypeIn:
		if !input.Qty.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "inbound qty must be positive")
		}
		if input.UnitCost.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cost must not be negative")
		}
		item.AvgCost = WeightedAverage(item.Qty, item.AvgCost, input.Qty, input.UnitCost)
		item.Qty = item.Qty.Add(input.Qty)

	case enums.StockMutationTypeOut:
		if !input.Qty.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbound qty must be positive")
		}
		newQty := item.Qty.Sub(input.Qty)
		if newQty.IsNegative() && !input.AllowNegative {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock on hand").
				WithDetails(map[string]string{
					"stock_id":  item.ID.String(),
					"on_hand":   item.Qty.String(),
					"requested": input.Qty.String(),
				})
		}
		item.Qty = newQty

	case enums.StockMutationTypeAdjustment:
		if input.Qty.IsNegative() && !input.AllowNegative {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment target must not be negative")
		}
		item.Qty = input.Qty
	}

	mutation := &models.StockMutation{
		ID:             uuid.New(),
		StockID:        item.ID,
		Type:           input.Type,
		Qty:            input.Qty,
		CurrentQty:     item.Qty,
		CurrentAvgCost: item.AvgCost,
		Note:           input.Note,
	}
	mutation.SetRef(input.Ref)

	if err := repo.AppendMutation(ctx, mutation); err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, item); err != nil {
		return nil, err
	}
	return mutation, nil
}
