package types

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kasbookhq/kasbook-backend/pkg/enums"
)

// EntityRef is a tagged reference to the document a financial record belongs
// to: an order, a purchase, or nothing. Constructors guarantee at most one
// side is ever set, so a record can never claim to belong to both.
type EntityRef struct {
	kind enums.EntityKind
	id   uuid.UUID
}

// NoRef returns the empty reference.
func NoRef() EntityRef {
	return EntityRef{}
}

// OrderRef returns a reference to the order with the given id.
func OrderRef(id uuid.UUID) EntityRef {
	return EntityRef{kind: enums.EntityKindOrder, id: id}
}

// PurchaseRef returns a reference to the purchase with the given id.
func PurchaseRef(id uuid.UUID) EntityRef {
	return EntityRef{kind: enums.EntityKindPurchase, id: id}
}

// RefFromColumns rebuilds a reference from a nullable FK pair as stored in the
// database. It fails when both columns are set.
func RefFromColumns(orderID, purchaseID *uuid.UUID) (EntityRef, error) {
	switch {
	case orderID != nil && purchaseID != nil:
		return EntityRef{}, fmt.Errorf("record references both order %s and purchase %s", orderID, purchaseID)
	case orderID != nil:
		return OrderRef(*orderID), nil
	case purchaseID != nil:
		return PurchaseRef(*purchaseID), nil
	default:
		return NoRef(), nil
	}
}

// Kind returns which document kind the reference points at.
func (r EntityRef) Kind() enums.EntityKind {
	return r.kind
}

// IsZero reports whether the reference points at nothing.
func (r EntityRef) IsZero() bool {
	return r.kind == enums.EntityKindNone
}

// ID returns the referenced document id. Only meaningful when !IsZero().
func (r EntityRef) ID() uuid.UUID {
	return r.id
}

// OrderID returns the order id column value for persistence.
func (r EntityRef) OrderID() *uuid.UUID {
	if r.kind != enums.EntityKindOrder {
		return nil
	}
	id := r.id
	return &id
}

// PurchaseID returns the purchase id column value for persistence.
func (r EntityRef) PurchaseID() *uuid.UUID {
	if r.kind != enums.EntityKindPurchase {
		return nil
	}
	id := r.id
	return &id
}

func (r EntityRef) String() string {
	if r.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%s:%s", r.kind, r.id)
}
