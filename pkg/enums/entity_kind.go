package enums

// EntityKind names the kind of document a financial record can be tied to.
type EntityKind string

const (
	EntityKindNone     EntityKind = ""
	EntityKindOrder    EntityKind = "order"
	EntityKindPurchase EntityKind = "purchase"
)
