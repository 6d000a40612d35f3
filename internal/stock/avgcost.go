package stock

import "github.com/shopspring/decimal"

// avgCostScale is the decimal precision kept for moving-average unit costs.
const avgCostScale = 4

// WeightedAverage recomputes the moving-average unit cost after an inbound
// movement. With nothing on hand the incoming cost becomes the average.
func WeightedAverage(oldQty, oldAvg, inQty, inCost decimal.Decimal) decimal.Decimal {
	if !oldQty.IsPositive() {
		return inCost
	}
	totalQty := oldQty.Add(inQty)
	if !totalQty.IsPositive() {
		return inCost
	}
	totalValue := oldQty.Mul(oldAvg).Add(inQty.Mul(inCost))
	return totalValue.DivRound(totalQty, avgCostScale)
}
