package stock

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestWeightedAverage(t *testing.T) {
	d := decimal.NewFromInt

	cases := []struct {
		name                         string
		oldQty, oldAvg, inQty, inCost int64
		want                         string
	}{
		{"empty stock takes incoming cost", 0, 0, 10, 1000, "1000"},
		{"equal batches average evenly", 10, 1000, 10, 2000, "1500"},
		{"small top-up barely moves the average", 100, 1000, 1, 2000, "1009.901"},
		{"same cost keeps the average", 20, 1500, 5, 1500, "1500"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WeightedAverage(d(tc.oldQty), d(tc.oldAvg), d(tc.inQty), d(tc.inCost))
			want, err := decimal.NewFromString(tc.want)
			if err != nil {
				t.Fatalf("bad want: %v", err)
			}
			if !got.Equal(want) {
				t.Fatalf("WeightedAverage = %s, want %s", got, want)
			}
		})
	}
}

func TestWeightedAverageFractional(t *testing.T) {
	// 3 @ 10.50 plus 2 @ 12.25 = 56.00 / 5 = 11.20
	got := WeightedAverage(
		decimal.NewFromInt(3),
		decimal.RequireFromString("10.50"),
		decimal.NewFromInt(2),
		decimal.RequireFromString("12.25"),
	)
	if want := decimal.RequireFromString("11.20"); !got.Equal(want) {
		t.Fatalf("WeightedAverage = %s, want %s", got, want)
	}
}
