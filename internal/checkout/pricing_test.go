package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPriceQuote(t *testing.T) {
	cases := []struct {
		name       string
		itemsPrice string
		want       Quote
	}{
		{
			name:       "flat shipping under threshold",
			itemsPrice: "60.00",
			want:       Quote{ItemsPrice: 60, TaxPrice: 6, ShippingPrice: 10, TotalPrice: 76},
		},
		{
			name:       "free shipping over threshold",
			itemsPrice: "150.00",
			want:       Quote{ItemsPrice: 150, TaxPrice: 15, ShippingPrice: 0, TotalPrice: 165},
		},
		{
			name:       "threshold is exclusive at exactly 100",
			itemsPrice: "100.00",
			want:       Quote{ItemsPrice: 100, TaxPrice: 10, ShippingPrice: 10, TotalPrice: 120},
		},
		{
			name:       "just over threshold",
			itemsPrice: "100.01",
			want:       Quote{ItemsPrice: 100.01, TaxPrice: 10, ShippingPrice: 0, TotalPrice: 110.01},
		},
		{
			name:       "rounds tax to cents",
			itemsPrice: "10.55",
			want:       Quote{ItemsPrice: 10.55, TaxPrice: 1.06, ShippingPrice: 10, TotalPrice: 21.61},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PriceQuote(decimal.RequireFromString(tc.itemsPrice))
			if got != tc.want {
				t.Fatalf("PriceQuote(%s) = %+v, want %+v", tc.itemsPrice, got, tc.want)
			}
		})
	}
}
