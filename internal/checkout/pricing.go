package checkout

import "github.com/shopspring/decimal"

var (
	taxRate           = decimal.NewFromFloat(0.10)
	flatShipping      = decimal.NewFromInt(10)
	freeShippingAbove = decimal.NewFromInt(100)
)

// Quote holds the priced totals of a checkout, each rounded to two
// decimal places. totalPrice = itemsPrice + taxPrice + shippingPrice,
// computed once at order creation and never recomputed.
type Quote struct {
	ItemsPrice    float64
	TaxPrice      float64
	ShippingPrice float64
	TotalPrice    float64
}

// PriceQuote applies the 10% tax rate and the flat 10.00 shipping fee,
// waived when itemsPrice exceeds 100.00. The threshold is exclusive:
// itemsPrice of exactly 100.00 still pays shipping.
func PriceQuote(itemsPrice decimal.Decimal) Quote {
	tax := itemsPrice.Mul(taxRate)
	shipping := flatShipping
	if itemsPrice.GreaterThan(freeShippingAbove) {
		shipping = decimal.Zero
	}
	total := itemsPrice.Add(tax).Add(shipping)

	return Quote{
		ItemsPrice:    itemsPrice.Round(2).InexactFloat64(),
		TaxPrice:      tax.Round(2).InexactFloat64(),
		ShippingPrice: shipping.Round(2).InexactFloat64(),
		TotalPrice:    total.Round(2).InexactFloat64(),
	}
}
