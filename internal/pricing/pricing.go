// Package pricing holds the fixed checkout business rules. Rates are not
// configurable and no rounding happens here; display formatting rounds.
package pricing

const (
	// TaxRate is applied to every order subtotal.
	TaxRate = 0.08
	// FreeShippingOver is the subtotal above which shipping is waived.
	FreeShippingOver = 100.0
	// FlatShipping is charged below the free-shipping threshold.
	FlatShipping = 10.0
)

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

func Calculate(subtotal float64) Totals {
	t := Totals{
		Subtotal: subtotal,
		Tax:      subtotal * TaxRate,
	}
	if subtotal <= FreeShippingOver {
		t.Shipping = FlatShipping
	}
	t.Total = t.Subtotal + t.Tax + t.Shipping
	return t
}
