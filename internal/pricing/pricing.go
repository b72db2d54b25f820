// Package pricing computes order totals for the register. All functions are
// pure: identical inputs always produce identical outputs, so callers may
// recompute on every state change.
package pricing

import "pos-system/internal/models"

// TaxRate is the VAT percentage applied to every order. The settings screen
// exposes a display rate, but totals always use this value.
const TaxRate = 19

// Totals is the full pricing breakdown for a draft
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}

// EffectiveUnitPrice returns the item's base price plus all add-on prices
func EffectiveUnitPrice(item *models.LineItem) int64 {
	price := item.UnitPrice
	for _, addon := range item.AddOns {
		price += addon.Price
	}
	return price
}

// LineTotal computes the total for one cart line.
// A fixed discount comes off each unit before quantity is applied; it is not
// a one-off deduction on the line.
func LineTotal(item *models.LineItem) int64 {
	effective := EffectiveUnitPrice(item)

	var perUnitDiscount int64
	switch item.DiscountKind {
	case models.DiscountPercentage:
		perUnitDiscount = effective * item.DiscountValue / 100
	case models.DiscountFixed:
		perUnitDiscount = item.DiscountValue
	}

	return (effective - perUnitDiscount) * int64(item.Quantity)
}

// Subtotal sums all line totals
func Subtotal(items []models.LineItem) int64 {
	var subtotal int64
	for i := range items {
		subtotal += LineTotal(&items[i])
	}
	return subtotal
}

// Tax computes the VAT on the subtotal. The order-level discount does not
// reduce the taxable base.
func Tax(items []models.LineItem) int64 {
	return Subtotal(items) * TaxRate / 100
}

// OrderDiscount computes the order-level discount amount against the given
// base (subtotal plus tax).
func OrderDiscount(base, value int64, kind models.DiscountKind) int64 {
	switch kind {
	case models.DiscountPercentage:
		return base * value / 100
	case models.DiscountFixed:
		return value
	}
	return 0
}

// Total computes the grand total, floored at zero
func Total(items []models.LineItem, discountValue int64, discountKind models.DiscountKind) int64 {
	subtotal := Subtotal(items)
	tax := subtotal * TaxRate / 100
	total := subtotal + tax - OrderDiscount(subtotal+tax, discountValue, discountKind)
	if total < 0 {
		return 0
	}
	return total
}

// Calculate returns the full breakdown for a draft
func Calculate(draft *models.OrderDraft) Totals {
	subtotal := Subtotal(draft.Items)
	tax := subtotal * TaxRate / 100
	discount := OrderDiscount(subtotal+tax, draft.DiscountValue, draft.DiscountKind)

	total := subtotal + tax - discount
	if total < 0 {
		total = 0
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    total,
	}
}
