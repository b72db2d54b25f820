package pricing

import (
	"strings"
	"testing"

	"pos-system/internal/models"
)

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name string
		item models.LineItem
		want int64
	}{
		{
			name: "no discount",
			item: models.LineItem{UnitPrice: 20000, Quantity: 2},
			want: 40000,
		},
		{
			name: "addons raise effective unit price",
			item: models.LineItem{
				UnitPrice: 20000,
				Quantity:  2,
				AddOns:    []models.AddOn{{Name: "Queso extra", Price: 3000}},
			},
			want: 46000,
		},
		{
			name: "fixed discount applies per unit",
			item: models.LineItem{
				UnitPrice:     20000,
				Quantity:      2,
				DiscountValue: 5000,
				DiscountKind:  models.DiscountFixed,
			},
			want: 30000,
		},
		{
			name: "percentage discount",
			item: models.LineItem{
				UnitPrice:     20000,
				Quantity:      2,
				DiscountValue: 10,
				DiscountKind:  models.DiscountPercentage,
			},
			want: 36000,
		},
		{
			name: "quantity one",
			item: models.LineItem{UnitPrice: 8500, Quantity: 1},
			want: 8500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineTotal(&tt.item); got != tt.want {
				t.Errorf("LineTotal() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSubtotal_NoDiscounts(t *testing.T) {
	items := []models.LineItem{
		{UnitPrice: 20000, Quantity: 2},
		{UnitPrice: 8500, Quantity: 3},
		{UnitPrice: 12000, Quantity: 1},
	}

	want := int64(20000*2 + 8500*3 + 12000)
	if got := Subtotal(items); got != want {
		t.Errorf("Subtotal() = %d, want %d", got, want)
	}
}

func TestTax(t *testing.T) {
	items := []models.LineItem{{UnitPrice: 20000, Quantity: 2}}

	if got := Tax(items); got != 7600 {
		t.Errorf("Tax() = %d, want 7600", got)
	}

	// Tax is always 19% of the subtotal
	if got, want := Tax(items), Subtotal(items)*19/100; got != want {
		t.Errorf("Tax() = %d, want %d", got, want)
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name  string
		draft models.OrderDraft
		want  Totals
	}{
		{
			name: "no discounts",
			draft: models.OrderDraft{
				Items: []models.LineItem{{UnitPrice: 20000, Quantity: 2}},
			},
			want: Totals{Subtotal: 40000, Tax: 7600, Discount: 0, Total: 47600},
		},
		{
			name: "per-item fixed discount",
			draft: models.OrderDraft{
				Items: []models.LineItem{{
					UnitPrice:     20000,
					Quantity:      2,
					DiscountValue: 5000,
					DiscountKind:  models.DiscountFixed,
				}},
			},
			want: Totals{Subtotal: 30000, Tax: 5700, Discount: 0, Total: 35700},
		},
		{
			name: "ten percent order discount",
			draft: models.OrderDraft{
				Items:         []models.LineItem{{UnitPrice: 20000, Quantity: 2}},
				DiscountValue: 10,
				DiscountKind:  models.DiscountPercentage,
			},
			want: Totals{Subtotal: 40000, Tax: 7600, Discount: 4760, Total: 42840},
		},
		{
			name: "oversized fixed discount floors total at zero",
			draft: models.OrderDraft{
				Items:         []models.LineItem{{UnitPrice: 20000, Quantity: 2}},
				DiscountValue: 100000,
				DiscountKind:  models.DiscountFixed,
			},
			want: Totals{Subtotal: 40000, Tax: 7600, Discount: 100000, Total: 0},
		},
		{
			name:  "empty cart",
			draft: models.OrderDraft{},
			want:  Totals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Calculate(&tt.draft); got != tt.want {
				t.Errorf("Calculate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTotal_MonotoneInFixedDiscount(t *testing.T) {
	items := []models.LineItem{{UnitPrice: 20000, Quantity: 2}}

	prev := Total(items, 0, models.DiscountFixed)
	for value := int64(1000); value <= 120000; value += 1000 {
		got := Total(items, value, models.DiscountFixed)
		if got > prev {
			t.Fatalf("Total increased from %d to %d at discount %d", prev, got, value)
		}
		if got < 0 {
			t.Fatalf("Total went negative (%d) at discount %d", got, value)
		}
		prev = got
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	draft := models.OrderDraft{
		Items: []models.LineItem{
			{UnitPrice: 20000, Quantity: 2, DiscountValue: 5, DiscountKind: models.DiscountPercentage},
			{UnitPrice: 8500, Quantity: 1, AddOns: []models.AddOn{{Name: "Salsa", Price: 1500}}},
		},
		DiscountValue: 2000,
		DiscountKind:  models.DiscountFixed,
	}

	first := Calculate(&draft)
	second := Calculate(&draft)
	if first != second {
		t.Errorf("Calculate() not idempotent: %+v vs %+v", first, second)
	}
}

func TestFormatCOP(t *testing.T) {
	got := FormatCOP(47600)
	if !strings.Contains(got, "47.600") {
		t.Errorf("FormatCOP(47600) = %q, want thousands-grouped pesos", got)
	}
	if !strings.HasPrefix(got, "$") {
		t.Errorf("FormatCOP(47600) = %q, want leading peso sign", got)
	}
}
