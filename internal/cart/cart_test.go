package cart

import (
	"errors"
	"reflect"
	"testing"

	"pos-system/internal/models"
)

func TestAddItem(t *testing.T) {
	tests := []struct {
		name    string
		item    models.LineItem
		wantErr bool
	}{
		{
			name: "valid item",
			item: models.LineItem{Name: "Bandeja paisa", UnitPrice: 28000, Quantity: 1},
		},
		{
			name: "quantity defaults to one",
			item: models.LineItem{Name: "Limonada", UnitPrice: 6000},
		},
		{
			name:    "missing name",
			item:    models.LineItem{UnitPrice: 28000, Quantity: 1},
			wantErr: true,
		},
		{
			name:    "negative price",
			item:    models.LineItem{Name: "Bandeja paisa", UnitPrice: -1, Quantity: 1},
			wantErr: true,
		},
		{
			name: "percentage discount over 100",
			item: models.LineItem{
				Name: "Bandeja paisa", UnitPrice: 28000, Quantity: 1,
				DiscountValue: 101, DiscountKind: models.DiscountPercentage,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			added, err := c.AddItem(tt.item)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AddItem() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if len(c.Draft().Items) != 0 {
					t.Errorf("refused AddItem mutated the draft")
				}
				return
			}
			if added.ID == "" {
				t.Errorf("AddItem() did not assign an id")
			}
			if added.Quantity < 1 {
				t.Errorf("AddItem() quantity = %d, want >= 1", added.Quantity)
			}
			if len(c.Draft().Items) != 1 {
				t.Errorf("draft has %d items, want 1", len(c.Draft().Items))
			}
		})
	}
}

func TestSetQuantityZeroRemovesItem(t *testing.T) {
	c := New()
	item, err := c.AddItem(models.LineItem{Name: "Arepa", UnitPrice: 4000, Quantity: 2})
	if err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}

	if err := c.SetQuantity(item.ID, 0); err != nil {
		t.Fatalf("SetQuantity returned error: %v", err)
	}

	if len(c.Draft().Items) != 0 {
		t.Errorf("item not removed by SetQuantity(id, 0)")
	}

	// Equivalent to RemoveItem: the item is gone either way
	c2 := New()
	item2, _ := c2.AddItem(models.LineItem{Name: "Arepa", UnitPrice: 4000, Quantity: 2})
	if err := c2.RemoveItem(item2.ID); err != nil {
		t.Fatalf("RemoveItem returned error: %v", err)
	}
	if !reflect.DeepEqual(c.Draft().Items, c2.Draft().Items) {
		t.Errorf("SetQuantity(id, 0) and RemoveItem(id) left different drafts")
	}
}

func TestRemoveItem_NotFound(t *testing.T) {
	c := New()
	if err := c.RemoveItem("missing"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("RemoveItem() error = %v, want ErrItemNotFound", err)
	}
}

func TestApplyOrderDiscount(t *testing.T) {
	tests := []struct {
		name    string
		value   int64
		kind    models.DiscountKind
		wantErr bool
	}{
		{name: "valid fixed", value: 5000, kind: models.DiscountFixed},
		{name: "valid percentage", value: 10, kind: models.DiscountPercentage},
		{name: "negative value", value: -1, kind: models.DiscountFixed, wantErr: true},
		{name: "percentage over 100", value: 150, kind: models.DiscountPercentage, wantErr: true},
		{name: "unknown kind", value: 10, kind: "bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			err := c.ApplyOrderDiscount(tt.value, tt.kind, "promo")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyOrderDiscount() error = %v, wantErr %v", err, tt.wantErr)
			}
			draft := c.Draft()
			if tt.wantErr {
				if draft.DiscountValue != 0 {
					t.Errorf("refused discount mutated the draft")
				}
				return
			}
			if draft.DiscountValue != tt.value || draft.DiscountKind != tt.kind {
				t.Errorf("discount not applied: %+v", draft)
			}
		})
	}
}

func TestSplitPayments(t *testing.T) {
	c := New()

	if err := c.AddSplitPayment(models.PaymentCash, 20000); err != nil {
		t.Fatalf("AddSplitPayment returned error: %v", err)
	}
	if err := c.AddSplitPayment(models.PaymentCard, 27600); err != nil {
		t.Fatalf("AddSplitPayment returned error: %v", err)
	}

	if err := c.AddSplitPayment(models.PaymentCash, 0); err == nil {
		t.Errorf("AddSplitPayment accepted a zero amount")
	}
	if err := c.AddSplitPayment("cheque", 1000); err == nil {
		t.Errorf("AddSplitPayment accepted an unknown method")
	}

	if err := c.RemoveSplitPayment(5); !errors.Is(err, ErrInvalidSplitIndex) {
		t.Errorf("RemoveSplitPayment(5) error = %v, want ErrInvalidSplitIndex", err)
	}

	if err := c.RemoveSplitPayment(0); err != nil {
		t.Fatalf("RemoveSplitPayment returned error: %v", err)
	}

	payments := c.Draft().SplitPayments
	if len(payments) != 1 || payments[0].Method != models.PaymentCard {
		t.Errorf("unexpected split payments after removal: %+v", payments)
	}
}

func TestClearCartRestoresInitialState(t *testing.T) {
	c := New()
	if _, err := c.AddItem(models.LineItem{Name: "Ajiaco", UnitPrice: 18000, Quantity: 1}); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if err := c.ApplyOrderDiscount(10, models.DiscountPercentage, "promo"); err != nil {
		t.Fatalf("ApplyOrderDiscount returned error: %v", err)
	}
	if err := c.SetPaymentMethod(models.PaymentCard); err != nil {
		t.Fatalf("SetPaymentMethod returned error: %v", err)
	}
	c.SetOrderNote("sin cebolla")

	c.ClearCart()

	if !reflect.DeepEqual(c.Draft(), models.NewOrderDraft()) {
		t.Errorf("ClearCart() draft = %+v, want initial state", c.Draft())
	}
}

func TestCheckout(t *testing.T) {
	table := 4

	tests := []struct {
		name    string
		prepare func(c *Cart)
		wantErr bool
	}{
		{
			name:    "empty cart refused",
			prepare: func(c *Cart) {},
			wantErr: true,
		},
		{
			name: "dine-in without table refused",
			prepare: func(c *Cart) {
				c.AddItem(models.LineItem{Name: "Ajiaco", UnitPrice: 18000, Quantity: 1})
			},
			wantErr: true,
		},
		{
			name: "valid dine-in",
			prepare: func(c *Cart) {
				c.AddItem(models.LineItem{Name: "Ajiaco", UnitPrice: 18000, Quantity: 1})
				c.SetTableNumber(&table)
			},
		},
		{
			name: "valid takeaway without table",
			prepare: func(c *Cart) {
				c.AddItem(models.LineItem{Name: "Ajiaco", UnitPrice: 18000, Quantity: 1})
				c.SetOrderType("takeaway")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.prepare(c)

			result := <-c.Checkout(0)
			if (result.Err != nil) != tt.wantErr {
				t.Fatalf("Checkout() error = %v, wantErr %v", result.Err, tt.wantErr)
			}
			if tt.wantErr {
				if c.PendingReceipt() != nil {
					t.Errorf("failed checkout staged a receipt")
				}
				return
			}

			order := result.Order
			if order.ID == "" {
				t.Errorf("confirmed order has no id")
			}
			if order.Status != models.StatusPlaced {
				t.Errorf("order status = %s, want placed", order.Status)
			}
			if order.CreatedAt.IsZero() {
				t.Errorf("order has no creation timestamp")
			}
			if order.Total != 18000+18000*19/100 {
				t.Errorf("order total = %d", order.Total)
			}
			if c.PendingReceipt() == nil {
				t.Errorf("checkout did not stage a receipt")
			}
			if len(c.History()) != 1 {
				t.Errorf("checkout did not append to history")
			}
			// The draft stays intact until the receipt is dismissed
			if len(c.Draft().Items) != 1 {
				t.Errorf("checkout cleared the draft before receipt dismissal")
			}
		})
	}
}

func TestDismissReceipt(t *testing.T) {
	c := New()
	if _, err := c.DismissReceipt(); !errors.Is(err, ErrNoPendingReceipt) {
		t.Fatalf("DismissReceipt() error = %v, want ErrNoPendingReceipt", err)
	}

	c.AddItem(models.LineItem{Name: "Ajiaco", UnitPrice: 18000, Quantity: 1})
	c.SetOrderType("takeaway")
	result := <-c.Checkout(0)
	if result.Err != nil {
		t.Fatalf("Checkout returned error: %v", result.Err)
	}

	receipt, err := c.DismissReceipt()
	if err != nil {
		t.Fatalf("DismissReceipt returned error: %v", err)
	}
	if receipt.ID != result.Order.ID {
		t.Errorf("dismissed receipt does not match the confirmed order")
	}
	if len(c.Draft().Items) != 0 {
		t.Errorf("cart not cleared after receipt dismissal")
	}
	if c.PendingReceipt() != nil {
		t.Errorf("pending receipt still staged after dismissal")
	}
	// Dismissal reset the draft to its initial dine-in state, so the second
	// checkout needs an order type again
	c.AddItem(models.LineItem{Name: "Ajiaco", UnitPrice: 18000, Quantity: 1})
	c.SetOrderType("takeaway")
	second := <-c.Checkout(0)
	if second.Err != nil {
		t.Fatalf("second Checkout returned error: %v", second.Err)
	}
	if second.Order.ID == result.Order.ID {
		t.Errorf("second checkout reused the first order id")
	}
	if len(c.History()) != 2 {
		t.Errorf("history has %d orders, want 2", len(c.History()))
	}
}

func TestRestore(t *testing.T) {
	c := New()
	c.AddItem(models.LineItem{Name: "Ajiaco", UnitPrice: 18000, Quantity: 2})
	c.SetOrderNote("mesa junto a la ventana")
	snap := c.Snapshot()

	restored := Restore(snap)
	if !reflect.DeepEqual(restored.Draft(), c.Draft()) {
		t.Errorf("Restore() draft = %+v, want %+v", restored.Draft(), c.Draft())
	}

	// Nil snapshot yields the empty initial draft
	fresh := Restore(nil)
	if !reflect.DeepEqual(fresh.Draft(), models.NewOrderDraft()) {
		t.Errorf("Restore(nil) draft = %+v, want initial state", fresh.Draft())
	}
}

func TestDraftCopyIsolation(t *testing.T) {
	c := New()
	item, _ := c.AddItem(models.LineItem{Name: "Ajiaco", UnitPrice: 18000, Quantity: 1})

	draft := c.Draft()
	draft.Items[0].UnitPrice = 1

	if got := c.Draft().Items[0].UnitPrice; got != 18000 {
		t.Errorf("mutating a returned draft copy changed the cart (price %d)", got)
	}
	if err := c.SetQuantity(item.ID, 3); err != nil {
		t.Fatalf("SetQuantity returned error: %v", err)
	}
	if draft.Items[0].Quantity == 3 {
		t.Errorf("cart mutation leaked into a previously returned draft copy")
	}
}
