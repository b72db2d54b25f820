// Package cart owns the in-progress order draft for one register session and
// exposes the register's mutation operations. Invalid mutations are refused
// with an error and leave the draft untouched.
package cart

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"pos-system/internal/models"
	"pos-system/internal/pricing"
)

var (
	ErrItemNotFound      = errors.New("item not found in cart")
	ErrEmptyCart         = errors.New("cannot checkout an empty cart")
	ErrNoPendingReceipt  = errors.New("no pending receipt to dismiss")
	ErrInvalidSplitIndex = errors.New("split payment index out of range")
)

// CheckoutResult is delivered once the simulated payment processing finishes
type CheckoutResult struct {
	Order *models.ConfirmedOrder
	Err   error
}

// Cart holds one session's draft, its confirmed-order history and the
// receipt staged by the most recent checkout. Safe for concurrent use.
type Cart struct {
	mu             sync.Mutex
	draft          models.OrderDraft
	history        []models.ConfirmedOrder
	pendingReceipt *models.ConfirmedOrder
	revision       uint64
}

// New returns a cart holding the empty initial draft
func New() *Cart {
	return &Cart{draft: models.NewOrderDraft()}
}

// Restore returns a cart seeded from a persisted draft snapshot
func Restore(snap *models.CartSnapshot) *Cart {
	c := New()
	if snap != nil {
		c.draft = snap.Draft
		if c.draft.Items == nil {
			c.draft.Items = []models.LineItem{}
		}
	}
	return c
}

// Draft returns a copy of the current draft
func (c *Cart) Draft() models.OrderDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyDraftLocked()
}

// Totals computes the current pricing breakdown for the draft
func (c *Cart) Totals() pricing.Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return pricing.Calculate(&c.draft)
}

// Revision returns a counter bumped by every successful mutation
func (c *Cart) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

// Snapshot captures the draft for persistence
func (c *Cart) Snapshot() *models.CartSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &models.CartSnapshot{
		Draft:   c.copyDraftLocked(),
		SavedAt: time.Now().UTC(),
	}
}

// History returns the session's confirmed orders, oldest first
func (c *Cart) History() []models.ConfirmedOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	history := make([]models.ConfirmedOrder, len(c.history))
	copy(history, c.history)
	return history
}

// PendingReceipt returns the receipt staged by the last checkout, if any
func (c *Cart) PendingReceipt() *models.ConfirmedOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingReceipt == nil {
		return nil
	}
	receipt := *c.pendingReceipt
	return &receipt
}

// AddItem appends a new line item with a freshly generated identifier.
// Quantity defaults to 1 when not supplied.
func (c *Cart) AddItem(item models.LineItem) (models.LineItem, error) {
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if err := models.ValidateLineItem(&item); err != nil {
		return models.LineItem{}, err
	}

	item.ID = uuid.NewString()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Items = append(c.draft.Items, item)
	c.revision++
	return item, nil
}

// RemoveItem deletes the line item matching id
func (c *Cart) RemoveItem(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.draft.Items {
		if c.draft.Items[i].ID == id {
			c.draft.Items = append(c.draft.Items[:i], c.draft.Items[i+1:]...)
			c.revision++
			return nil
		}
	}
	return ErrItemNotFound
}

// SetQuantity updates an item's quantity; a quantity of zero or less removes
// the item entirely.
func (c *Cart) SetQuantity(id string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	item := c.findItemLocked(id)
	if item == nil {
		return ErrItemNotFound
	}
	item.Quantity = quantity
	c.revision++
	return nil
}

// SetItemNote updates an item's freeform note
func (c *Cart) SetItemNote(id, note string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := c.findItemLocked(id)
	if item == nil {
		return ErrItemNotFound
	}
	item.Note = note
	c.revision++
	return nil
}

// ApplyItemDiscount updates an item's discount fields
func (c *Cart) ApplyItemDiscount(id string, value int64, kind models.DiscountKind) error {
	if err := models.ValidateDiscount(value, kind); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	item := c.findItemLocked(id)
	if item == nil {
		return ErrItemNotFound
	}
	item.DiscountValue = value
	item.DiscountKind = kind
	c.revision++
	return nil
}

// ApplyOrderDiscount updates the order-level discount fields
func (c *Cart) ApplyOrderDiscount(value int64, kind models.DiscountKind, reason string) error {
	if err := models.ValidateDiscount(value, kind); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.DiscountValue = value
	c.draft.DiscountKind = kind
	c.draft.DiscountReason = reason
	c.revision++
	return nil
}

// SetCustomer updates the customer contact details
func (c *Cart) SetCustomer(customer models.Customer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Customer = customer
	c.revision++
}

// SetOrderNote updates the order-level note
func (c *Cart) SetOrderNote(note string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Note = note
	c.revision++
}

// SetPaymentMethod updates the selected payment method
func (c *Cart) SetPaymentMethod(method string) error {
	if err := models.ValidatePaymentMethod(method); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.PaymentMethod = method
	c.revision++
	return nil
}

// SetTableNumber updates the table for dine-in orders
func (c *Cart) SetTableNumber(table *int) error {
	if table != nil && *table < 1 {
		return fmt.Errorf("table_number must be positive")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.TableNumber = table
	c.revision++
	return nil
}

// SetOrderType updates the order type
func (c *Cart) SetOrderType(orderType string) error {
	parsed, err := models.ValidateOrderType(orderType)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.OrderType = parsed
	c.revision++
	return nil
}

// AddSplitPayment appends one split tender entry
func (c *Cart) AddSplitPayment(method string, amount int64) error {
	if err := models.ValidatePaymentMethod(method); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("split payment amount must be positive")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.SplitPayments = append(c.draft.SplitPayments, models.SplitPayment{
		Method: method,
		Amount: amount,
	})
	c.revision++
	return nil
}

// RemoveSplitPayment deletes the split tender entry at index
func (c *Cart) RemoveSplitPayment(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.draft.SplitPayments) {
		return ErrInvalidSplitIndex
	}
	c.draft.SplitPayments = append(c.draft.SplitPayments[:index], c.draft.SplitPayments[index+1:]...)
	c.revision++
	return nil
}

// ClearCart resets the draft to its empty initial value
func (c *Cart) ClearCart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = models.NewOrderDraft()
	c.revision++
}

// Checkout validates the draft, assembles a confirmed order snapshot and
// delivers it on the returned channel after the given artificial delay.
// The delay simulates payment processing; there is no gateway behind it and
// no way to cancel once started. The cart is not cleared here: the draft
// stays intact until the staged receipt is dismissed.
func (c *Cart) Checkout(delay time.Duration) <-chan CheckoutResult {
	result := make(chan CheckoutResult, 1)

	c.mu.Lock()
	if len(c.draft.Items) == 0 {
		c.mu.Unlock()
		result <- CheckoutResult{Err: ErrEmptyCart}
		return result
	}
	if err := c.draft.ValidateForCheckout(); err != nil {
		c.mu.Unlock()
		result <- CheckoutResult{Err: err}
		return result
	}

	totals := pricing.Calculate(&c.draft)
	draft := c.copyDraftLocked()
	c.mu.Unlock()

	go func() {
		<-time.After(delay)

		order := models.ConfirmedOrder{
			ID:             uuid.NewString(),
			Items:          draft.Items,
			Customer:       draft.Customer,
			Note:           draft.Note,
			PaymentMethod:  draft.PaymentMethod,
			SplitPayments:  draft.SplitPayments,
			DiscountValue:  draft.DiscountValue,
			DiscountKind:   draft.DiscountKind,
			DiscountReason: draft.DiscountReason,
			TableNumber:    draft.TableNumber,
			OrderType:      draft.OrderType,
			Subtotal:       totals.Subtotal,
			Tax:            totals.Tax,
			Discount:       totals.Discount,
			Total:          totals.Total,
			Status:         models.StatusPlaced,
			CreatedAt:      time.Now().UTC(),
		}

		c.mu.Lock()
		c.history = append(c.history, order)
		c.pendingReceipt = &order
		c.revision++
		c.mu.Unlock()

		result <- CheckoutResult{Order: &order}
	}()

	return result
}

// DismissReceipt drops the staged receipt and clears the cart, returning the
// dismissed order.
func (c *Cart) DismissReceipt() (*models.ConfirmedOrder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingReceipt == nil {
		return nil, ErrNoPendingReceipt
	}
	receipt := c.pendingReceipt
	c.pendingReceipt = nil
	c.draft = models.NewOrderDraft()
	c.revision++
	return receipt, nil
}

func (c *Cart) findItemLocked(id string) *models.LineItem {
	for i := range c.draft.Items {
		if c.draft.Items[i].ID == id {
			return &c.draft.Items[i]
		}
	}
	return nil
}

func (c *Cart) copyDraftLocked() models.OrderDraft {
	draft := c.draft

	draft.Items = make([]models.LineItem, len(c.draft.Items))
	copy(draft.Items, c.draft.Items)
	for i := range draft.Items {
		if len(draft.Items[i].AddOns) > 0 {
			addons := make([]models.AddOn, len(draft.Items[i].AddOns))
			copy(addons, draft.Items[i].AddOns)
			draft.Items[i].AddOns = addons
		}
	}

	if len(c.draft.SplitPayments) > 0 {
		payments := make([]models.SplitPayment, len(c.draft.SplitPayments))
		copy(payments, c.draft.SplitPayments)
		draft.SplitPayments = payments
	}

	if c.draft.TableNumber != nil {
		table := *c.draft.TableNumber
		draft.TableNumber = &table
	}

	return draft
}
