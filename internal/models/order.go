package models

import (
	"fmt"
	"time"
)

// OrderType represents the type of an order
type OrderType string

const (
	DineIn   OrderType = "dine_in"
	Takeaway OrderType = "takeaway"
	Delivery OrderType = "delivery"
)

// OrderStatus represents the status of a confirmed order
type OrderStatus string

const (
	StatusPlaced  OrderStatus = "placed"
	StatusPrinted OrderStatus = "printed"
)

// DiscountKind selects how a discount value is interpreted
type DiscountKind string

const (
	DiscountFixed      DiscountKind = "fixed"
	DiscountPercentage DiscountKind = "percentage"
)

// Payment methods accepted at the register
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// DefaultPaymentMethod is the method a fresh draft starts with
const DefaultPaymentMethod = PaymentCash

// AddOn is an extra priced onto a line item's unit price
type AddOn struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// LineItem is one cart line. Prices are whole Colombian pesos.
type LineItem struct {
	ID            string       `json:"id"`
	ProductID     string       `json:"product_id,omitempty"`
	Name          string       `json:"name"`
	UnitPrice     int64        `json:"unit_price"`
	Quantity      int          `json:"quantity"`
	AddOns        []AddOn      `json:"addons,omitempty"`
	Note          string       `json:"note,omitempty"`
	DiscountValue int64        `json:"discount_value,omitempty"`
	DiscountKind  DiscountKind `json:"discount_kind,omitempty"`
}

// Customer holds optional customer contact details
type Customer struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// SplitPayment is one entry of a split tender
type SplitPayment struct {
	Method string `json:"method"`
	Amount int64  `json:"amount"`
}

// OrderDraft is the mutable in-progress order owned by one register session
type OrderDraft struct {
	Items          []LineItem     `json:"items"`
	Customer       Customer       `json:"customer"`
	Note           string         `json:"note,omitempty"`
	PaymentMethod  string         `json:"payment_method"`
	SplitPayments  []SplitPayment `json:"split_payments,omitempty"`
	DiscountValue  int64          `json:"discount_value,omitempty"`
	DiscountKind   DiscountKind   `json:"discount_kind,omitempty"`
	DiscountReason string         `json:"discount_reason,omitempty"`
	TableNumber    *int           `json:"table_number,omitempty"`
	OrderType      OrderType      `json:"order_type"`
}

// NewOrderDraft returns the documented empty initial draft state
func NewOrderDraft() OrderDraft {
	return OrderDraft{
		Items:         []LineItem{},
		PaymentMethod: DefaultPaymentMethod,
		OrderType:     DineIn,
		DiscountKind:  DiscountFixed,
	}
}

// ConfirmedOrder is the immutable snapshot produced at checkout
type ConfirmedOrder struct {
	ID             string         `json:"id"`
	Number         string         `json:"order_number,omitempty"`
	Items          []LineItem     `json:"items"`
	Customer       Customer       `json:"customer"`
	Note           string         `json:"note,omitempty"`
	PaymentMethod  string         `json:"payment_method"`
	SplitPayments  []SplitPayment `json:"split_payments,omitempty"`
	DiscountValue  int64          `json:"discount_value,omitempty"`
	DiscountKind   DiscountKind   `json:"discount_kind,omitempty"`
	DiscountReason string         `json:"discount_reason,omitempty"`
	TableNumber    *int           `json:"table_number,omitempty"`
	OrderType      OrderType      `json:"order_type"`
	Subtotal       int64          `json:"subtotal"`
	Tax            int64          `json:"tax"`
	Discount       int64          `json:"discount"`
	Total          int64          `json:"total"`
	Status         OrderStatus    `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
}

// CartSnapshot is the persisted form of a draft, restored at session start
type CartSnapshot struct {
	Draft   OrderDraft `json:"draft"`
	SavedAt time.Time  `json:"saved_at"`
}

// OrderStatusHistory represents an entry in the order status log
type OrderStatusHistory struct {
	Status    OrderStatus `json:"status" db:"status"`
	ChangedBy string      `json:"changed_by" db:"changed_by"`
	ChangedAt time.Time   `json:"timestamp" db:"changed_at"`
	Notes     *string     `json:"notes,omitempty" db:"notes"`
}

// OrderTrackingResponse represents the response for order lookups
type OrderTrackingResponse struct {
	OrderNumber   string    `json:"order_number"`
	CurrentStatus string    `json:"current_status"`
	Total         int64     `json:"total"`
	CreatedAt     time.Time `json:"created_at"`
	PrintedBy     *string   `json:"printed_by,omitempty"`
}

// FullyPaid reports whether the split payments cover the given total exactly.
// Checkout does not enforce this; the register surfaces it to the cashier.
func (d *OrderDraft) FullyPaid(total int64) bool {
	if len(d.SplitPayments) == 0 {
		return false
	}
	var paid int64
	for _, p := range d.SplitPayments {
		paid += p.Amount
	}
	return paid == total
}

// ValidateDiscount checks a discount value/kind pair before it is applied
func ValidateDiscount(value int64, kind DiscountKind) error {
	if value < 0 {
		return fmt.Errorf("discount value must not be negative")
	}
	switch kind {
	case DiscountFixed:
	case DiscountPercentage:
		if value > 100 {
			return fmt.Errorf("percentage discount must not exceed 100")
		}
	default:
		return fmt.Errorf("discount kind must be one of: fixed, percentage")
	}
	return nil
}

// ValidateOrderType checks an order type string
func ValidateOrderType(orderType string) (OrderType, error) {
	switch OrderType(orderType) {
	case DineIn, Takeaway, Delivery:
		return OrderType(orderType), nil
	default:
		return "", fmt.Errorf("order_type must be one of: dine_in, takeaway, delivery")
	}
}

// ValidatePaymentMethod checks a payment method tag
func ValidatePaymentMethod(method string) error {
	switch method {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return nil
	default:
		return fmt.Errorf("payment_method must be one of: cash, card, transfer")
	}
}

// ValidateLineItem checks the fields of an item before it enters the draft
func ValidateLineItem(item *LineItem) error {
	if len(item.Name) == 0 {
		return fmt.Errorf("item name is required")
	}
	if item.UnitPrice < 0 {
		return fmt.Errorf("item unit_price must not be negative")
	}
	if item.Quantity < 1 {
		return fmt.Errorf("item quantity must be at least 1")
	}
	for i, addon := range item.AddOns {
		if addon.Price < 0 {
			return fmt.Errorf("addons[%d].price must not be negative", i)
		}
	}
	if item.DiscountKind != "" {
		if err := ValidateDiscount(item.DiscountValue, item.DiscountKind); err != nil {
			return err
		}
	}
	return nil
}

// ValidateForCheckout checks the draft-level requirements before checkout
func (d *OrderDraft) ValidateForCheckout() error {
	if len(d.Items) == 0 {
		return fmt.Errorf("cannot checkout an empty cart")
	}
	if d.OrderType == DineIn {
		if d.TableNumber == nil {
			return fmt.Errorf("table_number is required for dine_in orders")
		}
		if *d.TableNumber < 1 {
			return fmt.Errorf("table_number must be positive")
		}
	}
	if err := ValidatePaymentMethod(d.PaymentMethod); err != nil {
		return err
	}
	return nil
}

// GenerateOrderNumber generates an order number in format POS_YYYYMMDD_NNN
func GenerateOrderNumber(date time.Time, sequence int) string {
	return fmt.Sprintf("POS_%s_%03d", date.Format("20060102"), sequence)
}
