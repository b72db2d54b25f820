package models

import (
	"fmt"
	"time"
)

// OrderMessage is sent to receipt workers after checkout
type OrderMessage struct {
	OrderID       string         `json:"order_id"`
	OrderNumber   string         `json:"order_number"`
	CustomerName  string         `json:"customer_name,omitempty"`
	OrderType     string         `json:"order_type"`
	TableNumber   *int           `json:"table_number,omitempty"`
	Items         []LineItem     `json:"items"`
	PaymentMethod string         `json:"payment_method"`
	SplitPayments []SplitPayment `json:"split_payments,omitempty"`
	Subtotal      int64          `json:"subtotal"`
	Tax           int64          `json:"tax"`
	Discount      int64          `json:"discount"`
	Total         int64          `json:"total"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ReceiptReadyMessage is fanned out once a worker has rendered a receipt
type ReceiptReadyMessage struct {
	OrderNumber string    `json:"order_number"`
	PrintedBy   string    `json:"printed_by"`
	Total       int64     `json:"total"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewOrderMessage builds the queue payload from a confirmed order
func NewOrderMessage(order *ConfirmedOrder) *OrderMessage {
	return &OrderMessage{
		OrderID:       order.ID,
		OrderNumber:   order.Number,
		CustomerName:  order.Customer.Name,
		OrderType:     string(order.OrderType),
		TableNumber:   order.TableNumber,
		Items:         order.Items,
		PaymentMethod: order.PaymentMethod,
		SplitPayments: order.SplitPayments,
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		Discount:      order.Discount,
		Total:         order.Total,
		CreatedAt:     order.CreatedAt,
	}
}

// NewReceiptReadyMessage builds the fanout payload for a printed receipt
func NewReceiptReadyMessage(orderNumber, printedBy string, total int64) *ReceiptReadyMessage {
	return &ReceiptReadyMessage{
		OrderNumber: orderNumber,
		PrintedBy:   printedBy,
		Total:       total,
		Timestamp:   time.Now().UTC(),
	}
}

// GenerateRoutingKey generates a routing key for order messages
func GenerateRoutingKey(orderType string) string {
	return fmt.Sprintf("receipts.%s", orderType)
}
