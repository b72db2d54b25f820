package models

import (
	"testing"
	"time"
)

func TestValidateDiscount(t *testing.T) {
	tests := []struct {
		name    string
		value   int64
		kind    DiscountKind
		wantErr bool
	}{
		{name: "fixed zero", value: 0, kind: DiscountFixed},
		{name: "fixed large", value: 1000000, kind: DiscountFixed},
		{name: "percentage boundary", value: 100, kind: DiscountPercentage},
		{name: "negative value", value: -1, kind: DiscountFixed, wantErr: true},
		{name: "percentage over 100", value: 101, kind: DiscountPercentage, wantErr: true},
		{name: "unknown kind", value: 10, kind: "coupon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDiscount(tt.value, tt.kind)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDiscount() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateOrderType(t *testing.T) {
	tests := []struct {
		input   string
		want    OrderType
		wantErr bool
	}{
		{input: "dine_in", want: DineIn},
		{input: "takeaway", want: Takeaway},
		{input: "delivery", want: Delivery},
		{input: "drive_thru", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateOrderType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateOrderType() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateOrderType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateForCheckout(t *testing.T) {
	table := 3
	badTable := 0

	tests := []struct {
		name    string
		draft   OrderDraft
		wantErr bool
	}{
		{
			name:    "empty cart",
			draft:   NewOrderDraft(),
			wantErr: true,
		},
		{
			name: "dine in without table",
			draft: OrderDraft{
				Items:         []LineItem{{Name: "Ajiaco", UnitPrice: 18000, Quantity: 1}},
				PaymentMethod: PaymentCash,
				OrderType:     DineIn,
			},
			wantErr: true,
		},
		{
			name: "dine in with invalid table",
			draft: OrderDraft{
				Items:         []LineItem{{Name: "Ajiaco", UnitPrice: 18000, Quantity: 1}},
				PaymentMethod: PaymentCash,
				OrderType:     DineIn,
				TableNumber:   &badTable,
			},
			wantErr: true,
		},
		{
			name: "dine in with table",
			draft: OrderDraft{
				Items:         []LineItem{{Name: "Ajiaco", UnitPrice: 18000, Quantity: 1}},
				PaymentMethod: PaymentCash,
				OrderType:     DineIn,
				TableNumber:   &table,
			},
		},
		{
			name: "takeaway needs no table",
			draft: OrderDraft{
				Items:         []LineItem{{Name: "Ajiaco", UnitPrice: 18000, Quantity: 1}},
				PaymentMethod: PaymentCard,
				OrderType:     Takeaway,
			},
		},
		{
			name: "unknown payment method",
			draft: OrderDraft{
				Items:         []LineItem{{Name: "Ajiaco", UnitPrice: 18000, Quantity: 1}},
				PaymentMethod: "cheque",
				OrderType:     Takeaway,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.ValidateForCheckout()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForCheckout() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFullyPaid(t *testing.T) {
	tests := []struct {
		name     string
		payments []SplitPayment
		total    int64
		want     bool
	}{
		{name: "no payments", payments: nil, total: 47600, want: false},
		{
			name:     "exact split",
			payments: []SplitPayment{{Method: PaymentCash, Amount: 20000}, {Method: PaymentCard, Amount: 27600}},
			total:    47600,
			want:     true,
		},
		{
			name:     "underpaid",
			payments: []SplitPayment{{Method: PaymentCash, Amount: 20000}},
			total:    47600,
			want:     false,
		},
		{
			name:     "overpaid",
			payments: []SplitPayment{{Method: PaymentCash, Amount: 50000}},
			total:    47600,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := OrderDraft{SplitPayments: tt.payments}
			if got := draft.FullyPaid(tt.total); got != tt.want {
				t.Errorf("FullyPaid(%d) = %v, want %v", tt.total, got, tt.want)
			}
		})
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	date := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

	if got := GenerateOrderNumber(date, 1); got != "POS_20250314_001" {
		t.Errorf("GenerateOrderNumber() = %q, want POS_20250314_001", got)
	}
	if got := GenerateOrderNumber(date, 42); got != "POS_20250314_042" {
		t.Errorf("GenerateOrderNumber() = %q, want POS_20250314_042", got)
	}
}
