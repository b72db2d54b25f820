package receipt

import (
	"strings"
	"testing"
	"time"

	"pos-system/internal/models"
)

func sampleMessage() *models.OrderMessage {
	table := 4
	return &models.OrderMessage{
		OrderID:      "7f6b0b1e",
		OrderNumber:  "POS_20250314_001",
		CustomerName: "Carolina",
		OrderType:    "dine_in",
		TableNumber:  &table,
		Items: []models.LineItem{
			{
				Name:      "Bandeja paisa",
				UnitPrice: 28000,
				Quantity:  1,
				AddOns:    []models.AddOn{{Name: "Arepa extra", Price: 2000}},
			},
			{
				Name:          "Limonada de coco",
				UnitPrice:     8000,
				Quantity:      2,
				DiscountValue: 10,
				DiscountKind:  models.DiscountPercentage,
				Note:          "sin azucar",
			},
		},
		PaymentMethod: models.PaymentCash,
		Subtotal:      44400,
		Tax:           8436,
		Discount:      0,
		Total:         52836,
		CreatedAt:     time.Date(2025, 3, 14, 12, 45, 0, 0, time.UTC),
	}
}

func TestRender(t *testing.T) {
	got := Render(sampleMessage())

	for _, want := range []string{
		"RECIBO DE VENTA",
		"POS_20250314_001",
		"Cliente: Carolina",
		"Mesa: 4",
		"1x Bandeja paisa",
		"+ Arepa extra",
		"2x Limonada de coco",
		"desc. 10%",
		"nota: sin azucar",
		"Subtotal",
		"IVA 19%",
		"TOTAL",
		"Pago: cash",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered receipt missing %q:\n%s", want, got)
		}
	}

	// Total is formatted with thousands grouping
	if !strings.Contains(got, "52.836") {
		t.Errorf("rendered receipt missing formatted total:\n%s", got)
	}
}

func TestRender_TakeawayAndSplitPayments(t *testing.T) {
	msg := sampleMessage()
	msg.OrderType = "takeaway"
	msg.TableNumber = nil
	msg.Discount = 5000
	msg.SplitPayments = []models.SplitPayment{
		{Method: models.PaymentCash, Amount: 30000},
		{Method: models.PaymentCard, Amount: 17836},
	}

	got := Render(msg)

	if !strings.Contains(got, "Para llevar") {
		t.Errorf("takeaway receipt missing header:\n%s", got)
	}
	if strings.Contains(got, "Mesa:") {
		t.Errorf("takeaway receipt shows a table:\n%s", got)
	}
	if !strings.Contains(got, "Descuento") {
		t.Errorf("receipt missing discount line:\n%s", got)
	}
	if !strings.Contains(got, "Pago cash") || !strings.Contains(got, "Pago card") {
		t.Errorf("receipt missing split payment lines:\n%s", got)
	}
	if strings.Contains(got, "Pago: ") {
		t.Errorf("split receipt still shows single payment line:\n%s", got)
	}
}

func TestAmountLine_AccentedLabel(t *testing.T) {
	line := strings.TrimRight(amountLine("Descuento promoción", 5000), "\n")
	if got := len([]rune(line)); got != receiptWidth {
		t.Errorf("amountLine() width = %d runes, want %d: %q", got, receiptWidth, line)
	}
}

func TestAmountLine_RightAligned(t *testing.T) {
	got := amountLine("TOTAL", 52836)

	if !strings.HasSuffix(strings.TrimRight(got, "\n"), "52.836") {
		t.Errorf("amountLine() = %q, want right-aligned amount", got)
	}
	if len([]rune(strings.TrimRight(got, "\n"))) > receiptWidth {
		t.Errorf("amountLine() wider than %d runes: %q", receiptWidth, got)
	}
}
