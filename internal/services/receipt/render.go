package receipt

import (
	"fmt"
	"strings"

	"pos-system/internal/models"
	"pos-system/internal/pricing"
)

const receiptWidth = 38

// Render produces the plain-text receipt for a confirmed order, formatted
// with Colombian peso amounts.
func Render(msg *models.OrderMessage) string {
	var b strings.Builder

	line := strings.Repeat("-", receiptWidth)

	b.WriteString(center("RECIBO DE VENTA") + "\n")
	b.WriteString(center(msg.OrderNumber) + "\n")
	b.WriteString(msg.CreatedAt.Format("2006-01-02 15:04:05") + "\n")
	if msg.CustomerName != "" {
		b.WriteString("Cliente: " + msg.CustomerName + "\n")
	}
	switch msg.OrderType {
	case string(models.DineIn):
		if msg.TableNumber != nil {
			b.WriteString(fmt.Sprintf("Mesa: %d\n", *msg.TableNumber))
		}
	case string(models.Takeaway):
		b.WriteString("Para llevar\n")
	case string(models.Delivery):
		b.WriteString("Domicilio\n")
	}
	b.WriteString(line + "\n")

	for i := range msg.Items {
		item := &msg.Items[i]
		b.WriteString(amountLine(
			fmt.Sprintf("%dx %s", item.Quantity, item.Name),
			pricing.LineTotal(item),
		))
		for _, addon := range item.AddOns {
			b.WriteString("   + " + addon.Name + "\n")
		}
		if item.DiscountValue > 0 {
			switch item.DiscountKind {
			case models.DiscountPercentage:
				b.WriteString(fmt.Sprintf("   desc. %d%%\n", item.DiscountValue))
			case models.DiscountFixed:
				b.WriteString(fmt.Sprintf("   desc. %s c/u\n", pricing.FormatCOP(item.DiscountValue)))
			}
		}
		if item.Note != "" {
			b.WriteString("   nota: " + item.Note + "\n")
		}
	}

	b.WriteString(line + "\n")
	b.WriteString(amountLine("Subtotal", msg.Subtotal))
	b.WriteString(amountLine(fmt.Sprintf("IVA %d%%", pricing.TaxRate), msg.Tax))
	if msg.Discount > 0 {
		b.WriteString(amountLine("Descuento", -msg.Discount))
	}
	b.WriteString(amountLine("TOTAL", msg.Total))
	b.WriteString(line + "\n")

	if len(msg.SplitPayments) > 0 {
		for _, payment := range msg.SplitPayments {
			b.WriteString(amountLine("Pago "+payment.Method, payment.Amount))
		}
	} else {
		b.WriteString("Pago: " + msg.PaymentMethod + "\n")
	}

	return b.String()
}

// amountLine renders a label with a right-aligned peso amount
func amountLine(label string, amount int64) string {
	formatted := pricing.FormatCOP(amount)
	padding := receiptWidth - len([]rune(label)) - len([]rune(formatted))
	if padding < 1 {
		padding = 1
	}
	return label + strings.Repeat(" ", padding) + formatted + "\n"
}

func center(s string) string {
	if len(s) >= receiptWidth {
		return s
	}
	return strings.Repeat(" ", (receiptWidth-len(s))/2) + s
}
