package models

import (
	"encoding/json"
	"testing"
)

func TestCatalogProduct_UnmarshalSpanishFields(t *testing.T) {
	payload := `{
		"id": "prod-17",
		"nombre": "Bandeja paisa",
		"precioVenta": 28000,
		"disponible": true,
		"cantidadActual": 12,
		"categoria": "platos fuertes"
	}`

	var p CatalogProduct
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		t.Fatalf("failed to unmarshal product: %v", err)
	}

	if p.Name != "Bandeja paisa" {
		t.Errorf("name = %q", p.Name)
	}
	if p.SalePrice != 28000 {
		t.Errorf("sale price = %d", p.SalePrice)
	}
	if !p.Available {
		t.Errorf("available = false")
	}
	if p.Stock != 12 {
		t.Errorf("stock = %d", p.Stock)
	}
}

func TestCatalogProduct_ToLineItem(t *testing.T) {
	p := CatalogProduct{
		ID:        "prod-17",
		Name:      "Bandeja paisa",
		SalePrice: 28000,
		Available: true,
		Stock:     12,
	}

	item := p.ToLineItem()

	if item.ID == "" {
		t.Errorf("line item has no id")
	}
	if item.ProductID != p.ID {
		t.Errorf("product id = %q, want %q", item.ProductID, p.ID)
	}
	if item.UnitPrice != p.SalePrice {
		t.Errorf("unit price = %d, want %d", item.UnitPrice, p.SalePrice)
	}
	if item.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", item.Quantity)
	}

	if err := ValidateLineItem(&item); err != nil {
		t.Errorf("mapped line item failed validation: %v", err)
	}

	// Each mapping yields a distinct cart line
	if other := p.ToLineItem(); other.ID == item.ID {
		t.Errorf("two mapped line items share an id")
	}
}
