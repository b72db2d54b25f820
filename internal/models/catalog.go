package models

import "github.com/google/uuid"

// CatalogProduct mirrors the product payload of the remote catalog API,
// which uses Spanish field names on the wire.
type CatalogProduct struct {
	ID        string `json:"id"`
	Name      string `json:"nombre"`
	SalePrice int64  `json:"precioVenta"`
	Available bool   `json:"disponible"`
	Stock     int    `json:"cantidadActual"`
	Category  string `json:"categoria,omitempty"`
}

// ToLineItem maps a catalog product onto a fresh cart line with quantity 1.
func (p *CatalogProduct) ToLineItem() LineItem {
	return LineItem{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.SalePrice,
		Quantity:  1,
	}
}
