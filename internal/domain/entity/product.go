package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Product representa un producto o SKU del catálogo.
// StockOnHand solo se muta a través del libro de stock (compare-and-set, ver
// StockMutation); ningún otro camino de código puede escribirlo después de la
// creación. Consignment marca mercadería en consignación: las diferencias de
// conteo físico se valorizan y generan un movimiento de caja.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	StockOnHand int64 // invariante: nunca negativo
	MinStock    int64 // punto de reorden para la lista de stock bajo
	CostPrice   decimal.Decimal
	SellPrice   decimal.Decimal
	Status      string // active, inactive
	Consignment bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive indica si el producto admite movimientos de stock.
func (p *Product) IsActive() bool { return p.Status == ProductStatusActive }
