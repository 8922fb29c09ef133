package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase es el encabezado de una compra a proveedor. Mismo contrato de
// completitud que Sale: el proyector ignora compras con líneas a medio escribir.
type Purchase struct {
	ID          string
	SupplierID  string
	PaymentType string // cash, credit
	Total       decimal.Decimal
	ItemCount   int
	OperatorID  string
	CreatedAt   time.Time
}

// PurchaseItem es una línea de compra.
type PurchaseItem struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   int64
	UnitCost   decimal.Decimal
	Subtotal   decimal.Decimal
	CreatedAt  time.Time
}

// Complete indica si todas las líneas declaradas ya fueron escritas.
func (p *Purchase) Complete(items int) bool { return items >= p.ItemCount }
