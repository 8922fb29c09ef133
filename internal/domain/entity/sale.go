package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Formas de pago de una venta.
const (
	SalePaymentCash   = "cash"
	SalePaymentCredit = "credit"
)

// Sale es el encabezado de una venta. ItemCount declara cuántas líneas debería
// tener; una venta está "completa" solo cuando todas sus líneas existen. El
// proyector de resúmenes excluye ventas incompletas en vez de fallar.
type Sale struct {
	ID          string
	CustomerID  string // vacío en venta de mostrador
	PaymentType string // cash, credit
	Total       decimal.Decimal
	ItemCount   int
	OperatorID  string
	CreatedAt   time.Time
}

// SaleItem es una línea de venta.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	CreatedAt time.Time
}

// Complete indica si todas las líneas declaradas ya fueron escritas.
func (s *Sale) Complete(items int) bool { return items >= s.ItemCount }
