package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSnapshot es el resumen financiero/contable de un período. Es dato
// derivado: se regenera a pedido desde los logs inmutables (StockMutation,
// CashTransaction) más ventas y compras; nunca es fuente de verdad y no se
// persiste.
type LedgerSnapshot struct {
	From time.Time
	To   time.Time

	StockIn  int64 // unidades entradas en el período
	StockOut int64 // unidades salidas (valor absoluto)

	OperatorCashIn      decimal.Decimal
	OperatorCashOut     decimal.Decimal
	ConsolidatedCashIn  decimal.Decimal
	ConsolidatedCashOut decimal.Decimal

	SalesTotal    decimal.Decimal
	PurchaseTotal decimal.Decimal

	VarianceLoss decimal.Decimal // pérdidas por diferencias de conteo
	VarianceGain decimal.Decimal

	PendingMirrors int // filas de operador aún sin replicar
	ExcludedSales  int // ventas incompletas excluidas del resumen
	ExcludedPurchases int

	GeneratedAt time.Time
}
