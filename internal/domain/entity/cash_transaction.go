package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos y libros de un movimiento de caja.
const (
	CashKindIn  = "in"
	CashKindOut = "out"

	CashLedgerOperator     = "operator"     // caja del cajero
	CashLedgerConsolidated = "consolidated" // caja general

	// Categorías usadas por el core; la capa de presentación puede definir más.
	CashCategorySales             = "sales"
	CashCategoryPayment           = "payment"
	CashCategoryPurchase          = "purchase"
	CashCategorySettlement        = "settlement"
	CashCategoryCountVarianceLoss = "count_variance_loss"
	CashCategoryCountVarianceGain = "count_variance_gain"

	// Tipos de referencia de movimientos de caja. CashRefOperatorEntry es el
	// de la fila consolidada que replica una fila de operador.
	CashRefOperatorEntry = "operator_cash"
	CashRefSale          = "sale"
	CashRefPayment       = "payment"
	CashRefPurchase      = "purchase"
	CashRefSettlement    = "settlement"
	CashRefStockCount    = "stock_count"
)

// CashTransaction es una entrada de caja. Las filas de operador con
// SyncFlag=false son la cola de trabajo del paso de réplica hacia la caja
// general: por cada fila de operador debe existir exactamente una fila
// consolidada. Inmutable después de creada.
type CashTransaction struct {
	ID            string
	Kind          string          // in, out
	Category      string
	Amount        decimal.Decimal // siempre positivo; el signo lo da Kind
	SourceLedger  string          // operator, consolidated
	OperatorID    string          // vacío en el libro consolidado
	SyncFlag      bool            // solo relevante en el libro de operador
	ReferenceType string
	ReferenceID   string
	CreatedAt     time.Time
}

// Signed devuelve el monto con signo según Kind (in positivo, out negativo).
func (t *CashTransaction) Signed() decimal.Decimal {
	if t.Kind == CashKindOut {
		return t.Amount.Neg()
	}
	return t.Amount
}
