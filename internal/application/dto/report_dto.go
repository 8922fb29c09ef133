package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryResponse resumen contable de un período (dato derivado, regenerado a
// pedido; los excluidos son resultado parcial documentado, no un error).
type SummaryResponse struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	StockIn  int64 `json:"stock_in"`
	StockOut int64 `json:"stock_out"`

	OperatorCashIn      decimal.Decimal `json:"operator_cash_in"`
	OperatorCashOut     decimal.Decimal `json:"operator_cash_out"`
	ConsolidatedCashIn  decimal.Decimal `json:"consolidated_cash_in"`
	ConsolidatedCashOut decimal.Decimal `json:"consolidated_cash_out"`

	SalesTotal    decimal.Decimal `json:"sales_total"`
	PurchaseTotal decimal.Decimal `json:"purchase_total"`

	VarianceLoss decimal.Decimal `json:"variance_loss"`
	VarianceGain decimal.Decimal `json:"variance_gain"`

	PendingMirrors    int `json:"pending_mirrors"`
	ExcludedSales     int `json:"excluded_sales"`
	ExcludedPurchases int `json:"excluded_purchases"`

	GeneratedAt time.Time `json:"generated_at"`
}
