package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordCashRequest entrada HTTP para un movimiento de caja de operador.
type RecordCashRequest struct {
	Kind          string          `json:"kind" validate:"required,oneof=in out"`
	Category      string          `json:"category" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
}

// CashTransactionResponse salida de un movimiento de caja. SyncFlag expone el
// estado de réplica pendiente en vez de ocultarlo.
type CashTransactionResponse struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	SourceLedger  string          `json:"source_ledger"`
	OperatorID    string          `json:"operator_id,omitempty"`
	SyncFlag      bool            `json:"sync_flag"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MirrorRetryResponse salida del reintento de réplicas pendientes.
type MirrorRetryResponse struct {
	Closed int `json:"closed"`
}

// DailyCashResponse totales de caja del día (cache del dashboard).
type DailyCashResponse struct {
	Date            time.Time       `json:"date"`
	OperatorIn      decimal.Decimal `json:"operator_in"`
	OperatorOut     decimal.Decimal `json:"operator_out"`
	ConsolidatedIn  decimal.Decimal `json:"consolidated_in"`
	ConsolidatedOut decimal.Decimal `json:"consolidated_out"`
}
