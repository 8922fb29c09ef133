package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta.
type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
}

// RecordSaleRequest entrada HTTP para registrar una venta.
type RecordSaleRequest struct {
	CustomerID  string            `json:"customer_id"`
	PaymentType string            `json:"payment_type" validate:"required,oneof=cash credit"`
	Items       []SaleItemRequest `json:"items" validate:"required,min=1"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id,omitempty"`
	PaymentType string          `json:"payment_type"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
	OperatorID  string          `json:"operator_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RecordPaymentRequest pago de un cliente contra su deuda.
type RecordPaymentRequest struct {
	CustomerID string          `json:"customer_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
}

// RecordSettlementRequest pago a un proveedor contra la deuda.
type RecordSettlementRequest struct {
	SupplierID string          `json:"supplier_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
}

// PartyTransactionResponse fila del historial de crédito/pagos.
type PartyTransactionResponse struct {
	ID          string          `json:"id"`
	PartyID     string          `json:"party_id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	ReferenceID string          `json:"reference_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PurchaseItemRequest línea de compra.
type PurchaseItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int64           `json:"quantity" validate:"required,min=1"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// RecordPurchaseRequest entrada HTTP para registrar una compra.
type RecordPurchaseRequest struct {
	SupplierID  string                `json:"supplier_id" validate:"required"`
	PaymentType string                `json:"payment_type" validate:"required,oneof=cash credit"`
	Items       []PurchaseItemRequest `json:"items" validate:"required,min=1"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID          string          `json:"id"`
	SupplierID  string          `json:"supplier_id"`
	PaymentType string          `json:"payment_type"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
	OperatorID  string          `json:"operator_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PartyBalanceResponse saldo corriente de un tercero.
type PartyBalanceResponse struct {
	PartyID        string          `json:"party_id"`
	PartyType      string          `json:"party_type"`
	Name           string          `json:"name,omitempty"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	RecalculatedAt time.Time       `json:"recalculated_at"`
}

// CreatePartyRequest alta de cliente o proveedor.
type CreatePartyRequest struct {
	PartyType string `json:"party_type" validate:"required,oneof=customer supplier"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
}
