package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de tercero y de transacción de tercero.
const (
	PartyTypeCustomer = "customer"
	PartyTypeSupplier = "supplier"

	PartyTxCreditSale     = "credit_sale"     // aumenta deuda del cliente
	PartyTxPayment        = "payment"         // reduce deuda del cliente
	PartyTxPurchaseCredit = "purchase_credit" // aumenta deuda con el proveedor
	PartyTxSettlement     = "settlement"      // reduce deuda con el proveedor
)

// PartyBalance es el saldo corriente de un cliente o proveedor. Es un cache:
// se incrementa en caliente pero NO se confía en él a largo plazo; la rutina
// de reparación lo recalcula desde el historial completo de transacciones.
type PartyBalance struct {
	PartyID        string
	PartyType      string // customer, supplier
	Name           string
	RunningBalance decimal.Decimal
	RecalculatedAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PartyTransaction es una fila del historial de crédito/pagos de un tercero.
// Append-only; es la fuente autoritativa desde la que se repara el saldo.
type PartyTransaction struct {
	ID          string
	PartyID     string
	Kind        string // credit_sale, payment, purchase_credit, settlement
	Amount      decimal.Decimal
	ReferenceID string
	CreatedAt   time.Time
}

// Signed devuelve el monto con el signo que aporta al saldo corriente.
func (t *PartyTransaction) Signed() decimal.Decimal {
	switch t.Kind {
	case PartyTxCreditSale, PartyTxPurchaseCredit:
		return t.Amount
	case PartyTxPayment, PartyTxSettlement:
		return t.Amount.Neg()
	}
	return decimal.Zero
}
