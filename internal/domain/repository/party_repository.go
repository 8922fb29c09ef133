package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
)

// PartyBalanceRepository define el puerto para saldos de clientes/proveedores.
type PartyBalanceRepository interface {
	Create(balance *entity.PartyBalance) error
	GetByID(partyID string) (*entity.PartyBalance, error)
	// IncrementBalance suma delta al saldo en el storage (escritura derivada,
	// posterior a las escrituras de libro dentro de la misma operación).
	IncrementBalance(partyID string, delta decimal.Decimal) error
	// OverwriteBalance pisa el saldo con el valor recalculado (reparación).
	OverwriteBalance(balance *entity.PartyBalance) error
	List(partyType string, limit, offset int) ([]*entity.PartyBalance, error)
}

// PartyTransactionRepository define el puerto del historial de crédito/pagos.
type PartyTransactionRepository interface {
	Append(tx *entity.PartyTransaction) error
	// ListByParty devuelve el historial completo ordenado por created_at; la
	// rutina de reparación suma sobre este orden.
	ListByParty(partyID string) ([]*entity.PartyTransaction, error)
}
