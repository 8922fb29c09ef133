package repository

import (
	"time"

	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
)

// CashTransactionRepository define el puerto de persistencia de caja
// (dos libros: operador y consolidado, en la misma tabla append-only).
type CashTransactionRepository interface {
	Create(tx *entity.CashTransaction) error
	GetByID(id string) (*entity.CashTransaction, error)
	// GetByLedgerAndReference busca una fila por libro + referencia; es el
	// chequeo de dedupe del paso de réplica reentrante.
	GetByLedgerAndReference(sourceLedger, referenceType, referenceID string) (*entity.CashTransaction, error)
	// CompareAndSetSyncFlag marca la fila de operador como replicada solo si
	// aún no lo estaba. Devuelve false si otro replicador llegó primero.
	CompareAndSetSyncFlag(id string) (bool, error)
	ListPendingMirror(limit int) ([]*entity.CashTransaction, error)
	CountPendingMirror() (int, error)
	ListByPeriod(sourceLedger string, from, to time.Time) ([]*entity.CashTransaction, error)
	ListByOperator(operatorID string, from, to *time.Time, limit, offset int) ([]*entity.CashTransaction, error)
}
