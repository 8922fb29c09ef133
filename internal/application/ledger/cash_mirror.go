package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-backoffice/internal/application/changefeed"
	"github.com/tu-usuario/retail-backoffice/internal/domain"
	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
	"github.com/tu-usuario/retail-backoffice/internal/domain/repository"
	"github.com/tu-usuario/retail-backoffice/pkg/logger"
)

// errAlreadyMirrored señala dentro de la tx de réplica que otro replicador
// llegó primero; se trata como éxito (no-op), nunca sale del use case.
var errAlreadyMirrored = errors.New("ya replicado")

// CashMirror implementa la caja en dos libros: la fila del operador es la
// fuente de verdad durable; la fila consolidada es una proyección replicable.
// Regla: exactamente una fila consolidada por fila de operador. Un fallo de
// réplica nunca revierte la fila de operador: queda encolada (sync_flag=false)
// y la cierra el reintento idempotente.
type CashMirror struct {
	txRunner TxRunner
	cash     repository.CashTransactionRepository
	bus      *changefeed.Bus
	log      *logger.Logger
}

// NewCashMirror construye la caja de dos libros.
func NewCashMirror(txRunner TxRunner, cash repository.CashTransactionRepository, bus *changefeed.Bus, log *logger.Logger) *CashMirror {
	return &CashMirror{txRunner: txRunner, cash: cash, bus: bus, log: log}
}

// RecordCashInput entrada para registrar un movimiento de caja de operador.
type RecordCashInput struct {
	OperatorID    string
	Kind          string // in, out
	Category      string
	Amount        decimal.Decimal // positivo, unidades enteras
	ReferenceType string
	ReferenceID   string
}

func (in RecordCashInput) validate() error {
	if in.OperatorID == "" || in.Category == "" {
		return domain.ErrInvalidInput
	}
	if in.Kind != entity.CashKindIn && in.Kind != entity.CashKindOut {
		return domain.ErrInvalidInput
	}
	if !in.Amount.IsPositive() || !in.Amount.IsInteger() {
		return domain.ErrInvalidInput
	}
	return nil
}

// RecordOperatorCash escribe la fila en la caja del operador y luego intenta
// replicarla a la caja general. Si la réplica falla, la operación igual
// devuelve la fila creada: el estado pendiente es visible en SyncFlag y el
// reintento lo resuelve después.
func (m *CashMirror) RecordOperatorCash(ctx context.Context, in RecordCashInput) (*entity.CashTransaction, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	tx := &entity.CashTransaction{
		ID:            uuid.New().String(),
		Kind:          in.Kind,
		Category:      in.Category,
		Amount:        in.Amount,
		SourceLedger:  entity.CashLedgerOperator,
		OperatorID:    in.OperatorID,
		SyncFlag:      false,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		CreatedAt:     time.Now(),
	}
	if err := m.cash.Create(tx); err != nil {
		return nil, err
	}
	m.bus.Publish(changefeed.Event{Entity: changefeed.EntityCashTransaction, Op: changefeed.OpCreated, Record: tx})

	if _, err := m.MirrorToConsolidated(ctx, tx); err != nil {
		// La fila de operador es la verdad durable: se reporta y se encola,
		// nunca se falla la operación que la originó.
		m.log.Warn().Err(err).
			Str("cash_transaction_id", tx.ID).
			Str("operator_id", tx.OperatorID).
			Msg("réplica a caja general falló, queda pendiente")
	}
	return tx, nil
}

// MirrorToConsolidated replica una fila de operador a la caja general. Es
// idempotente y reentrante: si el flag ya está en true es un no-op; si existe
// una fila consolidada con la misma referencia (insert confirmado pero flag
// sin actualizar) solo corrige el flag. El insert consolidado y el flip del
// flag van en la misma tx.
func (m *CashMirror) MirrorToConsolidated(ctx context.Context, op *entity.CashTransaction) (*entity.CashTransaction, error) {
	if op == nil || op.SourceLedger != entity.CashLedgerOperator {
		return nil, domain.ErrInvalidInput
	}
	if op.SyncFlag {
		return nil, nil
	}

	// Chequeo reentrante: ¿quedó una consolidada huérfana de un intento previo?
	existing, err := m.cash.GetByLedgerAndReference(entity.CashLedgerConsolidated, entity.CashRefOperatorEntry, op.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if _, err := m.cash.CompareAndSetSyncFlag(op.ID); err != nil {
			return nil, err
		}
		op.SyncFlag = true
		m.bus.Publish(changefeed.Event{Entity: changefeed.EntityCashTransaction, Op: changefeed.OpUpdated, Record: op})
		return existing, nil
	}

	mirror := &entity.CashTransaction{
		ID:            uuid.New().String(),
		Kind:          op.Kind,
		Category:      op.Category,
		Amount:        op.Amount,
		SourceLedger:  entity.CashLedgerConsolidated,
		SyncFlag:      true,
		ReferenceType: entity.CashRefOperatorEntry,
		ReferenceID:   op.ID,
		CreatedAt:     time.Now(),
	}
	err = m.txRunner.RunCash(ctx, func(cash repository.CashTransactionRepository) error {
		if err := cash.Create(mirror); err != nil {
			return err
		}
		ok, err := cash.CompareAndSetSyncFlag(op.ID)
		if err != nil {
			return err
		}
		if !ok {
			// Otro replicador ganó: abortar el insert propio y no duplicar.
			return errAlreadyMirrored
		}
		return nil
	})
	if errors.Is(err, errAlreadyMirrored) {
		op.SyncFlag = true
		return m.cash.GetByLedgerAndReference(entity.CashLedgerConsolidated, entity.CashRefOperatorEntry, op.ID)
	}
	if err != nil {
		return nil, err
	}

	op.SyncFlag = true
	m.bus.Publish(changefeed.Event{Entity: changefeed.EntityCashTransaction, Op: changefeed.OpCreated, Record: mirror})
	m.bus.Publish(changefeed.Event{Entity: changefeed.EntityCashTransaction, Op: changefeed.OpUpdated, Record: op})
	return mirror, nil
}

// RetryPendingMirrors recorre la cola de filas de operador sin replicar y
// reintenta la réplica de cada una. Devuelve cuántas cerró; los fallos
// individuales se loguean y la fila sigue encolada para la próxima pasada.
func (m *CashMirror) RetryPendingMirrors(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}
	pending, err := m.cash.ListPendingMirror(limit)
	if err != nil {
		return 0, err
	}
	closed := 0
	for _, op := range pending {
		if _, err := m.MirrorToConsolidated(ctx, op); err != nil {
			m.log.Warn().Err(err).
				Str("cash_transaction_id", op.ID).
				Msg("reintento de réplica falló")
			continue
		}
		closed++
	}
	return closed, nil
}
