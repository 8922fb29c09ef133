package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/retail-backoffice/internal/domain"
	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
	"github.com/tu-usuario/retail-backoffice/internal/domain/repository"
)

var _ repository.CashTransactionRepository = (*CashTransactionRepo)(nil)

// CashTransactionRepo implementación de los libros de caja sobre PostgreSQL
// (usable con pool o tx). Las dos cajas comparten tabla, separadas por
// source_ledger; las filas nunca se actualizan salvo el flip de sync_flag.
type CashTransactionRepo struct {
	q Querier
}

// NewCashTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashTransactionRepository(q Querier) *CashTransactionRepo {
	return &CashTransactionRepo{q: q}
}

const cashColumns = `id, kind, category, amount, source_ledger, operator_id, sync_flag, reference_type, reference_id, created_at`

// Create persiste un movimiento de caja.
func (r *CashTransactionRepo) Create(tx *entity.CashTransaction) error {
	query := `
		INSERT INTO cash_transactions (id, kind, category, amount, source_ledger, operator_id, sync_flag, reference_type, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.Kind, tx.Category, tx.Amount, tx.SourceLedger,
		nullable(tx.OperatorID), tx.SyncFlag, tx.ReferenceType, tx.ReferenceID, tx.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cash transaction: %w", err)
	}
	return nil
}

func (r *CashTransactionRepo) scanOne(row pgx.Row) (*entity.CashTransaction, error) {
	var t entity.CashTransaction
	var operatorID *string
	err := row.Scan(
		&t.ID, &t.Kind, &t.Category, &t.Amount, &t.SourceLedger,
		&operatorID, &t.SyncFlag, &t.ReferenceType, &t.ReferenceID, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan cash transaction: %w", err)
	}
	if operatorID != nil {
		t.OperatorID = *operatorID
	}
	return &t, nil
}

// GetByID obtiene un movimiento por ID.
func (r *CashTransactionRepo) GetByID(id string) (*entity.CashTransaction, error) {
	query := `SELECT ` + cashColumns + ` FROM cash_transactions WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByLedgerAndReference busca un movimiento por libro y referencia; es la
// consulta de deduplicación de la réplica a caja general.
func (r *CashTransactionRepo) GetByLedgerAndReference(sourceLedger, referenceType, referenceID string) (*entity.CashTransaction, error) {
	query := `SELECT ` + cashColumns + `
		FROM cash_transactions
		WHERE source_ledger = $1 AND reference_type = $2 AND reference_id = $3`
	return r.scanOne(r.q.QueryRow(context.Background(), query, sourceLedger, referenceType, referenceID))
}

// CompareAndSetSyncFlag marca la fila como replicada solo si todavía no lo
// estaba; devuelve false cuando otro proceso ganó la carrera.
func (r *CashTransactionRepo) CompareAndSetSyncFlag(id string) (bool, error) {
	query := `UPDATE cash_transactions SET sync_flag = true WHERE id = $1 AND sync_flag = false`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return false, fmt.Errorf("cas sync flag: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListPendingMirror lista movimientos de caja chica aún no replicados, los
// más viejos primero.
func (r *CashTransactionRepo) ListPendingMirror(limit int) ([]*entity.CashTransaction, error) {
	query := `SELECT ` + cashColumns + `
		FROM cash_transactions
		WHERE source_ledger = $1 AND sync_flag = false
		ORDER BY created_at
		LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, entity.CashLedgerOperator, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending mirror: %w", err)
	}
	defer rows.Close()
	return collectCash(rows)
}

// CountPendingMirror cuenta los movimientos de caja chica sin replicar.
func (r *CashTransactionRepo) CountPendingMirror() (int, error) {
	query := `SELECT COUNT(*) FROM cash_transactions WHERE source_ledger = $1 AND sync_flag = false`
	var n int
	if err := r.q.QueryRow(context.Background(), query, entity.CashLedgerOperator).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending mirror: %w", err)
	}
	return n, nil
}

// ListByPeriod lista movimientos de un libro en el período [from, to).
func (r *CashTransactionRepo) ListByPeriod(sourceLedger string, from, to time.Time) ([]*entity.CashTransaction, error) {
	query := `SELECT ` + cashColumns + `
		FROM cash_transactions
		WHERE source_ledger = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, sourceLedger, from, to)
	if err != nil {
		return nil, fmt.Errorf("list cash by period: %w", err)
	}
	defer rows.Close()
	return collectCash(rows)
}

// ListByOperator lista los movimientos de caja chica de un operador en un
// rango de fechas opcional.
func (r *CashTransactionRepo) ListByOperator(operatorID string, from, to *time.Time, limit, offset int) ([]*entity.CashTransaction, error) {
	query := `SELECT ` + cashColumns + `
		FROM cash_transactions
		WHERE source_ledger = $1 AND operator_id = $2`
	args := []any{entity.CashLedgerOperator, operatorID}
	pos := 3
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cash by operator: %w", err)
	}
	defer rows.Close()
	return collectCash(rows)
}

func collectCash(rows pgx.Rows) ([]*entity.CashTransaction, error) {
	var list []*entity.CashTransaction
	for rows.Next() {
		var t entity.CashTransaction
		var operatorID *string
		if err := rows.Scan(
			&t.ID, &t.Kind, &t.Category, &t.Amount, &t.SourceLedger,
			&operatorID, &t.SyncFlag, &t.ReferenceType, &t.ReferenceID, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cash transaction: %w", err)
		}
		if operatorID != nil {
			t.OperatorID = *operatorID
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
