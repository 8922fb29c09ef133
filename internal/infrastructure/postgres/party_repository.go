package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-backoffice/internal/domain"
	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
	"github.com/tu-usuario/retail-backoffice/internal/domain/repository"
)

var (
	_ repository.PartyBalanceRepository     = (*PartyBalanceRepo)(nil)
	_ repository.PartyTransactionRepository = (*PartyTransactionRepo)(nil)
)

// PartyBalanceRepo implementación de saldos de clientes/proveedores sobre
// PostgreSQL (usable con pool o tx).
type PartyBalanceRepo struct {
	q Querier
}

// NewPartyBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartyBalanceRepository(q Querier) *PartyBalanceRepo {
	return &PartyBalanceRepo{q: q}
}

const balanceColumns = `party_id, party_type, name, running_balance, recalculated_at, created_at, updated_at`

// Create registra un tercero con saldo inicial.
func (r *PartyBalanceRepo) Create(balance *entity.PartyBalance) error {
	query := `
		INSERT INTO party_balances (party_id, party_type, name, running_balance, recalculated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		balance.PartyID, balance.PartyType, balance.Name, balance.RunningBalance,
		balance.RecalculatedAt, balance.CreatedAt, balance.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert party balance: %w", err)
	}
	return nil
}

// GetByID obtiene el saldo corrido de un tercero.
func (r *PartyBalanceRepo) GetByID(partyID string) (*entity.PartyBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM party_balances WHERE party_id = $1`
	var b entity.PartyBalance
	err := r.q.QueryRow(context.Background(), query, partyID).Scan(
		&b.PartyID, &b.PartyType, &b.Name, &b.RunningBalance,
		&b.RecalculatedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get party balance: %w", err)
	}
	return &b, nil
}

// IncrementBalance ajusta el saldo corrido en forma atómica en el storage;
// nunca lee-modifica-escribe en la aplicación.
func (r *PartyBalanceRepo) IncrementBalance(partyID string, delta decimal.Decimal) error {
	query := `
		UPDATE party_balances
		SET running_balance = running_balance + $2, updated_at = now()
		WHERE party_id = $1`
	tag, err := r.q.Exec(context.Background(), query, partyID, delta)
	if err != nil {
		return fmt.Errorf("increment balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// OverwriteBalance reemplaza el saldo corrido con el valor recalculado desde
// el historial; lo usa únicamente la rutina de reparación.
func (r *PartyBalanceRepo) OverwriteBalance(balance *entity.PartyBalance) error {
	query := `
		UPDATE party_balances
		SET running_balance = $2, recalculated_at = $3, updated_at = now()
		WHERE party_id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		balance.PartyID, balance.RunningBalance, balance.RecalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("overwrite balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista terceros de un tipo con paginación.
func (r *PartyBalanceRepo) List(partyType string, limit, offset int) ([]*entity.PartyBalance, error) {
	query := `SELECT ` + balanceColumns + `
		FROM party_balances
		WHERE party_type = $1
		ORDER BY name
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, partyType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list party balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.PartyBalance
	for rows.Next() {
		var b entity.PartyBalance
		if err := rows.Scan(
			&b.PartyID, &b.PartyType, &b.Name, &b.RunningBalance,
			&b.RecalculatedAt, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan party balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// PartyTransactionRepo implementación del historial de movimientos de
// terceros sobre PostgreSQL (usable con pool o tx). Append-only: el saldo
// corrido siempre puede re-derivarse de esta tabla.
type PartyTransactionRepo struct {
	q Querier
}

// NewPartyTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartyTransactionRepository(q Querier) *PartyTransactionRepo {
	return &PartyTransactionRepo{q: q}
}

// Append persiste un movimiento de tercero.
func (r *PartyTransactionRepo) Append(tx *entity.PartyTransaction) error {
	query := `
		INSERT INTO party_transactions (id, party_id, kind, amount, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.PartyID, tx.Kind, tx.Amount, tx.ReferenceID, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append party transaction: %w", err)
	}
	return nil
}

// ListByParty lista el historial completo de un tercero en orden de creación.
func (r *PartyTransactionRepo) ListByParty(partyID string) ([]*entity.PartyTransaction, error) {
	query := `
		SELECT id, party_id, kind, amount, reference_id, created_at
		FROM party_transactions
		WHERE party_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, partyID)
	if err != nil {
		return nil, fmt.Errorf("list party transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.PartyTransaction
	for rows.Next() {
		var t entity.PartyTransaction
		if err := rows.Scan(
			&t.ID, &t.PartyID, &t.Kind, &t.Amount, &t.ReferenceID, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan party transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
