package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
	"github.com/tu-usuario/retail-backoffice/internal/domain/repository"
)

var _ repository.StockMutationRepository = (*StockMutationRepo)(nil)

// StockMutationRepo implementación del libro de stock sobre PostgreSQL
// (usable con pool o tx). La tabla es append-only: no hay UPDATE ni DELETE.
type StockMutationRepo struct {
	q Querier
}

// NewStockMutationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMutationRepository(q Querier) *StockMutationRepo {
	return &StockMutationRepo{q: q}
}

const mutationColumns = `id, product_id, delta, reference_type, reference_id, note, created_at, created_by`

// Append persiste una mutación de stock.
func (r *StockMutationRepo) Append(mutation *entity.StockMutation) error {
	if mutation.ID == "" {
		mutation.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_mutations (id, product_id, delta, reference_type, reference_id, note, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		mutation.ID, mutation.ProductID, mutation.Delta, mutation.ReferenceType,
		mutation.ReferenceID, mutation.Note, mutation.CreatedAt, nullable(mutation.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("append stock mutation: %w", err)
	}
	return nil
}

// GetByID obtiene una mutación por ID.
func (r *StockMutationRepo) GetByID(id string) (*entity.StockMutation, error) {
	query := `SELECT ` + mutationColumns + ` FROM stock_mutations WHERE id = $1`
	var m entity.StockMutation
	var createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.Delta, &m.ReferenceType, &m.ReferenceID,
		&m.Note, &m.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock mutation: %w", err)
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

// ListByProduct lista mutaciones de un producto en un rango de fechas.
func (r *StockMutationRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMutation, error) {
	query := `SELECT ` + mutationColumns + ` FROM stock_mutations WHERE product_id = $1`
	args := []any{productID}
	pos := 2
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
		return nil, fmt.Errorf("list mutations by product: %w", err)
	}
	defer rows.Close()
	return collectMutations(rows)
}

// SumDeltaByProduct suma los deltas del producto hasta to (nil = historial
// completo). Es la mitad "re-derivable" del invariante del contador.
func (r *StockMutationRepo) SumDeltaByProduct(productID string, to *time.Time) (int64, error) {
	query := `SELECT COALESCE(SUM(delta), 0) FROM stock_mutations WHERE product_id = $1`
	args := []any{productID}
	if to != nil {
		query += ` AND created_at <= $2`
		args = append(args, *to)
	}
	var sum int64
	if err := r.q.QueryRow(context.Background(), query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum deltas: %w", err)
	}
	return sum, nil
}

// ListByPeriod lista las mutaciones del período [from, to) en orden de creación.
func (r *StockMutationRepo) ListByPeriod(from, to time.Time) ([]*entity.StockMutation, error) {
	query := `SELECT ` + mutationColumns + `
		FROM stock_mutations
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list mutations by period: %w", err)
	}
	defer rows.Close()
	return collectMutations(rows)
}

func collectMutations(rows pgx.Rows) ([]*entity.StockMutation, error) {
	var list []*entity.StockMutation
	for rows.Next() {
		var m entity.StockMutation
		var createdBy *string
		if err := rows.Scan(
			&m.ID, &m.ProductID, &m.Delta, &m.ReferenceType, &m.ReferenceID,
			&m.Note, &m.CreatedAt, &createdBy,
		); err != nil {
			return nil, fmt.Errorf("scan stock mutation: %w", err)
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
