package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
	"github.com/tu-usuario/retail-backoffice/internal/domain/repository"
)

var _ repository.StockCountRepository = (*StockCountRepo)(nil)

// StockCountRepo implementación de conteos físicos sobre PostgreSQL. Cada
// conteo es un evento de auditoría: la tabla no se actualiza ni se depura.
type StockCountRepo struct {
	q Querier
}

// NewStockCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockCountRepository(q Querier) *StockCountRepo {
	return &StockCountRepo{q: q}
}

const countColumns = `id, product_id, system_stock, physical_stock, difference, operator_id, note, created_at`

// Create persiste un conteo físico.
func (r *StockCountRepo) Create(count *entity.StockCount) error {
	query := `
		INSERT INTO stock_counts (id, product_id, system_stock, physical_stock, difference, operator_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		count.ID, count.ProductID, count.SystemStock, count.PhysicalStock,
		count.Difference, count.OperatorID, count.Note, count.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock count: %w", err)
	}
	return nil
}

// GetByID obtiene un conteo por ID.
func (r *StockCountRepo) GetByID(id string) (*entity.StockCount, error) {
	query := `SELECT ` + countColumns + ` FROM stock_counts WHERE id = $1`
	var c entity.StockCount
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.ProductID, &c.SystemStock, &c.PhysicalStock,
		&c.Difference, &c.OperatorID, &c.Note, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock count: %w", err)
	}
	return &c, nil
}

// ListByProduct lista conteos de un producto en un rango de fechas.
func (r *StockCountRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockCount, error) {
	query := `SELECT ` + countColumns + ` FROM stock_counts WHERE product_id = $1`
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
		return nil, fmt.Errorf("list counts by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockCount
	for rows.Next() {
		var c entity.StockCount
		if err := rows.Scan(
			&c.ID, &c.ProductID, &c.SystemStock, &c.PhysicalStock,
			&c.Difference, &c.OperatorID, &c.Note, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock count: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
