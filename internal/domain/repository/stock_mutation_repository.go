package repository

import (
	"time"

	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
)

// StockMutationRepository define el puerto del libro de stock (append-only).
type StockMutationRepository interface {
	Append(mutation *entity.StockMutation) error
	GetByID(id string) (*entity.StockMutation, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMutation, error)
	// SumDeltaByProduct suma los deltas del producto; con to == nil suma todo
	// el historial. Sirve para verificar el invariante del contador.
	SumDeltaByProduct(productID string, to *time.Time) (int64, error)
	ListByPeriod(from, to time.Time) ([]*entity.StockMutation, error)
}
