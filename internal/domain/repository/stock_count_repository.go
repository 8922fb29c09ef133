package repository

import (
	"time"

	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
)

// StockCountRepository define el puerto de persistencia para conteos físicos.
// No hay Update ni Delete: cada conteo queda como evento de auditoría.
type StockCountRepository interface {
	Create(count *entity.StockCount) error
	GetByID(id string) (*entity.StockCount, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockCount, error)
}
