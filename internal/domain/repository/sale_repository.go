package repository

import (
	"time"

	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia de ventas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	ListItems(saleID string) ([]*entity.SaleItem, error)
	ListByPeriod(from, to time.Time) ([]*entity.Sale, error)
	// CountItems cuenta las líneas ya escritas; contra ItemCount decide el
	// proyector si la venta está completa.
	CountItems(saleID string) (int, error)
}
