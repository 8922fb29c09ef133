package repository

import (
	"time"

	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia de compras.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	CreateItem(item *entity.PurchaseItem) error
	GetByID(id string) (*entity.Purchase, error)
	ListItems(purchaseID string) ([]*entity.PurchaseItem, error)
	ListByPeriod(from, to time.Time) ([]*entity.Purchase, error)
	CountItems(purchaseID string) (int, error)
}
