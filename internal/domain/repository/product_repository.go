package repository

import "github.com/tu-usuario/retail-backoffice/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// StockOnHand solo se escribe vía CompareAndSetStock; Update no lo toca.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(limit, offset int) ([]*entity.Product, error)
	ListLowStock() ([]*entity.Product, error)
	// CompareAndSetStock reemplaza StockOnHand solo si su valor actual es
	// expected. Devuelve false (sin error) si otro escritor ganó la carrera.
	CompareAndSetStock(productID string, expected, next int64) (bool, error)
}
