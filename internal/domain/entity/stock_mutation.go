package entity

import "time"

// Tipos de referencia de un movimiento de stock.
const (
	ReferenceTypeSale            = "sale"
	ReferenceTypePurchase        = "purchase"
	ReferenceTypeCountCorrection = "count_correction"
	ReferenceTypeReturn          = "return"
)

// StockMutation es una entrada del libro de stock: delta con signo, etiquetada
// con el evento de negocio que la originó. Append-only; nunca se actualiza ni
// se borra (las correcciones son filas nuevas). Invariante: para cualquier
// producto, StockOnHand == stock inicial + Σ Delta de sus mutaciones.
type StockMutation struct {
	ID            string
	ProductID     string
	Delta         int64 // positivo entrada, negativo salida
	ReferenceType string
	ReferenceID   string
	Note          string
	CreatedAt     time.Time
	CreatedBy     string // OperatorID
}

// ValidReferenceType verifica que el tipo de referencia sea uno de los conocidos.
func ValidReferenceType(t string) bool {
	switch t {
	case ReferenceTypeSale, ReferenceTypePurchase, ReferenceTypeCountCorrection, ReferenceTypeReturn:
		return true
	}
	return false
}
