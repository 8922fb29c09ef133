package dto

import "time"

// ApplyMutationRequest entrada HTTP para un movimiento de stock.
type ApplyMutationRequest struct {
	ProductID     string `json:"product_id" validate:"required,uuid"`
	Delta         int64  `json:"delta" validate:"required"`
	ReferenceType string `json:"reference_type" validate:"required,oneof=sale purchase count_correction return"`
	ReferenceID   string `json:"reference_id" validate:"required"`
	Note          string `json:"note"`
}

// StockMutationResponse salida de una entrada del libro de stock.
type StockMutationResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Delta         int64     `json:"delta"`
	ReferenceType string    `json:"reference_type"`
	ReferenceID   string    `json:"reference_id"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by"`
}

// RecordCountRequest entrada HTTP para un conteo físico.
type RecordCountRequest struct {
	ProductID     string `json:"product_id" validate:"required,uuid"`
	PhysicalStock int64  `json:"physical_stock" validate:"min=0"`
	Note          string `json:"note"`
}

// StockCountResponse salida de un conteo físico.
type StockCountResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	SystemStock   int64     `json:"system_stock"`
	PhysicalStock int64     `json:"physical_stock"`
	Difference    int64     `json:"difference"`
	OperatorID    string    `json:"operator_id"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CountResultResponse agrupa lo creado por un conteo. Mutation y Cash vienen
// solo cuando la diferencia no fue cero (Cash además exige consignación).
type CountResultResponse struct {
	Count    StockCountResponse       `json:"count"`
	Mutation *StockMutationResponse   `json:"mutation,omitempty"`
	Cash     *CashTransactionResponse `json:"cash_transaction,omitempty"`
}
