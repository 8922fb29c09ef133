package entity

import "time"

// StockCount registra un conteo físico (opname) contra el stock de sistema.
// Difference = SystemStock - PhysicalStock: un faltante físico da diferencia
// positiva y la corrección en el libro es -Difference. Cada envío es un
// StockCount nuevo; los conteos del mismo día no se fusionan ni se pisan
// (se preserva todo el historial de auditoría).
type StockCount struct {
	ID            string
	ProductID     string
	SystemStock   int64 // snapshot de StockOnHand al momento del conteo
	PhysicalStock int64 // ingresado por el operador
	Difference    int64
	OperatorID    string
	Note          string
	CreatedAt     time.Time
}
