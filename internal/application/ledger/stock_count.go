package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/retail-backoffice/internal/domain"
	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
	domledger "github.com/tu-usuario/retail-backoffice/internal/domain/ledger"
	"github.com/tu-usuario/retail-backoffice/internal/domain/repository"
)

// StockCountUseCase reconcilia el stock de sistema contra el conteo físico
// (opname): escribe el conteo, corrige el libro de stock y, para mercadería
// en consignación, valoriza la diferencia como movimiento de caja.
type StockCountUseCase struct {
	products repository.ProductRepository
	counts   repository.StockCountRepository
	stock    *StockLedger
	cash     *CashMirror
}

// NewStockCountUseCase construye el caso de uso de conteos.
func NewStockCountUseCase(
	products repository.ProductRepository,
	counts repository.StockCountRepository,
	stock *StockLedger,
	cash *CashMirror,
) *StockCountUseCase {
	return &StockCountUseCase{products: products, counts: counts, stock: stock, cash: cash}
}

// RecordCountInput entrada para un conteo físico.
type RecordCountInput struct {
	ProductID     string
	PhysicalStock int64 // no negativo
	OperatorID    string
	Note          string
}

// CountResult agrupa los registros creados por un conteo, para mostrar de
// inmediato. Mutation y Cash son nil cuando la diferencia es cero (Cash
// además exige producto en consignación).
type CountResult struct {
	Count    *entity.StockCount
	Mutation *entity.StockMutation
	Cash     *entity.CashTransaction
}

// RecordCount registra un conteo: snapshot del stock de sistema, diferencia =
// sistema - físico, corrección en el libro con delta = -diferencia (un
// faltante físico da diferencia positiva y REDUCE el stock registrado, que es
// lo que refleja la realidad). Cada envío es un StockCount nuevo; no se
// fusionan conteos del mismo día.
func (uc *StockCountUseCase) RecordCount(ctx context.Context, in RecordCountInput) (*CountResult, error) {
	if in.ProductID == "" || in.OperatorID == "" || in.PhysicalStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.products.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !product.IsActive() {
		return nil, domain.ErrInactiveProduct
	}

	systemStock := product.StockOnHand
	difference := systemStock - in.PhysicalStock

	count := &entity.StockCount{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		SystemStock:   systemStock,
		PhysicalStock: in.PhysicalStock,
		Difference:    difference,
		OperatorID:    in.OperatorID,
		Note:          in.Note,
		CreatedAt:     time.Now(),
	}
	if err := uc.counts.Create(count); err != nil {
		return nil, err
	}

	result := &CountResult{Count: count}
	if difference == 0 {
		return result, nil
	}

	mut, err := uc.stock.ApplyMutation(ctx, ApplyMutationInput{
		ProductID:     in.ProductID,
		Delta:         -difference,
		ReferenceType: entity.ReferenceTypeCountCorrection,
		ReferenceID:   count.ID,
		Note:          in.Note,
		OperatorID:    in.OperatorID,
	})
	if err != nil {
		return nil, err
	}
	result.Mutation = mut

	// Solo la mercadería con seguimiento financiero al momento del conteo
	// (consignación) convierte la diferencia en un asiento de caja.
	if product.Consignment {
		kind, category := domledger.VarianceCashKind(difference)
		cashTx, err := uc.cash.RecordOperatorCash(ctx, RecordCashInput{
			OperatorID:    in.OperatorID,
			Kind:          kind,
			Category:      category,
			Amount:        domledger.VarianceAmount(difference, product.CostPrice),
			ReferenceType: entity.CashRefStockCount,
			ReferenceID:   count.ID,
		})
		if err != nil {
			return nil, err
		}
		result.Cash = cashTx
	}
	return result, nil
}

// ListCounts lista los conteos de un producto (rango de fechas opcional).
func (uc *StockCountUseCase) ListCounts(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockCount, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.counts.ListByProduct(productID, from, to, limit, offset)
}
