package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/retail-backoffice/internal/application/changefeed"
	"github.com/tu-usuario/retail-backoffice/internal/domain"
	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
	"github.com/tu-usuario/retail-backoffice/internal/domain/repository"
)

// Reintentos del loop compare-and-set antes de rendirse con ErrConcurrentUpdate.
const defaultCASRetries = 3

// errCASRace señala dentro de la tx que otro escritor ganó el compare-and-set;
// nunca sale del use case, dispara el siguiente intento.
var errCASRace = errors.New("cas perdido")

// StockLedger es la única autoridad sobre Product.StockOnHand: todo cambio de
// cantidad pasa por ApplyMutation, que incrementa el contador y apendea la
// mutación en la misma transacción. El contador queda siempre re-derivable
// desde el log (StockOnHand == stock inicial + Σ deltas).
type StockLedger struct {
	txRunner  TxRunner
	products  repository.ProductRepository
	mutations repository.StockMutationRepository
	bus       *changefeed.Bus
	retries   int
}

// NewStockLedger construye el libro de stock.
func NewStockLedger(txRunner TxRunner, products repository.ProductRepository, mutations repository.StockMutationRepository, bus *changefeed.Bus) *StockLedger {
	return &StockLedger{
		txRunner:  txRunner,
		products:  products,
		mutations: mutations,
		bus:       bus,
		retries:   defaultCASRetries,
	}
}

// ApplyMutationInput entrada para registrar un movimiento de stock.
type ApplyMutationInput struct {
	ProductID     string
	Delta         int64 // positivo entrada, negativo salida; distinto de cero
	ReferenceType string
	ReferenceID   string
	Note          string
	OperatorID    string
}

// ApplyMutation aplica un delta de stock: lee el contador, verifica que no
// quede negativo y hace compare-and-set + append en una tx. Dos cajeros
// vendiendo el mismo producto serializan por el CAS; el perdedor reintenta
// leyendo el contador fresco, hasta agotar los reintentos
// (ErrConcurrentUpdate). El incremento nunca es un overwrite ciego.
func (l *StockLedger) ApplyMutation(ctx context.Context, in ApplyMutationInput) (*entity.StockMutation, error) {
	if in.ProductID == "" || in.ReferenceID == "" || in.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidReferenceType(in.ReferenceType) {
		return nil, domain.ErrInvalidInput
	}

	var mut *entity.StockMutation
	for attempt := 0; attempt < l.retries; attempt++ {
		product, err := l.products.GetByID(in.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if !product.IsActive() {
			return nil, domain.ErrInactiveProduct
		}

		next := product.StockOnHand + in.Delta
		if next < 0 {
			return nil, &domain.InsufficientStockError{
				ProductID: in.ProductID,
				Have:      product.StockOnHand,
				Need:      -in.Delta,
			}
		}

		now := time.Now()
		mut = &entity.StockMutation{
			ID:            uuid.New().String(),
			ProductID:     in.ProductID,
			Delta:         in.Delta,
			ReferenceType: in.ReferenceType,
			ReferenceID:   in.ReferenceID,
			Note:          in.Note,
			CreatedAt:     now,
			CreatedBy:     in.OperatorID,
		}

		expected := product.StockOnHand
		err = l.txRunner.Run(ctx, func(
			products repository.ProductRepository,
			mutations repository.StockMutationRepository,
		) error {
			ok, err := products.CompareAndSetStock(in.ProductID, expected, next)
			if err != nil {
				return err
			}
			if !ok {
				return errCASRace
			}
			return mutations.Append(mut)
		})
		if errors.Is(err, errCASRace) {
			continue // contador movido por otro escritor: releer y reintentar
		}
		if err != nil {
			return nil, err
		}

		product.StockOnHand = next
		l.bus.Publish(changefeed.Event{Entity: changefeed.EntityProduct, Op: changefeed.OpUpdated, Record: product})
		l.bus.Publish(changefeed.Event{Entity: changefeed.EntityStockMutation, Op: changefeed.OpCreated, Record: mut})
		return mut, nil
	}
	return nil, domain.ErrConcurrentUpdate
}

// VerifyInvariant recomputa el stock de un producto desde el log y lo compara
// con el contador materializado. Devuelve la suma de deltas y si coincide.
// Pensado para chequeos de consistencia y tests, no para el camino caliente.
func (l *StockLedger) VerifyInvariant(ctx context.Context, productID string, initialStock int64) (int64, bool, error) {
	product, err := l.products.GetByID(productID)
	if err != nil {
		return 0, false, err
	}
	if product == nil {
		return 0, false, domain.ErrNotFound
	}
	sum, err := l.mutations.SumDeltaByProduct(productID, nil)
	if err != nil {
		return 0, false, err
	}
	return sum, initialStock+sum == product.StockOnHand, nil
}

// ListMutations lista el libro de un producto (rango de fechas opcional).
func (l *StockLedger) ListMutations(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMutation, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return l.mutations.ListByProduct(productID, from, to, limit, offset)
}
