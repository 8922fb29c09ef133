package ledger

import (
	"context"

	"github.com/tu-usuario/retail-backoffice/internal/domain/repository"
)

// TxRunner ejecuta callbacks dentro de una transacción del storage, con los
// repos atados a la tx. Lo implementa postgres.TxRunner; los tests usan un
// runner en memoria.
type TxRunner interface {
	// Run corre fn con repos de producto y libro de stock en la misma tx:
	// el compare-and-set del contador y el append de la mutación confirman
	// juntos o no confirman.
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		mutations repository.StockMutationRepository,
	) error) error

	// RunCash corre fn con el repo de caja en una tx: el insert consolidado
	// y el flip del sync_flag son un solo paso lógico.
	RunCash(ctx context.Context, fn func(cash repository.CashTransactionRepository) error) error
}
