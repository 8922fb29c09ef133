package report

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-backoffice/internal/application/changefeed"
	"github.com/tu-usuario/retail-backoffice/internal/domain"
	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
	"github.com/tu-usuario/retail-backoffice/internal/domain/repository"
)

// Projector regenera el resumen contable (LedgerSnapshot) de un período como
// función pura sobre los logs inmutables más ventas y compras. No mantiene
// ningún libro propio ni acumula incrementalmente: cuando importa la
// corrección (no solo la frescura) siempre se recomputa desde la fuente.
type Projector struct {
	mutations repository.StockMutationRepository
	cash      repository.CashTransactionRepository
	sales     repository.SaleRepository
	purchases repository.PurchaseRepository

	// Cache del último período pedido; invalidado por el change feed y
	// recalentado perezosamente. Nunca se sirve para otro período.
	mu     sync.Mutex
	cached *entity.LedgerSnapshot
	subs   []*changefeed.Subscription
}

// NewProjector construye el proyector.
func NewProjector(
	mutations repository.StockMutationRepository,
	cash repository.CashTransactionRepository,
	sales repository.SaleRepository,
	purchases repository.PurchaseRepository,
) *Projector {
	return &Projector{mutations: mutations, cash: cash, sales: sales, purchases: purchases}
}

// WarmOnChanges suscribe el proyector al change feed: cualquier mutación de
// las cinco tablas fuente invalida el snapshot cacheado. Es una optimización
// de latencia; la corrección la da siempre RebuildSummary.
func (p *Projector) WarmOnChanges(bus *changefeed.Bus) {
	invalidate := func(changefeed.Event) {
		p.mu.Lock()
		p.cached = nil
		p.mu.Unlock()
	}
	for _, e := range []changefeed.Entity{
		changefeed.EntityProduct,
		changefeed.EntityStockMutation,
		changefeed.EntityCashTransaction,
		changefeed.EntitySale,
		changefeed.EntityPurchase,
	} {
		p.subs = append(p.subs, bus.Subscribe(e, invalidate))
	}
}

// Close da de baja las suscripciones al feed.
func (p *Projector) Close() {
	for _, s := range p.subs {
		s.Unsubscribe()
	}
}

// RebuildSummary recomputa el resumen del período [from, to). Tolera datos
// parciales: una venta o compra cuyas líneas no terminaron de escribirse se
// excluye (y se cuenta en Excluded*) en vez de hacer fallar el reporte.
func (p *Projector) RebuildSummary(ctx context.Context, from, to time.Time) (*entity.LedgerSnapshot, error) {
	if !from.Before(to) {
		return nil, domain.ErrInvalidInput
	}

	p.mu.Lock()
	if c := p.cached; c != nil && c.From.Equal(from) && c.To.Equal(to) {
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	snap := &entity.LedgerSnapshot{
		From:                from,
		To:                  to,
		OperatorCashIn:      decimal.Zero,
		OperatorCashOut:     decimal.Zero,
		ConsolidatedCashIn:  decimal.Zero,
		ConsolidatedCashOut: decimal.Zero,
		SalesTotal:          decimal.Zero,
		PurchaseTotal:       decimal.Zero,
		VarianceLoss:        decimal.Zero,
		VarianceGain:        decimal.Zero,
		GeneratedAt:         time.Now(),
	}

	muts, err := p.mutations.ListByPeriod(from, to)
	if err != nil {
		return nil, err
	}
	for _, m := range muts {
		if m.Delta > 0 {
			snap.StockIn += m.Delta
		} else {
			snap.StockOut += -m.Delta
		}
	}

	operator, err := p.cash.ListByPeriod(entity.CashLedgerOperator, from, to)
	if err != nil {
		return nil, err
	}
	for _, tx := range operator {
		if tx.Kind == entity.CashKindIn {
			snap.OperatorCashIn = snap.OperatorCashIn.Add(tx.Amount)
		} else {
			snap.OperatorCashOut = snap.OperatorCashOut.Add(tx.Amount)
		}
		switch tx.Category {
		case entity.CashCategoryCountVarianceLoss:
			snap.VarianceLoss = snap.VarianceLoss.Add(tx.Amount)
		case entity.CashCategoryCountVarianceGain:
			snap.VarianceGain = snap.VarianceGain.Add(tx.Amount)
		}
	}

	consolidated, err := p.cash.ListByPeriod(entity.CashLedgerConsolidated, from, to)
	if err != nil {
		return nil, err
	}
	for _, tx := range consolidated {
		if tx.Kind == entity.CashKindIn {
			snap.ConsolidatedCashIn = snap.ConsolidatedCashIn.Add(tx.Amount)
		} else {
			snap.ConsolidatedCashOut = snap.ConsolidatedCashOut.Add(tx.Amount)
		}
	}

	sales, err := p.sales.ListByPeriod(from, to)
	if err != nil {
		return nil, err
	}
	for _, s := range sales {
		items, err := p.sales.CountItems(s.ID)
		if err != nil {
			return nil, err
		}
		if !s.Complete(items) {
			snap.ExcludedSales++
			continue
		}
		snap.SalesTotal = snap.SalesTotal.Add(s.Total)
	}

	purchases, err := p.purchases.ListByPeriod(from, to)
	if err != nil {
		return nil, err
	}
	for _, c := range purchases {
		items, err := p.purchases.CountItems(c.ID)
		if err != nil {
			return nil, err
		}
		if !c.Complete(items) {
			snap.ExcludedPurchases++
			continue
		}
		snap.PurchaseTotal = snap.PurchaseTotal.Add(c.Total)
	}

	snap.PendingMirrors, err = p.cash.CountPendingMirror()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cached = snap
	p.mu.Unlock()
	return snap, nil
}
