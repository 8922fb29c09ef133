package changefeed

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
	"github.com/tu-usuario/retail-backoffice/internal/domain/repository"
)

// LowStockCache mantiene la lista de productos en o bajo su punto de reorden.
// El feed solo la invalida; el recálculo es perezoso en la próxima lectura,
// así el cache nunca es necesario para la corrección del dato.
type LowStockCache struct {
	mu       sync.Mutex
	products repository.ProductRepository
	valid    bool
	items    []*entity.Product
	sub      *Subscription
}

// NewLowStockCache construye el cache y lo suscribe a eventos de Product.
func NewLowStockCache(bus *Bus, products repository.ProductRepository) *LowStockCache {
	c := &LowStockCache{products: products}
	c.sub = bus.Subscribe(EntityProduct, func(Event) { c.Invalidate() })
	return c
}

// Invalidate descarta la lista cacheada.
func (c *LowStockCache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.items = nil
	c.mu.Unlock()
}

// Get devuelve la lista de stock bajo, recomputándola si está invalidada.
func (c *LowStockCache) Get() ([]*entity.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid {
		return c.items, nil
	}
	items, err := c.products.ListLowStock()
	if err != nil {
		return nil, err
	}
	c.items = items
	c.valid = true
	return items, nil
}

// Close da de baja la suscripción al feed.
func (c *LowStockCache) Close() { c.sub.Unsubscribe() }

// DailyCashTotals son los totales de caja del día para el dashboard.
type DailyCashTotals struct {
	Date            time.Time
	OperatorIn      decimal.Decimal
	OperatorOut     decimal.Decimal
	ConsolidatedIn  decimal.Decimal
	ConsolidatedOut decimal.Decimal
}

// DailyCashCache cachea los totales de caja de hoy; invalidado por eventos de
// CashTransaction, recalculado en la próxima lectura desde ambos libros.
type DailyCashCache struct {
	mu     sync.Mutex
	cash   repository.CashTransactionRepository
	now    func() time.Time
	valid  bool
	totals DailyCashTotals
	sub    *Subscription
}

// NewDailyCashCache construye el cache y lo suscribe al feed. now puede ser
// nil (usa time.Now); se inyecta en tests.
func NewDailyCashCache(bus *Bus, cash repository.CashTransactionRepository, now func() time.Time) *DailyCashCache {
	if now == nil {
		now = time.Now
	}
	c := &DailyCashCache{cash: cash, now: now}
	c.sub = bus.Subscribe(EntityCashTransaction, func(Event) { c.Invalidate() })
	return c
}

// Invalidate descarta los totales cacheados.
func (c *DailyCashCache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}

// Get devuelve los totales del día, recomputando si hace falta.
func (c *DailyCashCache) Get() (DailyCashTotals, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Medianoche del día contable en la zona horaria del local, no el día UTC.
	now := c.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if c.valid && c.totals.Date.Equal(today) {
		return c.totals, nil
	}

	totals := DailyCashTotals{
		Date:            today,
		OperatorIn:      decimal.Zero,
		OperatorOut:     decimal.Zero,
		ConsolidatedIn:  decimal.Zero,
		ConsolidatedOut: decimal.Zero,
	}
	end := today.Add(24 * time.Hour)

	operator, err := c.cash.ListByPeriod(entity.CashLedgerOperator, today, end)
	if err != nil {
		return DailyCashTotals{}, err
	}
	for _, tx := range operator {
		if tx.Kind == entity.CashKindIn {
			totals.OperatorIn = totals.OperatorIn.Add(tx.Amount)
		} else {
			totals.OperatorOut = totals.OperatorOut.Add(tx.Amount)
		}
	}

	consolidated, err := c.cash.ListByPeriod(entity.CashLedgerConsolidated, today, end)
	if err != nil {
		return DailyCashTotals{}, err
	}
	for _, tx := range consolidated {
		if tx.Kind == entity.CashKindIn {
			totals.ConsolidatedIn = totals.ConsolidatedIn.Add(tx.Amount)
		} else {
			totals.ConsolidatedOut = totals.ConsolidatedOut.Add(tx.Amount)
		}
	}

	c.totals = totals
	c.valid = true
	return totals, nil
}

// Close da de baja la suscripción al feed.
func (c *DailyCashCache) Close() { c.sub.Unsubscribe() }
