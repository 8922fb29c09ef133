package ledger_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-backoffice/internal/application/ledger"
	"github.com/tu-usuario/retail-backoffice/internal/domain"
	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
	"github.com/tu-usuario/retail-backoffice/internal/domain/repository"
	"github.com/tu-usuario/retail-backoffice/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// ──────────────────────────────────────────────────────────────────────────────
// Repos en memoria. Mismo contrato que los adaptadores de PostgreSQL; los
// campos fail* inyectan fallos para simular cortes del storage.
// ──────────────────────────────────────────────────────────────────────────────

type memProducts struct {
	mu    sync.Mutex
	rows  map[string]entity.Product
	// casFailures hace fallar (devolver false) los próximos N compare-and-set.
	casFailures int
}

func newMemProducts() *memProducts {
	return &memProducts{rows: make(map[string]entity.Product)}
}

func (m *memProducts) put(p entity.Product) { m.rows[p.ID] = p }

func (m *memProducts) Create(p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	m.rows[p.ID] = *p
	return nil
}

func (m *memProducts) GetByID(id string) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := row
	return &cp, nil
}

func (m *memProducts) GetBySKU(sku string) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.SKU == sku {
			cp := row
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memProducts) Update(p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stock := row.StockOnHand
	row = *p
	row.StockOnHand = stock // Update nunca toca el contador
	m.rows[p.ID] = row
	return nil
}

func (m *memProducts) List(limit, offset int) ([]*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Product
	for _, row := range m.rows {
		cp := row
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memProducts) ListLowStock() ([]*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Product
	for _, row := range m.rows {
		if row.Status == "active" && row.StockOnHand <= row.MinStock {
			cp := row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memProducts) CompareAndSetStock(productID string, expected, next int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.casFailures > 0 {
		m.casFailures--
		return false, nil
	}
	row, ok := m.rows[productID]
	if !ok || row.StockOnHand != expected {
		return false, nil
	}
	row.StockOnHand = next
	m.rows[productID] = row
	return true, nil
}

type memMutations struct {
	mu   sync.Mutex
	rows []entity.StockMutation
}

func (m *memMutations) Append(mut *entity.StockMutation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mut.ID == "" {
		mut.ID = uuid.New().String()
	}
	m.rows = append(m.rows, *mut)
	return nil
}

func (m *memMutations) GetByID(id string) (*entity.StockMutation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ID == id {
			cp := row
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memMutations) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMutation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.StockMutation
	for _, row := range m.rows {
		if row.ProductID != productID {
			continue
		}
		if from != nil && row.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && row.CreatedAt.After(*to) {
			continue
		}
		cp := row
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memMutations) SumDeltaByProduct(productID string, to *time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, row := range m.rows {
		if row.ProductID != productID {
			continue
		}
		if to != nil && row.CreatedAt.After(*to) {
			continue
		}
		sum += row.Delta
	}
	return sum, nil
}

func (m *memMutations) ListByPeriod(from, to time.Time) ([]*entity.StockMutation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.StockMutation
	for _, row := range m.rows {
		if row.CreatedAt.Before(from) || !row.CreatedAt.Before(to) {
			continue
		}
		cp := row
		out = append(out, &cp)
	}
	return out, nil
}

type memCounts struct {
	mu   sync.Mutex
	rows []entity.StockCount
}

func (m *memCounts) Create(c *entity.StockCount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *c)
	return nil
}

func (m *memCounts) GetByID(id string) (*entity.StockCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ID == id {
			cp := row
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCounts) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.StockCount
	for _, row := range m.rows {
		if row.ProductID == productID {
			cp := row
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memCash struct {
	mu         sync.Mutex
	rows       []entity.CashTransaction
	failCreate error // siguiente Create devuelve este error (se consume)
}

func (m *memCash) Create(tx *entity.CashTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		err := m.failCreate
		m.failCreate = nil
		return err
	}
	m.rows = append(m.rows, *tx)
	return nil
}

func (m *memCash) GetByID(id string) (*entity.CashTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ID == id {
			cp := row
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCash) GetByLedgerAndReference(sourceLedger, referenceType, referenceID string) (*entity.CashTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.SourceLedger == sourceLedger && row.ReferenceType == referenceType && row.ReferenceID == referenceID {
			cp := row
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCash) CompareAndSetSyncFlag(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, row := range m.rows {
		if row.ID == id {
			if row.SyncFlag {
				return false, nil
			}
			m.rows[i].SyncFlag = true
			return true, nil
		}
	}
	return false, nil
}

func (m *memCash) ListPendingMirror(limit int) ([]*entity.CashTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.CashTransaction
	for _, row := range m.rows {
		if row.SourceLedger == entity.CashLedgerOperator && !row.SyncFlag {
			cp := row
			out = append(out, &cp)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *memCash) CountPendingMirror() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, row := range m.rows {
		if row.SourceLedger == entity.CashLedgerOperator && !row.SyncFlag {
			n++
		}
	}
	return n, nil
}

func (m *memCash) ListByPeriod(sourceLedger string, from, to time.Time) ([]*entity.CashTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.CashTransaction
	for _, row := range m.rows {
		if row.SourceLedger != sourceLedger || row.CreatedAt.Before(from) || !row.CreatedAt.Before(to) {
			continue
		}
		cp := row
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memCash) ListByOperator(operatorID string, from, to *time.Time, limit, offset int) ([]*entity.CashTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.CashTransaction
	for _, row := range m.rows {
		if row.SourceLedger == entity.CashLedgerOperator && row.OperatorID == operatorID {
			cp := row
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ledgerRows devuelve copias de las filas de un libro, para asserts.
func (m *memCash) ledgerRows(sourceLedger string) []entity.CashTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.CashTransaction
	for _, row := range m.rows {
		if row.SourceLedger == sourceLedger {
			out = append(out, row)
		}
	}
	return out
}

type memBalances struct {
	mu   sync.Mutex
	rows map[string]entity.PartyBalance
}

func newMemBalances() *memBalances {
	return &memBalances{rows: make(map[string]entity.PartyBalance)}
}

func (m *memBalances) Create(b *entity.PartyBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[b.PartyID]; ok {
		return domain.ErrDuplicate
	}
	m.rows[b.PartyID] = *b
	return nil
}

func (m *memBalances) GetByID(partyID string) (*entity.PartyBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[partyID]
	if !ok {
		return nil, nil
	}
	cp := row
	return &cp, nil
}

func (m *memBalances) IncrementBalance(partyID string, delta decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[partyID]
	if !ok {
		return domain.ErrNotFound
	}
	row.RunningBalance = row.RunningBalance.Add(delta)
	m.rows[partyID] = row
	return nil
}

func (m *memBalances) OverwriteBalance(b *entity.PartyBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[b.PartyID]; !ok {
		return domain.ErrNotFound
	}
	m.rows[b.PartyID] = *b
	return nil
}

func (m *memBalances) List(partyType string, limit, offset int) ([]*entity.PartyBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.PartyBalance
	for _, row := range m.rows {
		if row.PartyType == partyType {
			cp := row
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memPartyTxs struct {
	mu   sync.Mutex
	rows []entity.PartyTransaction
}

func (m *memPartyTxs) Append(tx *entity.PartyTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *tx)
	return nil
}

func (m *memPartyTxs) ListByParty(partyID string) ([]*entity.PartyTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.PartyTransaction
	for _, row := range m.rows {
		if row.PartyID == partyID {
			cp := row
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner en memoria: corre el callback contra los mismos repos y restaura el
// estado previo si falla, imitando el rollback de la transacción real.
// ──────────────────────────────────────────────────────────────────────────────

type memTxRunner struct {
	products  *memProducts
	mutations *memMutations
	cash      *memCash
	// failRunCash hace fallar la próxima RunCash completa (se consume).
	failRunCash error
}

var _ ledger.TxRunner = (*memTxRunner)(nil)

func (r *memTxRunner) Run(ctx context.Context, fn func(
	products repository.ProductRepository,
	mutations repository.StockMutationRepository,
) error) error {
	prodSnap := snapshotProducts(r.products)
	mutSnap := snapshotMutations(r.mutations)
	if err := fn(r.products, r.mutations); err != nil {
		restoreProducts(r.products, prodSnap)
		restoreMutations(r.mutations, mutSnap)
		return err
	}
	return nil
}

func (r *memTxRunner) RunCash(ctx context.Context, fn func(cash repository.CashTransactionRepository) error) error {
	if r.failRunCash != nil {
		err := r.failRunCash
		r.failRunCash = nil
		return err
	}
	snap := snapshotCash(r.cash)
	if err := fn(r.cash); err != nil {
		restoreCash(r.cash, snap)
		return err
	}
	return nil
}

func snapshotProducts(m *memProducts) map[string]entity.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[string]entity.Product, len(m.rows))
	for k, v := range m.rows {
		cp[k] = v
	}
	return cp
}

func restoreProducts(m *memProducts, snap map[string]entity.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = snap
}

func snapshotMutations(m *memMutations) []entity.StockMutation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.StockMutation(nil), m.rows...)
}

func restoreMutations(m *memMutations, snap []entity.StockMutation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = snap
}

func snapshotCash(m *memCash) []entity.CashTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.CashTransaction(nil), m.rows...)
}

func restoreCash(m *memCash, snap []entity.CashTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = snap
}
