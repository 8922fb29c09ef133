package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retail-backoffice/internal/application/changefeed"
	"github.com/tu-usuario/retail-backoffice/internal/application/ledger"
	"github.com/tu-usuario/retail-backoffice/internal/domain"
	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
)

type countFixture struct {
	products  *memProducts
	mutations *memMutations
	counts    *memCounts
	cash      *memCash
	ledger    *ledger.StockLedger
	uc        *ledger.StockCountUseCase
}

func newCountFixture() *countFixture {
	products := newMemProducts()
	mutations := &memMutations{}
	counts := &memCounts{}
	cash := &memCash{}
	runner := &memTxRunner{products: products, mutations: mutations, cash: cash}
	bus := changefeed.NewBus(testLogger())
	stock := ledger.NewStockLedger(runner, products, mutations, bus)
	mirror := ledger.NewCashMirror(runner, cash, bus, testLogger())
	return &countFixture{
		products:  products,
		mutations: mutations,
		counts:    counts,
		cash:      cash,
		ledger:    stock,
		uc:        ledger.NewStockCountUseCase(products, counts, stock, mirror),
	}
}

func (f *countFixture) seed(id string, stock int64, costPrice int64, consignment bool) {
	f.products.put(entity.Product{
		ID:          id,
		SKU:         "SKU-" + id,
		Name:        "Producto " + id,
		StockOnHand: stock,
		CostPrice:   decimal.NewFromInt(costPrice),
		SellPrice:   decimal.NewFromInt(costPrice * 2),
		Status:      "active",
		Consignment: consignment,
	})
}

// Faltante físico: sistema 10, físico 8 → diferencia +2, corrección -2 y el
// contador baja a lo que hay en el estante.
func TestRecordCount_FaltanteCorrigeHaciaAbajo(t *testing.T) {
	f := newCountFixture()
	f.seed("p1", 10, 1000, false)

	result, err := f.uc.RecordCount(context.Background(), ledger.RecordCountInput{
		ProductID:     "p1",
		PhysicalStock: 8,
		OperatorID:    "op-1",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Count)
	assert.Equal(t, int64(10), result.Count.SystemStock)
	assert.Equal(t, int64(8), result.Count.PhysicalStock)
	assert.Equal(t, int64(2), result.Count.Difference)

	require.NotNil(t, result.Mutation)
	assert.Equal(t, int64(-2), result.Mutation.Delta)
	assert.Equal(t, entity.ReferenceTypeCountCorrection, result.Mutation.ReferenceType)
	assert.Equal(t, result.Count.ID, result.Mutation.ReferenceID)

	p, _ := f.products.GetByID("p1")
	assert.Equal(t, int64(8), p.StockOnHand)

	// Sin consignación no hay asiento de caja.
	assert.Nil(t, result.Cash)
	assert.Empty(t, f.cash.ledgerRows(entity.CashLedgerOperator))
}

// Sobrante físico: la corrección es positiva.
func TestRecordCount_SobranteCorrigeHaciaArriba(t *testing.T) {
	f := newCountFixture()
	f.seed("p1", 5, 1000, false)

	result, err := f.uc.RecordCount(context.Background(), ledger.RecordCountInput{
		ProductID:     "p1",
		PhysicalStock: 9,
		OperatorID:    "op-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-4), result.Count.Difference)
	require.NotNil(t, result.Mutation)
	assert.Equal(t, int64(4), result.Mutation.Delta)

	p, _ := f.products.GetByID("p1")
	assert.Equal(t, int64(9), p.StockOnHand)
}

// Round-trip: contar exactamente lo que dice el sistema no toca el libro.
func TestRecordCount_SinDiferenciaNoCorrige(t *testing.T) {
	f := newCountFixture()
	f.seed("p1", 7, 1000, true)

	result, err := f.uc.RecordCount(context.Background(), ledger.RecordCountInput{
		ProductID:     "p1",
		PhysicalStock: 7,
		OperatorID:    "op-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Count.Difference)
	assert.Nil(t, result.Mutation)
	assert.Nil(t, result.Cash)

	sum, _ := f.mutations.SumDeltaByProduct("p1", nil)
	assert.Equal(t, int64(0), sum)
	assert.Empty(t, f.cash.ledgerRows(entity.CashLedgerOperator))
}

// Consignación con faltante: la diferencia se valoriza al costo y sale de
// caja como pérdida (2 unidades × 1000 = 2000, out).
func TestRecordCount_ConsignacionValorizaFaltante(t *testing.T) {
	f := newCountFixture()
	f.seed("p1", 10, 1000, true)

	result, err := f.uc.RecordCount(context.Background(), ledger.RecordCountInput{
		ProductID:     "p1",
		PhysicalStock: 8,
		OperatorID:    "op-1",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Cash)
	assert.Equal(t, entity.CashKindOut, result.Cash.Kind)
	assert.Equal(t, entity.CashCategoryCountVarianceLoss, result.Cash.Category)
	assert.True(t, result.Cash.Amount.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, entity.CashRefStockCount, result.Cash.ReferenceType)
	assert.Equal(t, result.Count.ID, result.Cash.ReferenceID)
}

func TestRecordCount_ConsignacionValorizaSobrante(t *testing.T) {
	f := newCountFixture()
	f.seed("p1", 8, 500, true)

	result, err := f.uc.RecordCount(context.Background(), ledger.RecordCountInput{
		ProductID:     "p1",
		PhysicalStock: 11,
		OperatorID:    "op-1",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Cash)
	assert.Equal(t, entity.CashKindIn, result.Cash.Kind)
	assert.Equal(t, entity.CashCategoryCountVarianceGain, result.Cash.Category)
	assert.True(t, result.Cash.Amount.Equal(decimal.NewFromInt(1500)))
}

// Dos conteos el mismo día son dos eventos de auditoría independientes, cada
// uno contra el stock vigente en su momento.
func TestRecordCount_ConteosSucesivosNoSeFusionan(t *testing.T) {
	f := newCountFixture()
	f.seed("p1", 10, 1000, false)
	ctx := context.Background()

	r1, err := f.uc.RecordCount(ctx, ledger.RecordCountInput{ProductID: "p1", PhysicalStock: 8, OperatorID: "op-1"})
	require.NoError(t, err)
	r2, err := f.uc.RecordCount(ctx, ledger.RecordCountInput{ProductID: "p1", PhysicalStock: 6, OperatorID: "op-1"})
	require.NoError(t, err)

	assert.NotEqual(t, r1.Count.ID, r2.Count.ID)
	assert.Equal(t, int64(8), r2.Count.SystemStock, "el segundo conteo parte del stock ya corregido")
	assert.Equal(t, int64(2), r2.Count.Difference)

	counts, _ := f.counts.ListByProduct("p1", nil, nil, 10, 0)
	assert.Len(t, counts, 2)

	p, _ := f.products.GetByID("p1")
	assert.Equal(t, int64(6), p.StockOnHand)
}

func TestRecordCount_Validaciones(t *testing.T) {
	f := newCountFixture()
	f.seed("p1", 10, 1000, false)
	ctx := context.Background()

	_, err := f.uc.RecordCount(ctx, ledger.RecordCountInput{ProductID: "p1", PhysicalStock: -1, OperatorID: "op-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RecordCount(ctx, ledger.RecordCountInput{ProductID: "nope", PhysicalStock: 1, OperatorID: "op-1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.RecordCount(ctx, ledger.RecordCountInput{ProductID: "p1", PhysicalStock: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
