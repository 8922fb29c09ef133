package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retail-backoffice/internal/application/changefeed"
	"github.com/tu-usuario/retail-backoffice/internal/application/ledger"
	"github.com/tu-usuario/retail-backoffice/internal/domain"
	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
)

type mirrorFixture struct {
	cash   *memCash
	runner *memTxRunner
	mirror *ledger.CashMirror
}

func newMirrorFixture() *mirrorFixture {
	cash := &memCash{}
	runner := &memTxRunner{products: newMemProducts(), mutations: &memMutations{}, cash: cash}
	bus := changefeed.NewBus(testLogger())
	return &mirrorFixture{
		cash:   cash,
		runner: runner,
		mirror: ledger.NewCashMirror(runner, cash, bus, testLogger()),
	}
}

func entrada(monto int64) ledger.RecordCashInput {
	return ledger.RecordCashInput{
		OperatorID:    "op-1",
		Kind:          entity.CashKindIn,
		Category:      entity.CashCategorySales,
		Amount:        decimal.NewFromInt(monto),
		ReferenceType: entity.CashRefSale,
		ReferenceID:   "sale-1",
	}
}

func TestRecordOperatorCash_ReplicaEnCaliente(t *testing.T) {
	f := newMirrorFixture()

	op, err := f.mirror.RecordOperatorCash(context.Background(), entrada(5000))
	require.NoError(t, err)
	require.NotNil(t, op)
	assert.True(t, op.SyncFlag, "con la réplica sana el flag queda en true en el mismo request")

	consolidated := f.cash.ledgerRows(entity.CashLedgerConsolidated)
	require.Len(t, consolidated, 1)
	assert.Equal(t, op.ID, consolidated[0].ReferenceID)
	assert.Equal(t, entity.CashRefOperatorEntry, consolidated[0].ReferenceType)
	assert.True(t, consolidated[0].Amount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, op.Kind, consolidated[0].Kind)
}

// Corte de la caja general a mitad del registro: la fila del operador queda
// confirmada y pendiente, nunca se revierte ni se pierde.
func TestRecordOperatorCash_FalloDeReplicaEncola(t *testing.T) {
	f := newMirrorFixture()
	f.runner.failRunCash = errors.New("consolidated db down")

	op, err := f.mirror.RecordOperatorCash(context.Background(), entrada(3000))
	require.NoError(t, err, "el fallo de réplica no debe fallar la operación original")
	require.NotNil(t, op)
	assert.False(t, op.SyncFlag)

	assert.Empty(t, f.cash.ledgerRows(entity.CashLedgerConsolidated))
	pending, err := f.cash.ListPendingMirror(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, op.ID, pending[0].ID)
}

func TestRetryPendingMirrors_CierraPendientes(t *testing.T) {
	f := newMirrorFixture()
	ctx := context.Background()

	f.runner.failRunCash = errors.New("db down")
	op, err := f.mirror.RecordOperatorCash(ctx, entrada(3000))
	require.NoError(t, err)
	require.False(t, op.SyncFlag)

	closed, err := f.mirror.RetryPendingMirrors(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	consolidated := f.cash.ledgerRows(entity.CashLedgerConsolidated)
	require.Len(t, consolidated, 1)
	stored, _ := f.cash.GetByID(op.ID)
	assert.True(t, stored.SyncFlag)

	// Segunda pasada: cola vacía, nada que cerrar, nada duplicado.
	closed, err = f.mirror.RetryPendingMirrors(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
	assert.Len(t, f.cash.ledgerRows(entity.CashLedgerConsolidated), 1)
}

// Caso huérfano: la consolidada existe pero el flag quedó en false (crash
// entre insert y update en un storage sin tx conjunta). El reintento solo
// corrige el flag, sin segunda fila consolidada.
func TestMirrorToConsolidated_ReentranteNoDuplica(t *testing.T) {
	f := newMirrorFixture()
	ctx := context.Background()

	op := &entity.CashTransaction{
		ID:           "op-tx-1",
		Kind:         entity.CashKindIn,
		Category:     entity.CashCategorySales,
		Amount:       decimal.NewFromInt(2000),
		SourceLedger: entity.CashLedgerOperator,
		OperatorID:   "op-1",
	}
	require.NoError(t, f.cash.Create(op))
	require.NoError(t, f.cash.Create(&entity.CashTransaction{
		ID:            "orphan-mirror",
		Kind:          op.Kind,
		Category:      op.Category,
		Amount:        op.Amount,
		SourceLedger:  entity.CashLedgerConsolidated,
		SyncFlag:      true,
		ReferenceType: entity.CashRefOperatorEntry,
		ReferenceID:   op.ID,
	}))

	mirror, err := f.mirror.MirrorToConsolidated(ctx, op)
	require.NoError(t, err)
	require.NotNil(t, mirror)
	assert.Equal(t, "orphan-mirror", mirror.ID)

	assert.Len(t, f.cash.ledgerRows(entity.CashLedgerConsolidated), 1)
	stored, _ := f.cash.GetByID(op.ID)
	assert.True(t, stored.SyncFlag)
}

// Idempotencia dura: replicar una fila ya replicada es un no-op.
func TestMirrorToConsolidated_YaReplicadaEsNoOp(t *testing.T) {
	f := newMirrorFixture()
	ctx := context.Background()

	op, err := f.mirror.RecordOperatorCash(ctx, entrada(1000))
	require.NoError(t, err)
	require.True(t, op.SyncFlag)

	mirror, err := f.mirror.MirrorToConsolidated(ctx, op)
	require.NoError(t, err)
	assert.Nil(t, mirror)
	assert.Len(t, f.cash.ledgerRows(entity.CashLedgerConsolidated), 1)
}

func TestRecordOperatorCash_Validaciones(t *testing.T) {
	f := newMirrorFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		in   ledger.RecordCashInput
	}{
		{"monto cero", ledger.RecordCashInput{OperatorID: "op-1", Kind: "in", Category: "sales", Amount: decimal.Zero}},
		{"monto negativo", ledger.RecordCashInput{OperatorID: "op-1", Kind: "in", Category: "sales", Amount: decimal.NewFromInt(-5)}},
		{"monto con decimales", ledger.RecordCashInput{OperatorID: "op-1", Kind: "in", Category: "sales", Amount: decimal.NewFromFloat(10.5)}},
		{"kind desconocido", ledger.RecordCashInput{OperatorID: "op-1", Kind: "transfer", Category: "sales", Amount: decimal.NewFromInt(10)}},
		{"sin operador", ledger.RecordCashInput{Kind: "in", Category: "sales", Amount: decimal.NewFromInt(10)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.mirror.RecordOperatorCash(ctx, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, f.cash.ledgerRows(entity.CashLedgerOperator))
}
