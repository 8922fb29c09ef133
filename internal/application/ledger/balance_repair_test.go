package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/retail-backoffice/internal/application/ledger"
	"github.com/tu-usuario/retail-backoffice/internal/domain"
	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
)

func newRepairFixture() (*memBalances, *memPartyTxs, *ledger.BalanceRepair) {
	balances := newMemBalances()
	partyTxs := &memPartyTxs{}
	return balances, partyTxs, ledger.NewBalanceRepair(balances, partyTxs, testLogger())
}

func seedCustomer(balances *memBalances, partyID string, stored int64) {
	balances.rows[partyID] = entity.PartyBalance{
		PartyID:        partyID,
		PartyType:      entity.PartyTypeCustomer,
		Name:           "Cliente " + partyID,
		RunningBalance: decimal.NewFromInt(stored),
	}
}

func appendTx(partyTxs *memPartyTxs, partyID, kind string, amount int64) {
	partyTxs.rows = append(partyTxs.rows, entity.PartyTransaction{
		ID:        kind + "-" + partyID,
		PartyID:   partyID,
		Kind:      kind,
		Amount:    decimal.NewFromInt(amount),
		CreatedAt: time.Now(),
	})
}

// Deriva clásica: el historial registró la venta a crédito pero el corte llegó
// antes de incrementar el saldo. La reparación recomputa desde el historial.
func TestRepairBalance_CierraDeriva(t *testing.T) {
	balances, partyTxs, repair := newRepairFixture()
	seedCustomer(balances, "c1", 0) // cacheado: 0

	appendTx(partyTxs, "c1", entity.PartyTxCreditSale, 10000)
	appendTx(partyTxs, "c1", entity.PartyTxPayment, 4000)

	repaired, err := repair.RepairBalance(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, repaired.RunningBalance.Equal(decimal.NewFromInt(6000)),
		"saldo = crédito 10000 - pago 4000")
	assert.False(t, repaired.RecalculatedAt.IsZero())

	stored, _ := balances.GetByID("c1")
	assert.True(t, stored.RunningBalance.Equal(decimal.NewFromInt(6000)))
}

// La reparación pisa el valor cacheado aunque esté inflado (sobre-reflejo
// introducido a mano): manda el historial, no el cache.
func TestRepairBalance_PisaValorCacheado(t *testing.T) {
	balances, partyTxs, repair := newRepairFixture()
	seedCustomer(balances, "c1", 99999)

	appendTx(partyTxs, "c1", entity.PartyTxCreditSale, 500)

	repaired, err := repair.RepairBalance(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, repaired.RunningBalance.Equal(decimal.NewFromInt(500)))
}

// Idempotencia: repara dos veces, mismo resultado.
func TestRepairBalance_Idempotente(t *testing.T) {
	balances, partyTxs, repair := newRepairFixture()
	seedCustomer(balances, "c1", -3)
	appendTx(partyTxs, "c1", entity.PartyTxCreditSale, 700)
	appendTx(partyTxs, "c1", entity.PartyTxPayment, 200)
	ctx := context.Background()

	first, err := repair.RepairBalance(ctx, "c1")
	require.NoError(t, err)
	second, err := repair.RepairBalance(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, first.RunningBalance.Equal(second.RunningBalance))
	assert.True(t, second.RunningBalance.Equal(decimal.NewFromInt(500)))
}

// Sin historial, el saldo reparado es cero.
func TestRepairBalance_HistorialVacio(t *testing.T) {
	balances, _, repair := newRepairFixture()
	seedCustomer(balances, "c1", 1234)

	repaired, err := repair.RepairBalance(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, repaired.RunningBalance.IsZero())
}

// Proveedor: purchase_credit suma deuda, settlement la baja.
func TestRepairBalance_Proveedor(t *testing.T) {
	balances, partyTxs, repair := newRepairFixture()
	balances.rows["s1"] = entity.PartyBalance{
		PartyID:        "s1",
		PartyType:      entity.PartyTypeSupplier,
		Name:           "Proveedor s1",
		RunningBalance: decimal.Zero,
	}
	appendTx(partyTxs, "s1", entity.PartyTxPurchaseCredit, 8000)
	appendTx(partyTxs, "s1", entity.PartyTxSettlement, 3000)

	repaired, err := repair.RepairBalance(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, repaired.RunningBalance.Equal(decimal.NewFromInt(5000)))
}

func TestRepairBalance_TerceroInexistente(t *testing.T) {
	_, _, repair := newRepairFixture()
	_, err := repair.RepairBalance(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repair.RepairBalance(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
