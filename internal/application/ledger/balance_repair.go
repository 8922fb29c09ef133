package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-backoffice/internal/domain"
	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
	"github.com/tu-usuario/retail-backoffice/internal/domain/repository"
	"github.com/tu-usuario/retail-backoffice/pkg/logger"
)

// BalanceRepair recalcula el saldo corriente de un tercero desde su historial
// completo de transacciones y pisa el valor cacheado. Es la válvula de escape
// explícita para la deriva que dejan los fallos parciales; se invoca a pedido
// (o agendada), nunca automáticamente en cada transacción.
type BalanceRepair struct {
	balances repository.PartyBalanceRepository
	partyTxs repository.PartyTransactionRepository
	log      *logger.Logger
}

// NewBalanceRepair construye la rutina de reparación.
func NewBalanceRepair(balances repository.PartyBalanceRepository, partyTxs repository.PartyTransactionRepository, log *logger.Logger) *BalanceRepair {
	return &BalanceRepair{balances: balances, partyTxs: partyTxs, log: log}
}

// RepairBalance suma los montos con signo del historial ordenado del tercero
// y sobreescribe RunningBalance con el resultado, sin importar qué decía el
// valor almacenado. Es idempotente: correrla dos veces da el mismo saldo.
func (r *BalanceRepair) RepairBalance(ctx context.Context, partyID string) (*entity.PartyBalance, error) {
	if partyID == "" {
		return nil, domain.ErrInvalidInput
	}
	balance, err := r.balances.GetByID(partyID)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, domain.ErrNotFound
	}

	history, err := r.partyTxs.ListByParty(partyID)
	if err != nil {
		return nil, err
	}
	recomputed := decimal.Zero
	for _, tx := range history {
		recomputed = recomputed.Add(tx.Signed())
	}

	drift := recomputed.Sub(balance.RunningBalance)
	if !drift.IsZero() {
		r.log.Info().
			Str("party_id", partyID).
			Str("stored", balance.RunningBalance.String()).
			Str("recomputed", recomputed.String()).
			Msg("saldo con deriva, corrigiendo")
	}

	balance.RunningBalance = recomputed
	balance.RecalculatedAt = time.Now()
	if err := r.balances.OverwriteBalance(balance); err != nil {
		return nil, err
	}
	return balance, nil
}
