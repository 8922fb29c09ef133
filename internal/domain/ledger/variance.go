package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
)

// VarianceAmount valoriza una diferencia de conteo físico (servicio de dominio).
// Monto = |diferencia| * costo unitario. El signo del flujo de caja lo decide
// VarianceCashKind, no este cálculo.
func VarianceAmount(difference int64, costPrice decimal.Decimal) decimal.Decimal {
	if difference < 0 {
		difference = -difference
	}
	return decimal.NewFromInt(difference).Mul(costPrice)
}

// VarianceCashKind mapea el signo de la diferencia al movimiento de caja:
// faltante (difference > 0) es pérdida y sale plata; sobrante entra.
// Devuelve ("", "") para diferencia cero: no corresponde movimiento.
func VarianceCashKind(difference int64) (kind, category string) {
	switch {
	case difference > 0:
		return entity.CashKindOut, entity.CashCategoryCountVarianceLoss
	case difference < 0:
		return entity.CashKindIn, entity.CashCategoryCountVarianceGain
	}
	return "", ""
}
