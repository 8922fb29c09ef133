package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/retail-backoffice/internal/application/changefeed"
	"github.com/tu-usuario/retail-backoffice/internal/application/ledger"
	"github.com/tu-usuario/retail-backoffice/internal/domain"
	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
	"github.com/tu-usuario/retail-backoffice/internal/domain/repository"
)

// UseCase registra ventas, pagos y compras. No hay transacción global entre
// entidades: el orden fijo de escrituras (libros primero, derivados después)
// garantiza que un corte a mitad de camino deje el sistema sub-reflejado pero
// reparable (proyector excluye incompletos, reparación de saldos cierra la
// deriva), nunca sobre-reflejado.
type UseCase struct {
	products  repository.ProductRepository
	sales     repository.SaleRepository
	purchases repository.PurchaseRepository
	balances  repository.PartyBalanceRepository
	partyTxs  repository.PartyTransactionRepository
	stock     *ledger.StockLedger
	cash      *ledger.CashMirror
	bus       *changefeed.Bus
}

// NewUseCase construye el caso de uso de ventas/compras.
func NewUseCase(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	purchases repository.PurchaseRepository,
	balances repository.PartyBalanceRepository,
	partyTxs repository.PartyTransactionRepository,
	stock *ledger.StockLedger,
	cash *ledger.CashMirror,
	bus *changefeed.Bus,
) *UseCase {
	return &UseCase{
		products:  products,
		sales:     sales,
		purchases: purchases,
		balances:  balances,
		partyTxs:  partyTxs,
		stock:     stock,
		cash:      cash,
		bus:       bus,
	}
}

// SaleItemInput línea de venta pedida por el operador.
type SaleItemInput struct {
	ProductID string
	Quantity  int64
}

// RecordSaleInput entrada para registrar una venta.
type RecordSaleInput struct {
	CustomerID  string // obligatorio en venta a crédito
	PaymentType string // cash, credit
	OperatorID  string
	Items       []SaleItemInput
}

// RecordSale registra una venta: encabezado, una mutación de stock por línea
// (referencia sale), las líneas, y recién después los derivados (saldo del
// deudor en crédito, caja de operador en efectivo). Si una línea falla por
// stock el error se devuelve y la venta queda incompleta: el proyector la
// excluye hasta que se complete o se corrija por conteo.
func (uc *UseCase) RecordSale(ctx context.Context, in RecordSaleInput) (*entity.Sale, error) {
	if in.OperatorID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.PaymentType != entity.SalePaymentCash && in.PaymentType != entity.SalePaymentCredit {
		return nil, domain.ErrInvalidInput
	}
	if in.PaymentType == entity.SalePaymentCredit && in.CustomerID == "" {
		return nil, domain.ErrInvalidInput
	}

	// Precios y total se resuelven antes de escribir nada.
	total := decimal.Zero
	prices := make(map[string]decimal.Decimal, len(in.Items))
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.products.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if !product.IsActive() {
			return nil, domain.ErrInactiveProduct
		}
		prices[item.ProductID] = product.SellPrice
		total = total.Add(product.SellPrice.Mul(decimal.NewFromInt(item.Quantity)))
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:          uuid.New().String(),
		CustomerID:  in.CustomerID,
		PaymentType: in.PaymentType,
		Total:       total,
		ItemCount:   len(in.Items),
		OperatorID:  in.OperatorID,
		CreatedAt:   now,
	}
	if err := uc.sales.Create(sale); err != nil {
		return nil, err
	}

	for _, item := range in.Items {
		if _, err := uc.stock.ApplyMutation(ctx, ledger.ApplyMutationInput{
			ProductID:     item.ProductID,
			Delta:         -item.Quantity,
			ReferenceType: entity.ReferenceTypeSale,
			ReferenceID:   sale.ID,
			OperatorID:    in.OperatorID,
		}); err != nil {
			return nil, err
		}
		price := prices[item.ProductID]
		if err := uc.sales.CreateItem(&entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: price,
			Subtotal:  price.Mul(decimal.NewFromInt(item.Quantity)),
			CreatedAt: now,
		}); err != nil {
			return nil, err
		}
	}

	// Derivados al final: una caída antes de este punto deja la venta
	// incompleta y sin reflejar, nunca reflejada de más.
	switch in.PaymentType {
	case entity.SalePaymentCredit:
		if err := uc.partyTxs.Append(&entity.PartyTransaction{
			ID:          uuid.New().String(),
			PartyID:     in.CustomerID,
			Kind:        entity.PartyTxCreditSale,
			Amount:      total,
			ReferenceID: sale.ID,
			CreatedAt:   now,
		}); err != nil {
			return nil, err
		}
		if err := uc.balances.IncrementBalance(in.CustomerID, total); err != nil {
			return nil, err
		}
	case entity.SalePaymentCash:
		if _, err := uc.cash.RecordOperatorCash(ctx, ledger.RecordCashInput{
			OperatorID:    in.OperatorID,
			Kind:          entity.CashKindIn,
			Category:      entity.CashCategorySales,
			Amount:        total,
			ReferenceType: entity.CashRefSale,
			ReferenceID:   sale.ID,
		}); err != nil {
			return nil, err
		}
	}

	uc.bus.Publish(changefeed.Event{Entity: changefeed.EntitySale, Op: changefeed.OpCreated, Record: sale})
	return sale, nil
}

// RecordPaymentInput entrada para un pago de cliente contra su deuda.
type RecordPaymentInput struct {
	CustomerID string
	Amount     decimal.Decimal
	OperatorID string
}

// RecordPayment registra el pago de un deudor: fila de historial, entrada de
// caja del operador y, como derivado, el decremento del saldo corriente.
func (uc *UseCase) RecordPayment(ctx context.Context, in RecordPaymentInput) (*entity.PartyTransaction, error) {
	if in.CustomerID == "" || in.OperatorID == "" || !in.Amount.IsPositive() || !in.Amount.IsInteger() {
		return nil, domain.ErrInvalidInput
	}
	balance, err := uc.balances.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, domain.ErrNotFound
	}
	if balance.PartyType != entity.PartyTypeCustomer {
		return nil, domain.ErrInvalidInput
	}

	tx := &entity.PartyTransaction{
		ID:        uuid.New().String(),
		PartyID:   in.CustomerID,
		Kind:      entity.PartyTxPayment,
		Amount:    in.Amount,
		CreatedAt: time.Now(),
	}
	tx.ReferenceID = tx.ID
	if err := uc.partyTxs.Append(tx); err != nil {
		return nil, err
	}
	if _, err := uc.cash.RecordOperatorCash(ctx, ledger.RecordCashInput{
		OperatorID:    in.OperatorID,
		Kind:          entity.CashKindIn,
		Category:      entity.CashCategoryPayment,
		Amount:        in.Amount,
		ReferenceType: entity.CashRefPayment,
		ReferenceID:   tx.ID,
	}); err != nil {
		return nil, err
	}
	if err := uc.balances.IncrementBalance(in.CustomerID, in.Amount.Neg()); err != nil {
		return nil, err
	}
	return tx, nil
}

// RecordSettlementInput entrada para un pago al proveedor contra la deuda.
type RecordSettlementInput struct {
	SupplierID string
	Amount     decimal.Decimal
	OperatorID string
}

// RecordSettlement liquida deuda con un proveedor: fila settlement en el
// historial, salida de caja del operador y el decremento del saldo como
// derivado. Es el simétrico de RecordPayment del lado proveedor.
func (uc *UseCase) RecordSettlement(ctx context.Context, in RecordSettlementInput) (*entity.PartyTransaction, error) {
	if in.SupplierID == "" || in.OperatorID == "" || !in.Amount.IsPositive() || !in.Amount.IsInteger() {
		return nil, domain.ErrInvalidInput
	}
	balance, err := uc.balances.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, domain.ErrNotFound
	}
	if balance.PartyType != entity.PartyTypeSupplier {
		return nil, domain.ErrInvalidInput
	}

	tx := &entity.PartyTransaction{
		ID:        uuid.New().String(),
		PartyID:   in.SupplierID,
		Kind:      entity.PartyTxSettlement,
		Amount:    in.Amount,
		CreatedAt: time.Now(),
	}
	tx.ReferenceID = tx.ID
	if err := uc.partyTxs.Append(tx); err != nil {
		return nil, err
	}
	if _, err := uc.cash.RecordOperatorCash(ctx, ledger.RecordCashInput{
		OperatorID:    in.OperatorID,
		Kind:          entity.CashKindOut,
		Category:      entity.CashCategorySettlement,
		Amount:        in.Amount,
		ReferenceType: entity.CashRefSettlement,
		ReferenceID:   tx.ID,
	}); err != nil {
		return nil, err
	}
	if err := uc.balances.IncrementBalance(in.SupplierID, in.Amount.Neg()); err != nil {
		return nil, err
	}
	return tx, nil
}

// PurchaseItemInput línea de compra a proveedor.
type PurchaseItemInput struct {
	ProductID string
	Quantity  int64
	UnitCost  decimal.Decimal
}

// RecordPurchaseInput entrada para registrar una compra.
type RecordPurchaseInput struct {
	SupplierID  string
	PaymentType string // cash, credit
	OperatorID  string
	Items       []PurchaseItemInput
}

// RecordPurchase es el simétrico de RecordSale para proveedores: mutaciones
// de entrada (referencia purchase), líneas, y derivados al final
// (purchase_credit + saldo del proveedor en crédito, caja out en efectivo).
func (uc *UseCase) RecordPurchase(ctx context.Context, in RecordPurchaseInput) (*entity.Purchase, error) {
	if in.SupplierID == "" || in.OperatorID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.PaymentType != entity.SalePaymentCash && in.PaymentType != entity.SalePaymentCredit {
		return nil, domain.ErrInvalidInput
	}

	total := decimal.Zero
	for _, item := range in.Items {
		if item.Quantity <= 0 || item.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		total = total.Add(item.UnitCost.Mul(decimal.NewFromInt(item.Quantity)))
	}

	now := time.Now()
	purchase := &entity.Purchase{
		ID:          uuid.New().String(),
		SupplierID:  in.SupplierID,
		PaymentType: in.PaymentType,
		Total:       total,
		ItemCount:   len(in.Items),
		OperatorID:  in.OperatorID,
		CreatedAt:   now,
	}
	if err := uc.purchases.Create(purchase); err != nil {
		return nil, err
	}

	for _, item := range in.Items {
		if _, err := uc.stock.ApplyMutation(ctx, ledger.ApplyMutationInput{
			ProductID:     item.ProductID,
			Delta:         item.Quantity,
			ReferenceType: entity.ReferenceTypePurchase,
			ReferenceID:   purchase.ID,
			OperatorID:    in.OperatorID,
		}); err != nil {
			return nil, err
		}
		if err := uc.purchases.CreateItem(&entity.PurchaseItem{
			ID:         uuid.New().String(),
			PurchaseID: purchase.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitCost:   item.UnitCost,
			Subtotal:   item.UnitCost.Mul(decimal.NewFromInt(item.Quantity)),
			CreatedAt:  now,
		}); err != nil {
			return nil, err
		}
	}

	switch in.PaymentType {
	case entity.SalePaymentCredit:
		if err := uc.partyTxs.Append(&entity.PartyTransaction{
			ID:          uuid.New().String(),
			PartyID:     in.SupplierID,
			Kind:        entity.PartyTxPurchaseCredit,
			Amount:      total,
			ReferenceID: purchase.ID,
			CreatedAt:   now,
		}); err != nil {
			return nil, err
		}
		if err := uc.balances.IncrementBalance(in.SupplierID, total); err != nil {
			return nil, err
		}
	case entity.SalePaymentCash:
		if _, err := uc.cash.RecordOperatorCash(ctx, ledger.RecordCashInput{
			OperatorID:    in.OperatorID,
			Kind:          entity.CashKindOut,
			Category:      entity.CashCategoryPurchase,
			Amount:        total,
			ReferenceType: entity.CashRefPurchase,
			ReferenceID:   purchase.ID,
		}); err != nil {
			return nil, err
		}
	}

	uc.bus.Publish(changefeed.Event{Entity: changefeed.EntityPurchase, Op: changefeed.OpCreated, Record: purchase})
	return purchase, nil
}

// CreateParty da de alta un cliente o proveedor con saldo cero.
func (uc *UseCase) CreateParty(ctx context.Context, partyType, name string) (*entity.PartyBalance, error) {
	if name == "" || (partyType != entity.PartyTypeCustomer && partyType != entity.PartyTypeSupplier) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	balance := &entity.PartyBalance{
		PartyID:        uuid.New().String(),
		PartyType:      partyType,
		Name:           name,
		RunningBalance: decimal.Zero,
		RecalculatedAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.balances.Create(balance); err != nil {
		return nil, err
	}
	return balance, nil
}

// GetBalance devuelve el saldo corriente de un tercero.
func (uc *UseCase) GetBalance(ctx context.Context, partyID string) (*entity.PartyBalance, error) {
	balance, err := uc.balances.GetByID(partyID)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, domain.ErrNotFound
	}
	return balance, nil
}

// ListParties lista terceros de un tipo.
func (uc *UseCase) ListParties(ctx context.Context, partyType string, limit, offset int) ([]*entity.PartyBalance, error) {
	if partyType != entity.PartyTypeCustomer && partyType != entity.PartyTypeSupplier {
		return nil, domain.ErrInvalidInput
	}
	return uc.balances.List(partyType, limit, offset)
}

// ListPartyHistory devuelve el historial completo de un tercero.
func (uc *UseCase) ListPartyHistory(ctx context.Context, partyID string) ([]*entity.PartyTransaction, error) {
	balance, err := uc.balances.GetByID(partyID)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, domain.ErrNotFound
	}
	return uc.partyTxs.ListByParty(partyID)
}
