package http

import (
	"github.com/tu-usuario/retail-backoffice/internal/application/dto"
	"github.com/tu-usuario/retail-backoffice/internal/domain/entity"
)

func toMutationResponse(m *entity.StockMutation) *dto.StockMutationResponse {
	if m == nil {
		return nil
	}
	return &dto.StockMutationResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Delta:         m.Delta,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

func toCountResponse(c *entity.StockCount) dto.StockCountResponse {
	return dto.StockCountResponse{
		ID:            c.ID,
		ProductID:     c.ProductID,
		SystemStock:   c.SystemStock,
		PhysicalStock: c.PhysicalStock,
		Difference:    c.Difference,
		OperatorID:    c.OperatorID,
		Note:          c.Note,
		CreatedAt:     c.CreatedAt,
	}
}

func toCashResponse(t *entity.CashTransaction) *dto.CashTransactionResponse {
	if t == nil {
		return nil
	}
	return &dto.CashTransactionResponse{
		ID:            t.ID,
		Kind:          t.Kind,
		Category:      t.Category,
		Amount:        t.Amount,
		SourceLedger:  t.SourceLedger,
		OperatorID:    t.OperatorID,
		SyncFlag:      t.SyncFlag,
		ReferenceType: t.ReferenceType,
		ReferenceID:   t.ReferenceID,
		CreatedAt:     t.CreatedAt,
	}
}

func toBalanceResponse(b *entity.PartyBalance) dto.PartyBalanceResponse {
	return dto.PartyBalanceResponse{
		PartyID:        b.PartyID,
		PartyType:      b.PartyType,
		Name:           b.Name,
		RunningBalance: b.RunningBalance,
		RecalculatedAt: b.RecalculatedAt,
	}
}

func toPartyTxResponse(t *entity.PartyTransaction) dto.PartyTransactionResponse {
	return dto.PartyTransactionResponse{
		ID:          t.ID,
		PartyID:     t.PartyID,
		Kind:        t.Kind,
		Amount:      t.Amount,
		ReferenceID: t.ReferenceID,
		CreatedAt:   t.CreatedAt,
	}
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:          s.ID,
		CustomerID:  s.CustomerID,
		PaymentType: s.PaymentType,
		Total:       s.Total,
		ItemCount:   s.ItemCount,
		OperatorID:  s.OperatorID,
		CreatedAt:   s.CreatedAt,
	}
}

func toPurchaseResponse(p *entity.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:          p.ID,
		SupplierID:  p.SupplierID,
		PaymentType: p.PaymentType,
		Total:       p.Total,
		ItemCount:   p.ItemCount,
		OperatorID:  p.OperatorID,
		CreatedAt:   p.CreatedAt,
	}
}
