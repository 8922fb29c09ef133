package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/retail-backoffice/internal/application/dto"
	"github.com/tu-usuario/retail-backoffice/internal/application/report"
	"github.com/tu-usuario/retail-backoffice/internal/domain"
)

// ReportHandler maneja los resúmenes contables (protegido).
type ReportHandler struct {
	projector *report.Projector
}

// NewReportHandler construye el handler.
func NewReportHandler(projector *report.Projector) *ReportHandler {
	return &ReportHandler{projector: projector}
}

// Summary godoc
// @Summary      Resumen contable de un período
// @Description  Dato derivado regenerado a pedido desde los libros. Ventas y
//               compras con líneas incompletas quedan fuera y se cuentan en
//               excluded_sales / excluded_purchases.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "RFC 3339, inclusivo"
// @Param        to    query  string  true  "RFC 3339, exclusivo"
// @Success      200  {object}  dto.SummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC 3339"})
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC 3339"})
	}
	snap, err := h.projector.RebuildSummary(c.Context(), from, to)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser anterior a to"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.SummaryResponse{
		From:                snap.From,
		To:                  snap.To,
		StockIn:             snap.StockIn,
		StockOut:            snap.StockOut,
		OperatorCashIn:      snap.OperatorCashIn,
		OperatorCashOut:     snap.OperatorCashOut,
		ConsolidatedCashIn:  snap.ConsolidatedCashIn,
		ConsolidatedCashOut: snap.ConsolidatedCashOut,
		SalesTotal:          snap.SalesTotal,
		PurchaseTotal:       snap.PurchaseTotal,
		VarianceLoss:        snap.VarianceLoss,
		VarianceGain:        snap.VarianceGain,
		PendingMirrors:      snap.PendingMirrors,
		ExcludedSales:       snap.ExcludedSales,
		ExcludedPurchases:   snap.ExcludedPurchases,
		GeneratedAt:         snap.GeneratedAt,
	})
}
