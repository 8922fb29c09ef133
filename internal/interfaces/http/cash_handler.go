package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/retail-backoffice/internal/application/changefeed"
	"github.com/tu-usuario/retail-backoffice/internal/application/dto"
	"github.com/tu-usuario/retail-backoffice/internal/application/ledger"
	"github.com/tu-usuario/retail-backoffice/internal/domain"
)

// CashHandler maneja caja de operador, réplica y totales del día (protegido).
type CashHandler struct {
	mirror *ledger.CashMirror
	daily  *changefeed.DailyCashCache
}

// NewCashHandler construye el handler.
func NewCashHandler(mirror *ledger.CashMirror, daily *changefeed.DailyCashCache) *CashHandler {
	return &CashHandler{mirror: mirror, daily: daily}
}

// Record godoc
// @Summary      Registrar movimiento de caja
// @Description  Escribe en la caja del operador (fuente durable) y replica a
//               la caja general en el mismo request. Si la réplica falla la
//               fila queda pendiente y la cierra el reintento periódico.
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordCashRequest  true  "kind, category, amount, reference_type, reference_id"
// @Success      201   {object}  dto.CashTransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cash [post]
func (h *CashHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordCashRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	op, err := h.mirror.RecordOperatorCash(c.Context(), ledger.RecordCashInput{
		OperatorID:    GetUserID(c),
		Kind:          in.Kind,
		Category:      in.Category,
		Amount:        in.Amount,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "kind in|out, category y amount entero positivo son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toCashResponse(op))
}

// RetryMirrors godoc
// @Summary      Reintentar réplicas pendientes
// @Description  Recorre filas de operador con sync_flag=false y les crea su
//               fila consolidada. Idempotente: correrlo dos veces no duplica.
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "máximo de filas por corrida (default 100)"
// @Success      200  {object}  dto.MirrorRetryResponse
// @Router       /api/cash/mirror/retry [post]
func (h *CashHandler) RetryMirrors(c *fiber.Ctx) error {
	limit := c.QueryInt("limit")
	closed, err := h.mirror.RetryPendingMirrors(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.MirrorRetryResponse{Closed: closed})
}

// Today godoc
// @Summary      Totales de caja de hoy
// @Description  Sirve desde cache; el feed de cambios lo invalida con cada
//               movimiento de caja.
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DailyCashResponse
// @Router       /api/cash/today [get]
func (h *CashHandler) Today(c *fiber.Ctx) error {
	totals, err := h.daily.Get()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.DailyCashResponse{
		Date:            totals.Date,
		OperatorIn:      totals.OperatorIn,
		OperatorOut:     totals.OperatorOut,
		ConsolidatedIn:  totals.ConsolidatedIn,
		ConsolidatedOut: totals.ConsolidatedOut,
	})
}
