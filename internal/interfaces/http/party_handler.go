package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/retail-backoffice/internal/application/dto"
	"github.com/tu-usuario/retail-backoffice/internal/application/ledger"
	"github.com/tu-usuario/retail-backoffice/internal/application/sales"
	"github.com/tu-usuario/retail-backoffice/internal/domain"
)

// PartyHandler maneja saldos de clientes/proveedores y su reparación (protegido).
type PartyHandler struct {
	uc     *sales.UseCase
	repair *ledger.BalanceRepair
}

// NewPartyHandler construye el handler.
func NewPartyHandler(uc *sales.UseCase, repair *ledger.BalanceRepair) *PartyHandler {
	return &PartyHandler{uc: uc, repair: repair}
}

// Create godoc
// @Summary      Crear tercero
// @Tags         parties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartyRequest  true  "party_type, name"
// @Success      201   {object}  dto.PartyBalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/parties [post]
func (h *PartyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	balance, err := h.uc.CreateParty(c.Context(), in.PartyType, in.Name)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "party_type customer|supplier y name son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toBalanceResponse(balance))
}

// List godoc
// @Summary      Listar terceros
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  true   "customer | supplier"
// @Param        limit   query  int     false  "máximo por página (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}   dto.PartyBalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/parties [get]
func (h *PartyHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	balances, err := h.uc.ListParties(c.Context(), c.Query("type"), page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type debe ser customer o supplier"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.PartyBalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, toBalanceResponse(b))
	}
	return c.JSON(out)
}

// GetBalance godoc
// @Summary      Saldo corriente de un tercero
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Party ID"
// @Success      200  {object}  dto.PartyBalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parties/{id}/balance [get]
func (h *PartyHandler) GetBalance(c *fiber.Ctx) error {
	balance, err := h.uc.GetBalance(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tercero no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toBalanceResponse(balance))
}

// History godoc
// @Summary      Historial de crédito/pagos de un tercero
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Party ID"
// @Success      200  {array}   dto.PartyTransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parties/{id}/history [get]
func (h *PartyHandler) History(c *fiber.Ctx) error {
	txs, err := h.uc.ListPartyHistory(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tercero no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.PartyTransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toPartyTxResponse(t))
	}
	return c.JSON(out)
}

// RepairBalance godoc
// @Summary      Reparar saldo de un tercero
// @Description  Recalcula el saldo corriente desde el historial completo y lo
//               pisa, sin importar qué decía el valor cacheado. Idempotente.
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Party ID"
// @Success      200  {object}  dto.PartyBalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parties/{id}/repair-balance [post]
func (h *PartyHandler) RepairBalance(c *fiber.Ctx) error {
	balance, err := h.repair.RepairBalance(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tercero no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toBalanceResponse(balance))
}
