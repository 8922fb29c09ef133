package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/retail-backoffice/internal/application/dto"
	"github.com/tu-usuario/retail-backoffice/internal/application/ledger"
	"github.com/tu-usuario/retail-backoffice/internal/domain"
)

// StockHandler maneja el libro de stock y los conteos físicos (protegido).
type StockHandler struct {
	ledger *ledger.StockLedger
	counts *ledger.StockCountUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(l *ledger.StockLedger, counts *ledger.StockCountUseCase) *StockHandler {
	return &StockHandler{ledger: l, counts: counts}
}

// parseDateRange lee from/to opcionales en RFC 3339 de la query.
func parseDateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if s := c.Query("from"); s != "" {
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return nil, nil, perr
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return nil, nil, perr
		}
		to = &t
	}
	return from, to, nil
}

// ApplyMutation godoc
// @Summary      Registrar movimiento de stock
// @Description  Apendea una entrada al libro y ajusta el contador del producto
//               en la misma transacción. Rechaza movimientos que dejarían el
//               stock negativo.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyMutationRequest  true  "product_id, delta, reference_type, reference_id, note"
// @Success      201   {object}  dto.StockMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/mutations [post]
func (h *StockHandler) ApplyMutation(c *fiber.Ctx) error {
	var in dto.ApplyMutationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mut, err := h.ledger.ApplyMutation(c.Context(), ledger.ApplyMutationInput{
		ProductID:     in.ProductID,
		Delta:         in.Delta,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Note:          in.Note,
		OperatorID:    GetUserID(c),
	})
	if err != nil {
		return stockErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMutationResponse(mut))
}

func stockErrorResponse(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrInactiveProduct):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INACTIVE_PRODUCT", Message: "el producto está inactivo"})
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: insufficient.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENT_UPDATE", Message: "conflicto de concurrencia, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// ListMutations godoc
// @Summary      Listar movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "Product ID"
// @Param        from        query  string  false  "RFC 3339"
// @Param        to          query  string  false  "RFC 3339"
// @Param        limit       query  int     false  "máximo por página (default 20)"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {array}   dto.StockMutationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/mutations [get]
func (h *StockHandler) ListMutations(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from/to deben ser RFC 3339"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	muts, err := h.ledger.ListMutations(c.Context(), c.Query("product_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StockMutationResponse, 0, len(muts))
	for _, m := range muts {
		out = append(out, *toMutationResponse(m))
	}
	return c.JSON(out)
}

// RecordCount godoc
// @Summary      Registrar conteo físico
// @Description  Escribe el conteo, corrige el libro con delta = -(sistema -
//               físico) y, para productos en consignación, valoriza la
//               diferencia en caja. Cada envío crea un conteo nuevo; los del
//               mismo día no se fusionan.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordCountRequest  true  "product_id, physical_stock, note"
// @Success      201   {object}  dto.CountResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/counts [post]
func (h *StockHandler) RecordCount(c *fiber.Ctx) error {
	var in dto.RecordCountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.counts.RecordCount(c.Context(), ledger.RecordCountInput{
		ProductID:     in.ProductID,
		PhysicalStock: in.PhysicalStock,
		OperatorID:    GetUserID(c),
		Note:          in.Note,
	})
	if err != nil {
		return stockErrorResponse(c, err)
	}
	out := dto.CountResultResponse{
		Count:    toCountResponse(result.Count),
		Mutation: toMutationResponse(result.Mutation),
		Cash:     toCashResponse(result.Cash),
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListCounts godoc
// @Summary      Listar conteos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "Product ID"
// @Param        from        query  string  false  "RFC 3339"
// @Param        to          query  string  false  "RFC 3339"
// @Param        limit       query  int     false  "máximo por página (default 20)"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {array}   dto.StockCountResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/counts [get]
func (h *StockHandler) ListCounts(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from/to deben ser RFC 3339"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	counts, err := h.counts.ListCounts(c.Context(), c.Query("product_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StockCountResponse, 0, len(counts))
	for _, cnt := range counts {
		out = append(out, toCountResponse(cnt))
	}
	return c.JSON(out)
}
