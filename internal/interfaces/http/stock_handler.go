package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestock-saas/gestock-api/internal/application/dto"
	"github.com/gestock-saas/gestock-api/internal/application/ledger"
)

// StockHandler maneja las peticiones HTTP del libro de stock (protegido).
type StockHandler struct {
	uc *ledger.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ledger.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// ApplyDelta godoc
// @Summary      Aplicar un delta manual sobre una clave del libro
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyDeltaRequest  true  "boutique_id, product_id, delta, reason, ref_id opcional"
// @Success      200   {object}  dto.StockLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/deltas [post]
func (h *StockHandler) ApplyDelta(c *fiber.Ctx) error {
	var in dto.ApplyDeltaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.ApplyDelta(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Audit godoc
// @Summary      Historial de auditoría de una clave, más reciente primero
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        boutique_id  query  string  true   "Boutique"
// @Param        product_id   query  string  true   "Producto"
// @Param        limit        query  int     false  "Máximo de entradas (default 50, tope 500)"
// @Success      200  {array}   dto.AuditEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/audit [get]
func (h *StockHandler) Audit(c *fiber.Ctx) error {
	entries, err := h.uc.Audit(c.Context(), GetPrincipal(c),
		c.Query("boutique_id"), c.Query("product_id"), c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(entries)
}

// Summary godoc
// @Summary      Cantidad actual por producto de una boutique
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        boutiqueID  path  string  true  "Boutique"
// @Success      200  {object}  dto.SummaryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/summary/{boutiqueID} [get]
func (h *StockHandler) Summary(c *fiber.Ctx) error {
	resp, err := h.uc.Summary(c.Context(), GetPrincipal(c), c.Params("boutiqueID"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Rebuild godoc
// @Summary      Reconstruir una clave desde la auditoría y compararla con la proyección
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        boutique_id  query  string  true  "Boutique"
// @Param        product_id   query  string  true  "Producto"
// @Success      200  {object}  dto.RebuildResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock/rebuild [get]
func (h *StockHandler) Rebuild(c *fiber.Ctx) error {
	resp, err := h.uc.Rebuild(c.Context(), GetPrincipal(c), c.Query("boutique_id"), c.Query("product_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}
