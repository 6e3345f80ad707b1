package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestock-saas/gestock-api/internal/application/dto"
	"github.com/gestock-saas/gestock-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de sesiones de inventario (protegido).
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Compute godoc
// @Summary      Computar una sesión de conteo físico
// @Description  Calcula la varianza contado-vs-esperado y persiste la sesión.
//               No muta el stock; la conciliación es el commit posterior.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ComputeSessionRequest  true  "boutique_id, items contados"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions [post]
func (h *InventoryHandler) Compute(c *fiber.Ctx) error {
	var in dto.ComputeSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Compute(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Commit godoc
// @Summary      Conciliar los deltas de una sesión contra el libro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions/{id}/commit [post]
func (h *InventoryHandler) Commit(c *fiber.Ctx) error {
	resp, err := h.uc.Commit(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// GetByID godoc
// @Summary      Consultar una sesión
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/sessions/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.Get(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// ListByBoutique godoc
// @Summary      Listar sesiones de una boutique
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        boutique_id  query  string  true   "Boutique"
// @Param        limit        query  int     false  "Tamaño de página"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.SessionListResponse
// @Router       /api/inventory/sessions [get]
func (h *InventoryHandler) ListByBoutique(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	resp, err := h.uc.ListByBoutique(c.Context(), GetPrincipal(c), c.Query("boutique_id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}
