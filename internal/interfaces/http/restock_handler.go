package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestock-saas/gestock-api/internal/application/dto"
	"github.com/gestock-saas/gestock-api/internal/application/restock"
)

// RestockHandler maneja las peticiones HTTP de reabastecimiento (protegido).
type RestockHandler struct {
	uc *restock.UseCase
}

// NewRestockHandler construye el handler.
func NewRestockHandler(uc *restock.UseCase) *RestockHandler {
	return &RestockHandler{uc: uc}
}

// Create godoc
// @Summary      Crear una solicitud de reabastecimiento
// @Tags         restocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRestockRequest  true  "boutique_id, product_id, quantity"
// @Success      201   {object}  dto.RestockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/restocks [post]
func (h *RestockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Create(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Approve godoc
// @Summary      Aprobar una solicitud pendiente
// @Tags         restocks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RestockResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/restocks/{id}/approve [post]
func (h *RestockHandler) Approve(c *fiber.Ctx) error {
	resp, err := h.uc.Approve(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Reject godoc
// @Summary      Rechazar una solicitud pendiente (terminal)
// @Tags         restocks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RestockResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/restocks/{id}/reject [post]
func (h *RestockHandler) Reject(c *fiber.Ctx) error {
	resp, err := h.uc.Reject(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Fulfill godoc
// @Summary      Cumplir una solicitud aprobada (acredita el stock)
// @Tags         restocks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RestockResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/restocks/{id}/fulfill [post]
func (h *RestockHandler) Fulfill(c *fiber.Ctx) error {
	resp, err := h.uc.Fulfill(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// GetByID godoc
// @Summary      Consultar una solicitud
// @Tags         restocks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RestockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/restocks/{id} [get]
func (h *RestockHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.Get(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// ListByBoutique godoc
// @Summary      Listar solicitudes de una boutique
// @Tags         restocks
// @Security     Bearer
// @Produce      json
// @Param        boutique_id  query  string  true   "Boutique"
// @Param        limit        query  int     false  "Tamaño de página"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.RestockListResponse
// @Router       /api/restocks [get]
func (h *RestockHandler) ListByBoutique(c *fiber.Ctx) error {
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
