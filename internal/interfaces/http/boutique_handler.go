package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestock-saas/gestock-api/internal/application/dto"
	"github.com/gestock-saas/gestock-api/internal/application/usecase"
)

// BoutiqueHandler maneja las peticiones HTTP de boutiques (protegido).
type BoutiqueHandler struct {
	uc *usecase.BoutiqueUseCase
}

// NewBoutiqueHandler construye el handler.
func NewBoutiqueHandler(uc *usecase.BoutiqueUseCase) *BoutiqueHandler {
	return &BoutiqueHandler{uc: uc}
}

// Create godoc
// @Summary      Crear una boutique
// @Tags         boutiques
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBoutiqueRequest  true  "name, address"
// @Success      201   {object}  dto.BoutiqueResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/boutiques [post]
func (h *BoutiqueHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBoutiqueRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Create(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID godoc
// @Summary      Consultar una boutique
// @Tags         boutiques
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la boutique"
// @Success      200  {object}  dto.BoutiqueResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boutiques/{id} [get]
func (h *BoutiqueHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetByID(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Update godoc
// @Summary      Actualizar una boutique
// @Tags         boutiques
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la boutique"
// @Param        body  body  dto.UpdateBoutiqueRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.BoutiqueResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/boutiques/{id} [put]
func (h *BoutiqueHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBoutiqueRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Update(c.Context(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// List godoc
// @Summary      Listar boutiques del tenant
// @Tags         boutiques
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.BoutiqueListResponse
// @Router       /api/boutiques [get]
func (h *BoutiqueHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	resp, err := h.uc.List(c.Context(), GetPrincipal(c), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary      Eliminar una boutique
// @Tags         boutiques
// @Security     Bearer
// @Param        id  path  string  true  "ID de la boutique"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/boutiques/{id} [delete]
func (h *BoutiqueHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetPrincipal(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
