package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestock-saas/gestock-api/internal/application/dto"
	"github.com/gestock-saas/gestock-api/internal/application/transfer"
)

// TransferHandler maneja las peticiones HTTP de traslados (protegido).
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Crear un traslado entre boutiques
// @Description  El traslado nace en estado created sin tocar el stock. La
//               respuesta es la única que incluye el token de entrega.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "source_boutique_id, dest_boutique_id, items"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Create(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Send godoc
// @Summary      Enviar un traslado (debita el origen)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/send [post]
func (h *TransferHandler) Send(c *fiber.Ctx) error {
	resp, err := h.uc.Send(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Receive godoc
// @Summary      Recibir un traslado por ID (acredita el destino)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	resp, err := h.uc.Receive(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// ReceiveByToken godoc
// @Summary      Recibir un traslado presentando el token de entrega
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveByTokenRequest  true  "token"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/receive-by-token [post]
func (h *TransferHandler) ReceiveByToken(c *fiber.Ctx) error {
	var in dto.ReceiveByTokenRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.ReceiveByToken(c.Context(), GetPrincipal(c), in.Token)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Cancel godoc
// @Summary      Cancelar un traslado
// @Description  Desde created no hay efecto en el libro; desde in_transit la
//               mercancía vuelve al origen. Estados terminales rechazan.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	resp, err := h.uc.Cancel(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// GetByID godoc
// @Summary      Consultar un traslado (sin token)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.Get(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// List godoc
// @Summary      Listar traslados del tenant
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.TransferListResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
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
