package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/application/token"
)

// TokenHandler administra los tokens de la API pública (solo admin).
type TokenHandler struct {
	uc *token.UseCase
}

// NewTokenHandler construye el handler.
func NewTokenHandler(uc *token.UseCase) *TokenHandler {
	return &TokenHandler{uc: uc}
}

// Create godoc
// @Summary      Emitir token de la API pública; el secreto solo viaja acá
// @Tags         tokens
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTokenRequest  true  "Nombre, acceso y vencimiento"
// @Success      201   {object}  dto.TokenResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tokens [post]
func (h *TokenHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTokenRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar tokens emitidos (sin secretos)
// @Tags         tokens
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.TokenListResponse
// @Router       /api/tokens [get]
func (h *TokenHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Revocar un token; los del sistema no se pueden revocar
// @Tags         tokens
// @Security     Bearer
// @Param        id   path  string  true  "ID del token"
// @Success      204  "sin contenido"
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/tokens/{id} [delete]
func (h *TokenHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
