package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/application/typechange"
)

// TypeChangeHandler maneja el flujo de cambio de tipo de tabla (protegido):
// preview consultivo y aplicación de la migración.
type TypeChangeHandler struct {
	uc *typechange.UseCase
}

// NewTypeChangeHandler construye el handler.
func NewTypeChangeHandler(uc *typechange.UseCase) *TypeChangeHandler {
	return &TypeChangeHandler{uc: uc}
}

// Preview godoc
// @Summary      Plan consultivo de migración a otro tipo de tabla
// @Tags         type-change
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true  "ID de la tabla"
// @Param        target  query  string  true  "Tipo destino (default|sale|rent)"
// @Success      200     {object}  dto.TypeChangePlanResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/tables/{id}/type-change [get]
func (h *TypeChangeHandler) Preview(c *fiber.Ctx) error {
	target := c.Query("target")
	if target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el parámetro target es requerido"})
	}
	out, err := h.uc.Preview(GetUserID(c), IsAdmin(c), c.Params("id"), target)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Apply godoc
// @Summary      Aplicar la migración de tipo con los mapeos confirmados
// @Tags         type-change
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tabla"
// @Param        body  body  dto.ApplyTypeChangeRequest  true  "Tipo destino y mapeos"
// @Success      200   {object}  dto.ApplyTypeChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tables/{id}/type-change [post]
func (h *TypeChangeHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyTypeChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.TargetType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "targetType es requerido"})
	}
	out, err := h.uc.Apply(c.Context(), GetUserID(c), IsAdmin(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
