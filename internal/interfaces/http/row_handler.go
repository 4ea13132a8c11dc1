package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/application/schema"
)

// RowHandler maneja las peticiones HTTP para filas (protegido). Las
// escrituras devuelven advertencias de validación; nunca bloquean por data
// inválida.
type RowHandler struct {
	uc *schema.RowUseCase
}

// NewRowHandler construye el handler.
func NewRowHandler(uc *schema.RowUseCase) *RowHandler {
	return &RowHandler{uc: uc}
}

// Create godoc
// @Summary      Insertar fila en una tabla
// @Tags         rows
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tabla"
// @Param        body  body  dto.CreateRowRequest  true  "Objeto data de la fila"
// @Success      201   {object}  dto.RowWriteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tables/{id}/rows [post]
func (h *RowHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRowRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "data es requerido"})
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), IsAdmin(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener fila por ID
// @Tags         rows
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la fila"
// @Success      200  {object}  dto.RowResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rows/{id} [get]
func (h *RowHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetUserID(c), IsAdmin(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "fila no encontrada"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar filas de una tabla
// @Tags         rows
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la tabla"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.RowListResponse
// @Router       /api/tables/{id}/rows [get]
func (h *RowHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(GetUserID(c), IsAdmin(c), c.Params("id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Reemplazar la data de una fila
// @Tags         rows
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la fila"
// @Param        body  body  dto.UpdateRowRequest  true  "Objeto data nuevo"
// @Success      200   {object}  dto.RowWriteResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/rows/{id} [put]
func (h *RowHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRowRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "data es requerido"})
	}
	out, err := h.uc.Update(c.Context(), GetUserID(c), IsAdmin(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar una fila (con registro en el historial)
// @Tags         rows
// @Security     Bearer
// @Param        id   path  string  true  "ID de la fila"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rows/{id} [delete]
func (h *RowHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetUserID(c), IsAdmin(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteMany godoc
// @Summary      Borrado masivo de filas de una tabla
// @Tags         rows
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tabla"
// @Param        body  body  dto.DeleteRowsRequest  true  "IDs de las filas"
// @Success      200   {object}  dto.DeleteRowsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tables/{id}/rows/delete [post]
func (h *RowHandler) DeleteMany(c *fiber.Ctx) error {
	var in dto.DeleteRowsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ids es requerido"})
	}
	deleted, err := h.uc.DeleteMany(c.Context(), GetUserID(c), IsAdmin(c), c.Params("id"), in.IDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.DeleteRowsResponse{Deleted: deleted})
}

// Validate godoc
// @Summary      Reporte de validación de todas las filas de la tabla
// @Tags         rows
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tabla"
// @Success      200  {object}  dto.DatasetValidationResponse
// @Router       /api/tables/{id}/validate [get]
func (h *RowHandler) Validate(c *fiber.Ctx) error {
	out, err := h.uc.ValidateTable(GetUserID(c), IsAdmin(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cleanup godoc
// @Summary      Borrar las filas actualmente inválidas de la tabla
// @Tags         rows
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tabla"
// @Success      200  {object}  dto.CleanupResponse
// @Router       /api/tables/{id}/cleanup [post]
func (h *RowHandler) Cleanup(c *fiber.Ctx) error {
	out, err := h.uc.CleanupInvalid(c.Context(), GetUserID(c), IsAdmin(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
