package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/application/schema"
)

// ColumnHandler maneja las peticiones HTTP para columnas (protegido). El
// preview de cambio de tipo vive acá porque opera sobre una columna, aunque
// revalida filas.
type ColumnHandler struct {
	uc    *schema.ColumnUseCase
	rowUC *schema.RowUseCase
}

// NewColumnHandler construye el handler.
func NewColumnHandler(uc *schema.ColumnUseCase, rowUC *schema.RowUseCase) *ColumnHandler {
	return &ColumnHandler{uc: uc, rowUC: rowUC}
}

// Add godoc
// @Summary      Agregar columna a una tabla
// @Tags         columns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tabla"
// @Param        body  body  dto.CreateColumnRequest  true  "Datos de la columna"
// @Success      201   {object}  dto.ColumnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tables/{id}/columns [post]
func (h *ColumnHandler) Add(c *fiber.Ctx) error {
	var in dto.CreateColumnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || in.ColumnType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y columnType son requeridos"})
	}
	out, err := h.uc.Add(GetUserID(c), IsAdmin(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar columnas de una tabla en orden de posición
// @Tags         columns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tabla"
// @Success      200  {array}  dto.ColumnResponse
// @Router       /api/tables/{id}/columns [get]
func (h *ColumnHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(GetUserID(c), IsAdmin(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener columna por ID
// @Tags         columns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la columna"
// @Success      200  {object}  dto.ColumnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/columns/{id} [get]
func (h *ColumnHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetUserID(c), IsAdmin(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "columna no encontrada"})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar columna; el rename cascadea a la data de las filas
// @Tags         columns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la columna"
// @Param        body  body  dto.UpdateColumnRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.RenameColumnResult
// @Failure      409   {object}  dto.ErrorResponse  "columna protegida o nombre duplicado"
// @Router       /api/columns/{id} [put]
func (h *ColumnHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateColumnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), GetUserID(c), IsAdmin(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar columna; las claves huérfanas en la data quedan
// @Tags         columns
// @Security     Bearer
// @Param        id   path  string  true  "ID de la columna"
// @Success      204  "sin contenido"
// @Failure      409  {object}  dto.ErrorResponse  "columna protegida"
// @Router       /api/columns/{id} [delete]
func (h *ColumnHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetUserID(c), IsAdmin(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Swap godoc
// @Summary      Intercambiar la posición de dos columnas atómicamente
// @Tags         columns
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID de la tabla"
// @Param        body  body  dto.SwapPositionsRequest  true  "IDs de las columnas"
// @Success      204   "sin contenido"
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/tables/{id}/columns/swap [post]
func (h *ColumnHandler) Swap(c *fiber.Ctx) error {
	var in dto.SwapPositionsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ColumnA == "" || in.ColumnB == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "columnA y columnB son requeridos"})
	}
	if err := h.uc.Swap(c.Context(), GetUserID(c), IsAdmin(c), c.Params("id"), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Recount godoc
// @Summary      Renormalizar posiciones a una secuencia densa
// @Tags         columns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tabla"
// @Success      200  {array}  dto.ColumnResponse
// @Router       /api/tables/{id}/columns/recount [post]
func (h *ColumnHandler) Recount(c *fiber.Ctx) error {
	out, err := h.uc.Recount(c.Context(), GetUserID(c), IsAdmin(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PreviewType godoc
// @Summary      Revalidar la columna contra un tipo hipotético sin mutar nada
// @Tags         columns
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true  "ID de la columna"
// @Param        type  query  string  true  "Tipo destino"
// @Success      200   {object}  dto.TypePreviewResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/columns/{id}/preview-type [get]
func (h *ColumnHandler) PreviewType(c *fiber.Ctx) error {
	newType := c.Query("type")
	if newType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el parámetro type es requerido"})
	}
	out, err := h.rowUC.PreviewColumnType(GetUserID(c), IsAdmin(c), c.Params("id"), newType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
