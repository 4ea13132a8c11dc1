package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/application/schema"
)

// TableHandler maneja las peticiones HTTP para tablas dinámicas (protegido).
type TableHandler struct {
	uc     *schema.TableUseCase
	export *schema.ExportUseCase
}

// NewTableHandler construye el handler.
func NewTableHandler(uc *schema.TableUseCase, export *schema.ExportUseCase) *TableHandler {
	return &TableHandler{uc: uc, export: export}
}

// Create godoc
// @Summary      Crear tabla
// @Tags         tables
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTableRequest  true  "Datos de la tabla"
// @Success      201   {object}  dto.TableResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/tables [post]
func (h *TableHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTableRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.uc.Create(GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener tabla por ID (con columnas y conteo de filas)
// @Tags         tables
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tabla"
// @Success      200  {object}  dto.TableResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tables/{id} [get]
func (h *TableHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.uc.GetByID(GetUserID(c), IsAdmin(c), id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tabla no encontrada"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar tablas del dueño
// @Tags         tables
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.TableListResponse
// @Router       /api/tables [get]
func (h *TableHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.List(GetUserID(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar nombre, descripción o visibilidad
// @Tags         tables
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tabla"
// @Param        body  body  dto.UpdateTableRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.TableResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/tables/{id} [put]
func (h *TableHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.UpdateTableRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(GetUserID(c), IsAdmin(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tabla no encontrada"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar tabla con columnas, filas e historial
// @Tags         tables
// @Security     Bearer
// @Param        id   path  string  true  "ID de la tabla"
// @Success      204  "sin contenido"
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tables/{id} [delete]
func (h *TableHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetUserID(c), IsAdmin(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportXML godoc
// @Summary      Exportar la tabla completa (esquema y filas) como XML
// @Tags         tables
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  string  true  "ID de la tabla"
// @Success      200  {string}  string  "documento XML"
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tables/{id}/export.xml [get]
func (h *TableHandler) ExportXML(c *fiber.Ctx) error {
	xmlBytes, filename, err := h.export.ExportTableXML(GetUserID(c), IsAdmin(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(xmlBytes)
}
