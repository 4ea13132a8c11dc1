package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tablas-api/internal/application/commerce"
	"github.com/jhoicas/Tablas-api/internal/application/dto"
)

// CommerceHandler maneja el motor de ventas y alquileres (protegido):
// operaciones sell/rent/release, ajustes de qty, asientos y el historial.
type CommerceHandler struct {
	uc      *commerce.UseCase
	receipt *commerce.ReceiptUseCase
}

// NewCommerceHandler construye el handler.
func NewCommerceHandler(uc *commerce.UseCase, receipt *commerce.ReceiptUseCase) *CommerceHandler {
	return &CommerceHandler{uc: uc, receipt: receipt}
}

// actorOf arma el principal de comercio del request autenticado.
func actorOf(c *fiber.Ctx) commerce.Actor {
	return commerce.UserActor(GetUserID(c), IsAdmin(c))
}

// Sell godoc
// @Summary      Vender un ítem de una tabla sale
// @Tags         commerce
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SellItemRequest  true  "Ítem, cantidad y comprador"
// @Success      201   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse  "sin stock o transición ilegal"
// @Router       /api/commerce/sell [post]
func (h *CommerceHandler) Sell(c *fiber.Ctx) error {
	var in dto.SellItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.TableID == "" || in.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tableId e itemId son requeridos"})
	}
	out, err := h.uc.Sell(c.Context(), actorOf(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Rent godoc
// @Summary      Alquilar un ítem de una tabla rent
// @Tags         commerce
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RentItemRequest  true  "Ítem y cliente"
// @Success      201   {object}  dto.RentalResponse
// @Failure      409   {object}  dto.ErrorResponse  "ya alquilado o ya usado"
// @Router       /api/commerce/rent [post]
func (h *CommerceHandler) Rent(c *fiber.Ctx) error {
	var in dto.RentItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.TableID == "" || in.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tableId e itemId son requeridos"})
	}
	out, err := h.uc.Rent(c.Context(), actorOf(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Release godoc
// @Summary      Devolver un ítem alquilado
// @Tags         commerce
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReleaseItemRequest  true  "Ítem a devolver"
// @Success      200   {object}  dto.RentalResponse
// @Failure      409   {object}  dto.ErrorResponse  "no está alquilado"
// @Router       /api/commerce/release [post]
func (h *CommerceHandler) Release(c *fiber.Ctx) error {
	var in dto.ReleaseItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.TableID == "" || in.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tableId e itemId son requeridos"})
	}
	out, err := h.uc.Release(c.Context(), actorOf(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de qty de una fila (recepción o merma)
// @Tags         commerce
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        tableId  path  string  true  "ID de la tabla"
// @Param        rowId    path  string  true  "ID de la fila"
// @Param        body     body  dto.AdjustQuantityRequest  true  "Delta y nota"
// @Success      200      {object}  dto.RowResponse
// @Failure      409      {object}  dto.ErrorResponse  "el ajuste dejaría qty negativa"
// @Router       /api/tables/{tableId}/rows/{rowId}/adjust [post]
func (h *CommerceHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AdjustQuantity(c.Context(), actorOf(c), c.Params("tableId"), c.Params("rowId"), in.Delta, in.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetSale godoc
// @Summary      Obtener un asiento de venta
// @Tags         commerce
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *CommerceHandler) GetSale(c *fiber.Ctx) error {
	out, err := h.uc.GetSale(actorOf(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
	}
	return c.JSON(out)
}

// ListSales godoc
// @Summary      Listar ventas de una tabla
// @Tags         commerce
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la tabla"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.SaleListResponse
// @Router       /api/tables/{id}/sales [get]
func (h *CommerceHandler) ListSales(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListSales(actorOf(c), c.Params("id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateSaleStatus godoc
// @Summary      Cambiar status/notes de una venta; el asiento es inmutable
// @Tags         commerce
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.UpdateLedgerStatusRequest  true  "Status nuevo"
// @Success      200   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/status [put]
func (h *CommerceHandler) UpdateSaleStatus(c *fiber.Ctx) error {
	var in dto.UpdateLedgerStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateSaleStatus(actorOf(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Descargar el recibo PDF de una venta
// @Tags         commerce
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    file  "PDF del recibo"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *CommerceHandler) Receipt(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.receipt.DownloadSaleReceipt(c.Context(), actorOf(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// GetRental godoc
// @Summary      Obtener un asiento de alquiler
// @Tags         commerce
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del alquiler"
// @Success      200  {object}  dto.RentalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rentals/{id} [get]
func (h *CommerceHandler) GetRental(c *fiber.Ctx) error {
	out, err := h.uc.GetRental(actorOf(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "alquiler no encontrado"})
	}
	return c.JSON(out)
}

// ListRentals godoc
// @Summary      Listar alquileres de una tabla
// @Tags         commerce
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la tabla"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.RentalListResponse
// @Router       /api/tables/{id}/rentals [get]
func (h *CommerceHandler) ListRentals(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListRentals(actorOf(c), c.Params("id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateRentalStatus godoc
// @Summary      Cambiar status/notes de un alquiler
// @Tags         commerce
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del alquiler"
// @Param        body  body  dto.UpdateLedgerStatusRequest  true  "Status nuevo"
// @Success      200   {object}  dto.RentalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/rentals/{id}/status [put]
func (h *CommerceHandler) UpdateRentalStatus(c *fiber.Ctx) error {
	var in dto.UpdateLedgerStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateRentalStatus(actorOf(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "alquiler no encontrado"})
	}
	return c.JSON(out)
}

// TableTransactions godoc
// @Summary      Historial de inventario de una tabla
// @Tags         commerce
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la tabla"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.TransactionListResponse
// @Router       /api/tables/{id}/transactions [get]
func (h *CommerceHandler) TableTransactions(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListTransactionsByTable(actorOf(c), c.Params("id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RowTransactions godoc
// @Summary      Historial de inventario de una fila
// @Tags         commerce
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la fila"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.TransactionListResponse
// @Router       /api/rows/{id}/transactions [get]
func (h *CommerceHandler) RowTransactions(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListTransactionsByRow(actorOf(c), c.Params("id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
