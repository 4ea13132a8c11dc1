package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tablas-api/internal/application/commerce"
	"github.com/jhoicas/Tablas-api/internal/application/dto"
	"github.com/jhoicas/Tablas-api/internal/application/pubapi"
)

// publicRoutes es la lista que publica el health de la API pública, en el
// orden en que se resuelven.
var publicRoutes = []string{
	"GET /api/public/tables",
	"GET /api/public/tables/search",
	"GET /api/public/tables/:tableId/items",
	"GET /api/public/tables/:tableId/items/:itemId",
	"GET /api/public/tables/:tableId/items/:itemId/availability",
	"GET /api/public/records",
	"GET /api/public/values/:column",
	"POST /api/public/buy",
	"POST /api/public/rent",
	"POST /api/public/release",
}

// PublicHandler sirve la API pública con token: lecturas de tablas e ítems y
// las operaciones de compra/alquiler con el token como principal. Los errores
// siempre salen como {success:false, error}.
type PublicHandler struct {
	uc       *pubapi.UseCase
	commerce *commerce.UseCase
	service  string
}

// NewPublicHandler construye el handler. service es el nombre que reporta el
// health.
func NewPublicHandler(uc *pubapi.UseCase, commerceUC *commerce.UseCase, service string) *PublicHandler {
	return &PublicHandler{uc: uc, commerce: commerceUC, service: service}
}

// Health responde el estado del servicio con las rutas publicadas. Sin auth.
// GET /api/public/health
func (h *PublicHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.PublicHealthResponse{
		Status:  "ok",
		Service: h.service,
		Routes:  publicRoutes,
	})
}

// Tables lista las tablas comerciales que el token ve.
// GET /api/public/tables
func (h *PublicHandler) Tables(c *fiber.Ctx) error {
	out, err := h.uc.Tables(GetPublicToken(c))
	if err != nil {
		return respondPublicError(c, err)
	}
	return c.JSON(out)
}

// Search lista las tablas que contienen todas las columnas pedidas.
// GET /api/public/tables/search?columns=a,b
func (h *PublicHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(GetPublicToken(c), c.Query("columns"))
	if err != nil {
		return respondPublicError(c, err)
	}
	return c.JSON(out)
}

// Items devuelve los ítems de una tabla, anidados o aplanados.
// GET /api/public/tables/:tableId/items?flat=true
func (h *PublicHandler) Items(c *fiber.Ctx) error {
	flat := c.Query("flat") == "true"
	out, err := h.uc.Items(GetPublicToken(c), c.Params("tableId"), flat)
	if err != nil {
		return respondPublicError(c, err)
	}
	return c.JSON(out)
}

// Item devuelve un ítem aplanado.
// GET /api/public/tables/:tableId/items/:itemId
func (h *PublicHandler) Item(c *fiber.Ctx) error {
	out, err := h.uc.Item(GetPublicToken(c), c.Params("tableId"), c.Params("itemId"))
	if err != nil {
		return respondPublicError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(out)
}

// Availability responde la disponibilidad de un ítem para una cantidad.
// GET /api/public/tables/:tableId/items/:itemId/availability?quantity=N
func (h *PublicHandler) Availability(c *fiber.Ctx) error {
	quantity := c.QueryInt("quantity", 1)
	out, err := h.uc.Availability(GetPublicToken(c), c.Params("tableId"), c.Params("itemId"), quantity)
	if err != nil {
		return respondPublicError(c, err)
	}
	return c.JSON(out)
}

// Records devuelve registros aplanados de todas las tablas accesibles, con
// filtros de igualdad sobre la data y proyección opcional de columnas.
// GET /api/public/records?where[col]=v&columns=a,b&limit=&offset=
func (h *PublicHandler) Records(c *fiber.Ctx) error {
	q := dto.PublicRecordsQuery{
		Where:  parseWhereParams(c),
		Limit:  c.QueryInt("limit", 100),
		Offset: c.QueryInt("offset", 0),
	}
	if cols := c.Query("columns"); cols != "" {
		for _, col := range strings.Split(cols, ",") {
			if col = strings.TrimSpace(col); col != "" {
				q.Columns = append(q.Columns, col)
			}
		}
	}
	if q.Limit > 1000 {
		q.Limit = 1000
	}
	out, err := h.uc.Records(GetPublicToken(c), q)
	if err != nil {
		return respondPublicError(c, err)
	}
	return c.JSON(out)
}

// Values devuelve los valores distintos de una columna entre las tablas
// accesibles que la tienen.
// GET /api/public/values/:column?where[col]=v
func (h *PublicHandler) Values(c *fiber.Ctx) error {
	out, err := h.uc.Values(GetPublicToken(c), c.Params("column"), parseWhereParams(c))
	if err != nil {
		return respondPublicError(c, err)
	}
	return c.JSON(out)
}

// Buy ejecuta una venta con el token como principal.
// POST /api/public/buy
func (h *PublicHandler) Buy(c *fiber.Ctx) error {
	tok := GetPublicToken(c)
	var in dto.SellItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.PublicErrorResponse{Success: false, Error: "Invalid request body"})
	}
	if in.TableID == "" || in.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.PublicErrorResponse{Success: false, Error: "tableId and itemId are required"})
	}
	if err := h.uc.CheckTableAccess(tok, in.TableID); err != nil {
		return respondPublicError(c, err)
	}
	out, err := h.commerce.Sell(c.Context(), commerce.TokenActor(tok.ID), in)
	if err != nil {
		return respondPublicError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RentItem ejecuta un alquiler con el token como principal.
// POST /api/public/rent
func (h *PublicHandler) RentItem(c *fiber.Ctx) error {
	tok := GetPublicToken(c)
	var in dto.RentItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.PublicErrorResponse{Success: false, Error: "Invalid request body"})
	}
	if in.TableID == "" || in.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.PublicErrorResponse{Success: false, Error: "tableId and itemId are required"})
	}
	if err := h.uc.CheckTableAccess(tok, in.TableID); err != nil {
		return respondPublicError(c, err)
	}
	out, err := h.commerce.Rent(c.Context(), commerce.TokenActor(tok.ID), in)
	if err != nil {
		return respondPublicError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ReleaseItem devuelve un ítem alquilado con el token como principal.
// POST /api/public/release
func (h *PublicHandler) ReleaseItem(c *fiber.Ctx) error {
	tok := GetPublicToken(c)
	var in dto.ReleaseItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.PublicErrorResponse{Success: false, Error: "Invalid request body"})
	}
	if in.TableID == "" || in.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.PublicErrorResponse{Success: false, Error: "tableId and itemId are required"})
	}
	if err := h.uc.CheckTableAccess(tok, in.TableID); err != nil {
		return respondPublicError(c, err)
	}
	out, err := h.commerce.Release(c.Context(), commerce.TokenActor(tok.ID), in)
	if err != nil {
		return respondPublicError(c, err)
	}
	return c.JSON(out)
}

// parseWhereParams extrae los filtros where[col]=valor del query string.
func parseWhereParams(c *fiber.Ctx) map[string]string {
	where := make(map[string]string)
	for k, v := range c.Queries() {
		if strings.HasPrefix(k, "where[") && strings.HasSuffix(k, "]") {
			col := k[len("where[") : len(k)-1]
			if col != "" {
				where[col] = v
			}
		}
	}
	return where
}
