package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tablas-api/internal/application/stats"
)

// DashboardHandler maneja el resumen de la plataforma (solo admin).
type DashboardHandler struct {
	uc *stats.UseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *stats.UseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Dashboard godoc
// @Summary      Resumen de la plataforma: conteos, ventas y alquileres del año
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
//
// No requiere parámetros; la ventana anual se calcula en el servidor.
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
