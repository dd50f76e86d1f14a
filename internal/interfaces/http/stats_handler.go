package http

import (
	"github.com/Henri-Funes/Vault-DTE/internal/application/reporting"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/gofiber/fiber/v2"
)

// StatsHandler estadísticas, estructura y administración de la caché.
type StatsHandler struct {
	uc *reporting.StatsUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *reporting.StatsUseCase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// Stats estadísticas globales. Sin dateFrom/dateTo se sirve desde la caché.
// GET /api/stats
func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	dates := dte.NewDateRange(c.Query("dateFrom"), c.Query("dateTo"))
	stats, err := h.uc.GlobalStats(c.UserContext(), dates)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, stats)
}

// Structure carpetas virtuales con su cantidad de archivos.
// GET /api/structure
func (h *StatsHandler) Structure(c *fiber.Ctx) error {
	st, err := h.uc.Structure(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, st)
}

// SalesByBranch ventas por sucursal en los últimos 1, 6 o 12 meses.
// GET /api/sales-by-branch?period=12
func (h *StatsHandler) SalesByBranch(c *fiber.Ctx) error {
	period := c.QueryInt("period", c.QueryInt("periodo", reporting.DefaultSalesPeriod))
	out, err := h.uc.ComputeSalesByBranch(c.UserContext(), period)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// ClearCache descarta la instantánea.
// POST /api/cache/clear
func (h *StatsHandler) ClearCache(c *fiber.Ctx) error {
	h.uc.Invalidate()
	return c.JSON(fiberMessage("Caché limpiada correctamente"))
}

// ReloadCache descarta y recalcula la instantánea.
// POST /api/cache/reload
func (h *StatsHandler) ReloadCache(c *fiber.Ctx) error {
	snap, err := h.uc.Reload(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Caché recargada correctamente",
		"data":    fiber.Map{"computedAt": snap.ComputedAt},
	})
}

func fiberMessage(msg string) fiber.Map {
	return fiber.Map{"success": true, "message": msg}
}
