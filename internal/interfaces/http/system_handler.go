package http

import (
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/application/system"
	"github.com/gofiber/fiber/v2"
)

// SystemHandler salud, sondeo de actualizaciones e información del proceso.
type SystemHandler struct {
	uc *system.UseCase
}

// NewSystemHandler construye el handler.
func NewSystemHandler(uc *system.UseCase) *SystemHandler {
	return &SystemHandler{uc: uc}
}

// Health responde siempre 200; storeConnected indica si el almacén contesta.
// GET /api/health
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	return ok(c, h.uc.Health(c.UserContext()))
}

// CheckUpdates GET /api/check-updates?since=RFC3339
// Un since inválido usa la ventana por defecto.
func (h *SystemHandler) CheckUpdates(c *fiber.Ctx) error {
	var since time.Time
	if raw := c.Query("since"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			since = t
		}
	}
	out, err := h.uc.CheckUpdates(c.UserContext(), since)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// Info GET /api/system/info
func (h *SystemHandler) Info(c *fiber.Ctx) error {
	return ok(c, h.uc.SystemInfo())
}
