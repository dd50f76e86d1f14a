package http

import (
	"github.com/Henri-Funes/Vault-DTE/internal/application/explorer"
	"github.com/Henri-Funes/Vault-DTE/internal/application/packager"
	"github.com/Henri-Funes/Vault-DTE/internal/application/reporting"
	"github.com/Henri-Funes/Vault-DTE/internal/application/system"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Stats    *reporting.StatsUseCase
	Explorer *explorer.Explorer
	Packager *packager.Packager
	System   *system.UseCase
	Log      zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Estadísticas y caché
	statsHandler := NewStatsHandler(deps.Stats)
	api.Get("/stats", statsHandler.Stats)
	api.Get("/structure", statsHandler.Structure)
	api.Get("/sales-by-branch", statsHandler.SalesByBranch)
	api.Post("/cache/clear", statsHandler.ClearCache)
	api.Post("/cache/reload", statsHandler.ReloadCache)

	// Explorador
	explorerHandler := NewExplorerHandler(deps.Explorer)
	api.Get("/category/:name", explorerHandler.Category)
	api.Get("/search", explorerHandler.Search)
	api.Get("/file-content", explorerHandler.FileContent)

	// Clientes (la llave es receptor.nombre)
	customers := api.Group("/customers")
	customers.Get("/voided", explorerHandler.VoidedCustomers)
	customers.Get("/credit-notes", explorerHandler.CreditNoteCustomers)
	customers.Get("/:name/voided", explorerHandler.CustomerVoided)
	customers.Get("/:name/credit-notes", explorerHandler.CustomerCreditNotes)
	customers.Get("/:name/invoices", explorerHandler.CustomerInvoices)

	// Descargas ZIP
	packageHandler := NewPackageHandler(deps.Packager, deps.Log)
	pkg := api.Group("/package")
	pkg.Post("/categories", packageHandler.Categories)
	pkg.Post("/identifiers", packageHandler.Identifiers)

	// Sistema
	systemHandler := NewSystemHandler(deps.System)
	api.Get("/health", systemHandler.Health)
	api.Get("/check-updates", systemHandler.CheckUpdates)
	api.Get("/system/info", systemHandler.Info)
}
