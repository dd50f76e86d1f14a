package http

import (
	"github.com/Henri-Funes/Vault-DTE/internal/application/dto"
	"github.com/Henri-Funes/Vault-DTE/internal/application/explorer"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/gofiber/fiber/v2"
)

// ExplorerHandler navegación de carpetas, búsqueda, contenido e historial por cliente.
type ExplorerHandler struct {
	ex *explorer.Explorer
}

// NewExplorerHandler construye el handler.
func NewExplorerHandler(ex *explorer.Explorer) *ExplorerHandler {
	return &ExplorerHandler{ex: ex}
}

// Category lista paginada de archivos virtuales.
// GET /api/category/:name?page=&limit=&dateFrom=&dateTo=
// Parámetros inválidos toman su valor por defecto.
func (h *ExplorerHandler) Category(c *fiber.Ctx) error {
	page := dto.PageRequest{
		Page:  c.QueryInt("page", dto.DefaultPage),
		Limit: c.QueryInt("limit", dto.DefaultLimit),
	}
	dates := dte.NewDateRange(c.Query("dateFrom"), c.Query("dateTo"))
	out, err := h.ex.ListCategory(c.UserContext(), c.Params("name"), dates, page)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// Search GET /api/search?query=
func (h *ExplorerHandler) Search(c *fiber.Ctx) error {
	out, err := h.ex.Search(c.UserContext(), c.Query("query"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// FileContent devuelve el PDF en crudo o el documento JSON completo.
// GET /api/file-content?path=|generationCode=
func (h *ExplorerHandler) FileContent(c *fiber.Ctx) error {
	req := explorer.ContentRequest{
		Path:           c.Query("path"),
		GenerationCode: c.Query("generationCode", c.Query("codigoGeneracion")),
	}
	content, err := h.ex.OpenContent(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	if content.Kind == explorer.ContentJSON {
		return c.JSON(content.Record)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, contentDisposition("inline", content.Name))
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return c.SendStream(content.Body, int(content.Size))
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// VoidedCustomers GET /api/customers/voided
func (h *ExplorerHandler) VoidedCustomers(c *fiber.Ctx) error {
	return h.customersIn(c, dte.FolderAnuladas)
}

// CreditNoteCustomers GET /api/customers/credit-notes
func (h *ExplorerHandler) CreditNoteCustomers(c *fiber.Ctx) error {
	return h.customersIn(c, dte.FolderNotasCredito)
}

func (h *ExplorerHandler) customersIn(c *fiber.Ctx, folder string) error {
	out, err := h.ex.CustomersIn(c.UserContext(), folder)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// CustomerVoided GET /api/customers/:name/voided
func (h *ExplorerHandler) CustomerVoided(c *fiber.Ctx) error {
	return h.customerFiles(c, dte.FolderAnuladas)
}

// CustomerCreditNotes GET /api/customers/:name/credit-notes
func (h *ExplorerHandler) CustomerCreditNotes(c *fiber.Ctx) error {
	return h.customerFiles(c, dte.FolderNotasCredito)
}

func (h *ExplorerHandler) customerFiles(c *fiber.Ctx, folder string) error {
	out, err := h.ex.CustomerFiles(c.UserContext(), c.Params("name"), folder)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}

// CustomerInvoices historial resumido de un receptor.
// GET /api/customers/:name/invoices?category=&limit=
func (h *ExplorerHandler) CustomerInvoices(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", explorer.DefaultCustomerInvoicesLimit)
	out, err := h.ex.CustomerInvoices(c.UserContext(), c.Params("name"), c.Query("category"), limit)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, out)
}
