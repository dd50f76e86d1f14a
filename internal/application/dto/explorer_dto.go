package dto

import "github.com/shopspring/decimal"

// VirtualFileDTO archivo sintetizado a partir de un documento: siempre un .json y,
// si hay respaldo, un .pdf con el mismo nombre base.
type VirtualFileDTO struct {
	Name           string  `json:"name"`
	Path           string  `json:"path"`
	Size           int64   `json:"size"`
	SizeFormatted  string  `json:"sizeFormatted"`
	Type           string  `json:"type"`
	Extension      string  `json:"extension"`
	IsDirectory    bool    `json:"isDirectory"`
	ModifiedDate   string  `json:"modifiedDate"`
	CreatedDate    string  `json:"createdDate"`
	EmissionDate   *string `json:"emissionDate"`
	GenerationCode string  `json:"codigoGeneracion"`
	Category       string  `json:"categoria"`
}

// FolderListingDTO respuesta de GET /api/category/:name.
type FolderListingDTO struct {
	Folder     string           `json:"folder"`
	Path       string           `json:"path"`
	Files      []VirtualFileDTO `json:"files"`
	Count      int              `json:"count"`
	Filtered   bool             `json:"filtered"`
	DateRange  DateRangeDTO     `json:"dateRange"`
	Pagination PaginationDTO    `json:"pagination"`
}

// PaginationDTO metadatos de página del listado.
type PaginationDTO struct {
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int64 `json:"totalPages"`
	TotalFiles    int64 `json:"totalFiles"`
	TotalFacturas int64 `json:"totalFacturas"`
	Limit         int   `json:"limit"`
	HasNextPage   bool  `json:"hasNextPage"`
	HasPrevPage   bool  `json:"hasPrevPage"`
}

// SearchResultDTO respuesta de GET /api/search.
type SearchResultDTO struct {
	Files []VirtualFileDTO `json:"files"`
	Count int              `json:"count"`
	Query string           `json:"query,omitempty"`
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// CustomerCountDTO receptor con la cantidad de documentos de una carpeta.
type CustomerCountDTO struct {
	Name  string `json:"nombre"`
	Count int64  `json:"count"`
}

// CustomerFilesDTO archivos virtuales de un receptor en una carpeta.
type CustomerFilesDTO struct {
	Customer string           `json:"cliente"`
	Files    []VirtualFileDTO `json:"facturas"`
	Count    int              `json:"count"`
}

// InvoiceSummaryDTO fila resumida del historial de un receptor.
type InvoiceSummaryDTO struct {
	GenerationCode string          `json:"codigoGeneracion"`
	ControlNumber  string          `json:"numeroControl"`
	EmissionDate   string          `json:"fecEmi"`
	TotalToPay     decimal.Decimal `json:"totalPagar"`
	Category       string          `json:"categoria_origen"`
	PDFFileName    string          `json:"nombre_archivo_pdf,omitempty"`
}

// CustomerInvoicesDTO respuesta de GET /api/customers/:name/invoices.
type CustomerInvoicesDTO struct {
	Customer string              `json:"cliente"`
	Invoices []InvoiceSummaryDTO `json:"facturas"`
	Count    int                 `json:"count"`
}
