package dto

import "github.com/shopspring/decimal"

// GlobalStatsDTO respuesta de GET /api/stats.
// Cada documento es un par JSON + PDF: json y pairedInvoices son el total de documentos,
// pdf los que declaran respaldo PDF.
type GlobalStatsDTO struct {
	PDF                int64                      `json:"pdf"`
	JSON               int64                      `json:"json"`
	XML                int64                      `json:"xml"`
	Images             int64                      `json:"images"`
	Other              int64                      `json:"other"`
	Total              int64                      `json:"total"` // archivos virtuales: json + pdf
	TotalSize          int64                      `json:"totalSize"`
	TotalSizeFormatted string                     `json:"totalSizeFormatted"`
	RecentFiles        int64                      `json:"recentFiles"` // emitidos ayer
	PairedInvoices     int64                      `json:"pairedInvoices"`
	Anuladas           int64                      `json:"anuladas"`
	PairedByFolder     map[string]int64           `json:"pairedByFolder"`
	CountsByCategory   map[string]int64           `json:"countsByCategory"`
	BranchDetail       map[string]BranchDetailDTO `json:"detallePorSucursal"`
	DateRange          *DateRangeDTO              `json:"dateRange,omitempty"`
}

// BranchDetailDTO conteo de una sucursal por tipo de documento.
type BranchDetailDTO struct {
	Facturas     int64 `json:"facturas"`
	Gastos       int64 `json:"gastos"`
	Remisiones   int64 `json:"remisiones"`
	NotasCredito int64 `json:"notas_credito"`
	Anuladas     int64 `json:"anuladas"`
	Total        int64 `json:"total"`
}

// StructureDTO respuesta de GET /api/structure.
type StructureDTO struct {
	Path               string      `json:"path"`
	Folders            []FolderDTO `json:"folders"`
	TotalFiles         int64       `json:"totalFiles"`
	TotalSize          int64       `json:"totalSize"`
	TotalSizeFormatted string      `json:"totalSizeFormatted"`
}

// FolderDTO carpeta virtual con su cantidad de archivos (json + pdf).
type FolderDTO struct {
	Name          string   `json:"name"`
	Path          string   `json:"path"`
	FileCount     int64    `json:"fileCount"`
	Records       int64    `json:"records"`
	Files         []string `json:"files"`
	Size          int64    `json:"size"`
	SizeFormatted string   `json:"sizeFormatted"`
}

// SalesByBranchDTO respuesta de GET /api/sales-by-branch.
type SalesByBranchDTO struct {
	Period    int                       `json:"periodo"`
	StartDate string                    `json:"fechaInicio"`
	EndDate   string                    `json:"fechaFin"`
	Branches  map[string]BranchSalesDTO `json:"ventasPorSucursal"`
}

// BranchSalesDTO ventas y devoluciones de una sucursal en el período.
type BranchSalesDTO struct {
	TotalSales decimal.Decimal `json:"totalVentas"`
	Invoices   int64           `json:"facturas"`
	Voided     int64           `json:"anuladas"`
	Refunded   decimal.Decimal `json:"devuelto"` // anuladas + notas de crédito
}

// DateRangeDTO rango de fechas aplicado a un listado.
type DateRangeDTO struct {
	DateFrom string `json:"dateFrom,omitempty"`
	DateTo   string `json:"dateTo,omitempty"`
}
