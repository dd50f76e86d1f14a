package explorer

import (
	"context"
	"fmt"

	"github.com/Henri-Funes/Vault-DTE/internal/application/dto"
	"github.com/Henri-Funes/Vault-DTE/internal/application/records"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
)

// DefaultCustomerInvoicesLimit tope del historial de un receptor.
const DefaultCustomerInvoicesLimit = 100

// ── Historial por receptor (la llave es receptor.nombre) ───────────────────

// CustomersIn receptores con documentos en la carpeta, de mayor a menor cantidad.
func (e *Explorer) CustomersIn(ctx context.Context, folder string) ([]dto.CustomerCountDTO, error) {
	counts, err := e.records.Receivers(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("clientes: %s: %w", folder, err)
	}
	out := make([]dto.CustomerCountDTO, 0, len(counts))
	for _, c := range counts {
		out = append(out, dto.CustomerCountDTO{Name: c.Name, Count: c.Count})
	}
	return out, nil
}

// CustomerFiles archivos virtuales de un receptor en la carpeta, más recientes primero.
func (e *Explorer) CustomerFiles(ctx context.Context, name, folder string) (*dto.CustomerFilesDTO, error) {
	files := []dto.VirtualFileDTO{}
	sel := records.Selection{Category: folder, ReceiverName: name}
	err := e.records.Each(ctx, sel, func(rec *entity.InvoiceRecord) error {
		files = append(files, VirtualFiles(rec)...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("clientes: %s en %s: %w", name, folder, err)
	}
	return &dto.CustomerFilesDTO{Customer: name, Files: files, Count: len(files)}, nil
}

// CustomerInvoices filas resumidas de todos los documentos del receptor.
// category es opcional; limit < 1 usa el tope por defecto.
func (e *Explorer) CustomerInvoices(ctx context.Context, name, category string, limit int) (*dto.CustomerInvoicesDTO, error) {
	if limit < 1 {
		limit = DefaultCustomerInvoicesLimit
	}
	recs, err := e.records.Query(ctx, records.Selection{Category: category, ReceiverName: name}, 0, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("clientes: historial de %s: %w", name, err)
	}
	rows := make([]dto.InvoiceSummaryDTO, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, dto.InvoiceSummaryDTO{
			GenerationCode: rec.GenerationCode(),
			ControlNumber:  rec.Identification.ControlNumber,
			EmissionDate:   rec.EmissionDate(),
			TotalToPay:     rec.Summary.TotalToPay,
			Category:       rec.Category,
			PDFFileName:    rec.PDFFileName,
		})
	}
	return &dto.CustomerInvoicesDTO{Customer: name, Invoices: rows, Count: len(rows)}, nil
}
