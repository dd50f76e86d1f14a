// Package records traduce las selecciones de la API (carpeta o alias, rango de
// fechas, receptor, código) a consultas sobre el almacén de DTE.
package records

import (
	"context"
	"strings"
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/repository"
)

// Selection lo que pide un cliente de la API. Category acepta alias (H1 = SA).
type Selection struct {
	Category       string
	Categories     []string
	Dates          dte.DateRange
	ReceiverName   string
	GenerationCode string
}

// Filter resuelve alias y arma el filtro del almacén.
func (s Selection) Filter() repository.RecordFilter {
	f := repository.RecordFilter{
		Dates:        s.Dates,
		ReceiverName: s.ReceiverName,
	}
	names := s.Categories
	if s.Category != "" {
		names = append([]string{s.Category}, names...)
	}
	f.Categories = storedValues(names)
	if s.GenerationCode != "" {
		f.GenerationCodes = []string{s.GenerationCode}
	}
	return f
}

func storedValues(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, n := range names {
		for _, v := range dte.StoredCategories(n) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// Adapter único punto de acceso a los DTE para los casos de uso.
type Adapter struct {
	store repository.InvoiceRecordStore
}

// NewAdapter crea el adaptador sobre el backend configurado.
func NewAdapter(store repository.InvoiceRecordStore) *Adapter {
	return &Adapter{store: store}
}

// Store backend subyacente.
func (a *Adapter) Store() repository.InvoiceRecordStore {
	return a.store
}

// Query página de documentos ordenada por fecEmi descendente.
func (a *Adapter) Query(ctx context.Context, sel Selection, skip, limit int64) ([]*entity.InvoiceRecord, error) {
	return a.store.Find(ctx, sel.Filter(), repository.FindOptions{
		Sort:  repository.SortEmissionDesc,
		Skip:  skip,
		Limit: limit,
	})
}

// Count total de documentos de la selección.
func (a *Adapter) Count(ctx context.Context, sel Selection) (int64, error) {
	return a.store.Count(ctx, sel.Filter())
}

// Each recorre la selección completa en orden de emisión descendente.
func (a *Adapter) Each(ctx context.Context, sel Selection, fn func(*entity.InvoiceRecord) error) error {
	return a.store.Each(ctx, sel.Filter(), repository.FindOptions{Sort: repository.SortEmissionDesc}, fn)
}

// EachByGenerationCodes recorre los documentos cuyos códigos se piden.
func (a *Adapter) EachByGenerationCodes(ctx context.Context, codes []string, fn func(*entity.InvoiceRecord) error) error {
	f := repository.RecordFilter{GenerationCodes: codes}
	return a.store.Each(ctx, f, repository.FindOptions{Sort: repository.SortEmissionDesc}, fn)
}

// CountByGenerationCodes cuántos de los códigos pedidos existen.
func (a *Adapter) CountByGenerationCodes(ctx context.Context, codes []string) (int64, error) {
	return a.store.Count(ctx, repository.RecordFilter{GenerationCodes: codes})
}

// FindByGenerationCode devuelve domain.ErrRecordNotFound si no existe.
func (a *Adapter) FindByGenerationCode(ctx context.Context, code string) (*entity.InvoiceRecord, error) {
	f := repository.RecordFilter{GenerationCodes: []string{code}}
	return a.store.FindOne(ctx, f, repository.FindOptions{})
}

// FindByFileName resuelve un documento a partir del nombre de un archivo virtual
// (base sin extensión) o de su ruta relativa.
func (a *Adapter) FindByFileName(ctx context.Context, relPath string) (*entity.InvoiceRecord, error) {
	name := relPath
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	base := strings.TrimSuffix(strings.TrimSuffix(name, ".json"), ".pdf")
	pdfPath := strings.TrimSuffix(relPath, ".json") + ".pdf"
	ref := &repository.RecordRef{
		GenerationCode: base,
		PDFFileNames:   []string{base + ".pdf", base},
		PDFPath:        pdfPath,
	}
	return a.store.FindOne(ctx, repository.RecordFilter{Ref: ref}, repository.FindOptions{})
}

// Search subcadena literal sobre código de generación, nombre del PDF y número de control.
func (a *Adapter) Search(ctx context.Context, term string, limit int64) ([]*entity.InvoiceRecord, error) {
	f := repository.RecordFilter{Text: term}
	return a.store.Find(ctx, f, repository.FindOptions{Sort: repository.SortEmissionDesc, Limit: limit})
}

// Totals agregado por sucursal y categoría dentro del rango.
func (a *Adapter) Totals(ctx context.Context, sel Selection) ([]repository.GroupTotals, error) {
	return a.store.AggregateByCategory(ctx, sel.Filter())
}

// Receivers receptores de una carpeta con su cantidad de documentos.
func (a *Adapter) Receivers(ctx context.Context, category string) ([]repository.ReceiverCount, error) {
	f := Selection{Category: category}.Filter()
	f.WithReceiver = true
	return a.store.AggregateByReceiver(ctx, f)
}

// MigratedSince cantidad de documentos migrados desde since y el más reciente.
func (a *Adapter) MigratedSince(ctx context.Context, since time.Time) (int64, *entity.InvoiceRecord, error) {
	f := repository.RecordFilter{MigratedSince: &since}
	n, err := a.store.Count(ctx, f)
	if err != nil || n == 0 {
		return n, nil, err
	}
	latest, err := a.store.FindOne(ctx, f, repository.FindOptions{Sort: repository.SortMigratedDesc})
	if err != nil {
		return n, nil, err
	}
	return n, latest, nil
}

// Ping verifica la conexión del backend.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.store.Ping(ctx)
}
