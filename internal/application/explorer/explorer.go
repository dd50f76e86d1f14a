// Package explorer lista las carpetas virtuales del respaldo, busca documentos
// y resuelve el contenido (PDF o JSON) de un archivo virtual.
package explorer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Henri-Funes/Vault-DTE/internal/application/dto"
	"github.com/Henri-Funes/Vault-DTE/internal/application/records"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SearchLimit máximo de documentos devueltos por una búsqueda.
const SearchLimit = 100

// BackingFiles acceso a los PDF bajo la raíz del respaldo.
type BackingFiles interface {
	Open(rel string) (io.ReadCloser, int64, error)
}

// Explorer casos de uso de navegación.
type Explorer struct {
	records *records.Adapter
	files   BackingFiles
	log     zerolog.Logger
}

// NewExplorer construye el explorador.
func NewExplorer(adapter *records.Adapter, files BackingFiles, log zerolog.Logger) *Explorer {
	return &Explorer{records: adapter, files: files, log: log}
}

// ListCategory página de archivos virtuales de una carpeta (acepta alias).
// Una carpeta desconocida se consulta literal y devuelve una lista vacía.
func (e *Explorer) ListCategory(ctx context.Context, category string, dates dte.DateRange, page dto.PageRequest) (*dto.FolderListingDTO, error) {
	page.Normalize()
	sel := records.Selection{Category: category, Dates: dates}

	var (
		total int64
		recs  []*entity.InvoiceRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = e.records.Count(gctx, sel)
		return err
	})
	g.Go(func() error {
		var err error
		recs, err = e.records.Query(gctx, sel, page.Skip(), int64(page.Limit))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("explorador: carpeta %s: %w", category, err)
	}

	folder := dte.CanonicalFolder(category)
	files := expand(recs)
	totalPages := (total + int64(page.Limit) - 1) / int64(page.Limit)

	e.log.Debug().Str("folder", folder).Int("page", page.Page).Int64("total", total).Msg("carpeta listada")
	return &dto.FolderListingDTO{
		Folder:    folder,
		Path:      "/facturas/" + folder,
		Files:     files,
		Count:     len(files),
		Filtered:  !dates.IsZero(),
		DateRange: dto.DateRangeDTO{DateFrom: dates.From, DateTo: dates.To},
		Pagination: dto.PaginationDTO{
			CurrentPage:   page.Page,
			TotalPages:    totalPages,
			TotalFiles:    total * 2,
			TotalFacturas: total,
			Limit:         page.Limit,
			HasNextPage:   int64(page.Page) < totalPages,
			HasPrevPage:   page.Page > 1,
		},
	}, nil
}

// Search subcadena sin distinguir mayúsculas sobre código de generación, nombre del
// PDF y número de control. Un término vacío no consulta el almacén.
func (e *Explorer) Search(ctx context.Context, term string) (*dto.SearchResultDTO, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return &dto.SearchResultDTO{Files: []dto.VirtualFileDTO{}}, nil
	}
	recs, err := e.records.Search(ctx, term, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("explorador: búsqueda: %w", err)
	}
	files := expand(recs)
	e.log.Debug().Str("query", term).Int("results", len(recs)).Msg("búsqueda")
	return &dto.SearchResultDTO{Files: files, Count: len(files), Query: strings.ToLower(term)}, nil
}
