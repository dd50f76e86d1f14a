// Package packager arma los ZIP de descarga: por carpetas completas o por lista
// de códigos de generación. Cada documento aporta su JSON y, si el PDF existe en
// el respaldo, también el PDF.
package packager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/application/dto"
	"github.com/Henri-Funes/Vault-DTE/internal/application/records"
	"github.com/Henri-Funes/Vault-DTE/internal/domain"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/archive"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// BackingFiles acceso a los PDF bajo la raíz del respaldo.
type BackingFiles interface {
	Open(rel string) (io.ReadCloser, int64, error)
}

// Result resumen de un ZIP generado.
type Result struct {
	Records     int
	JSONEntries int
	PDFEntries  int
	SkippedPDFs int
}

// Entries total de entradas escritas.
func (r Result) Entries() int { return r.JSONEntries + r.PDFEntries }

// Packager genera los ZIP en streaming.
type Packager struct {
	records  *records.Adapter
	files    BackingFiles
	validate *validator.Validate
	now      func() time.Time
	log      zerolog.Logger
}

// NewPackager construye el empaquetador.
func NewPackager(adapter *records.Adapter, files BackingFiles, log zerolog.Logger) *Packager {
	return &Packager{
		records:  adapter,
		files:    files,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		log:      log,
	}
}

// ── Validación (antes de escribir cualquier byte) ─────────────────────────────

// CheckCategories devuelve domain.ErrInvalidSelection si no hay carpetas.
func (p *Packager) CheckCategories(req *dto.PackageCategoriesRequest) error {
	req.Categories = compact(req.Categories)
	if err := p.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: categories", domain.ErrInvalidSelection)
	}
	return nil
}

// CheckIdentifiers devuelve domain.ErrInvalidSelection si no hay códigos.
func (p *Packager) CheckIdentifiers(req *dto.PackageIdentifiersRequest) error {
	req.Identifiers = compact(req.Identifiers)
	if err := p.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: identifiers", domain.ErrInvalidSelection)
	}
	return nil
}

// compact quita espacios, vacíos y repetidos conservando el orden.
func compact(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ── Conteo previo (antes de enviar cabeceras) ─────────────────────────────────

// CountByCategories documentos que entrarían en el ZIP por carpetas.
func (p *Packager) CountByCategories(ctx context.Context, categories []string) (int64, error) {
	n, err := p.records.Count(ctx, records.Selection{Categories: categories})
	if err != nil {
		return 0, fmt.Errorf("zip: contar carpetas: %w", err)
	}
	return n, nil
}

// CountByIdentifiers documentos existentes entre los códigos pedidos.
func (p *Packager) CountByIdentifiers(ctx context.Context, ids []string) (int64, error) {
	n, err := p.records.CountByGenerationCodes(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("zip: contar códigos: %w", err)
	}
	return n, nil
}

// ── Empaquetado ───────────────────────────────────────────────────────────────

// PackageByCategories escribe en w los documentos de las carpetas (acepta alias).
// Una carpeta sin documentos no aporta entradas.
func (p *Packager) PackageByCategories(ctx context.Context, categories []string, w io.Writer) (*Result, error) {
	req := dto.PackageCategoriesRequest{Categories: categories}
	if err := p.CheckCategories(&req); err != nil {
		return nil, err
	}
	p.log.Info().Strs("categories", req.Categories).Msg("generando ZIP por carpetas")
	return p.write(w, func(add func(*entity.InvoiceRecord) error) error {
		return p.records.Each(ctx, records.Selection{Categories: req.Categories}, add)
	})
}

// PackageByIdentifiers escribe en w los documentos con esos códigos de generación.
// Los códigos que no existen se ignoran.
func (p *Packager) PackageByIdentifiers(ctx context.Context, ids []string, w io.Writer) (*Result, error) {
	req := dto.PackageIdentifiersRequest{Identifiers: ids}
	if err := p.CheckIdentifiers(&req); err != nil {
		return nil, err
	}
	p.log.Info().Int("identifiers", len(req.Identifiers)).Msg("generando ZIP por códigos")
	return p.write(w, func(add func(*entity.InvoiceRecord) error) error {
		return p.records.EachByGenerationCodes(ctx, req.Identifiers, add)
	})
}

func (p *Packager) write(w io.Writer, each func(add func(*entity.InvoiceRecord) error) error) (*Result, error) {
	zw := archive.NewWriter(w)
	res := &Result{}
	names := make(map[string]struct{})

	err := each(func(rec *entity.InvoiceRecord) error {
		res.Records++
		return p.addRecord(zw, rec, names, res)
	})
	if err != nil {
		// sin Close: el ZIP queda sin directorio central y el cliente lo detecta como truncado
		return res, fmt.Errorf("zip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return res, err
	}
	p.log.Info().
		Int("records", res.Records).
		Int("pdf", res.PDFEntries).
		Int("skipped_pdf", res.SkippedPDFs).
		Msg("ZIP generado")
	return res, nil
}

func (p *Packager) addRecord(zw *archive.Writer, rec *entity.InvoiceRecord, names map[string]struct{}, res *Result) error {
	base := uniqueBase(path.Join(rec.Folder(), rec.BaseName()), rec.GenerationCode(), names)
	modified := p.now()
	if rec.MigratedAt != nil {
		modified = *rec.MigratedAt
	}

	doc, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar %s: %w", rec.GenerationCode(), err)
	}
	if err := zw.AddBytes(base+".json", doc, modified); err != nil {
		return err
	}
	res.JSONEntries++

	if !rec.HasBackupPDF {
		return nil
	}
	// sin ruta_pdf se usa la misma ruta que muestra el explorador
	rel := rec.VisiblePDFPath()
	body, _, err := p.files.Open(rel)
	if err != nil {
		res.SkippedPDFs++
		ev := p.log.Warn().Str("path", rel).Str("codigo", rec.GenerationCode())
		if !errors.Is(err, domain.ErrBackingFileNotFound) {
			ev = ev.Err(err)
		}
		ev.Msg("PDF no encontrado, se omite del ZIP")
		return nil
	}
	defer body.Close()
	if err := zw.AddReader(base+".pdf", body, modified); err != nil {
		return err
	}
	res.PDFEntries++
	return nil
}

// uniqueBase evita entradas repetidas cuando dos documentos comparten nombre de PDF.
func uniqueBase(base, code string, seen map[string]struct{}) string {
	if _, ok := seen[base]; ok && code != "" {
		base = base + "_" + code
	}
	seen[base] = struct{}{}
	return base
}
