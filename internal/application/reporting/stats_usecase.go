// Package reporting calcula las estadísticas del respaldo: conteos por carpeta y
// sucursal, estructura de carpetas virtuales y ventas por sucursal.
//
// La vista sin filtro de fechas (estructura + estadísticas) se sirve desde una
// instantánea en caché; con filtro de fechas se consulta siempre el almacén.
package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/application/cache"
	"github.com/Henri-Funes/Vault-DTE/internal/application/dto"
	"github.com/Henri-Funes/Vault-DTE/internal/application/records"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const notAvailable = "N/A"

// Snapshot estructura y estadísticas calculadas juntas. Inmutable una vez publicada.
type Snapshot struct {
	Structure  *dto.StructureDTO
	Stats      *dto.GlobalStatsDTO
	ComputedAt time.Time
}

// StatsUseCase agrega los conteos del almacén.
type StatsUseCase struct {
	records *records.Adapter
	cache   *cache.SnapshotCache[*Snapshot]
	now     func() time.Time
	log     zerolog.Logger
}

// NewStatsUseCase construye el caso de uso con su caché de 5 minutos.
func NewStatsUseCase(adapter *records.Adapter, log zerolog.Logger) *StatsUseCase {
	uc := &StatsUseCase{records: adapter, now: time.Now, log: log}
	uc.cache = cache.New(uc.ComputeSnapshot, cache.DefaultTTL, log)
	return uc
}

// WithClock reemplaza el reloj del caso de uso y de su caché.
func (uc *StatsUseCase) WithClock(now func() time.Time) *StatsUseCase {
	uc.now = now
	uc.cache.WithClock(now)
	return uc
}

// ── Caché ───────────────────────────────────────────────────────────────────

// Snapshot instantánea vigente (la calcula si está vacía o vencida).
func (uc *StatsUseCase) Snapshot(ctx context.Context) (*Snapshot, error) {
	return uc.cache.Get(ctx)
}

// Invalidate descarta la instantánea.
func (uc *StatsUseCase) Invalidate() {
	uc.cache.Invalidate()
	uc.log.Info().Msg("caché limpiada manualmente")
}

// Reload invalida y recalcula de inmediato.
func (uc *StatsUseCase) Reload(ctx context.Context) (*Snapshot, error) {
	uc.cache.Invalidate()
	return uc.cache.Get(ctx)
}

// CacheState estado de la caché para /health.
func (uc *StatsUseCase) CacheState() cache.State {
	return uc.cache.State()
}

// ComputeSnapshot calcula estructura y estadísticas en una sola pasada sobre el agregado.
func (uc *StatsUseCase) ComputeSnapshot(ctx context.Context) (*Snapshot, error) {
	groups, recent, err := uc.aggregate(ctx, dte.DateRange{})
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Structure:  buildStructure(groups),
		Stats:      buildStats(groups, recent),
		ComputedAt: uc.now(),
	}, nil
}

// ── Estadísticas globales ───────────────────────────────────────────────────

// GlobalStats sin rango de fechas se sirve desde la caché.
func (uc *StatsUseCase) GlobalStats(ctx context.Context, dates dte.DateRange) (*dto.GlobalStatsDTO, error) {
	if dates.IsZero() {
		snap, err := uc.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return snap.Stats, nil
	}
	return uc.ComputeGlobalStats(ctx, dates)
}

// ComputeGlobalStats consulta el almacén directamente.
func (uc *StatsUseCase) ComputeGlobalStats(ctx context.Context, dates dte.DateRange) (*dto.GlobalStatsDTO, error) {
	groups, recent, err := uc.aggregate(ctx, dates)
	if err != nil {
		return nil, err
	}
	stats := buildStats(groups, recent)
	if !dates.IsZero() {
		stats.DateRange = &dto.DateRangeDTO{DateFrom: dates.From, DateTo: dates.To}
	}
	return stats, nil
}

// aggregate corre en paralelo el agregado por categoría y el conteo de ayer.
func (uc *StatsUseCase) aggregate(ctx context.Context, dates dte.DateRange) ([]repository.GroupTotals, int64, error) {
	var (
		groups []repository.GroupTotals
		recent int64
	)
	yesterday := dte.SingleDay(dte.Yesterday(uc.now()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = uc.records.Totals(gctx, records.Selection{Dates: dates})
		if err != nil {
			return fmt.Errorf("estadísticas: agregado por categoría: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		window := yesterday.Intersect(dates)
		if window.From > window.To {
			return nil
		}
		var err error
		recent, err = uc.records.Count(gctx, records.Selection{Dates: window})
		if err != nil {
			return fmt.Errorf("estadísticas: documentos recientes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return groups, recent, nil
}

func buildStats(groups []repository.GroupTotals, recent int64) *dto.GlobalStatsDTO {
	stats := &dto.GlobalStatsDTO{
		TotalSizeFormatted: notAvailable,
		RecentFiles:        recent,
		PairedByFolder:     make(map[string]int64),
		CountsByCategory:   make(map[string]int64),
		BranchDetail:       make(map[string]dto.BranchDetailDTO),
	}
	for _, f := range dte.PairedFolders() {
		stats.PairedByFolder[f] = 0
	}
	for _, b := range dte.Branches() {
		stats.BranchDetail[b] = dto.BranchDetailDTO{}
	}

	var total, withPDF int64
	for _, g := range groups {
		folder := dte.CanonicalFolder(g.Category)
		total += g.Count
		withPDF += g.WithPDF
		stats.CountsByCategory[folder] += g.Count
		if _, ok := stats.PairedByFolder[folder]; ok {
			stats.PairedByFolder[folder] += g.Count
		}
		if folder == dte.FolderAnuladas {
			stats.Anuladas += g.Count
		}

		label := branchOf(g.Branch, folder)
		detail, ok := stats.BranchDetail[label]
		if !ok {
			continue
		}
		detail.Total += g.Count
		switch {
		case dte.IsSalesFolder(folder):
			detail.Facturas += g.Count
		case folder == dte.FolderGastos:
			detail.Gastos += g.Count
		case folder == dte.FolderRemisiones:
			detail.Remisiones += g.Count
		case folder == dte.FolderNotasCredito:
			detail.NotasCredito += g.Count
		case folder == dte.FolderAnuladas:
			detail.Anuladas += g.Count
		}
		stats.BranchDetail[label] = detail
	}

	stats.JSON = total
	stats.PDF = withPDF
	stats.Total = total + withPDF
	stats.PairedInvoices = total
	return stats
}

// branchOf sucursal de un grupo: el campo sucursal y, si falta, la carpeta de ventas.
func branchOf(sucursal, folder string) string {
	if l := dte.BranchLabel(sucursal); l != "" {
		return l
	}
	return dte.BranchForFolder(folder)
}

// ── Estructura ──────────────────────────────────────────────────────────────

// Structure siempre desde la caché.
func (uc *StatsUseCase) Structure(ctx context.Context) (*dto.StructureDTO, error) {
	snap, err := uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Structure, nil
}

// ComputeStructure consulta el almacén directamente.
func (uc *StatsUseCase) ComputeStructure(ctx context.Context) (*dto.StructureDTO, error) {
	groups, err := uc.records.Totals(ctx, records.Selection{})
	if err != nil {
		return nil, fmt.Errorf("estructura: %w", err)
	}
	return buildStructure(groups), nil
}

func buildStructure(groups []repository.GroupTotals) *dto.StructureDTO {
	type counts struct{ records, pdfs int64 }
	byFolder := make(map[string]*counts)
	for _, g := range groups {
		folder := dte.CanonicalFolder(g.Category)
		c, ok := byFolder[folder]
		if !ok {
			c = &counts{}
			byFolder[folder] = c
		}
		c.records += g.Count
		c.pdfs += g.WithPDF
	}

	names := dte.Folders()
	var extra []string
	for name := range byFolder {
		if !dte.IsKnownFolder(name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	names = append(names, extra...)

	out := &dto.StructureDTO{
		Path:               "/facturas",
		Folders:            make([]dto.FolderDTO, 0, len(names)),
		TotalSizeFormatted: notAvailable,
	}
	for _, name := range names {
		c := byFolder[name]
		if c == nil {
			c = &counts{}
		}
		folder := dto.FolderDTO{
			Name:          name,
			Path:          "/facturas/" + name,
			FileCount:     c.records + c.pdfs,
			Records:       c.records,
			Files:         []string{},
			SizeFormatted: notAvailable,
		}
		out.Folders = append(out.Folders, folder)
		out.TotalFiles += folder.FileCount
	}
	return out
}
