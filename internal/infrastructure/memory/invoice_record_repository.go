// Package memory es el backend en memoria: carga facturas.json (modo demo) y
// sirve las mismas consultas que los backends de base de datos.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/Henri-Funes/Vault-DTE/internal/domain"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// InvoiceRecordRepository guarda los DTE en un slice protegido por RWMutex.
type InvoiceRecordRepository struct {
	mu      sync.RWMutex
	records []*entity.InvoiceRecord
}

var (
	_ repository.InvoiceRecordStore  = (*InvoiceRecordRepository)(nil)
	_ repository.InvoiceRecordWriter = (*InvoiceRecordRepository)(nil)
)

// NewInvoiceRecordRepository crea el repositorio con los documentos dados.
func NewInvoiceRecordRepository(records ...*entity.InvoiceRecord) *InvoiceRecordRepository {
	return &InvoiceRecordRepository{records: records}
}

// LoadFile lee un arreglo JSON de DTE (el formato que escribe vaultctl seed).
func LoadFile(path string) (*InvoiceRecordRepository, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("memory.LoadFile: %w", err)
	}
	var records []*entity.InvoiceRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("memory.LoadFile: decodificar %s: %w", path, err)
	}
	return NewInvoiceRecordRepository(records...), nil
}

// SaveFile escribe los documentos actuales en formato JSON indentado.
func (r *InvoiceRecordRepository) SaveFile(path string) error {
	r.mu.RLock()
	raw, err := json.MarshalIndent(r.records, "", "  ")
	r.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("memory.SaveFile: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("memory.SaveFile: %w", err)
	}
	return nil
}

func (r *InvoiceRecordRepository) Name() string { return "memory" }

func (r *InvoiceRecordRepository) Find(ctx context.Context, f repository.RecordFilter, opts repository.FindOptions) ([]*entity.InvoiceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.selectRecords(f, opts), nil
}

func (r *InvoiceRecordRepository) Each(ctx context.Context, f repository.RecordFilter, opts repository.FindOptions, fn func(*entity.InvoiceRecord) error) error {
	for _, rec := range r.selectRecords(f, opts) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *InvoiceRecordRepository) FindOne(ctx context.Context, f repository.RecordFilter, opts repository.FindOptions) (*entity.InvoiceRecord, error) {
	opts.Limit = 1
	out, err := r.Find(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.ErrRecordNotFound
	}
	return out[0], nil
}

func (r *InvoiceRecordRepository) Count(ctx context.Context, f repository.RecordFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m := newMatcher(f)
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, rec := range r.records {
		if m.match(rec) {
			n++
		}
	}
	return n, nil
}

func (r *InvoiceRecordRepository) AggregateByCategory(ctx context.Context, f repository.RecordFilter) ([]repository.GroupTotals, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type key struct{ branch, category string }
	groups := make(map[key]*repository.GroupTotals)
	for _, rec := range r.selectRecords(f, repository.FindOptions{}) {
		k := key{rec.Branch, rec.Category}
		g, ok := groups[k]
		if !ok {
			g = &repository.GroupTotals{Branch: k.branch, Category: k.category, TotalToPay: decimal.Zero}
			groups[k] = g
		}
		g.Count++
		if rec.HasBackupPDF {
			g.WithPDF++
		}
		g.TotalToPay = g.TotalToPay.Add(rec.Summary.TotalToPay)
	}
	out := make([]repository.GroupTotals, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Branch != out[j].Branch {
			return out[i].Branch < out[j].Branch
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (r *InvoiceRecordRepository) AggregateByReceiver(ctx context.Context, f repository.RecordFilter) ([]repository.ReceiverCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for _, rec := range r.selectRecords(f, repository.FindOptions{}) {
		if rec.Receiver.Name == "" {
			continue
		}
		counts[rec.Receiver.Name]++
	}
	out := make([]repository.ReceiverCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, repository.ReceiverCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *InvoiceRecordRepository) Ping(ctx context.Context) error { return ctx.Err() }

func (r *InvoiceRecordRepository) Close(context.Context) error { return nil }

// ── Escritura ───────────────────────────────────────────────────────────────

// InsertMany agrega los documentos omitiendo códigos de generación repetidos.
func (r *InvoiceRecordRepository) InsertMany(ctx context.Context, records []*entity.InvoiceRecord) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := make(map[string]struct{}, len(r.records))
	for _, rec := range r.records {
		existing[rec.GenerationCode()] = struct{}{}
	}
	inserted := 0
	for _, rec := range records {
		if _, ok := existing[rec.GenerationCode()]; ok {
			continue
		}
		existing[rec.GenerationCode()] = struct{}{}
		r.records = append(r.records, rec)
		inserted++
	}
	return inserted, nil
}

func (r *InvoiceRecordRepository) UpdatePDFPath(ctx context.Context, generationCode, pdfPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.GenerationCode() == generationCode {
			rec.PDFPath = pdfPath
			return nil
		}
	}
	return domain.ErrRecordNotFound
}

// ── Consulta ────────────────────────────────────────────────────────────────

func (r *InvoiceRecordRepository) selectRecords(f repository.RecordFilter, opts repository.FindOptions) []*entity.InvoiceRecord {
	m := newMatcher(f)
	r.mu.RLock()
	var out []*entity.InvoiceRecord
	for _, rec := range r.records {
		if m.match(rec) {
			out = append(out, rec)
		}
	}
	r.mu.RUnlock()

	switch opts.Sort {
	case repository.SortEmissionDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].EmissionDate() > out[j].EmissionDate()
		})
	case repository.SortMigratedDesc:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].MigratedAt, out[j].MigratedAt
			if a == nil || b == nil {
				return b == nil && a != nil
			}
			return a.After(*b)
		})
	}

	if opts.Skip > 0 {
		if opts.Skip >= int64(len(out)) {
			return nil
		}
		out = out[opts.Skip:]
	}
	if opts.Limit > 0 && int64(len(out)) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

type matcher struct {
	f    repository.RecordFilter
	text string
	fold cases.Caser
}

func newMatcher(f repository.RecordFilter) *matcher {
	m := &matcher{f: f, fold: cases.Fold()}
	if f.Text != "" {
		m.text = m.fold.String(f.Text)
	}
	return m
}

func (m *matcher) match(rec *entity.InvoiceRecord) bool {
	f := m.f
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, rec.Category) {
		return false
	}
	if !f.Dates.Contains(rec.EmissionDate()) {
		return false
	}
	if f.ReceiverName != "" && rec.Receiver.Name != f.ReceiverName {
		return false
	}
	if f.WithReceiver && rec.Receiver.Name == "" {
		return false
	}
	if len(f.GenerationCodes) > 0 && !slices.Contains(f.GenerationCodes, rec.GenerationCode()) {
		return false
	}
	if f.MigratedSince != nil && (rec.MigratedAt == nil || rec.MigratedAt.Before(*f.MigratedSince)) {
		return false
	}
	if m.text != "" && !m.containsText(rec) {
		return false
	}
	if !f.Ref.IsZero() && !matchRef(f.Ref, rec) {
		return false
	}
	return true
}

func (m *matcher) containsText(rec *entity.InvoiceRecord) bool {
	for _, field := range []string{rec.GenerationCode(), rec.PDFFileName, rec.Identification.ControlNumber} {
		if field != "" && strings.Contains(m.fold.String(field), m.text) {
			return true
		}
	}
	return false
}

func matchRef(ref *repository.RecordRef, rec *entity.InvoiceRecord) bool {
	if ref.GenerationCode != "" && rec.GenerationCode() == ref.GenerationCode {
		return true
	}
	if rec.PDFFileName != "" && slices.Contains(ref.PDFFileNames, rec.PDFFileName) {
		return true
	}
	if ref.PDFPath != "" && rec.PDFPath != "" {
		stored, _ := dte.NormalizePDFPath(rec.PDFPath)
		wanted, _ := dte.NormalizePDFPath(ref.PDFPath)
		return stored == wanted
	}
	return false
}
