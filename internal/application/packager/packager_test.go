package packager_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"testing"

	"github.com/Henri-Funes/Vault-DTE/internal/application/dto"
	"github.com/Henri-Funes/Vault-DTE/internal/application/packager"
	"github.com/Henri-Funes/Vault-DTE/internal/application/records"
	"github.com/Henri-Funes/Vault-DTE/internal/domain"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/repository"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/backup"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(code, category, pdfPath string) *entity.InvoiceRecord {
	return &entity.InvoiceRecord{
		Identification: entity.Identification{GenerationCode: code, EmissionDate: "2024-03-01"},
		Category:       category,
		HasBackupPDF:   pdfPath != "",
		PDFPath:        pdfPath,
	}
}

func newPackager(t *testing.T, recs ...*entity.InvoiceRecord) *packager.Packager {
	t.Helper()
	root := backup.NewRootFs(afero.NewMemMapFs(), "mem")
	require.NoError(t, root.WriteFile("SA/A.pdf", []byte("%PDF A")))
	require.NoError(t, root.WriteFile("SM/C.pdf", []byte("%PDF C")))
	adapter := records.NewAdapter(memory.NewInvoiceRecordRepository(recs...))
	return packager.NewPackager(adapter, root, zerolog.Nop())
}

func fixtures() []*entity.InvoiceRecord {
	return []*entity.InvoiceRecord{
		rec("A", "SA", "SA/A.pdf"),
		rec("B", "H1", "SA/B.pdf"), // el PDF no está en disco
		rec("C", "SM", `SM\C.pdf`),
		rec("D", "anuladas", ""),
	}
}

func entries(t *testing.T, buf *bytes.Buffer) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err, "el ZIP debe ser válido")
	out := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		assert.Equal(t, zip.Deflate, f.Method)
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = body
	}
	return out
}

func names(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ── Por carpetas ────────────────────────────────────────────────────────────

func TestPackageByCategories_JSONyPDFDisponibles(t *testing.T) {
	p := newPackager(t, fixtures()...)
	var buf bytes.Buffer

	res, err := p.PackageByCategories(context.Background(), []string{"SA", "SM"}, &buf)
	require.NoError(t, err)

	got := entries(t, &buf)
	assert.Equal(t, []string{"SA/A.json", "SA/A.pdf", "SA/B.json", "SM/C.json", "SM/C.pdf"}, names(got))
	assert.Equal(t, "%PDF A", string(got["SA/A.pdf"]))
	assert.Equal(t, 3, res.Records)
	assert.Equal(t, 2, res.PDFEntries)
	assert.Equal(t, 1, res.SkippedPDFs, "el PDF faltante se omite sin abortar")
	assert.Equal(t, 5, res.Entries())

	var doc map[string]any
	require.NoError(t, json.Unmarshal(got["SA/B.json"], &doc))
	assert.Equal(t, "H1", doc["categoria_origen"])
	assert.Contains(t, string(got["SA/B.json"]), "\n  \"identificacion\"", "JSON indentado")
}

func TestPackageByCategories_SinCoincidenciasZipVacio(t *testing.T) {
	p := newPackager(t)
	var buf bytes.Buffer

	res, err := p.PackageByCategories(context.Background(), []string{"SA"}, &buf)
	require.NoError(t, err)
	assert.Zero(t, res.Entries())
	assert.Empty(t, entries(t, &buf))
}

func TestPackageByCategories_SeleccionVaciaNoEscribe(t *testing.T) {
	p := newPackager(t, fixtures()...)

	for _, sel := range [][]string{nil, {}, {"", "  "}} {
		var buf bytes.Buffer
		_, err := p.PackageByCategories(context.Background(), sel, &buf)
		assert.ErrorIs(t, err, domain.ErrInvalidSelection)
		assert.Zero(t, buf.Len(), "no se emite ningún byte")
	}
}

// ── Por códigos ─────────────────────────────────────────────────────────────

func TestPackageByIdentifiers(t *testing.T) {
	p := newPackager(t, fixtures()...)
	var buf bytes.Buffer

	res, err := p.PackageByIdentifiers(context.Background(), []string{"C", "D", "NO-EXISTE", "C"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"SM/C.json", "SM/C.pdf", "anuladas/D.json"}, names(entries(t, &buf)))
	assert.Equal(t, 2, res.Records)

	var empty bytes.Buffer
	_, err = p.PackageByIdentifiers(context.Background(), nil, &empty)
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.Zero(t, empty.Len())
}

func TestPackage_NombresRepetidosNoSePisan(t *testing.T) {
	a := rec("A", "SA", "")
	a.PDFFileName = "FACTURA.pdf"
	b := rec("B", "SA", "")
	b.PDFFileName = "FACTURA.pdf"
	p := newPackager(t, a, b)
	var buf bytes.Buffer

	_, err := p.PackageByCategories(context.Background(), []string{"SA"}, &buf)
	require.NoError(t, err)
	got := names(entries(t, &buf))
	assert.Len(t, got, 2)
	assert.Contains(t, got, "SA/FACTURA.json")
}

// ── Errores del almacén ─────────────────────────────────────────────────────

func TestPackage_AlmacenNoDisponible(t *testing.T) {
	store := records.NewUnavailableStore("mongo", errors.New("timeout"))
	p := packager.NewPackager(records.NewAdapter(store), nil, zerolog.Nop())

	_, err := p.PackageByCategories(context.Background(), []string{"SA"}, io.Discard)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestPackage_ConteoPrevioAlmacenNoDisponible(t *testing.T) {
	store := records.NewUnavailableStore("mongo", errors.New("timeout"))
	p := packager.NewPackager(records.NewAdapter(store), nil, zerolog.Nop())

	_, err := p.CountByCategories(context.Background(), []string{"SA"})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	_, err = p.CountByIdentifiers(context.Background(), []string{"A"})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestPackage_ConteoPrevio(t *testing.T) {
	p := newPackager(t, fixtures()...)

	n, err := p.CountByCategories(context.Background(), []string{"SA"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "H1 cuenta como SA")

	n, err = p.CountByIdentifiers(context.Background(), []string{"C", "NO-EXISTE"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

// failingStore entrega el primer documento y luego pierde la conexión.
type failingStore struct {
	*memory.InvoiceRecordRepository
}

func (s failingStore) Each(ctx context.Context, f repository.RecordFilter, opts repository.FindOptions, fn func(*entity.InvoiceRecord) error) error {
	recs, err := s.Find(ctx, f, opts)
	if err != nil {
		return err
	}
	if len(recs) > 0 {
		if err := fn(recs[0]); err != nil {
			return err
		}
	}
	return domain.ErrStoreUnavailable
}

func TestPackage_CorteAMitadNoCierraElZip(t *testing.T) {
	store := failingStore{memory.NewInvoiceRecordRepository(fixtures()...)}
	root := backup.NewRootFs(afero.NewMemMapFs(), "mem")
	p := packager.NewPackager(records.NewAdapter(store), root, zerolog.Nop())
	var buf bytes.Buffer

	res, err := p.PackageByCategories(context.Background(), []string{"SA"}, &buf)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, 1, res.Records)

	_, err = zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.Error(t, err, "sin directorio central el ZIP no debe parecer completo")
}

// ── PDF con respaldo pero sin ruta ──────────────────────────────────────────

func TestPackage_SinRutaUsaRutaVisible(t *testing.T) {
	a := rec("A", "SA", "")
	a.HasBackupPDF = true
	p := newPackager(t, a)
	var buf bytes.Buffer

	res, err := p.PackageByCategories(context.Background(), []string{"SA"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"SA/A.json", "SA/A.pdf"}, names(entries(t, &buf)))
	assert.Equal(t, 1, res.PDFEntries)
}

func TestPackage_SinRutaNiArchivoSeCuentaOmitido(t *testing.T) {
	x := rec("X", "SA", "")
	x.HasBackupPDF = true
	p := newPackager(t, x)
	var buf bytes.Buffer

	res, err := p.PackageByCategories(context.Background(), []string{"SA"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"SA/X.json"}, names(entries(t, &buf)))
	assert.Equal(t, 1, res.SkippedPDFs)
}

func TestCheckCategories_Compacta(t *testing.T) {
	p := newPackager(t)
	req := &dto.PackageCategoriesRequest{Categories: []string{" SA ", "SA", "", "gastos"}}

	require.NoError(t, p.CheckCategories(req))
	assert.Equal(t, []string{"SA", "gastos"}, req.Categories)
}
