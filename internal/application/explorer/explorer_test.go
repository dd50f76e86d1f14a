package explorer_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/application/dto"
	"github.com/Henri-Funes/Vault-DTE/internal/application/explorer"
	"github.com/Henri-Funes/Vault-DTE/internal/application/records"
	"github.com/Henri-Funes/Vault-DTE/internal/domain"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/backup"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(code, category, date string, pdf bool) *entity.InvoiceRecord {
	r := &entity.InvoiceRecord{
		Identification: entity.Identification{
			GenerationCode: code,
			ControlNumber:  "DTE-01-M001P001-" + code,
			EmissionDate:   date,
		},
		Category:     category,
		HasBackupPDF: pdf,
		Summary:      entity.Summary{TotalToPay: decimal.NewFromInt(10)},
	}
	if pdf {
		r.PDFPath = dte.CanonicalFolder(category) + "/" + code + ".pdf"
	}
	return r
}

func withReceiver(r *entity.InvoiceRecord, name string) *entity.InvoiceRecord {
	r.Receiver.Name = name
	return r
}

func newExplorer(t *testing.T, recs ...*entity.InvoiceRecord) (*explorer.Explorer, *backup.Root) {
	t.Helper()
	root := backup.NewRootFs(afero.NewMemMapFs(), "mem")
	adapter := records.NewAdapter(memory.NewInvoiceRecordRepository(recs...))
	return explorer.NewExplorer(adapter, root, zerolog.Nop()), root
}

// ── Listado por carpeta ─────────────────────────────────────────────────────

func TestListCategory_CincoArchivosVirtuales(t *testing.T) {
	ex, _ := newExplorer(t,
		rec("A", "SA", "2024-03-01", true),
		rec("B", "SA", "2024-03-02", true),
		rec("C", "SA", "2024-03-03", false),
		rec("D", "anuladas", "2024-03-04", true),
	)

	out, err := ex.ListCategory(context.Background(), "SA", dte.DateRange{}, dto.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, out.Files, 5, "2×2 + 1")
	assert.Equal(t, 5, out.Count)
	assert.Equal(t, "SA", out.Folder)
	assert.Equal(t, "/facturas/SA", out.Path)
	assert.False(t, out.Filtered)
	assert.Equal(t, int64(3), out.Pagination.TotalFacturas)
	assert.Equal(t, int64(1), out.Pagination.TotalPages)
	assert.Equal(t, "C", out.Files[0].GenerationCode, "más recientes primero")
}

func TestListCategory_Paginacion(t *testing.T) {
	var recs []*entity.InvoiceRecord
	for i := 1; i <= 25; i++ {
		recs = append(recs, rec(fmt.Sprintf("C%02d", i), "SM", fmt.Sprintf("2024-01-%02d", i), false))
	}
	ex, _ := newExplorer(t, recs...)

	out, err := ex.ListCategory(context.Background(), "SM", dte.DateRange{}, dto.PageRequest{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, out.Files, 5)
	assert.Equal(t, int64(3), out.Pagination.TotalPages)
	assert.Equal(t, int64(50), out.Pagination.TotalFiles)
	assert.False(t, out.Pagination.HasNextPage)
	assert.True(t, out.Pagination.HasPrevPage)
	assert.Equal(t, "C05", out.Files[0].GenerationCode)

	for _, limit := range []int{1, 7, 10, 25, 40} {
		page, err := ex.ListCategory(context.Background(), "SM", dte.DateRange{}, dto.PageRequest{Page: 1, Limit: limit})
		require.NoError(t, err)
		want := (25 + int64(limit) - 1) / int64(limit)
		assert.Equal(t, want, page.Pagination.TotalPages, "limit=%d", limit)
		assert.LessOrEqual(t, len(page.Files), limit*2)
	}
}

func TestListCategory_ValoresPorDefecto(t *testing.T) {
	ex, _ := newExplorer(t, rec("A", "SA", "2024-03-01", false))

	out, err := ex.ListCategory(context.Background(), "SA", dte.DateRange{}, dto.PageRequest{Page: 0, Limit: -5})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Pagination.CurrentPage)
	assert.Equal(t, 100, out.Pagination.Limit)
	assert.Len(t, out.Files, 1)
}

func TestListCategory_AliasDevuelveLoMismo(t *testing.T) {
	ex, _ := newExplorer(t,
		rec("A", "SA", "2024-03-01", true),
		rec("B", "H1", "2024-03-02", false),
		rec("C", "SM", "2024-03-02", false),
	)
	page := dto.PageRequest{Page: 1, Limit: 10}

	bySA, err := ex.ListCategory(context.Background(), "SA", dte.DateRange{}, page)
	require.NoError(t, err)
	byH1, err := ex.ListCategory(context.Background(), "H1", dte.DateRange{}, page)
	require.NoError(t, err)

	assert.Equal(t, "SA", byH1.Folder)
	assert.Equal(t, bySA.Files, byH1.Files)
	assert.Equal(t, int64(2), byH1.Pagination.TotalFacturas)
}

func TestListCategory_CarpetaDesconocidaVacia(t *testing.T) {
	ex, _ := newExplorer(t, rec("A", "SA", "2024-03-01", true))

	out, err := ex.ListCategory(context.Background(), "no-existe", dte.DateRange{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, out.Files)
	assert.NotNil(t, out.Files)
	assert.Equal(t, int64(0), out.Pagination.TotalPages)
}

func TestListCategory_RangoDeFechasInclusivo(t *testing.T) {
	ex, _ := newExplorer(t,
		rec("A", "SA", "2024-02-29", false),
		rec("B", "SA", "2024-03-01", false),
		rec("C", "SA", "2024-03-31", false),
		rec("D", "SA", "2024-04-01", false),
		rec("E", "SA", "", false),
	)

	out, err := ex.ListCategory(context.Background(), "SA", dte.NewDateRange("2024-03-01", "2024-03-31"), dto.PageRequest{})
	require.NoError(t, err)
	assert.True(t, out.Filtered)
	assert.Equal(t, "2024-03-01", out.DateRange.DateFrom)
	require.Len(t, out.Files, 2)
	assert.Equal(t, "C", out.Files[0].GenerationCode)
	assert.Equal(t, "B", out.Files[1].GenerationCode)
}

// ── Archivos virtuales ──────────────────────────────────────────────────────

func TestVirtualFiles_UnoODos(t *testing.T) {
	withPDF := rec("ABC", "SA", "2024-03-01", true)
	withPDF.PDFPath = `C:\zeta2\Henri\Copia de seguridad de facturas(No borrar)\Backup\SA\DTE-77.pdf`
	withPDF.PDFFileName = "DTE-77.pdf"
	migrated := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	withPDF.MigratedAt = &migrated

	files := explorer.VirtualFiles(withPDF)
	require.Len(t, files, 2)
	assert.Equal(t, "DTE-77.json", files[0].Name)
	assert.Equal(t, "SA/DTE-77.json", files[0].Path)
	assert.Equal(t, "DTE-77.pdf", files[1].Name)
	assert.Equal(t, "SA/DTE-77.pdf", files[1].Path)
	assert.Equal(t, "pdf", files[1].Type)
	assert.Equal(t, "ABC", files[1].GenerationCode)
	require.NotNil(t, files[1].EmissionDate)
	assert.Equal(t, "2024-03-01", *files[1].EmissionDate)
	assert.Equal(t, "2024-03-02T08:00:00Z", files[0].ModifiedDate)

	noPDF := rec("XYZ", "H2", "", false)
	files = explorer.VirtualFiles(noPDF)
	require.Len(t, files, 1)
	assert.Equal(t, "SM/XYZ.json", files[0].Path)
	assert.Nil(t, files[0].EmissionDate)

	anonymous := &entity.InvoiceRecord{Category: "gastos"}
	files = explorer.VirtualFiles(anonymous)
	assert.Equal(t, dte.FallbackBaseName+".json", files[0].Name)
}

// ── Búsqueda ────────────────────────────────────────────────────────────────

func TestSearch_TerminoVacioNoConsulta(t *testing.T) {
	store := records.NewUnavailableStore("mongo", errors.New("sin conexión"))
	ex := explorer.NewExplorer(records.NewAdapter(store), nil, zerolog.Nop())

	out, err := ex.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, out.Files)
	assert.NotNil(t, out.Files)
	assert.Zero(t, out.Count)

	_, err = ex.Search(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestSearch_SinDistinguirMayusculas(t *testing.T) {
	named := rec("0001-AAAA", "SS", "2024-03-01", true)
	named.PDFFileName = "Factura-Cliente.pdf"
	ex, _ := newExplorer(t,
		named,
		rec("0002-BBBB", "SA", "2024-03-02", false),
		rec("0003-CCCC", "SA", "2024-03-03", false),
	)

	out, err := ex.Search(context.Background(), " bbbb ")
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "0002-BBBB", out.Files[0].GenerationCode)
	assert.Equal(t, "bbbb", out.Query)

	out, err = ex.Search(context.Background(), "factura-CLIENTE")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count, "coincide por nombre del PDF: json + pdf")

	out, err = ex.Search(context.Background(), "m001p001-0003")
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count, "coincide por número de control")

	out, err = ex.Search(context.Background(), ".*")
	require.NoError(t, err)
	assert.Zero(t, out.Count, "el término es literal")
}

func TestSearch_TopeDeResultados(t *testing.T) {
	var recs []*entity.InvoiceRecord
	for i := 0; i < 120; i++ {
		recs = append(recs, rec(fmt.Sprintf("LOTE-%03d", i), "SA", "2024-03-01", false))
	}
	ex, _ := newExplorer(t, recs...)

	out, err := ex.Search(context.Background(), "lote")
	require.NoError(t, err)
	assert.Equal(t, explorer.SearchLimit, out.Count)
}

// ── Clientes ────────────────────────────────────────────────────────────────

func TestCustomers_HistorialPorReceptor(t *testing.T) {
	ex, _ := newExplorer(t,
		withReceiver(rec("A", "anuladas", "2024-03-01", true), "FERRETERÍA LA ESQUINA"),
		withReceiver(rec("B", "anuladas", "2024-03-05", false), "FERRETERÍA LA ESQUINA"),
		withReceiver(rec("C", "anuladas", "2024-03-02", false), "CONSTRUCTORA SOL"),
		withReceiver(rec("D", "SA", "2024-03-03", false), "FERRETERÍA LA ESQUINA"),
		withReceiver(rec("E", "notas_de_credito", "2024-03-03", false), "CONSTRUCTORA SOL"),
	)
	ctx := context.Background()

	voided, err := ex.CustomersIn(ctx, dte.FolderAnuladas)
	require.NoError(t, err)
	require.Len(t, voided, 2)
	assert.Equal(t, dto.CustomerCountDTO{Name: "FERRETERÍA LA ESQUINA", Count: 2}, voided[0])

	files, err := ex.CustomerFiles(ctx, "FERRETERÍA LA ESQUINA", dte.FolderAnuladas)
	require.NoError(t, err)
	assert.Equal(t, 3, files.Count)
	assert.Equal(t, "B", files.Files[0].GenerationCode)

	history, err := ex.CustomerInvoices(ctx, "FERRETERÍA LA ESQUINA", "", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, history.Count)
	assert.Equal(t, "B", history.Invoices[0].GenerationCode)

	limited, err := ex.CustomerInvoices(ctx, "FERRETERÍA LA ESQUINA", "SA", 1)
	require.NoError(t, err)
	require.Equal(t, 1, limited.Count)
	assert.Equal(t, "D", limited.Invoices[0].GenerationCode)

	none, err := ex.CustomerFiles(ctx, "NADIE", dte.FolderNotasCredito)
	require.NoError(t, err)
	assert.NotNil(t, none.Files)
	assert.Zero(t, none.Count)
}

// ── Contenido de archivos ───────────────────────────────────────────────────

func TestOpenContent_Reglas(t *testing.T) {
	ex, root := newExplorer(t,
		rec("CON-PDF", "SA", "2024-03-01", true),
		rec("SIN-PDF", "SM", "2024-03-01", false),
		rec("PDF-PERDIDO", "SS", "2024-03-01", true),
	)
	require.NoError(t, root.WriteFile("SA/CON-PDF.pdf", []byte("%PDF-1.7")))
	ctx := context.Background()

	t.Run("path pdf", func(t *testing.T) {
		c, err := ex.OpenContent(ctx, explorer.ContentRequest{Path: `SA\CON-PDF.pdf`})
		require.NoError(t, err)
		defer c.Body.Close()
		body, err := io.ReadAll(c.Body)
		require.NoError(t, err)
		assert.Equal(t, explorer.ContentPDF, c.Kind)
		assert.Equal(t, "CON-PDF.pdf", c.Name)
		assert.Equal(t, int64(8), c.Size)
		assert.Equal(t, "%PDF-1.7", string(body))
	})

	t.Run("path pdf inexistente", func(t *testing.T) {
		_, err := ex.OpenContent(ctx, explorer.ContentRequest{Path: "SS/PDF-PERDIDO.pdf"})
		assert.ErrorIs(t, err, domain.ErrBackingFileNotFound)
	})

	t.Run("path fuera del respaldo", func(t *testing.T) {
		_, err := ex.OpenContent(ctx, explorer.ContentRequest{Path: "../../etc/passwd.pdf"})
		assert.ErrorIs(t, err, domain.ErrBackingFileNotFound)
	})

	t.Run("path json", func(t *testing.T) {
		c, err := ex.OpenContent(ctx, explorer.ContentRequest{Path: "SM/SIN-PDF.json"})
		require.NoError(t, err)
		assert.Equal(t, explorer.ContentJSON, c.Kind)
		assert.Equal(t, "SIN-PDF", c.Record.GenerationCode())
	})

	t.Run("path json con código", func(t *testing.T) {
		c, err := ex.OpenContent(ctx, explorer.ContentRequest{Path: "x/y.json", GenerationCode: "CON-PDF"})
		require.NoError(t, err)
		assert.Equal(t, "CON-PDF", c.Record.GenerationCode())
	})

	t.Run("código con pdf", func(t *testing.T) {
		c, err := ex.OpenContent(ctx, explorer.ContentRequest{GenerationCode: "CON-PDF"})
		require.NoError(t, err)
		defer c.Body.Close()
		assert.Equal(t, explorer.ContentPDF, c.Kind)
	})

	t.Run("código sin pdf", func(t *testing.T) {
		c, err := ex.OpenContent(ctx, explorer.ContentRequest{GenerationCode: "SIN-PDF"})
		require.NoError(t, err)
		assert.Equal(t, explorer.ContentJSON, c.Kind)
		assert.Nil(t, c.Body)
	})

	t.Run("código con pdf ausente en disco", func(t *testing.T) {
		_, err := ex.OpenContent(ctx, explorer.ContentRequest{GenerationCode: "PDF-PERDIDO"})
		assert.ErrorIs(t, err, domain.ErrBackingFileNotFound)
	})

	t.Run("código inexistente", func(t *testing.T) {
		_, err := ex.OpenContent(ctx, explorer.ContentRequest{GenerationCode: "NO-EXISTE"})
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("sin parámetros", func(t *testing.T) {
		_, err := ex.OpenContent(ctx, explorer.ContentRequest{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("extensión no soportada", func(t *testing.T) {
		_, err := ex.OpenContent(ctx, explorer.ContentRequest{Path: "SA/nota.txt"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
