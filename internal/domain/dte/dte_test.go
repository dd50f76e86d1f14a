package dte_test

import (
	"testing"
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/stretchr/testify/assert"
)

// ── Tabla de alias ──────────────────────────────────────────────────────────

func TestStoredCategories_AliasEquivalentes(t *testing.T) {
	assert.Equal(t, []string{"SA", "H1"}, dte.StoredCategories("SA"))
	assert.Equal(t, dte.StoredCategories("SA"), dte.StoredCategories("H1"),
		"H1 y SA deben consultar los mismos valores")
	assert.Equal(t, []string{"SM", "H2"}, dte.StoredCategories("H2"))
	assert.Equal(t, []string{"SS", "H4"}, dte.StoredCategories("SS"))
	assert.Equal(t, []string{"gastos"}, dte.StoredCategories("gastos"))
}

func TestStoredCategories_DesconocidaLiteral(t *testing.T) {
	assert.Equal(t, []string{"otra"}, dte.StoredCategories("otra"))
	assert.Equal(t, "otra", dte.CanonicalFolder("otra"))
	assert.False(t, dte.IsKnownFolder("otra"))
}

func TestCanonicalFolder(t *testing.T) {
	assert.Equal(t, "SA", dte.CanonicalFolder("H1"))
	assert.Equal(t, "SM", dte.CanonicalFolder("H2"))
	assert.Equal(t, "SS", dte.CanonicalFolder("H4"))
	assert.Equal(t, "anuladas", dte.CanonicalFolder("anuladas"))
}

func TestBranchLabel(t *testing.T) {
	assert.Equal(t, dte.BranchSantaAna, dte.BranchLabel("H1"))
	assert.Equal(t, dte.BranchSanMiguel, dte.BranchLabel("SM"))
	assert.Equal(t, dte.BranchSanSalvador, dte.BranchLabel("H4 - San Salvador"))
	assert.Equal(t, "", dte.BranchLabel("H9"))
	assert.Equal(t, "H2", dte.BranchCode("SM"))
	assert.True(t, dte.IsSalesFolder("H1"))
	assert.False(t, dte.IsSalesFolder("gastos"))
}

func TestPairedFolders_SinAnuladas(t *testing.T) {
	assert.Equal(t,
		[]string{"SA", "SM", "SS", "gastos", "remisiones", "notas_de_credito"},
		dte.PairedFolders())
}

// ── Rango de fechas ─────────────────────────────────────────────────────────

func TestDateRange_Contains(t *testing.T) {
	r := dte.DateRange{From: "2024-01-01", To: "2024-01-31"}

	assert.True(t, r.Contains("2024-01-01"), "extremo inferior inclusivo")
	assert.True(t, r.Contains("2024-01-31"), "extremo superior inclusivo")
	assert.False(t, r.Contains("2023-12-31"))
	assert.False(t, r.Contains("2024-02-01"))
	assert.False(t, r.Contains(""), "sin fecha no entra en un rango con restricción")
	assert.True(t, dte.DateRange{}.Contains(""), "rango vacío acepta todo")
	assert.True(t, dte.DateRange{From: "2024-01-10"}.Contains("2030-01-01"))
}

func TestNewDateRange_DescartaFormatoInvalido(t *testing.T) {
	r := dte.NewDateRange("2024-13-45", "2024-02-01")
	assert.Equal(t, "", r.From)
	assert.Equal(t, "2024-02-01", r.To)
	assert.True(t, dte.NewDateRange("ayer", "").IsZero())
}

func TestDateRange_Intersect(t *testing.T) {
	a := dte.DateRange{From: "2024-01-01", To: "2024-06-30"}
	b := dte.DateRange{From: "2024-03-01"}

	got := a.Intersect(b)
	assert.Equal(t, dte.DateRange{From: "2024-03-01", To: "2024-06-30"}, got)
	assert.Equal(t, a, a.Intersect(dte.DateRange{}))
}

func TestYesterdayYMonthsBack(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)

	assert.Equal(t, "2024-02-29", dte.Yesterday(now))
	assert.Equal(t, dte.DateRange{From: "2023-09-01", To: "2024-03-01"}, dte.MonthsBack(now, 6))
}

// ── Rutas ───────────────────────────────────────────────────────────────────

func TestNormalizePDFPath(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		changed bool
	}{
		{`C:\zeta2\Henri\Copia de seguridad de facturas(No borrar)\Backup\SA\DTE-01.pdf`, "SA/DTE-01.pdf", true},
		{`J:/Henri/Copia de seguridad de facturas(No borrar)/Backup/gastos/G-1.pdf`, "gastos/G-1.pdf", true},
		{`SM\2024\F-2.pdf`, "SM/2024/F-2.pdf", true},
		{"SS/F-3.pdf", "SS/F-3.pdf", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, changed := dte.NormalizePDFPath(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.changed, changed, tc.in)
	}
}

func TestIsRelativePath(t *testing.T) {
	assert.True(t, dte.IsRelativePath("SA/x.pdf"))
	assert.False(t, dte.IsRelativePath(`C:\x.pdf`))
	assert.False(t, dte.IsRelativePath("/srv/x.pdf"))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "DTE-01", dte.BaseName("DTE-01.pdf", "ABC"))
	assert.Equal(t, "DTE-01", dte.BaseName("DTE-01.PDF", ""))
	assert.Equal(t, "ABC", dte.BaseName("", "ABC"))
	assert.Equal(t, dte.FallbackBaseName, dte.BaseName("", ""))
}

func TestPDFPathYJSONPath(t *testing.T) {
	assert.Equal(t, "SA/DTE-01.pdf", dte.PDFPath("", "SA", "DTE-01"))
	assert.Equal(t, "SA/2024/DTE-01.pdf", dte.PDFPath(`SA\2024\DTE-01.pdf`, "SA", "DTE-01"))
	assert.Equal(t, "SA/DTE-01.json", dte.JSONPath("SA/DTE-01.pdf"))
}
