package mockdata_test

import (
	"testing"
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/mockdata"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestGenerate_CantidadYDistribucion(t *testing.T) {
	recs := mockdata.NewGenerator(mockdata.Options{Count: 200, Seed: 7, Now: refNow}).Generate()
	require.Len(t, recs, 200)

	byFolder := map[string]int{}
	for _, r := range recs {
		byFolder[r.Folder()]++
	}
	assert.Equal(t, 50, byFolder[dte.FolderSanMiguel])
	assert.Equal(t, 10, byFolder[dte.FolderGastos])
	assert.Equal(t, 4, byFolder[dte.FolderAnuladas])
	assert.Equal(t, 70, byFolder[dte.FolderSantaAna])
}

func TestGenerate_Determinista(t *testing.T) {
	a := mockdata.NewGenerator(mockdata.Options{Count: 20, Seed: 42, Now: refNow}).Generate()
	b := mockdata.NewGenerator(mockdata.Options{Count: 20, Seed: 42, Now: refNow}).Generate()

	for i := range a {
		assert.Equal(t, a[i].GenerationCode(), b[i].GenerationCode())
	}
}

func TestGenerate_DocumentosConsistentes(t *testing.T) {
	recs := mockdata.NewGenerator(mockdata.Options{Count: 60, Seed: 3, Now: refNow}).Generate()

	codes := map[string]struct{}{}
	for i, r := range recs {
		_, dup := codes[r.GenerationCode()]
		assert.False(t, dup, "código repetido")
		codes[r.GenerationCode()] = struct{}{}

		taxed, vat := decimal.Zero, decimal.Zero
		for _, it := range r.Items {
			taxed = taxed.Add(it.TaxedSale)
			vat = vat.Add(it.VATItem)
		}
		assert.True(t, taxed.Add(vat).Round(2).Equal(r.Summary.TotalToPay), "totalPagar = gravado + IVA")
		assert.NotEmpty(t, dte.BranchLabel(r.Branch))
		assert.Equal(t, r.GenerationCode()+".pdf", r.PDFFileName)
		assert.LessOrEqual(t, r.EmissionDate(), dte.Day(refNow))
		if i > 0 {
			assert.GreaterOrEqual(t, recs[i-1].EmissionDate(), r.EmissionDate(), "orden por fecEmi descendente")
		}
	}
}

func TestGenerate_RutasAntiguas(t *testing.T) {
	recs := mockdata.NewGenerator(mockdata.Options{Count: 30, Seed: 1, Now: refNow, LegacyPath: 1}).Generate()

	for _, r := range recs {
		assert.False(t, dte.IsRelativePath(r.PDFPath))
		normalized, changed := dte.NormalizePDFPath(r.PDFPath)
		assert.True(t, changed)
		assert.Equal(t, r.Folder()+"/"+r.PDFFileName, normalized)
	}
}

func TestAmountInWords(t *testing.T) {
	cases := map[string]string{
		"0":          "CERO 00/100 USD",
		"1":          "UNO 00/100 USD",
		"21.05":      "VEINTIUNO 05/100 USD",
		"100":        "CIEN 00/100 USD",
		"113.50":     "CIENTO TRECE 50/100 USD",
		"1000":       "MIL 00/100 USD",
		"2545.99":    "DOS MIL QUINIENTOS CUARENTA Y CINCO 99/100 USD",
		"1000000":    "UN MILLÓN 00/100 USD",
		"3200015.10": "TRES MILLONES DOSCIENTOS MIL QUINCE 10/100 USD",
	}
	for in, want := range cases {
		assert.Equal(t, want, mockdata.AmountInWords(decimal.RequireFromString(in)), in)
	}
}
