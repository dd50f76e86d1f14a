package mongodb

import (
	"testing"
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildFilter_Vacio(t *testing.T) {
	assert.Equal(t, bson.D{}, buildFilter(repository.RecordFilter{}))
}

func TestBuildFilter_CategoriaUnica(t *testing.T) {
	got := buildFilter(repository.RecordFilter{Categories: []string{"SA", "H1"}})

	want := bson.D{{Key: "categoria_origen", Value: bson.D{{Key: "$in", Value: []string{"SA", "H1"}}}}}
	assert.Equal(t, want, got)
}

func TestBuildFilter_RangoYCategoriaEnAnd(t *testing.T) {
	got := buildFilter(repository.RecordFilter{
		Categories: []string{"gastos"},
		Dates:      dte.DateRange{From: "2024-01-01", To: "2024-01-31"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "$and", got[0].Key)
	clauses := got[0].Value.(bson.A)
	require.Len(t, clauses, 2)
	assert.Equal(t,
		bson.D{{Key: "identificacion.fecEmi", Value: bson.D{
			{Key: "$gte", Value: "2024-01-01"},
			{Key: "$lte", Value: "2024-01-31"},
		}}},
		clauses[1])
}

func TestBuildFilter_TextoEscapaMetacaracteres(t *testing.T) {
	got := buildFilter(repository.RecordFilter{Text: "DTE-01.(x)"})

	require.Len(t, got, 1)
	or := got[0].Value.(bson.A)
	require.Len(t, or, 3)
	rx := or[0].(bson.D)[0].Value.(primitive.Regex)
	assert.Equal(t, `DTE-01\.\(x\)`, rx.Pattern)
	assert.Equal(t, "i", rx.Options)
}

func TestBuildFilter_ReferenciaIncluyeRutaWindows(t *testing.T) {
	got := buildFilter(repository.RecordFilter{Ref: &repository.RecordRef{PDFPath: "SA/F-1.pdf"}})

	or := got[0].Value.(bson.A)
	require.Len(t, or, 1)
	assert.Equal(t,
		bson.D{{Key: "ruta_pdf", Value: bson.D{{Key: "$in", Value: []string{"SA/F-1.pdf", `SA\F-1.pdf`}}}}},
		or[0])
}

func TestBuildFilter_MigradoDesde(t *testing.T) {
	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	got := buildFilter(repository.RecordFilter{MigratedSince: &since})

	assert.Equal(t, bson.D{{Key: "migrado_en", Value: bson.D{{Key: "$gte", Value: since}}}}, got)
}

func TestSortSpec(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "identificacion.fecEmi", Value: -1}}, sortSpec(repository.SortEmissionDesc))
	assert.Nil(t, sortSpec(repository.SortNone))
}
