package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/domain"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/repository"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestNewQuery_SinFiltros(t *testing.T) {
	q := newQuery(repository.RecordFilter{})
	assert.Equal(t, "", q.whereClause())
	assert.Empty(t, q.args)
}

func TestNewQuery_CategoriasYFechas(t *testing.T) {
	q := newQuery(repository.RecordFilter{
		Categories: []string{"SA", "H1"},
		Dates:      dte.DateRange{From: "2024-01-01", To: "2024-01-31"},
	})

	assert.Equal(t,
		" WHERE categoria_origen = ANY($1) AND fec_emi >= $2 AND fec_emi <= $3 AND fec_emi <> ''",
		q.whereClause())
	assert.Equal(t, []any{[]string{"SA", "H1"}, "2024-01-01", "2024-01-31"}, q.args)
}

func TestNewQuery_TextoReutilizaParametro(t *testing.T) {
	q := newQuery(repository.RecordFilter{Text: "50%_a"})

	assert.Contains(t, q.whereClause(), "codigo_generacion ILIKE $1")
	assert.Contains(t, q.whereClause(), exprControlNumber+" ILIKE $1")
	assert.Equal(t, []any{`%50\%\_a%`}, q.args)
}

func TestNewQuery_PaginaDespuesDelFiltro(t *testing.T) {
	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	q := newQuery(repository.RecordFilter{MigratedSince: &since})
	page := q.page(repository.FindOptions{Skip: 20, Limit: 10})

	assert.Equal(t, " WHERE migrado_en >= $1", q.whereClause())
	assert.Equal(t, " LIMIT $2 OFFSET $3", page)
	assert.Equal(t, []any{since, int64(10), int64(20)}, q.args)
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, " ORDER BY fec_emi DESC, id DESC", orderBy(repository.SortEmissionDesc))
	assert.Equal(t, " ORDER BY id", orderBy(repository.SortNone))
}

func TestWrapErr(t *testing.T) {
	assert.NoError(t, wrapErr("op", nil))
	assert.ErrorIs(t, wrapErr("op", pgx.ErrNoRows), domain.ErrRecordNotFound)
	assert.ErrorIs(t, wrapErr("op", context.DeadlineExceeded), domain.ErrStoreUnavailable)

	err := wrapErr("op", errors.New("sintaxis"))
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.EqualError(t, err, "op: sintaxis")
}
