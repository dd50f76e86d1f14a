package postgres

import (
	"fmt"
	"strings"

	"github.com/Henri-Funes/Vault-DTE/internal/domain/repository"
)

// Expresiones sobre el documento JSONB.
const (
	exprReceiverName  = `documento->'receptor'->>'nombre'`
	exprPDFFileName   = `documento->>'nombre_archivo_pdf'`
	exprPDFPath       = `documento->>'ruta_pdf'`
	exprControlNumber = `documento->'identificacion'->>'numeroControl'`
	exprBranch        = `documento->>'sucursal'`
	exprHasPDF        = `documento->>'tiene_respaldo_pdf'`
	exprTotalToPay    = `documento->'resumen'->>'totalPagar'`
)

// queryBuilder acumula condiciones y parámetros posicionales ($1, $2...).
type queryBuilder struct {
	conds []string
	args  []any
}

func (q *queryBuilder) arg(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *queryBuilder) where(cond string) {
	q.conds = append(q.conds, cond)
}

func (q *queryBuilder) whereClause() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

func newQuery(f repository.RecordFilter) *queryBuilder {
	q := &queryBuilder{}

	if len(f.Categories) > 0 {
		q.where("categoria_origen = ANY(" + q.arg(f.Categories) + ")")
	}
	if f.Dates.From != "" {
		q.where("fec_emi >= " + q.arg(f.Dates.From))
	}
	if f.Dates.To != "" {
		q.where("fec_emi <= " + q.arg(f.Dates.To))
	}
	if !f.Dates.IsZero() {
		q.where("fec_emi <> ''")
	}
	if f.ReceiverName != "" {
		q.where(exprReceiverName + " = " + q.arg(f.ReceiverName))
	}
	if f.WithReceiver {
		q.where("COALESCE(" + exprReceiverName + ", '') <> ''")
	}
	if len(f.GenerationCodes) > 0 {
		q.where("codigo_generacion = ANY(" + q.arg(f.GenerationCodes) + ")")
	}
	if f.Text != "" {
		p := q.arg("%" + escapeLike(f.Text) + "%")
		q.where("(codigo_generacion ILIKE " + p +
			" OR " + exprPDFFileName + " ILIKE " + p +
			" OR " + exprControlNumber + " ILIKE " + p + ")")
	}
	if !f.Ref.IsZero() {
		var or []string
		if f.Ref.GenerationCode != "" {
			or = append(or, "codigo_generacion = "+q.arg(f.Ref.GenerationCode))
		}
		if len(f.Ref.PDFFileNames) > 0 {
			or = append(or, exprPDFFileName+" = ANY("+q.arg(f.Ref.PDFFileNames)+")")
		}
		if f.Ref.PDFPath != "" {
			variants := []string{f.Ref.PDFPath, strings.ReplaceAll(f.Ref.PDFPath, "/", `\`)}
			or = append(or, exprPDFPath+" = ANY("+q.arg(variants)+")")
		}
		q.where("(" + strings.Join(or, " OR ") + ")")
	}
	if f.MigratedSince != nil {
		q.where("migrado_en >= " + q.arg(*f.MigratedSince))
	}
	return q
}

func orderBy(s repository.SortOrder) string {
	switch s {
	case repository.SortEmissionDesc:
		return " ORDER BY fec_emi DESC, id DESC"
	case repository.SortMigratedDesc:
		return " ORDER BY migrado_en DESC NULLS LAST, id DESC"
	default:
		return " ORDER BY id"
	}
}

func (q *queryBuilder) page(opts repository.FindOptions) string {
	var sb strings.Builder
	if opts.Limit > 0 {
		sb.WriteString(" LIMIT " + q.arg(opts.Limit))
	}
	if opts.Skip > 0 {
		sb.WriteString(" OFFSET " + q.arg(opts.Skip))
	}
	return sb.String()
}
