package mongodb

import (
	"regexp"
	"strings"

	"github.com/Henri-Funes/Vault-DTE/internal/domain/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Rutas de campos dentro del documento.
const (
	fieldCategory       = "categoria_origen"
	fieldBranch         = "sucursal"
	fieldEmissionDate   = "identificacion.fecEmi"
	fieldGenerationCode = "identificacion.codigoGeneracion"
	fieldControlNumber  = "identificacion.numeroControl"
	fieldReceiverName   = "receptor.nombre"
	fieldTotalToPay     = "resumen.totalPagar"
	fieldPDFFileName    = "nombre_archivo_pdf"
	fieldPDFPath        = "ruta_pdf"
	fieldHasPDF         = "tiene_respaldo_pdf"
	fieldMigratedAt     = "migrado_en"
)

// buildFilter traduce el filtro a una consulta. Cada criterio es una cláusula de $and
// para que dos criterios sobre el mismo campo no se pisen.
func buildFilter(f repository.RecordFilter) bson.D {
	var clauses bson.A

	if len(f.Categories) > 0 {
		clauses = append(clauses, bson.D{{Key: fieldCategory, Value: bson.D{{Key: "$in", Value: f.Categories}}}})
	}
	if !f.Dates.IsZero() {
		var r bson.D
		if f.Dates.From != "" {
			r = append(r, bson.E{Key: "$gte", Value: f.Dates.From})
		} else {
			r = append(r, bson.E{Key: "$gt", Value: ""})
		}
		if f.Dates.To != "" {
			r = append(r, bson.E{Key: "$lte", Value: f.Dates.To})
		}
		clauses = append(clauses, bson.D{{Key: fieldEmissionDate, Value: r}})
	}
	if f.ReceiverName != "" {
		clauses = append(clauses, bson.D{{Key: fieldReceiverName, Value: f.ReceiverName}})
	}
	if f.WithReceiver {
		clauses = append(clauses, bson.D{{Key: fieldReceiverName, Value: bson.D{
			{Key: "$exists", Value: true},
			{Key: "$nin", Value: bson.A{nil, ""}},
		}}})
	}
	if len(f.GenerationCodes) > 0 {
		clauses = append(clauses, bson.D{{Key: fieldGenerationCode, Value: bson.D{{Key: "$in", Value: f.GenerationCodes}}}})
	}
	if f.Text != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Text), Options: "i"}
		clauses = append(clauses, bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: fieldGenerationCode, Value: rx}},
			bson.D{{Key: fieldPDFFileName, Value: rx}},
			bson.D{{Key: fieldControlNumber, Value: rx}},
		}}})
	}
	if !f.Ref.IsZero() {
		clauses = append(clauses, refClause(f.Ref))
	}
	if f.MigratedSince != nil {
		clauses = append(clauses, bson.D{{Key: fieldMigratedAt, Value: bson.D{{Key: "$gte", Value: *f.MigratedSince}}}})
	}

	switch len(clauses) {
	case 0:
		return bson.D{}
	case 1:
		return clauses[0].(bson.D)
	default:
		return bson.D{{Key: "$and", Value: clauses}}
	}
}

func refClause(ref *repository.RecordRef) bson.D {
	var or bson.A
	if ref.GenerationCode != "" {
		or = append(or, bson.D{{Key: fieldGenerationCode, Value: ref.GenerationCode}})
	}
	if len(ref.PDFFileNames) > 0 {
		or = append(or, bson.D{{Key: fieldPDFFileName, Value: bson.D{{Key: "$in", Value: ref.PDFFileNames}}}})
	}
	if ref.PDFPath != "" {
		// las rutas antiguas se guardaron con "\"
		variants := []string{ref.PDFPath}
		if win := strings.ReplaceAll(ref.PDFPath, "/", `\`); win != ref.PDFPath {
			variants = append(variants, win)
		}
		or = append(or, bson.D{{Key: fieldPDFPath, Value: bson.D{{Key: "$in", Value: variants}}}})
	}
	return bson.D{{Key: "$or", Value: or}}
}

func sortSpec(s repository.SortOrder) bson.D {
	switch s {
	case repository.SortEmissionDesc:
		return bson.D{{Key: fieldEmissionDate, Value: -1}}
	case repository.SortMigratedDesc:
		return bson.D{{Key: fieldMigratedAt, Value: -1}}
	default:
		return nil
	}
}

func findOptions(opts repository.FindOptions) *options.FindOptions {
	fo := options.Find()
	if s := sortSpec(opts.Sort); s != nil {
		fo.SetSort(s)
	}
	if opts.Skip > 0 {
		fo.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		fo.SetLimit(opts.Limit)
	}
	return fo
}

// categoryPipeline agrupa por (sucursal, categoria_origen) sumando totalPagar.
func categoryPipeline(f repository.RecordFilter) bson.A {
	return bson.A{
		bson.D{{Key: "$match", Value: buildFilter(f)}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "sucursal", Value: "$" + fieldBranch},
				{Key: "categoria", Value: "$" + fieldCategory},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "withPdf", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{bson.D{{Key: "$eq", Value: bson.A{"$" + fieldHasPDF, true}}}, 1, 0}},
			}}}},
			{Key: "totalPagar", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$ifNull", Value: bson.A{"$" + fieldTotalToPay, 0}},
			}}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id.sucursal", Value: 1}, {Key: "_id.categoria", Value: 1}}}},
	}
}

// receiverPipeline cuenta documentos por receptor.nombre, de mayor a menor.
func receiverPipeline(f repository.RecordFilter) bson.A {
	return bson.A{
		bson.D{{Key: "$match", Value: buildFilter(f)}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + fieldReceiverName},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
}
