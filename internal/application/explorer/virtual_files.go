package explorer

import (
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/application/dto"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
)

// Tamaños nominales: el respaldo no se recorre en disco para listar.
const (
	nominalJSONSize = 5000
	nominalPDFSize  = 50000
)

// VirtualFiles un .json siempre y un .pdf solo si el documento declara respaldo.
func VirtualFiles(rec *entity.InvoiceRecord) []dto.VirtualFileDTO {
	base := rec.BaseName()
	pdfPath := rec.VisiblePDFPath()
	stamp := timestamp(rec)

	var emission *string
	if d := rec.EmissionDate(); d != "" {
		emission = &d
	}

	files := []dto.VirtualFileDTO{{
		Name:           base + ".json",
		Path:           dte.JSONPath(pdfPath),
		Size:           nominalJSONSize,
		SizeFormatted:  "5 KB",
		Type:           "json",
		Extension:      "json",
		ModifiedDate:   stamp,
		CreatedDate:    stamp,
		EmissionDate:   emission,
		GenerationCode: rec.GenerationCode(),
		Category:       rec.Folder(),
	}}
	if rec.HasBackupPDF {
		files = append(files, dto.VirtualFileDTO{
			Name:           base + ".pdf",
			Path:           pdfPath,
			Size:           nominalPDFSize,
			SizeFormatted:  "50 KB",
			Type:           "pdf",
			Extension:      "pdf",
			ModifiedDate:   stamp,
			CreatedDate:    stamp,
			EmissionDate:   emission,
			GenerationCode: rec.GenerationCode(),
			Category:       rec.Folder(),
		})
	}
	return files
}

// timestamp fecha de migración o, si falta, la de emisión a medianoche UTC.
func timestamp(rec *entity.InvoiceRecord) string {
	if rec.MigratedAt != nil {
		return rec.MigratedAt.UTC().Format(time.RFC3339)
	}
	if t, err := time.Parse(dte.DateLayout, rec.EmissionDate()); err == nil {
		return t.Format(time.RFC3339)
	}
	return ""
}

func expand(recs []*entity.InvoiceRecord) []dto.VirtualFileDTO {
	files := make([]dto.VirtualFileDTO, 0, len(recs)*2)
	for _, rec := range recs {
		files = append(files, VirtualFiles(rec)...)
	}
	return files
}
