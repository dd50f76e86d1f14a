package explorer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Henri-Funes/Vault-DTE/internal/domain"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
)

// ContentKind tipo de contenido resuelto.
type ContentKind int

const (
	ContentJSON ContentKind = iota
	ContentPDF
)

// ContentRequest parámetros de GET /api/file-content. Al menos uno es obligatorio.
type ContentRequest struct {
	Path           string
	GenerationCode string
}

// Content un PDF abierto (Body/Size) o el documento completo (Record).
// Quien recibe un PDF debe cerrar Body.
type Content struct {
	Kind   ContentKind
	Name   string
	Body   io.ReadCloser
	Size   int64
	Record *entity.InvoiceRecord
}

// OpenContent resuelve un archivo virtual:
//   - path *.pdf abre el archivo bajo la raíz del respaldo;
//   - path *.json busca el documento por código, nombre de PDF o ruta guardada;
//   - solo generationCode devuelve el PDF si el documento lo declara, si no el JSON.
func (e *Explorer) OpenContent(ctx context.Context, req ContentRequest) (*Content, error) {
	p := strings.TrimSpace(req.Path)
	code := strings.TrimSpace(req.GenerationCode)
	if p == "" && code == "" {
		return nil, fmt.Errorf("%w: falta el parámetro path o generationCode", domain.ErrInvalidInput)
	}

	switch ext := strings.ToLower(path.Ext(p)); {
	case ext == ".pdf":
		return e.openPDF(p)
	case ext == ".json":
		rec, err := e.lookupJSON(ctx, p, code)
		if err != nil {
			return nil, err
		}
		return jsonContent(rec), nil
	case p != "" && code == "":
		return nil, fmt.Errorf("%w: extensión no soportada %q", domain.ErrInvalidInput, ext)
	}

	rec, err := e.records.FindByGenerationCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if rec.HasReachablePDFReference() {
		return e.openPDF(rec.PDFPath)
	}
	return jsonContent(rec), nil
}

func (e *Explorer) lookupJSON(ctx context.Context, p, code string) (*entity.InvoiceRecord, error) {
	if code != "" {
		return e.records.FindByGenerationCode(ctx, code)
	}
	return e.records.FindByFileName(ctx, strings.ReplaceAll(p, `\`, "/"))
}

func (e *Explorer) openPDF(rel string) (*Content, error) {
	body, size, err := e.files.Open(rel)
	if err != nil {
		if errors.Is(err, domain.ErrBackingFileNotFound) {
			e.log.Warn().Str("path", rel).Msg("PDF no encontrado en disco")
		}
		return nil, err
	}
	name := path.Base(strings.ReplaceAll(rel, `\`, "/"))
	return &Content{Kind: ContentPDF, Name: name, Body: body, Size: size}, nil
}

func jsonContent(rec *entity.InvoiceRecord) *Content {
	return &Content{Kind: ContentJSON, Name: rec.BaseName() + ".json", Record: rec}
}
