package dte

import (
	"path"
	"strings"
)

// prefijos absolutos con los que se migraron los respaldos antiguos
var legacyBackupPrefixes = []string{
	`C:\zeta2\Henri\Copia de seguridad de facturas(No borrar)\Backup\`,
	`C:/zeta2/Henri/Copia de seguridad de facturas(No borrar)/Backup/`,
	`J:\Henri\Copia de seguridad de facturas(No borrar)\Backup\`,
	`J:/Henri/Copia de seguridad de facturas(No borrar)/Backup/`,
}

// FallbackBaseName se usa cuando el documento no trae nombre de PDF ni código.
const FallbackBaseName = "sin-nombre"

// NormalizePDFPath convierte ruta_pdf a una ruta relativa con "/" como separador.
// Devuelve changed=false si el valor ya estaba normalizado.
func NormalizePDFPath(p string) (normalized string, changed bool) {
	if p == "" {
		return "", false
	}
	out := p
	for _, prefix := range legacyBackupPrefixes {
		if strings.HasPrefix(out, prefix) {
			out = out[len(prefix):]
			break
		}
	}
	out = strings.ReplaceAll(out, `\`, "/")
	return out, out != p
}

// IsRelativePath indica que la ruta no lleva unidad de Windows ni "/" inicial.
func IsRelativePath(p string) bool {
	p = strings.ReplaceAll(p, `\`, "/")
	if strings.HasPrefix(p, "/") {
		return false
	}
	return !(len(p) >= 2 && p[1] == ':')
}

// BaseName nombre base de los archivos virtuales de un documento, sin extensión.
func BaseName(pdfFileName, generationCode string) string {
	name := pdfFileName
	if name == "" {
		name = generationCode
	}
	if name == "" {
		return FallbackBaseName
	}
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name = name[:len(name)-len(".pdf")]
	}
	if name == "" {
		return FallbackBaseName
	}
	return name
}

// PDFPath ruta visible del PDF: la almacenada normalizada o {carpeta}/{base}.pdf.
func PDFPath(storedPath, folder, baseName string) string {
	if p, _ := NormalizePDFPath(storedPath); p != "" {
		return p
	}
	return path.Join(folder, baseName+".pdf")
}

// JSONPath la misma ruta del PDF con extensión .json.
func JSONPath(pdfPath string) string {
	if strings.HasSuffix(strings.ToLower(pdfPath), ".pdf") {
		return pdfPath[:len(pdfPath)-len(".pdf")] + ".json"
	}
	return pdfPath + ".json"
}
