// Package dte reúne las reglas puras sobre los Documentos Tributarios Electrónicos
// respaldados: tabla de alias de categorías, etiquetas de sucursal, rango de fechas
// de emisión y normalización de rutas de PDF.
package dte

// Carpetas canónicas expuestas por la API.
const (
	FolderSantaAna     = "SA"
	FolderSanMiguel    = "SM"
	FolderSanSalvador  = "SS"
	FolderGastos       = "gastos"
	FolderRemisiones   = "remisiones"
	FolderNotasCredito = "notas_de_credito"
	FolderAnuladas     = "anuladas"
)

// Etiquetas de sucursal usadas en los reportes.
const (
	BranchSantaAna    = "H1 - Santa Ana"
	BranchSanMiguel   = "H2 - San Miguel"
	BranchSanSalvador = "H4 - San Salvador"
)

// orden de presentación de la estructura
var folders = []string{
	FolderSantaAna,
	FolderSanMiguel,
	FolderSanSalvador,
	FolderGastos,
	FolderRemisiones,
	FolderNotasCredito,
	FolderAnuladas,
}

// valores que puede tener categoria_origen para cada carpeta canónica
var storedValues = map[string][]string{
	FolderSantaAna:     {"SA", "H1"},
	FolderSanMiguel:    {"SM", "H2"},
	FolderSanSalvador:  {"SS", "H4"},
	FolderGastos:       {"gastos"},
	FolderRemisiones:   {"remisiones"},
	FolderNotasCredito: {"notas_de_credito"},
	FolderAnuladas:     {"anuladas"},
}

var aliasToFolder = func() map[string]string {
	m := make(map[string]string)
	for folder, values := range storedValues {
		for _, v := range values {
			m[v] = folder
		}
	}
	return m
}()

var branchByFolder = map[string]string{
	FolderSantaAna:    BranchSantaAna,
	FolderSanMiguel:   BranchSanMiguel,
	FolderSanSalvador: BranchSanSalvador,
}

var branchByCode = map[string]string{
	"H1": BranchSantaAna,
	"H2": BranchSanMiguel,
	"H4": BranchSanSalvador,
}

// Folders devuelve las carpetas canónicas en orden de presentación.
func Folders() []string {
	out := make([]string, len(folders))
	copy(out, folders)
	return out
}

// PairedFolders son las carpetas reportadas en pairedByFolder (todas menos anuladas).
func PairedFolders() []string {
	return Folders()[:6]
}

// CanonicalFolder resuelve un alias (SA, H1, ...) a su carpeta canónica.
// Un nombre desconocido se devuelve tal cual.
func CanonicalFolder(category string) string {
	if f, ok := aliasToFolder[category]; ok {
		return f
	}
	return category
}

// StoredCategories devuelve los valores de categoria_origen que corresponden a la
// carpeta pedida, aceptando también un alias. Un nombre desconocido se consulta literal.
func StoredCategories(category string) []string {
	folder := CanonicalFolder(category)
	values, ok := storedValues[folder]
	if !ok {
		return []string{category}
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// IsKnownFolder indica si el nombre (o alias) pertenece a la tabla.
func IsKnownFolder(category string) bool {
	_, ok := storedValues[CanonicalFolder(category)]
	return ok
}

// IsSalesFolder las ventas son SA, SM y SS.
func IsSalesFolder(folder string) bool {
	_, ok := branchByFolder[CanonicalFolder(folder)]
	return ok
}

// Branches devuelve las tres sucursales en orden.
func Branches() []string {
	return []string{BranchSantaAna, BranchSanMiguel, BranchSanSalvador}
}

// BranchForFolder etiqueta de sucursal de una carpeta de ventas ("" si no es de ventas).
func BranchForFolder(folder string) string {
	return branchByFolder[CanonicalFolder(folder)]
}

// BranchLabel normaliza el campo sucursal del documento (H1, SA, "H1 - Santa Ana").
func BranchLabel(sucursal string) string {
	if l, ok := branchByCode[sucursal]; ok {
		return l
	}
	if l := BranchForFolder(sucursal); l != "" {
		return l
	}
	for _, l := range branchByCode {
		if l == sucursal {
			return l
		}
	}
	return ""
}

// BranchCode código corto (H1, H2, H4) de una carpeta de ventas.
func BranchCode(folder string) string {
	label := BranchForFolder(folder)
	for code, l := range branchByCode {
		if l == label {
			return code
		}
	}
	return ""
}

// Tipos de DTE del catálogo de Hacienda usados en el respaldo.
const (
	TypeInvoice          = "01"
	TypeTaxCreditReceipt = "03"
	TypeDeliveryNote     = "04"
	TypeCreditNote       = "05"
	TypeExcludedSubject  = "14"
)

var documentTypeNames = map[string]string{
	TypeInvoice:          "FACTURA",
	TypeTaxCreditReceipt: "COMPROBANTE DE CRÉDITO FISCAL",
	TypeDeliveryNote:     "NOTA DE REMISIÓN",
	TypeCreditNote:       "NOTA DE CRÉDITO",
	TypeExcludedSubject:  "FACTURA DE SUJETO EXCLUIDO",
}

// DocumentTypeName nombre impreso del tipo de DTE.
func DocumentTypeName(code string) string {
	if n, ok := documentTypeNames[code]; ok {
		return n
	}
	return "DOCUMENTO TRIBUTARIO ELECTRÓNICO"
}
