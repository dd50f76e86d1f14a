package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// ErrStoreUnavailable la base de documentos no está conectada o se cayó la conexión.
	ErrStoreUnavailable = errors.New("base de datos no disponible")
	// ErrRecordNotFound no existe un DTE que coincida con la búsqueda directa.
	ErrRecordNotFound = errors.New("factura no encontrada")
	// ErrBackingFileNotFound el PDF de respaldo no existe en disco (o la ruta sale del respaldo).
	ErrBackingFileNotFound = errors.New("PDF no encontrado en disco")
	// ErrInvalidSelection la petición de empaquetado no trae categorías ni identificadores.
	ErrInvalidSelection = errors.New("no se proporcionaron archivos para empaquetar")
	ErrInvalidInput     = errors.New("entrada inválida")
)
