package repository

import (
	"context"
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SortOrder orden de los resultados de Find/Each.
type SortOrder int

// SortEmissionDesc ordena por identificacion.fecEmi y SortMigratedDesc por migrado_en,
// ambos de más reciente a más antiguo.
const (
	SortNone SortOrder = iota
	SortEmissionDesc
	SortMigratedDesc
)

// RecordRef identifica un documento por cualquiera de sus referencias.
// Coincide si alguno de los campos no vacíos coincide.
type RecordRef struct {
	GenerationCode string
	PDFFileNames   []string
	PDFPath        string
}

// IsZero sin ninguna referencia.
func (r *RecordRef) IsZero() bool {
	return r == nil || (r.GenerationCode == "" && len(r.PDFFileNames) == 0 && r.PDFPath == "")
}

// RecordFilter criterios de consulta. Los campos vacíos no restringen.
type RecordFilter struct {
	Categories      []string      // valores almacenados de categoria_origen (ya resueltos por alias)
	Dates           dte.DateRange // rango inclusivo sobre fecEmi
	ReceiverName    string        // receptor.nombre exacto
	GenerationCodes []string
	Text            string // subcadena literal, sin distinguir mayúsculas, en código, PDF o número de control
	Ref             *RecordRef
	MigratedSince   *time.Time
	WithReceiver    bool // solo documentos con receptor.nombre no vacío
}

// FindOptions paginación y orden.
type FindOptions struct {
	Sort  SortOrder
	Skip  int64
	Limit int64 // 0 = sin límite
}

// GroupTotals agregado crudo por sucursal y categoría almacenada.
type GroupTotals struct {
	Branch     string // campo sucursal tal como viene del documento
	Category   string // categoria_origen tal como viene del documento
	Count      int64
	WithPDF    int64           // documentos con tiene_respaldo_pdf
	TotalToPay decimal.Decimal // suma de resumen.totalPagar
}

// ReceiverCount documentos por receptor.
type ReceiverCount struct {
	Name  string
	Count int64
}

// InvoiceRecordStore capacidades de lectura sobre los DTE respaldados.
// Los errores de conexión se devuelven como domain.ErrStoreUnavailable.
type InvoiceRecordStore interface {
	// Name nombre del backend (mongo, postgres, memory).
	Name() string

	Find(ctx context.Context, f RecordFilter, opts FindOptions) ([]*entity.InvoiceRecord, error)

	// Each recorre los documentos con un cursor, sin cargarlos todos en memoria.
	// Si fn devuelve error se corta el recorrido y se propaga.
	Each(ctx context.Context, f RecordFilter, opts FindOptions, fn func(*entity.InvoiceRecord) error) error

	// FindOne devuelve domain.ErrRecordNotFound si no hay coincidencias.
	FindOne(ctx context.Context, f RecordFilter, opts FindOptions) (*entity.InvoiceRecord, error)

	Count(ctx context.Context, f RecordFilter) (int64, error)

	// AggregateByCategory agrupa por (sucursal, categoria_origen).
	AggregateByCategory(ctx context.Context, f RecordFilter) ([]GroupTotals, error)

	// AggregateByReceiver cuenta documentos por receptor.nombre, de mayor a menor.
	AggregateByReceiver(ctx context.Context, f RecordFilter) ([]ReceiverCount, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// InvoiceRecordWriter operaciones de carga usadas por las herramientas de línea de comandos.
type InvoiceRecordWriter interface {
	InsertMany(ctx context.Context, records []*entity.InvoiceRecord) (int, error)
	UpdatePDFPath(ctx context.Context, generationCode, pdfPath string) error
}
