package entity

import (
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/shopspring/decimal"
)

func init() {
	// Montos como número JSON, igual que en el documento original.
	decimal.MarshalJSONWithoutQuotes = true
}

// InvoiceRecord es un DTE respaldado: el documento emitido ante Hacienda más los
// metadatos agregados en la migración (categoría, sucursal, ruta del PDF).
type InvoiceRecord struct {
	ID                  any            `bson:"_id,omitempty" json:"_id,omitempty"`
	Identification      Identification `bson:"identificacion" json:"identificacion"`
	Issuer              Issuer         `bson:"emisor" json:"emisor"`
	Receiver            Receiver       `bson:"receptor" json:"receptor"`
	Items               []LineItem     `bson:"cuerpoDocumento" json:"cuerpoDocumento"`
	Summary             Summary        `bson:"resumen" json:"resumen"`
	Extension           any            `bson:"extension,omitempty" json:"extension,omitempty"`
	Appendix            any            `bson:"apendice,omitempty" json:"apendice,omitempty"`
	ThirdPartySale      any            `bson:"ventaTercero,omitempty" json:"ventaTercero,omitempty"`
	OtherDocuments      any            `bson:"otrosDocumentos,omitempty" json:"otrosDocumentos,omitempty"`
	RelatedDocuments    any            `bson:"documentoRelacionado,omitempty" json:"documentoRelacionado,omitempty"`
	ElectronicSignature string         `bson:"firmaElectronica,omitempty" json:"firmaElectronica,omitempty"`
	ReceptionStamp      string         `bson:"selloRecibido,omitempty" json:"selloRecibido,omitempty"`

	// Metadatos de migración
	Category     string     `bson:"categoria_origen" json:"categoria_origen"`
	Branch       string     `bson:"sucursal,omitempty" json:"sucursal,omitempty"`
	PDFPath      string     `bson:"ruta_pdf,omitempty" json:"ruta_pdf,omitempty"`
	PDFFileName  string     `bson:"nombre_archivo_pdf,omitempty" json:"nombre_archivo_pdf,omitempty"`
	HasBackupPDF bool       `bson:"tiene_respaldo_pdf" json:"tiene_respaldo_pdf"`
	MigratedAt   *time.Time `bson:"migrado_en,omitempty" json:"migrado_en,omitempty"`
}

// Identification bloque "identificacion" del DTE.
type Identification struct {
	Version          int    `bson:"version" json:"version"`
	Environment      string `bson:"ambiente" json:"ambiente"`
	DTEType          string `bson:"tipoDte" json:"tipoDte"`
	ControlNumber    string `bson:"numeroControl" json:"numeroControl"`
	GenerationCode   string `bson:"codigoGeneracion" json:"codigoGeneracion"`
	ModelType        int    `bson:"tipoModelo" json:"tipoModelo"`
	OperationType    int    `bson:"tipoOperacion" json:"tipoOperacion"`
	ContingencyType  any    `bson:"tipoContingencia" json:"tipoContingencia"`
	ContingencyCause any    `bson:"motivoContin" json:"motivoContin"`
	EmissionDate     string `bson:"fecEmi" json:"fecEmi"` // YYYY-MM-DD
	EmissionTime     string `bson:"horEmi" json:"horEmi"`
	Currency         string `bson:"tipoMoneda" json:"tipoMoneda"`
}

// Address dirección según catálogo de Hacienda.
type Address struct {
	Department   string `bson:"departamento" json:"departamento"`
	Municipality string `bson:"municipio" json:"municipio"`
	Detail       string `bson:"complemento" json:"complemento"`
}

// Issuer emisor del documento.
type Issuer struct {
	NIT                 string   `bson:"nit" json:"nit"`
	NRC                 string   `bson:"nrc" json:"nrc"`
	Name                string   `bson:"nombre" json:"nombre"`
	ActivityCode        string   `bson:"codActividad" json:"codActividad"`
	ActivityDescription string   `bson:"descActividad" json:"descActividad"`
	TradeName           string   `bson:"nombreComercial,omitempty" json:"nombreComercial,omitempty"`
	EstablishmentType   string   `bson:"tipoEstablecimiento,omitempty" json:"tipoEstablecimiento,omitempty"`
	Address             *Address `bson:"direccion,omitempty" json:"direccion,omitempty"`
	Phone               string   `bson:"telefono,omitempty" json:"telefono,omitempty"`
	Email               string   `bson:"correo,omitempty" json:"correo,omitempty"`
	EstablishmentCodeMH string   `bson:"codEstableMH,omitempty" json:"codEstableMH,omitempty"`
	EstablishmentCode   string   `bson:"codEstable,omitempty" json:"codEstable,omitempty"`
	PointOfSaleCodeMH   string   `bson:"codPuntoVentaMH,omitempty" json:"codPuntoVentaMH,omitempty"`
	PointOfSaleCode     string   `bson:"codPuntoVenta,omitempty" json:"codPuntoVenta,omitempty"`
}

// Receiver receptor (cliente). El nombre es la llave del historial por cliente.
type Receiver struct {
	DocumentType        string   `bson:"tipoDocumento,omitempty" json:"tipoDocumento,omitempty"`
	DocumentNumber      string   `bson:"numDocumento,omitempty" json:"numDocumento,omitempty"`
	NRC                 string   `bson:"nrc,omitempty" json:"nrc,omitempty"`
	Name                string   `bson:"nombre" json:"nombre"`
	ActivityCode        string   `bson:"codActividad,omitempty" json:"codActividad,omitempty"`
	ActivityDescription string   `bson:"descActividad,omitempty" json:"descActividad,omitempty"`
	Address             *Address `bson:"direccion,omitempty" json:"direccion,omitempty"`
	Phone               string   `bson:"telefono,omitempty" json:"telefono,omitempty"`
	Email               string   `bson:"correo,omitempty" json:"correo,omitempty"`
}

// LineItem ítem de cuerpoDocumento.
type LineItem struct {
	Number         int             `bson:"numItem" json:"numItem"`
	ItemType       int             `bson:"tipoItem" json:"tipoItem"`
	DocumentNumber any             `bson:"numeroDocumento" json:"numeroDocumento"`
	Quantity       decimal.Decimal `bson:"cantidad" json:"cantidad"`
	Code           string          `bson:"codigo" json:"codigo"`
	TaxCode        any             `bson:"codTributo" json:"codTributo"`
	Unit           int             `bson:"uniMedida" json:"uniMedida"`
	Description    string          `bson:"descripcion" json:"descripcion"`
	UnitPrice      decimal.Decimal `bson:"precioUni" json:"precioUni"`
	Discount       decimal.Decimal `bson:"montoDescu" json:"montoDescu"`
	NonSubjectSale decimal.Decimal `bson:"ventaNoSuj" json:"ventaNoSuj"`
	ExemptSale     decimal.Decimal `bson:"ventaExenta" json:"ventaExenta"`
	TaxedSale      decimal.Decimal `bson:"ventaGravada" json:"ventaGravada"`
	Taxes          []string        `bson:"tributos" json:"tributos"`
	SuggestedPrice decimal.Decimal `bson:"psv" json:"psv"`
	NonTaxed       decimal.Decimal `bson:"noGravado" json:"noGravado"`
	VATItem        decimal.Decimal `bson:"ivaItem" json:"ivaItem"`
}

// Summary bloque "resumen". TotalToPay (totalPagar) es el monto usado en los reportes.
type Summary struct {
	TotalNonSubject     decimal.Decimal `bson:"totalNoSuj" json:"totalNoSuj"`
	TotalExempt         decimal.Decimal `bson:"totalExenta" json:"totalExenta"`
	TotalTaxed          decimal.Decimal `bson:"totalGravada" json:"totalGravada"`
	SalesSubtotal       decimal.Decimal `bson:"subTotalVentas" json:"subTotalVentas"`
	DiscountNonSubject  decimal.Decimal `bson:"descuNoSuj" json:"descuNoSuj"`
	DiscountExempt      decimal.Decimal `bson:"descuExenta" json:"descuExenta"`
	DiscountTaxed       decimal.Decimal `bson:"descuGravada" json:"descuGravada"`
	DiscountPercent     decimal.Decimal `bson:"porcentajeDescuento" json:"porcentajeDescuento"`
	TotalDiscount       decimal.Decimal `bson:"totalDescu" json:"totalDescu"`
	Taxes               any             `bson:"tributos" json:"tributos"`
	Subtotal            decimal.Decimal `bson:"subTotal" json:"subTotal"`
	VATWithheld         decimal.Decimal `bson:"ivaRete1" json:"ivaRete1"`
	IncomeTaxWithheld   decimal.Decimal `bson:"reteRenta" json:"reteRenta"`
	OperationTotal      decimal.Decimal `bson:"montoTotalOperacion" json:"montoTotalOperacion"`
	TotalNonTaxed       decimal.Decimal `bson:"totalNoGravado" json:"totalNoGravado"`
	TotalToPay          decimal.Decimal `bson:"totalPagar" json:"totalPagar"`
	TotalInWords        string          `bson:"totalLetras" json:"totalLetras"`
	TotalVAT            decimal.Decimal `bson:"totalIva" json:"totalIva"`
	CreditBalance       decimal.Decimal `bson:"saldoFavor" json:"saldoFavor"`
	OperationCondition  int             `bson:"condicionOperacion" json:"condicionOperacion"`
	Payments            any             `bson:"pagos" json:"pagos"`
	ElectronicPaymentNo any             `bson:"numPagoElectronico" json:"numPagoElectronico"`
}

// Folder carpeta canónica del documento (H1 → SA).
func (r *InvoiceRecord) Folder() string {
	return dte.CanonicalFolder(r.Category)
}

// GenerationCode atajo a identificacion.codigoGeneracion.
func (r *InvoiceRecord) GenerationCode() string {
	return r.Identification.GenerationCode
}

// EmissionDate atajo a identificacion.fecEmi.
func (r *InvoiceRecord) EmissionDate() string {
	return r.Identification.EmissionDate
}

// BaseName nombre base de sus archivos virtuales.
func (r *InvoiceRecord) BaseName() string {
	return dte.BaseName(r.PDFFileName, r.Identification.GenerationCode)
}

// VisiblePDFPath ruta relativa del PDF dentro del respaldo.
func (r *InvoiceRecord) VisiblePDFPath() string {
	return dte.PDFPath(r.PDFPath, r.Folder(), r.BaseName())
}

// HasReachablePDFReference el documento declara un PDF con ruta conocida.
func (r *InvoiceRecord) HasReachablePDFReference() bool {
	return r.HasBackupPDF && r.PDFPath != ""
}
