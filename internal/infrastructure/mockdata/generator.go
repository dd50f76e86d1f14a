// Package mockdata genera DTE de demostración con datos de El Salvador para el
// backend en memoria y para poblar bases de prueba.
package mockdata

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var vatRate = decimal.RequireFromString("0.13")

// Prefijo con el que se guardaron las rutas antes de migrarlas a relativas.
const legacyPrefix = `C:\zeta2\Henri\Copia de seguridad de facturas(No borrar)\Backup\`

var departments = map[string][]string{
	"Santa Ana":    {"Santa Ana", "Metapán", "Chalchuapa", "Coatepeque"},
	"San Salvador": {"San Salvador", "Soyapango", "Mejicanos", "Apopa", "Ilopango"},
	"San Miguel":   {"San Miguel", "Chinameca", "Moncagua", "Quelepa"},
	"La Libertad":  {"Santa Tecla", "Antiguo Cuscatlán", "Colón"},
	"Sonsonate":    {"Sonsonate", "Izalco", "Acajutla"},
}

var products = []string{
	"Ferretería - Cemento Portland",
	`Ferretería - Varilla 3/8"`,
	"Ferretería - Alambre de amarre",
	`Ferretería - Clavos 2"`,
	"Ferretería - Pintura látex blanca",
	"Ferretería - Thinner estándar",
	"Materiales - Block 15x20x40",
	"Materiales - Arena de río",
	"Materiales - Piedrín",
	"Eléctrico - Cable THW #12",
	"Eléctrico - Toma corriente doble",
	`Plomería - Tubo PVC 1/2"`,
	"Plomería - Codo PVC 90°",
	"Herramientas - Pala cuadrada",
	"Herramientas - Carretilla de construcción",
}

var (
	namePrefixes = []string{"Constructora", "Distribuidora", "Inversiones", "Comercial", "Ferretería", "Grupo", "Servicios"}
	nameCores    = []string{"Los Andes", "El Pino", "Santa Lucía", "Monte Verde", "Cuscatlán", "La Palma", "San Jorge", "Izalco", "Río Lempa", "Volcán"}
	nameSuffixes = []string{"S.A. de C.V.", "S.A.", "y Cía.", ""}
)

// participación de cada carpeta en el total generado
var distribution = []struct {
	folder string
	share  float64
}{
	{dte.FolderSantaAna, 0.35},
	{dte.FolderSanMiguel, 0.25},
	{dte.FolderSanSalvador, 0.25},
	{dte.FolderGastos, 0.05},
	{dte.FolderRemisiones, 0.05},
	{dte.FolderNotasCredito, 0.03},
	{dte.FolderAnuladas, 0.02},
}

var typeByFolder = map[string]string{
	dte.FolderGastos:       dte.TypeExcludedSubject,
	dte.FolderRemisiones:   dte.TypeDeliveryNote,
	dte.FolderNotasCredito: dte.TypeCreditNote,
}

// Options parámetros de generación.
type Options struct {
	Count      int       // cantidad de DTE
	Customers  int       // clientes distintos
	Seed       uint64    // misma semilla, mismos datos
	Now        time.Time // fecha de referencia; las emisiones caen en los 365 días previos
	PDFShare   float64   // fracción con tiene_respaldo_pdf (0.8 por defecto)
	LegacyPath float64   // fracción de ruta_pdf guardada con el prefijo antiguo
}

// Generator produce DTE deterministas a partir de una semilla.
type Generator struct {
	opts      Options
	rng       *rand.Rand
	src       *rand.ChaCha8
	customers []entity.Receiver
	seq       int
}

// NewGenerator prepara el generador y su cartera de clientes.
func NewGenerator(opts Options) *Generator {
	if opts.Customers <= 0 {
		opts.Customers = 50
	}
	if opts.PDFShare <= 0 {
		opts.PDFShare = 0.8
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:8], opts.Seed)
	src := rand.NewChaCha8(seed)
	g := &Generator{opts: opts, src: src, rng: rand.New(src)}
	g.customers = g.newCustomers(opts.Customers)
	return g
}

// Generate devuelve opts.Count documentos ordenados por fecEmi descendente.
func (g *Generator) Generate() []*entity.InvoiceRecord {
	counts := make(map[string]int, len(distribution))
	assigned := 0
	for _, d := range distribution {
		counts[d.folder] = int(float64(g.opts.Count) * d.share)
		assigned += counts[d.folder]
	}
	counts[dte.FolderSantaAna] += g.opts.Count - assigned

	out := make([]*entity.InvoiceRecord, 0, g.opts.Count)
	for _, d := range distribution {
		for i := 0; i < counts[d.folder]; i++ {
			c := g.pick(out, d.folder)
			out = append(out, g.record(d.folder, c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EmissionDate() > out[j].EmissionDate()
	})
	return out
}

// las anuladas suelen repetir clientes que ya compraron
func (g *Generator) pick(existing []*entity.InvoiceRecord, folder string) entity.Receiver {
	if folder == dte.FolderAnuladas && len(existing) > 0 && g.rng.Float64() < 0.7 {
		return existing[g.rng.IntN(len(existing))].Receiver
	}
	return g.customers[g.rng.IntN(len(g.customers))]
}

func (g *Generator) record(folder string, receiver entity.Receiver) *entity.InvoiceRecord {
	g.seq++
	code := strings.ToUpper(uuid.Must(uuid.NewRandomFromReader(g.src)).String())

	dteType := typeByFolder[folder]
	if dteType == "" {
		dteType = dte.TypeInvoice
		if receiver.NRC != "" && g.rng.IntN(3) == 0 {
			dteType = dte.TypeTaxCreditReceipt
		}
	}

	emitted := g.opts.Now.AddDate(0, 0, -g.rng.IntN(365))
	emitted = time.Date(emitted.Year(), emitted.Month(), emitted.Day(),
		7+g.rng.IntN(11), g.rng.IntN(60), g.rng.IntN(60), 0, emitted.Location())
	migrated := g.opts.Now.Add(-time.Duration(g.rng.IntN(30*24)) * time.Hour).UTC()

	items := g.items()
	summary := summarize(items, 1+g.rng.IntN(3))

	branch := dte.BranchForFolder(folder)
	if branch == "" {
		branch = dte.Branches()[g.rng.IntN(3)]
	}

	stored := folder
	if dte.IsSalesFolder(folder) && g.rng.IntN(5) == 0 {
		stored = dte.BranchCode(folder)
	}

	pdfPath := folder + "/" + code + ".pdf"
	if g.opts.LegacyPath > 0 && g.rng.Float64() < g.opts.LegacyPath {
		pdfPath = legacyPrefix + folder + `\` + code + ".pdf"
	}

	return &entity.InvoiceRecord{
		Identification: entity.Identification{
			Version:        1,
			Environment:    "00",
			DTEType:        dteType,
			ControlNumber:  fmt.Sprintf("DTE-%s-M%03dP001-%015d", dteType, 1+g.rng.IntN(4), g.seq),
			GenerationCode: code,
			ModelType:      1,
			OperationType:  1,
			EmissionDate:   dte.Day(emitted),
			EmissionTime:   emitted.Format(time.TimeOnly),
			Currency:       "USD",
		},
		Issuer: entity.Issuer{
			NIT:                 "0614-161289-001-7",
			NRC:                 "12345-6",
			Name:                "HERMACO, S.A. DE C.V.",
			ActivityCode:        "46632",
			ActivityDescription: "Venta al por mayor de artículos de ferretería",
			TradeName:           "HERMACO",
			EstablishmentType:   "02",
			Address: &entity.Address{
				Department:   "02",
				Municipality: "10",
				Detail:       "Avenida Independencia Sur, Col. Centro",
			},
			Phone: "24478000",
			Email: "facturacion@hermaco.com.sv",
		},
		Receiver:       receiver,
		Items:          items,
		Summary:        summary,
		Category:       stored,
		Branch:         branch,
		PDFPath:        pdfPath,
		PDFFileName:    code + ".pdf",
		HasBackupPDF:   g.rng.Float64() < g.opts.PDFShare,
		MigratedAt:     &migrated,
		ReceptionStamp: fmt.Sprintf("%d%s", emitted.Year(), strings.ReplaceAll(code[:18], "-", "")),
	}
}

func (g *Generator) items() []entity.LineItem {
	n := 1 + g.rng.IntN(5)
	out := make([]entity.LineItem, 0, n)
	for i := 0; i < n; i++ {
		price := decimal.New(int64(1000+g.rng.IntN(49000)), -2)
		qty := decimal.NewFromInt(int64(1 + g.rng.IntN(20)))
		taxed := price.Mul(qty).Round(2)
		out = append(out, entity.LineItem{
			Number:      i + 1,
			ItemType:    1,
			Quantity:    qty,
			Code:        fmt.Sprintf("P%05d", g.rng.IntN(100000)),
			Unit:        99,
			Description: products[g.rng.IntN(len(products))],
			UnitPrice:   price,
			TaxedSale:   taxed,
			VATItem:     taxed.Mul(vatRate).Round(2),
		})
	}
	return out
}

func summarize(items []entity.LineItem, condition int) entity.Summary {
	taxed, vat := decimal.Zero, decimal.Zero
	for _, it := range items {
		taxed = taxed.Add(it.TaxedSale)
		vat = vat.Add(it.VATItem)
	}
	total := taxed.Add(vat).Round(2)
	return entity.Summary{
		TotalTaxed:         taxed,
		SalesSubtotal:      taxed,
		Subtotal:           taxed,
		OperationTotal:     total,
		TotalToPay:         total,
		TotalVAT:           vat.Round(2),
		TotalInWords:       AmountInWords(total),
		OperationCondition: condition,
	}
}

func (g *Generator) newCustomers(n int) []entity.Receiver {
	seen := make(map[string]struct{}, n)
	out := make([]entity.Receiver, 0, n)
	deptNames := make([]string, 0, len(departments))
	for d := range departments {
		deptNames = append(deptNames, d)
	}
	sort.Strings(deptNames)

	for len(out) < n {
		name := strings.TrimSpace(fmt.Sprintf("%s %s %s",
			namePrefixes[g.rng.IntN(len(namePrefixes))],
			nameCores[g.rng.IntN(len(nameCores))],
			nameSuffixes[g.rng.IntN(len(nameSuffixes))]))
		if _, dup := seen[name]; dup {
			name = fmt.Sprintf("%s (%d)", name, len(out)+1)
		}
		seen[name] = struct{}{}

		dept := deptNames[g.rng.IntN(len(deptNames))]
		towns := departments[dept]
		nrc := ""
		if g.rng.IntN(2) == 0 {
			nrc = g.digits(6) + "-" + g.digits(1)
		}
		out = append(out, entity.Receiver{
			DocumentType:   []string{"36", "13", "37"}[g.rng.IntN(3)],
			DocumentNumber: g.digits(14),
			NRC:            nrc,
			Name:           name,
			ActivityCode:   "46900",
			Address: &entity.Address{
				Department:   dept,
				Municipality: towns[g.rng.IntN(len(towns))],
				Detail:       fmt.Sprintf("Calle %d, Casa #%d", 1+g.rng.IntN(40), 1+g.rng.IntN(300)),
			},
			Phone: []string{"2", "6", "7"}[g.rng.IntN(3)] + g.digits(7),
			Email: strings.ToLower(strings.ReplaceAll(nameCores[g.rng.IntN(len(nameCores))], " ", "")) + "@correo.com.sv",
		})
	}
	return out
}

func (g *Generator) digits(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteByte(byte('0' + g.rng.IntN(10)))
	}
	return sb.String()
}
