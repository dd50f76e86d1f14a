package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Henri-Funes/Vault-DTE/internal/domain"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// InvoiceRecordRepository guarda los DTE como JSONB en la tabla facturas.
type InvoiceRecordRepository struct {
	pool *pgxpool.Pool
}

var (
	_ repository.InvoiceRecordStore  = (*InvoiceRecordRepository)(nil)
	_ repository.InvoiceRecordWriter = (*InvoiceRecordRepository)(nil)
)

// NewInvoiceRecordRepository crea el repositorio sobre un pool ya verificado.
func NewInvoiceRecordRepository(pool *pgxpool.Pool) *InvoiceRecordRepository {
	return &InvoiceRecordRepository{pool: pool}
}

func (r *InvoiceRecordRepository) Name() string { return "postgres" }

func (r *InvoiceRecordRepository) Find(ctx context.Context, f repository.RecordFilter, opts repository.FindOptions) ([]*entity.InvoiceRecord, error) {
	var out []*entity.InvoiceRecord
	err := r.Each(ctx, f, opts, func(rec *entity.InvoiceRecord) error {
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *InvoiceRecordRepository) Each(ctx context.Context, f repository.RecordFilter, opts repository.FindOptions, fn func(*entity.InvoiceRecord) error) error {
	q := newQuery(f)
	sql := "SELECT documento FROM facturas" + q.whereClause() + orderBy(opts.Sort) + q.page(opts)

	rows, err := r.pool.Query(ctx, sql, q.args...)
	if err != nil {
		return wrapErr("postgres.Each", err)
	}
	defer rows.Close()

	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return wrapErr("postgres.Each: scan", err)
		}
		rec := new(entity.InvoiceRecord)
		if err := json.Unmarshal(raw, rec); err != nil {
			return fmt.Errorf("postgres.Each: decodificar documento: %w", err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return wrapErr("postgres.Each: rows", rows.Err())
}

func (r *InvoiceRecordRepository) FindOne(ctx context.Context, f repository.RecordFilter, opts repository.FindOptions) (*entity.InvoiceRecord, error) {
	opts.Limit = 1
	out, err := r.Find(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.ErrRecordNotFound
	}
	return out[0], nil
}

func (r *InvoiceRecordRepository) Count(ctx context.Context, f repository.RecordFilter) (int64, error) {
	q := newQuery(f)
	var n int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM facturas"+q.whereClause(), q.args...).Scan(&n); err != nil {
		return 0, wrapErr("postgres.Count", err)
	}
	return n, nil
}

func (r *InvoiceRecordRepository) AggregateByCategory(ctx context.Context, f repository.RecordFilter) ([]repository.GroupTotals, error) {
	q := newQuery(f)
	sql := `
		SELECT
			COALESCE(` + exprBranch + `, ''),
			categoria_origen,
			COUNT(*),
			COUNT(*) FILTER (WHERE ` + exprHasPDF + ` = 'true'),
			COALESCE(SUM(NULLIF(` + exprTotalToPay + `, '')::numeric), 0)
		FROM facturas` + q.whereClause() + `
		GROUP BY 1, 2
		ORDER BY 1, 2`

	rows, err := r.pool.Query(ctx, sql, q.args...)
	if err != nil {
		return nil, wrapErr("postgres.AggregateByCategory", err)
	}
	defer rows.Close()

	var out []repository.GroupTotals
	for rows.Next() {
		var g repository.GroupTotals
		var total decimal.Decimal
		if err := rows.Scan(&g.Branch, &g.Category, &g.Count, &g.WithPDF, &total); err != nil {
			return nil, wrapErr("postgres.AggregateByCategory: scan", err)
		}
		g.TotalToPay = total
		out = append(out, g)
	}
	return out, wrapErr("postgres.AggregateByCategory: rows", rows.Err())
}

func (r *InvoiceRecordRepository) AggregateByReceiver(ctx context.Context, f repository.RecordFilter) ([]repository.ReceiverCount, error) {
	q := newQuery(f)
	sql := "SELECT " + exprReceiverName + ", COUNT(*) FROM facturas" + q.whereClause() +
		" GROUP BY 1 ORDER BY 2 DESC, 1"

	rows, err := r.pool.Query(ctx, sql, q.args...)
	if err != nil {
		return nil, wrapErr("postgres.AggregateByReceiver", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.ReceiverCount, error) {
		var rc repository.ReceiverCount
		err := row.Scan(&rc.Name, &rc.Count)
		return rc, err
	})
	if err != nil {
		return nil, wrapErr("postgres.AggregateByReceiver: scan", err)
	}
	return out, nil
}

func (r *InvoiceRecordRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *InvoiceRecordRepository) Close(context.Context) error {
	r.pool.Close()
	return nil
}

// ── Escritura ───────────────────────────────────────────────────────────────

const insertSQL = `
	INSERT INTO facturas (codigo_generacion, categoria_origen, fec_emi, migrado_en, documento)
	VALUES ($1, $2, $3, $4, $5::jsonb)
	ON CONFLICT (codigo_generacion) DO NOTHING`

// InsertMany inserta en un batch dentro de una transacción; los códigos ya
// existentes se omiten. Si una fila falla no se guarda ninguna.
func (r *InvoiceRecordRepository) InsertMany(ctx context.Context, records []*entity.InvoiceRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, rec := range records {
		doc := *rec
		doc.ID = nil
		raw, err := json.Marshal(&doc)
		if err != nil {
			return 0, fmt.Errorf("postgres.InsertMany: serializar %s: %w", rec.GenerationCode(), err)
		}
		batch.Queue(insertSQL, rec.GenerationCode(), rec.Category, rec.EmissionDate(), rec.MigratedAt, string(raw))
	}

	inserted := 0
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		br := tx.SendBatch(ctx, batch)
		defer br.Close()
		for range records {
			tag, err := br.Exec()
			if err != nil {
				return wrapErr("postgres.InsertMany", err)
			}
			inserted += int(tag.RowsAffected())
		}
		return br.Close()
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *InvoiceRecordRepository) UpdatePDFPath(ctx context.Context, generationCode, pdfPath string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE facturas SET documento = jsonb_set(documento, '{ruta_pdf}', to_jsonb($2::text)) WHERE codigo_generacion = $1`,
		generationCode, pdfPath)
	if err != nil {
		return wrapErr("postgres.UpdatePDFPath", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
