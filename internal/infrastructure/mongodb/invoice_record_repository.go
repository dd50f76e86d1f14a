package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Henri-Funes/Vault-DTE/internal/domain"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/repository"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// InvoiceRecordRepository implementa InvoiceRecordStore sobre una colección de MongoDB.
type InvoiceRecordRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var (
	_ repository.InvoiceRecordStore  = (*InvoiceRecordRepository)(nil)
	_ repository.InvoiceRecordWriter = (*InvoiceRecordRepository)(nil)
)

// NewInvoiceRecordRepository usa la colección indicada del cliente ya conectado.
func NewInvoiceRecordRepository(client *mongo.Client, database, collection string) *InvoiceRecordRepository {
	return &InvoiceRecordRepository{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

func (r *InvoiceRecordRepository) Name() string { return "mongo" }

func (r *InvoiceRecordRepository) Find(ctx context.Context, f repository.RecordFilter, opts repository.FindOptions) ([]*entity.InvoiceRecord, error) {
	cur, err := r.coll.Find(ctx, buildFilter(f), findOptions(opts))
	if err != nil {
		return nil, wrapErr("mongodb.Find", err)
	}
	var out []*entity.InvoiceRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, wrapErr("mongodb.Find: decodificar", err)
	}
	return out, nil
}

func (r *InvoiceRecordRepository) Each(ctx context.Context, f repository.RecordFilter, opts repository.FindOptions, fn func(*entity.InvoiceRecord) error) error {
	cur, err := r.coll.Find(ctx, buildFilter(f), findOptions(opts).SetBatchSize(200))
	if err != nil {
		return wrapErr("mongodb.Each", err)
	}
	defer cur.Close(context.WithoutCancel(ctx))

	for cur.Next(ctx) {
		var rec entity.InvoiceRecord
		if err := cur.Decode(&rec); err != nil {
			return wrapErr("mongodb.Each: decodificar", err)
		}
		if err := fn(&rec); err != nil {
			return err
		}
	}
	return wrapErr("mongodb.Each: cursor", cur.Err())
}

func (r *InvoiceRecordRepository) FindOne(ctx context.Context, f repository.RecordFilter, opts repository.FindOptions) (*entity.InvoiceRecord, error) {
	fo := options.FindOne()
	if s := sortSpec(opts.Sort); s != nil {
		fo.SetSort(s)
	}
	if opts.Skip > 0 {
		fo.SetSkip(opts.Skip)
	}
	var rec entity.InvoiceRecord
	if err := r.coll.FindOne(ctx, buildFilter(f), fo).Decode(&rec); err != nil {
		return nil, wrapErr("mongodb.FindOne", err)
	}
	return &rec, nil
}

func (r *InvoiceRecordRepository) Count(ctx context.Context, f repository.RecordFilter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, buildFilter(f))
	if err != nil {
		return 0, wrapErr("mongodb.Count", err)
	}
	return n, nil
}

type groupRow struct {
	ID struct {
		Branch   string `bson:"sucursal"`
		Category string `bson:"categoria"`
	} `bson:"_id"`
	Count      int64           `bson:"count"`
	WithPDF    int64           `bson:"withPdf"`
	TotalToPay decimal.Decimal `bson:"totalPagar"`
}

func (r *InvoiceRecordRepository) AggregateByCategory(ctx context.Context, f repository.RecordFilter) ([]repository.GroupTotals, error) {
	cur, err := r.coll.Aggregate(ctx, categoryPipeline(f))
	if err != nil {
		return nil, wrapErr("mongodb.AggregateByCategory", err)
	}
	var rows []groupRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, wrapErr("mongodb.AggregateByCategory: decodificar", err)
	}
	out := make([]repository.GroupTotals, 0, len(rows))
	for _, row := range rows {
		out = append(out, repository.GroupTotals{
			Branch:     row.ID.Branch,
			Category:   row.ID.Category,
			Count:      row.Count,
			WithPDF:    row.WithPDF,
			TotalToPay: row.TotalToPay,
		})
	}
	return out, nil
}

type receiverRow struct {
	Name  string `bson:"_id"`
	Count int64  `bson:"count"`
}

func (r *InvoiceRecordRepository) AggregateByReceiver(ctx context.Context, f repository.RecordFilter) ([]repository.ReceiverCount, error) {
	cur, err := r.coll.Aggregate(ctx, receiverPipeline(f))
	if err != nil {
		return nil, wrapErr("mongodb.AggregateByReceiver", err)
	}
	var rows []receiverRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, wrapErr("mongodb.AggregateByReceiver: decodificar", err)
	}
	out := make([]repository.ReceiverCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, repository.ReceiverCount{Name: row.Name, Count: row.Count})
	}
	return out, nil
}

func (r *InvoiceRecordRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *InvoiceRecordRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// ── Escritura ───────────────────────────────────────────────────────────────

// InsertMany inserta sin orden para que un duplicado no corte el lote.
func (r *InvoiceRecordRepository) InsertMany(ctx context.Context, records []*entity.InvoiceRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	docs := make([]any, len(records))
	for i, rec := range records {
		docs[i] = rec
	}
	res, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) && mongo.IsDuplicateKeyError(err) {
		return len(docs) - len(bwe.WriteErrors), nil
	}
	if err != nil {
		return 0, wrapErr("mongodb.InsertMany", err)
	}
	return len(res.InsertedIDs), nil
}

func (r *InvoiceRecordRepository) UpdatePDFPath(ctx context.Context, generationCode, pdfPath string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: fieldGenerationCode, Value: generationCode}},
		bson.D{{Key: "$set", Value: bson.D{{Key: fieldPDFPath, Value: pdfPath}}}},
	)
	if err != nil {
		return wrapErr("mongodb.UpdatePDFPath", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// EnsureIndexes crea los índices que usan las consultas de la API.
func (r *InvoiceRecordRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: fieldGenerationCode, Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: fieldCategory, Value: 1}, {Key: fieldEmissionDate, Value: -1}}},
		{Keys: bson.D{{Key: fieldReceiverName, Value: 1}}},
		{Keys: bson.D{{Key: fieldMigratedAt, Value: -1}}},
	})
	return wrapErr("mongodb.EnsureIndexes", err)
}
