// Package storage abre el backend de DTE elegido por configuración.
package storage

import (
	"context"
	"fmt"

	"github.com/Henri-Funes/Vault-DTE/internal/application/records"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/repository"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/memory"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/mongodb"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/postgres"
	"github.com/Henri-Funes/Vault-DTE/pkg/config"
	"github.com/rs/zerolog"
)

// Handle almacén abierto. Writer es nil cuando la conexión falló.
type Handle struct {
	Records   repository.InvoiceRecordStore
	Writer    repository.InvoiceRecordWriter
	Backend   string
	Connected bool
	Err       error // causa del fallo de conexión
}

// Close libera la conexión del backend.
func (h *Handle) Close(ctx context.Context) error {
	return h.Records.Close(ctx)
}

type backend interface {
	repository.InvoiceRecordStore
	repository.InvoiceRecordWriter
}

// Open conecta con el backend configurado en un único intento. Si falla, el proceso
// sigue arriba con un almacén que responde ErrStoreUnavailable a toda consulta.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) *Handle {
	name := cfg.Store.Backend
	store, err := open(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("backend", name).Msg("no se pudo conectar al almacén; se responderá 503")
		return &Handle{Records: records.NewUnavailableStore(name, err), Backend: name, Err: err}
	}
	log.Info().Str("backend", name).Msg("almacén conectado")
	return &Handle{Records: store, Writer: store, Backend: name, Connected: true}
}

// OpenWriter igual que Open pero falla si no hay conexión (herramientas de carga).
func OpenWriter(ctx context.Context, cfg *config.Config) (repository.InvoiceRecordStore, repository.InvoiceRecordWriter, error) {
	store, err := open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return store, store, nil
}

func open(ctx context.Context, cfg *config.Config) (backend, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		repo, err := memory.LoadFile(cfg.Store.MockDataPath)
		if err != nil {
			return nil, err
		}
		return repo, nil

	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return postgres.NewInvoiceRecordRepository(pool), nil

	case config.BackendMongo:
		client, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return mongodb.NewInvoiceRecordRepository(client, cfg.Mongo.Database, cfg.Mongo.Collection), nil
	}
	return nil, fmt.Errorf("storage: backend desconocido %q", cfg.Store.Backend)
}
