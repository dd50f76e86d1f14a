package records

import (
	"context"
	"fmt"

	"github.com/Henri-Funes/Vault-DTE/internal/domain"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/repository"
)

// UnavailableStore ocupa el lugar del backend cuando la conexión inicial falló.
// No se reintenta: toda operación devuelve domain.ErrStoreUnavailable.
type UnavailableStore struct {
	backend string
	cause   error
}

var _ repository.InvoiceRecordStore = (*UnavailableStore)(nil)

// NewUnavailableStore guarda la causa para reportarla en los errores.
func NewUnavailableStore(backend string, cause error) *UnavailableStore {
	return &UnavailableStore{backend: backend, cause: cause}
}

func (s *UnavailableStore) err() error {
	if s.cause == nil {
		return domain.ErrStoreUnavailable
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, s.cause)
}

func (s *UnavailableStore) Name() string { return s.backend }

func (s *UnavailableStore) Find(context.Context, repository.RecordFilter, repository.FindOptions) ([]*entity.InvoiceRecord, error) {
	return nil, s.err()
}

func (s *UnavailableStore) Each(context.Context, repository.RecordFilter, repository.FindOptions, func(*entity.InvoiceRecord) error) error {
	return s.err()
}

func (s *UnavailableStore) FindOne(context.Context, repository.RecordFilter, repository.FindOptions) (*entity.InvoiceRecord, error) {
	return nil, s.err()
}

func (s *UnavailableStore) Count(context.Context, repository.RecordFilter) (int64, error) {
	return 0, s.err()
}

func (s *UnavailableStore) AggregateByCategory(context.Context, repository.RecordFilter) ([]repository.GroupTotals, error) {
	return nil, s.err()
}

func (s *UnavailableStore) AggregateByReceiver(context.Context, repository.RecordFilter) ([]repository.ReceiverCount, error) {
	return nil, s.err()
}

func (s *UnavailableStore) Ping(context.Context) error { return s.err() }

func (s *UnavailableStore) Close(context.Context) error { return nil }
