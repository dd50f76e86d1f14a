// Package system reúne los endpoints de diagnóstico: salud, sondeo de
// actualizaciones e información del proceso.
package system

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/application/cache"
	"github.com/Henri-Funes/Vault-DTE/internal/application/dto"
	"github.com/Henri-Funes/Vault-DTE/internal/application/records"
)

// DefaultUpdateWindow ventana del sondeo cuando no se indica since.
const DefaultUpdateWindow = 30 * time.Second

const pingTimeout = 2 * time.Second

// CacheStater estado de la caché de estadísticas.
type CacheStater interface {
	CacheState() cache.State
}

// BackupInfo raíz del respaldo.
type BackupInfo interface {
	Dir() string
	Accessible() bool
}

// Info datos estáticos del proceso.
type Info struct {
	Environment string
	AppName     string
}

// UseCase diagnóstico del servicio.
type UseCase struct {
	records *records.Adapter
	cache   CacheStater
	backup  BackupInfo
	info    Info
	now     func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(adapter *records.Adapter, stats CacheStater, backup BackupInfo, info Info) *UseCase {
	return &UseCase{records: adapter, cache: stats, backup: backup, info: info, now: time.Now}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Health el proceso responde siempre; storeConnected refleja un ping al almacén.
func (uc *UseCase) Health(ctx context.Context) *dto.HealthDTO {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	h := &dto.HealthDTO{
		Status:      "healthy",
		Backend:     uc.records.Store().Name(),
		CacheState:  string(uc.cache.CacheState()),
		Environment: uc.info.Environment,
		Timestamp:   uc.now().UTC(),
	}
	if err := uc.records.Ping(ctx); err != nil {
		h.Status = "degraded"
		h.StoreError = err.Error()
		return h
	}
	h.StoreConnected = true
	return h
}

// CheckUpdates documentos migrados desde since (por defecto, los últimos 30 s).
func (uc *UseCase) CheckUpdates(ctx context.Context, since time.Time) (*dto.UpdatesDTO, error) {
	now := uc.now()
	if since.IsZero() {
		since = now.Add(-DefaultUpdateWindow)
	}
	n, latest, err := uc.records.MigratedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	out := &dto.UpdatesDTO{HasUpdates: n > 0, RecentCount: n, Timestamp: now.UTC()}
	if latest != nil {
		out.LastUpdate = latest.MigratedAt
	}
	return out, nil
}

// SystemInfo entorno, backend y ruta del respaldo.
func (uc *UseCase) SystemInfo() *dto.SystemInfoDTO {
	wd, _ := os.Getwd()
	return &dto.SystemInfoDTO{
		Environment:      uc.info.Environment,
		AppName:          uc.info.AppName,
		Backend:          uc.records.Store().Name(),
		BackupPath:       uc.backup.Dir(),
		BackupAccessible: uc.backup.Accessible(),
		GoVersion:        runtime.Version(),
		Platform:         runtime.GOOS + "/" + runtime.GOARCH,
		WorkingDir:       wd,
	}
}
