// Package backup da acceso de solo lectura (y escritura para la CLI) a la raíz
// del respaldo en disco donde viven los PDF de los DTE.
package backup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/Henri-Funes/Vault-DTE/internal/domain"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/spf13/afero"
)

// Root raíz del respaldo. Todas las rutas son relativas a ella.
type Root struct {
	fs  afero.Fs
	dir string
}

// NewRoot abre la raíz en disco. BasePathFs impide salir de dir.
func NewRoot(dir string) *Root {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return &Root{fs: afero.NewBasePathFs(afero.NewOsFs(), abs), dir: abs}
}

// NewRootFs usa un sistema de archivos arbitrario (afero.NewMemMapFs en pruebas).
func NewRootFs(fsys afero.Fs, label string) *Root {
	return &Root{fs: fsys, dir: label}
}

// Dir ruta absoluta de la raíz (solo informativa).
func (r *Root) Dir() string { return r.dir }

// Clean normaliza una ruta guardada (prefijos antiguos, "\") y la valida.
// Devuelve domain.ErrBackingFileNotFound si la ruta intenta salir de la raíz.
func Clean(rel string) (string, error) {
	p, _ := dte.NormalizePDFPath(rel)
	if p == "" || !dte.IsRelativePath(p) {
		return "", domain.ErrBackingFileNotFound
	}
	p = path.Clean(p)
	if p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", domain.ErrBackingFileNotFound
	}
	return p, nil
}

// Open abre un archivo regular del respaldo y devuelve su tamaño.
func (r *Root) Open(rel string) (io.ReadCloser, int64, error) {
	p, err := Clean(rel)
	if err != nil {
		return nil, 0, err
	}
	f, err := r.fs.Open(p)
	if err != nil {
		return nil, 0, notFound(p, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, notFound(p, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, 0, domain.ErrBackingFileNotFound
	}
	return f, info.Size(), nil
}

// Exists indica si hay un archivo regular en la ruta.
func (r *Root) Exists(rel string) bool {
	p, err := Clean(rel)
	if err != nil {
		return false
	}
	info, err := r.fs.Stat(p)
	return err == nil && !info.IsDir()
}

// Accessible indica si la raíz existe y es un directorio.
func (r *Root) Accessible() bool {
	info, err := r.fs.Stat(".")
	return err == nil && info.IsDir()
}

// WriteFile crea (o reemplaza) un archivo creando los directorios intermedios.
func (r *Root) WriteFile(rel string, data []byte) error {
	p, err := Clean(rel)
	if err != nil {
		return fmt.Errorf("backup: ruta inválida %q: %w", rel, err)
	}
	if err := r.fs.MkdirAll(path.Dir(p), 0o755); err != nil {
		return fmt.Errorf("backup: crear directorio de %s: %w", p, err)
	}
	if err := afero.WriteFile(r.fs, p, data, 0o644); err != nil {
		return fmt.Errorf("backup: escribir %s: %w", p, err)
	}
	return nil
}

func notFound(p string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return domain.ErrBackingFileNotFound
	}
	return fmt.Errorf("backup: abrir %s: %w", p, err)
}
