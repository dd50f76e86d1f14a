// Package archive escribe archivos ZIP en streaming sobre cualquier io.Writer.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/flate"
)

// Writer ZIP con deflate a máxima compresión. No bufferiza el archivo completo:
// cada entrada se comprime y se escribe al destino a medida que llega.
type Writer struct {
	zw      *zip.Writer
	entries int
}

// NewWriter envuelve el destino (la respuesta HTTP o un archivo).
func NewWriter(w io.Writer) *Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})
	return &Writer{zw: zw}
}

// AddBytes agrega una entrada con el contenido dado.
func (w *Writer) AddBytes(name string, data []byte, modified time.Time) error {
	fw, err := w.create(name, modified)
	if err != nil {
		return err
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("zip: escribir %s: %w", name, err)
	}
	return nil
}

// AddReader agrega una entrada copiando desde r.
func (w *Writer) AddReader(name string, r io.Reader, modified time.Time) error {
	fw, err := w.create(name, modified)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return fmt.Errorf("zip: copiar %s: %w", name, err)
	}
	return nil
}

func (w *Writer) create(name string, modified time.Time) (io.Writer, error) {
	if modified.IsZero() {
		modified = time.Now()
	}
	fw, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return nil, fmt.Errorf("zip: crear entrada %s: %w", name, err)
	}
	w.entries++
	return fw, nil
}

// Entries cantidad de entradas escritas.
func (w *Writer) Entries() int { return w.entries }

// Close escribe el directorio central. Sin Close el ZIP queda corrupto.
func (w *Writer) Close() error {
	if err := w.zw.Close(); err != nil {
		return fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return nil
}
