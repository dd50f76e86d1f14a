package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/repository"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/backup"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/memory"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/mockdata"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/pdf"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/storage"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const insertBatch = 500

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Genera DTE de prueba",
		Long: `Genera documentos con datos de El Salvador repartidos en todas las carpetas.

Escribe facturas.json para el backend en memoria y, opcionalmente, renderiza
los PDF en la raíz del respaldo e inserta los documentos en el almacén configurado.`,
		RunE: runSeed,
	}

	cmd.Flags().Int("count", 1500, "cantidad de documentos")
	cmd.Flags().Uint64("seed", 1, "semilla; la misma semilla produce los mismos datos")
	cmd.Flags().String("out", "", "archivo JSON de salida (por defecto MOCK_DATA_PATH)")
	cmd.Flags().Bool("pdfs", false, "renderizar los PDF en BACKUP_PATH")
	cmd.Flags().Bool("insert", false, "insertar en el almacén de STORE_BACKEND")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	count, _ := cmd.Flags().GetInt("count")
	seed, _ := cmd.Flags().GetUint64("seed")
	out, _ := cmd.Flags().GetString("out")
	withPDFs, _ := cmd.Flags().GetBool("pdfs")
	insert, _ := cmd.Flags().GetBool("insert")
	if out == "" {
		out = cfg.Store.MockDataPath
	}
	if count <= 0 {
		return fmt.Errorf("seed: --count debe ser mayor que cero")
	}

	recs := mockdata.NewGenerator(mockdata.Options{Count: count, Seed: seed, Now: time.Now()}).Generate()
	log.Info().Int("count", len(recs)).Uint64("seed", seed).Msg("documentos generados")

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if err := memory.NewInvoiceRecordRepository(recs...).SaveFile(out); err != nil {
		return err
	}
	log.Info().Str("file", out).Msg("facturas.json escrito")

	if withPDFs {
		root := backup.NewRoot(cfg.Backup.Path)
		n, err := renderPDFs(cmd.Context(), root, pdf.NewDTERenderer(), recs, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		log.Info().Int("pdfs", n).Str("root", root.Dir()).Msg("PDF renderizados")
	}

	if insert {
		store, writer, err := storage.OpenWriter(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("seed: abrir almacén: %w", err)
		}
		defer func() { _ = store.Close(context.Background()) }()

		n, err := insertAll(cmd.Context(), writer, recs, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		log.Info().Int("inserted", n).Str("backend", store.Name()).Msg("documentos insertados")
	}
	return nil
}

type renderer interface {
	Render(rec *entity.InvoiceRecord) ([]byte, error)
}

// renderPDFs escribe el PDF de cada documento marcado con respaldo en su ruta relativa.
func renderPDFs(ctx context.Context, root *backup.Root, r renderer, recs []*entity.InvoiceRecord, progress io.Writer) (int, error) {
	bar := newBar(len(recs), "Renderizando PDF", progress)
	written := 0
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		_ = bar.Add(1)
		if !rec.HasBackupPDF || rec.PDFPath == "" {
			continue
		}
		raw, err := r.Render(rec)
		if err != nil {
			return written, fmt.Errorf("seed: renderizar %s: %w", rec.GenerationCode(), err)
		}
		rel, _ := dte.NormalizePDFPath(rec.PDFPath)
		if err := root.WriteFile(rel, raw); err != nil {
			return written, err
		}
		written++
	}
	_ = bar.Finish()
	return written, nil
}

func insertAll(ctx context.Context, w repository.InvoiceRecordWriter, recs []*entity.InvoiceRecord, progress io.Writer) (int, error) {
	bar := newBar(len(recs), "Insertando", progress)
	inserted := 0
	for start := 0; start < len(recs); start += insertBatch {
		end := min(start+insertBatch, len(recs))
		n, err := w.InsertMany(ctx, recs[start:end])
		if err != nil {
			return inserted, fmt.Errorf("seed: insertar: %w", err)
		}
		inserted += n
		_ = bar.Add(end - start)
	}
	_ = bar.Finish()
	return inserted, nil
}

func newBar(total int, desc string, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}
