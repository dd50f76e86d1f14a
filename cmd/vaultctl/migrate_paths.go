package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Henri-Funes/Vault-DTE/internal/domain/dte"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/entity"
	"github.com/Henri-Funes/Vault-DTE/internal/domain/repository"
	"github.com/Henri-Funes/Vault-DTE/internal/infrastructure/storage"
	"github.com/spf13/cobra"
)

func migratePathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate-paths",
		Short: "Convierte ruta_pdf absolutas antiguas en rutas relativas",
		Long: `Recorre los documentos del almacén y reescribe ruta_pdf cuando empieza con un
prefijo de respaldo antiguo o usa "\" como separador. Las rutas ya relativas no se tocan.`,
		RunE: runMigratePaths,
	}

	cmd.Flags().Bool("dry-run", false, "solo contar, sin escribir")

	return cmd
}

func runMigratePaths(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	store, writer, err := storage.OpenWriter(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("migrate-paths: abrir almacén: %w", err)
	}
	defer func() { _ = store.Close(context.Background()) }()

	res, err := migratePaths(cmd.Context(), store, writer, dryRun, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	log.Info().
		Int("scanned", res.Scanned).
		Int("updated", res.Updated).
		Int("skipped", res.Skipped).
		Bool("dryRun", dryRun).
		Msg("normalización de rutas terminada")
	return nil
}

type pathMigration struct {
	Scanned int
	Updated int
	Skipped int
}

type pathChange struct {
	code string
	path string
}

// migratePaths junta primero los cambios y luego escribe, para no actualizar
// documentos bajo un cursor abierto.
func migratePaths(ctx context.Context, store repository.InvoiceRecordStore, w repository.InvoiceRecordWriter, dryRun bool, progress io.Writer) (pathMigration, error) {
	var res pathMigration
	var changes []pathChange
	err := store.Each(ctx, repository.RecordFilter{}, repository.FindOptions{}, func(rec *entity.InvoiceRecord) error {
		res.Scanned++
		normalized, changed := dte.NormalizePDFPath(rec.PDFPath)
		if !changed {
			res.Skipped++
			return nil
		}
		changes = append(changes, pathChange{code: rec.GenerationCode(), path: normalized})
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("migrate-paths: recorrer: %w", err)
	}
	if dryRun {
		res.Updated = len(changes)
		return res, nil
	}

	bar := newBar(len(changes), "Actualizando rutas", progress)
	for _, ch := range changes {
		if err := w.UpdatePDFPath(ctx, ch.code, ch.path); err != nil {
			return res, fmt.Errorf("migrate-paths: %s: %w", ch.code, err)
		}
		res.Updated++
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return res, nil
}
