// vaultctl herramientas de carga del respaldo de DTE: datos de prueba y
// normalización de rutas de PDF.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Henri-Funes/Vault-DTE/pkg/config"
	"github.com/Henri-Funes/Vault-DTE/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	log *logger.Logger

	rootCmd = &cobra.Command{
		Use:               "vaultctl",
		Short:             "Herramientas de carga del respaldo de DTE",
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "nivel de log (debug, info, warn, error)")

	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(migratePathsCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	level, _ := cmd.Flags().GetString("log-level")
	log = logger.New(logger.Config{Env: cfg.App.Env, Level: level, Output: os.Stderr})
	return nil
}
