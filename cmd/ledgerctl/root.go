package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// cliDeps dependencias compartidas por los subcomandos; se arma en PersistentPreRunE.
type cliDeps struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

var rt cliDeps

var rootCmd = &cobra.Command{
	Use:           "ledgerctl",
	Short:         "Operación del libro de facturas, stock y abonos",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("cargar configuración: %w", err)
		}
		rt.cfg = cfg
		rt.log = logger.New(logger.Config{
			Env:     cfg.App.Env,
			Level:   cfg.App.LogLevel,
			Service: "ledgerctl",
			Output:  cmd.ErrOrStderr(),
		})
		pool, err := postgres.NewPool(cmd.Context(), cfg.DB)
		if err != nil {
			return fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		rt.pool = pool
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rt.pool != nil {
			rt.pool.Close()
		}
	},
}

// Execute ejecuta el comando raíz y termina con código 1 ante error.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if rt.log != nil {
			rt.log.Error().Err(err).Msg("command failed")
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
