package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica el esquema (idempotente)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := postgres.Migrate(cmd.Context(), rt.pool); err != nil {
			return err
		}
		rt.log.Info().Str("db", rt.cfg.DB.DBName).Msg("schema applied")
		fmt.Fprintln(cmd.OutOrStdout(), "esquema aplicado")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
