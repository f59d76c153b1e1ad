package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Facturacion-api/internal/application/inventory"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Verificación del kardex contra el stock",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <tenant-id>",
	Short: "Reproduce el kardex de cada producto del tenant y compara con el stock actual",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		uc := inventory.NewAuditUseCase(
			postgres.NewTxRunner(rt.pool),
			postgres.NewProductRepository(rt.pool),
			postgres.NewInventoryLogRepository(rt.pool),
		)
		res, err := uc.VerifyTenant(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PRODUCTO\tREPLAY\tSTOCK\tENTRADAS\tESTADO")
		for _, p := range res.Products {
			state := "ok"
			if !p.Consistent {
				state = "INCONSISTENTE"
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", p.ProductName, p.Replayed, p.Current, p.Entries, state)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if res.Inconsistent > 0 {
			rt.log.Warn().Str("tenant_id", res.TenantID).Int("inconsistent", res.Inconsistent).Msg("ledger audit failed")
			return fmt.Errorf("%d productos con kardex inconsistente", res.Inconsistent)
		}
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditVerifyCmd)
	rootCmd.AddCommand(auditCmd)
}
