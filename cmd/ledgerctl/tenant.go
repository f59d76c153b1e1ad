package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/quota"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Alta de tenants y cambio de plan",
}

var tenantCreateCmd = &cobra.Command{
	Use:   "create <nombre>",
	Short: "Crea un tenant y muestra su ID",
	Args:  cobra.ExactArgs(1),
	Example: `  ledgerctl tenant create "Acme Ltd" --plan PRO --currency TRY`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, _ := cmd.Flags().GetString("plan")
		currency, _ := cmd.Flags().GetString("currency")
		out, err := tenantUseCase().Create(cmd.Context(), dto.CreateTenantRequest{
			Name:         args[0],
			Plan:         plan,
			BaseCurrency: currency,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", out.ID, out.Name, out.Plan, out.BaseCurrency)
		return nil
	},
}

var tenantUpgradeCmd = &cobra.Command{
	Use:   "upgrade <tenant-id>",
	Short: "Sube el tenant a PRO (equivale al webhook de pago confirmado)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reference, _ := cmd.Flags().GetString("reference")
		out, err := tenantUseCase().UpgradeToPro(cmd.Context(), args[0], reference)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", out.ID, out.Plan)
		return nil
	},
}

func tenantUseCase() *quota.TenantUseCase {
	return quota.NewTenantUseCase(postgres.NewTenantRepository(rt.pool), rt.cfg.Ledger.BaseCurrency, rt.log.WithComponent("tenants"))
}

func init() {
	tenantCreateCmd.Flags().String("plan", "", "FREE (por defecto), PRO o ENTERPRISE")
	tenantCreateCmd.Flags().String("currency", "", "Moneda base; por defecto LEDGER_BASE_CURRENCY")
	tenantUpgradeCmd.Flags().String("reference", "ledgerctl", "Referencia del pago para el log")

	tenantCmd.AddCommand(tenantCreateCmd, tenantUpgradeCmd)
	rootCmd.AddCommand(tenantCmd)
}
