package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/upca/personnel-console/internal/seed"
	"github.com/upca/personnel-console/pkg/logger"
)

var (
	clearData     bool
	adminEmail    string
	adminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the first admin and default catalogs",
	Long: `Create the first administrator and the default catalog entries.
The admin password is read from --admin-password or UPCA_ADMIN_PASSWORD.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer db.Close()
		gdb, err := initGorm(db)
		if err != nil {
			return err
		}

		password := adminPassword
		if password == "" {
			password = os.Getenv("UPCA_ADMIN_PASSWORD")
		}

		report, err := seed.Run(cmd.Context(), gdb, seed.Options{
			AdminEmail:    adminEmail,
			AdminPassword: password,
			BCryptCost:    cfg.Security.BCryptCost,
			Clear:         clearData,
		}, logger.LoggerWrapper())
		if err != nil {
			return err
		}

		if report.AdminCreated {
			fmt.Fprintln(cmd.OutOrStdout(), "Seeded admin user:", adminEmail)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Admin user already exists:", adminEmail)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d catalog entries\n", report.CatalogItems)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear records and catalogs before seeding")
	seedCmd.Flags().StringVar(&adminEmail, "admin-email", "admin@upca.edu.co", "email of the first administrator")
	seedCmd.Flags().StringVar(&adminPassword, "admin-password", "", "password of the first administrator")
}
