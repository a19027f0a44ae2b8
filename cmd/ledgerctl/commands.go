package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/catalogue"
	"github.com/SscSPs/mfrs_ledger_app/internal/core/services"
	"github.com/SscSPs/mfrs_ledger_app/internal/platform/config"
	"github.com/SscSPs/mfrs_ledger_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/mfrs_ledger_app/pkg/database"
	"github.com/spf13/cobra"
)

// loadConfig reads the environment and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if url, _ := cmd.Flags().GetString("database-url"); url != "" {
		cfg.DatabaseURL = url
	}
	if src, _ := cmd.Flags().GetString("migrations"); src != "" {
		cfg.MigrationsPath = src
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required (--database-url or PGSQL_URL)")
	}
	return cfg, nil
}

func migrateCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.MigrateUp, logger)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.MigrateDown, logger)
		},
	})

	return cmd
}

func seedCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the built-in MFRS rules and disclosure requirements into an empty catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
			if err != nil {
				return err
			}
			defer database.ClosePgxPool(pool)

			repos := pgsql.NewRepositoryProvider(pool)
			compliance := services.NewComplianceService(repos.ComplianceRepo, services.WithComplianceAuditLog(repos.AuditRepo))
			if err := compliance.SeedDefaults(ctx); err != nil {
				return err
			}
			logger.Info("Seed complete")
			return nil
		},
	}
}

func catalogueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogue",
		Short: "Inspect rule catalogue files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check [file]",
		Short: "Parse a catalogue file and report what it defines",
		Long: `Parse a YAML rule catalogue with the same decoder the server uses for the
built-in catalogue. Without a file argument the built-in catalogue is checked.

Examples:
  ledgerctl catalogue check
  ledgerctl catalogue check ./custom_rules.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cat *catalogue.Catalogue
				err error
			)
			now := time.Now().UTC()
			if len(args) == 0 {
				cat, err = catalogue.Default(now)
			} else {
				data, readErr := os.ReadFile(args[0])
				if readErr != nil {
					return fmt.Errorf("failed to read catalogue: %w", readErr)
				}
				cat, err = catalogue.Parse(data, now)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d rules, %d disclosure requirements\n", len(cat.Rules), len(cat.DisclosureRequirements))
			for _, r := range cat.Rules {
				fmt.Fprintf(out, "  rule %-24s %-9s %s\n", r.RuleCode, r.ComplianceLevel, r.Standard)
			}
			for _, d := range cat.DisclosureRequirements {
				fmt.Fprintf(out, "  disclosure %-18s mandatory=%t %s\n", d.RequirementCode, d.IsMandatory, d.Standard)
			}
			return nil
		},
	})

	return cmd
}
