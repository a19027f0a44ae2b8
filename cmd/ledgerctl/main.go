// Command ledgerctl runs administrative tasks against the ledger database.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Administrative commands for the MFRS ledger",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL URL (defaults to PGSQL_URL)")
	rootCmd.PersistentFlags().String("migrations", "", "migration source (defaults to MIGRATIONS_PATH)")

	rootCmd.AddCommand(migrateCmd(logger))
	rootCmd.AddCommand(seedCmd(logger))
	rootCmd.AddCommand(catalogueCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
