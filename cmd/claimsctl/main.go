package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"claims_backoffice/config"
	"claims_backoffice/db"
	"claims_backoffice/models"
	"claims_backoffice/services"
	"claims_backoffice/services/i18n"

	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	rootCmd = &cobra.Command{
		Use:   "claimsctl",
		Short: "Maintenance commands for the claims backoffice",
		Long: `claimsctl runs the backoffice maintenance tasks against the configured
database: bulk policy imports, legacy data migrations and the SLA reminder job.

Configuration comes from the same environment variables (or .env file) as the server.`,
		PersistentPreRunE:  openDatabase,
		PersistentPostRunE: closeDatabase,
		SilenceUsage:       true,
	}
)

// cliActor is recorded in the audit trail for changes made from the command line
var cliActor = services.AuditContext{UserName: "claimsctl", UserRole: models.RoleAdmin}

func init() {
	rootCmd.AddCommand(importPoliciesCmd())
	rootCmd.AddCommand(importTemplateCmd())
	rootCmd.AddCommand(migrateRolesCmd())
	rootCmd.AddCommand(slaRemindersCmd())
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

func openDatabase(_ *cobra.Command, _ []string) error {
	cfg = config.Load()
	if err := db.Initialize(cfg); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := i18n.Load(); err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}
	return nil
}

func closeDatabase(_ *cobra.Command, _ []string) error {
	if err := db.Close(); err != nil {
		log.Printf("[WARNING] Closing database: %v", err)
	}
	return nil
}
