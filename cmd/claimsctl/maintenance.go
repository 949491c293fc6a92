package main

import (
	"fmt"
	"time"

	"claims_backoffice/db"
	"claims_backoffice/services"
	"claims_backoffice/services/jobs"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func migrateRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-roles",
		Short: "Rewrite legacy activity roles to the canonical vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed, err := services.MigrateActivityRoles(cmd.Context(), db.DB)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			if len(changed) == 0 {
				fmt.Println("No legacy roles found")
				return nil
			}
			for role, n := range changed {
				fmt.Printf("  %s: %s\n", role, color.CyanString("%d activities", n))
			}
			fmt.Println(color.GreenString("✓ Activity roles migrated"))
			return nil
		},
	}
}

func slaRemindersCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "sla-reminders",
		Short: "Email assignees of overdue and at-risk activities now",
		Long: `Run the SLA reminder job once, outside its cron schedule. With --dry-run the
emails are logged to the console instead of sent. Reminders are recorded either
way, so the scheduled run later today will not repeat them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runCfg := *cfg
			if dryRun {
				runCfg.EmailTestMode = true
			}
			now := time.Now().In(runCfg.Location())

			summary := jobs.SendSLAReminders(cmd.Context(), db.DB, &runCfg, now, services.SendEmail)
			if summary.Failed > 0 {
				return fmt.Errorf("SLA reminders: %s", summary)
			}
			fmt.Println(color.GreenString("✓ SLA reminders: %s", summary))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log reminders instead of sending them")
	return cmd
}
