package main

import (
	"fmt"
	"time"

	"focuslist/focuslist/services"

	"github.com/spf13/cobra"
)

func cleanupCmd() *cobra.Command {
	var retentionDays int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired invites and old read notifications",
		Long: `Delete expired invites and read notifications older than the retention window.

Meant to be run periodically by an external scheduler, for example:
  focuslist cleanup --retention-days 14`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, db, release, err := bootstrap()
			if err != nil {
				return err
			}
			defer release()

			if !cmd.Flags().Changed("retention-days") {
				retentionDays = cfg.NotificationRetentionDays
			}

			cleanup := services.NewCleanupService(services.NewNotificationService(nil), retentionDays)
			report, err := cleanup.Run(db, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("cleanup failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired invites and %d read notifications\n",
				report.ExpiredInvites, report.ReadNotifications)
			return nil
		},
	}

	cmd.Flags().IntVar(&retentionDays, "retention-days", 30, "days to keep read notifications")
	return cmd
}
