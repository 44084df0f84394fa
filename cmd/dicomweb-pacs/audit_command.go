package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jinftw64/dicomweb-pacs/internal/audit"
	"github.com/jinftw64/dicomweb-pacs/internal/config"
)

func newAuditCommand(configFlag *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent retrieve and transcode activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.Audit.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Audit logging is disabled in the configuration")
				return nil
			}

			store, err := audit.Open(cfg)
			if err != nil {
				return fmt.Errorf("open audit store: %w", err)
			}
			defer store.Close()

			events, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("load audit events: %w", err)
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No audit events recorded")
				return nil
			}

			rows := make([][]string, 0, len(events))
			for _, evt := range events {
				rows = append(rows, []string{
					strconv.FormatInt(evt.ID, 10),
					evt.Time.Local().Format(time.RFC3339),
					evt.Kind,
					evt.StudyUID,
					evt.ObjectUID,
					fmt.Sprintf("%t", evt.CacheHit),
					strconv.FormatInt(evt.DurationMS, 10),
					evt.Outcome,
				})
			}
			headers := []string{"ID", "Time", "Kind", "Study", "Object", "Cached", "ms", "Outcome"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of events to show")
	return cmd
}
