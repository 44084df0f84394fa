package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jinftw64/dicomweb-pacs/internal/config"
	"github.com/jinftw64/dicomweb-pacs/internal/server"
)

func newStatusCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Query a running gateway for its status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			st, err := fetchStatus(cfg.Paths.Bind)
			if err != nil {
				return fmt.Errorf("gateway not reachable at %s: %w", cfg.Paths.Bind, err)
			}

			rows := [][]string{
				{"running", fmt.Sprintf("%t", st.Running)},
				{"bind", st.Bind},
				{"storage root", st.StorageRoot},
				{"engine url", st.EngineURL},
				{"uptime", (time.Duration(st.UptimeSec) * time.Second).String()},
			}
			if st.AuditDBPath != "" {
				rows = append(rows, []string{"audit db", st.AuditDBPath})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}

func fetchStatus(bind string) (server.Status, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + bind + "/api/status")
	if err != nil {
		return server.Status{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return server.Status{}, fmt.Errorf("status endpoint returned %s", resp.Status)
	}

	var st server.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return server.Status{}, fmt.Errorf("decode status: %w", err)
	}
	return st, nil
}
