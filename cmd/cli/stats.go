package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/himanishpuri/DupeDNA/pkg/dupedna/report"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var dbFolder string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show image, album and similarity-pair counts of a catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db-folder-path") {
				cfg.Catalog.DBFolder = dbFolder
			}
			if err := cfg.RequireDBFolder(); err != nil {
				return err
			}

			svc, err := ctx.newService(cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			stats, err := svc.CatalogStats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}
			fmt.Fprintln(out, report.StatsTable(stats))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbFolder, "db-folder-path", "", "Folder containing digikam4.db and similarity.db")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
