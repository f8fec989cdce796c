package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/himanishpuri/DupeDNA/internal/config"
	"github.com/himanishpuri/DupeDNA/pkg/dupedna/report"
	"github.com/himanishpuri/DupeDNA/pkg/dupedna/selector"
)

type findFlags struct {
	dbFolder    string
	script      string
	threshold   int
	top         int
	destination string
	strategy    string
	workers     int
	sourceRoot  string
	format      string
	dryRun      bool
}

func newFindCommand(ctx *commandContext) *cobra.Command {
	var flags findFlags

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Cluster similar images and write a script that moves the extra copies",
		Long: `Reads digikam4.db and similarity.db from --db-folder-path, groups images
whose similarity is at or above the threshold, keeps one file per group and
writes a bash script that moves the others to --destination.

The script is only written, never executed.`,
		Example: "  dupedna find --db-folder-path ~/Pictures --similarity-threshold 95 --destination /srv/dupes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			applyFindFlags(cmd, cfg, flags)
			if err := cfg.RequireDBFolder(); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runFind(cmd, ctx, cfg, flags.dryRun)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.dbFolder, "db-folder-path", "", "Folder containing digikam4.db and similarity.db")
	f.StringVar(&flags.script, "output-script", "", "Path of the generated bash script (default move_duplicates.sh)")
	f.IntVar(&flags.threshold, "similarity-threshold", 0, "Minimum similarity in percent (default 90)")
	f.IntVar(&flags.top, "top", 0, "Only consider the N most similar pairs (0 = all)")
	f.StringVar(&flags.destination, "destination", "", "Directory the extra copies are moved to")
	f.StringVar(&flags.strategy, "strategy", "", "Keep rule: "+strategyNames())
	f.IntVar(&flags.workers, "workers", 0, "Clusters decided in parallel")
	f.StringVar(&flags.sourceRoot, "source-root", "", "Collection root prefixed to album paths in the script")
	f.StringVar(&flags.format, "format", "", "Report format: "+strings.Join(report.Formats, ", "))
	f.BoolVar(&flags.dryRun, "dry-run", false, "Print the report without writing the script")

	return cmd
}

// applyFindFlags copies explicitly set flags over the loaded config.
func applyFindFlags(cmd *cobra.Command, cfg *config.Config, flags findFlags) {
	changed := cmd.Flags().Changed
	if changed("db-folder-path") {
		cfg.Catalog.DBFolder = flags.dbFolder
	}
	if changed("output-script") {
		cfg.Output.Script = flags.script
	}
	if changed("similarity-threshold") {
		cfg.Dedupe.Threshold = flags.threshold
	}
	if changed("top") {
		cfg.Dedupe.Top = flags.top
	}
	if changed("destination") {
		cfg.Dedupe.Destination = flags.destination
	}
	if changed("strategy") {
		cfg.Dedupe.Strategy = strings.ToLower(strings.TrimSpace(flags.strategy))
	}
	if changed("workers") {
		cfg.Dedupe.Workers = flags.workers
	}
	if changed("source-root") {
		cfg.Output.SourceRoot = flags.sourceRoot
	}
	if changed("format") {
		cfg.Output.Format = strings.ToLower(strings.TrimSpace(flags.format))
	}
}

func runFind(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, dryRun bool) error {
	out := cmd.OutOrStdout()
	// Machine-readable reports own stdout; progress goes to stderr.
	status := out
	if cfg.Output.Format != report.FormatTable {
		status = cmd.ErrOrStderr()
	}
	printBanner(status)

	svc, err := ctx.newService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	rep, err := svc.FindDuplicates(cmd.Context(), cfg.FindOptions())
	if err != nil {
		return err
	}
	fmt.Fprintf(status, "Processing top %d duplicates.\n", len(rep.Edges))

	if len(rep.Clusters) == 0 {
		fmt.Fprintln(status, "📭 No duplicates above the threshold")
	}
	if len(rep.Clusters) > 0 || cfg.Output.Format != report.FormatTable {
		if err := report.Render(out, rep, cfg.Output.Format); err != nil {
			return err
		}
	}

	if dryRun {
		fmt.Fprintln(status, "🔍 Dry run: no script written")
		return nil
	}

	if err := svc.WritePlan(rep.Plan, cfg.Output.Script); err != nil {
		return err
	}
	fmt.Fprintf(status, "Bash script generated at %s\n", cfg.Output.Script)
	printSummary(status, len(rep.Plan), rep.ReclaimableBytes)
	return nil
}

func printSummary(w io.Writer, moves int, reclaimable int64) {
	if moves == 0 {
		return
	}
	fmt.Fprintf(w, "✅ %d file(s) to move, %s reclaimable\n", moves, humanize.Bytes(uint64(reclaimable)))
}

func strategyNames() string {
	strategies := selector.Strategies()
	names := make([]string, 0, len(strategies))
	for _, s := range strategies {
		names = append(names, s.Name())
	}
	return strings.Join(names, ", ")
}
