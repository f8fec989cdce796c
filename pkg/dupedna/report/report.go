// Package report renders a duplicate search for people and for other tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/himanishpuri/DupeDNA/pkg/dupedna"
	"github.com/himanishpuri/DupeDNA/pkg/models"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the accepted values for Render.
var Formats = []string{FormatTable, FormatJSON, FormatYAML}

// Document is the exported shape of a report.
type Document struct {
	RunID            string       `json:"run_id" yaml:"run_id"`
	GeneratedAt      time.Time    `json:"generated_at" yaml:"generated_at"`
	ThresholdPercent int          `json:"threshold_percent" yaml:"threshold_percent"`
	Strategy         string       `json:"strategy" yaml:"strategy"`
	Destination      string       `json:"destination" yaml:"destination"`
	Pairs            int          `json:"pairs" yaml:"pairs"`
	ReclaimableBytes int64        `json:"reclaimable_bytes" yaml:"reclaimable_bytes"`
	Clusters         []ClusterDoc `json:"clusters" yaml:"clusters"`
	Plan             []MoveDoc    `json:"plan" yaml:"plan"`
}

type ClusterDoc struct {
	Keep          string   `json:"keep" yaml:"keep"`
	Move          []string `json:"move" yaml:"move"`
	MaxSimilarity float64  `json:"max_similarity" yaml:"max_similarity"`
}

type MoveDoc struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
}

// NewDocument flattens r into its exported shape.
func NewDocument(r *dupedna.Report) Document {
	doc := Document{
		RunID:            r.RunID,
		GeneratedAt:      r.GeneratedAt,
		ThresholdPercent: r.ThresholdPercent,
		Strategy:         r.Strategy,
		Destination:      r.Destination,
		Pairs:            len(r.Edges),
		ReclaimableBytes: r.ReclaimableBytes,
		Clusters:         make([]ClusterDoc, 0, len(r.Decisions)),
		Plan:             make([]MoveDoc, 0, len(r.Plan)),
	}
	for i, d := range r.Decisions {
		c := ClusterDoc{Keep: d.Keep.Path, Move: make([]string, 0, len(d.Move))}
		for _, m := range d.Move {
			c.Move = append(c.Move, m.Path)
		}
		if i < len(r.Clusters) {
			c.MaxSimilarity = r.Clusters[i].MaxSimilarity
		}
		doc.Clusters = append(doc.Clusters, c)
	}
	for _, m := range r.Plan {
		doc.Plan = append(doc.Plan, MoveDoc{Source: m.Source, Destination: m.Destination})
	}
	return doc
}

// Render writes r to w as a table, JSON or YAML.
func Render(w io.Writer, r *dupedna.Report, format string) error {
	if r == nil {
		return fmt.Errorf("nil report")
	}
	switch strings.ToLower(format) {
	case "", FormatTable:
		_, err := io.WriteString(w, Table(r)+"\n")
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(r))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(r)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// Table renders one row per cluster with a totals footer.
func Table(r *dupedna.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"#", "Keep", "Move", "Files", "Similarity", "Reclaim"})

	moved := 0
	for i, d := range r.Decisions {
		var sim float64
		if i < len(r.Clusters) {
			sim = r.Clusters[i].MaxSimilarity
		}
		paths := make([]string, 0, len(d.Move))
		for _, m := range d.Move {
			paths = append(paths, m.Path)
		}
		moved += len(d.Move)
		tw.AppendRow(table.Row{
			i + 1,
			d.Keep.Path,
			strings.Join(paths, "\n"),
			len(d.Move) + 1,
			strconv.FormatFloat(sim*100, 'f', 1, 64) + "%",
			humanize.Bytes(uint64(movedBytes(d))),
		})
	}

	tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%d to move", moved), "", "", humanize.Bytes(uint64(r.ReclaimableBytes))})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}

// StatsTable renders catalog counts.
func StatsTable(s *models.CatalogStats) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Item", "Value"})
	tw.AppendRows([]table.Row{
		{"Catalog", s.CatalogPath},
		{"Similarity DB", s.SimilarityDBPath},
		{"Images", humanize.Comma(s.Images)},
		{"Albums", humanize.Comma(s.Albums)},
		{"Similarity pairs", humanize.Comma(s.SimilarityPairs)},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	return tw.Render()
}

func movedBytes(d models.Decision) int64 {
	var total int64
	for _, m := range d.Move {
		if m.FileSize.Valid {
			total += m.FileSize.Int64
		}
	}
	return total
}
