package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"image-finder/internal/models"
)

// RenderResults renders one row per result.
func RenderResults(results []models.Result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Serial", "File", "Outcome", "Size"})
	for _, r := range results {
		size := ""
		if r.Outcome == models.Copied {
			size = humanize.Bytes(uint64(max(r.Size, 0)))
		}
		outcome := r.Outcome.String()
		if r.Err != nil {
			outcome += ": " + r.Err.Error()
		}
		tw.AppendRow(table.Row{r.Serial, r.Name, outcome, size})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// RenderSummary renders the per-outcome counts.
func RenderSummary(s models.Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Outcome", "Count"})
	tw.AppendRows([]table.Row{
		{"copied", s.Copied},
		{"already exists", s.Existing},
		{"not found", s.NotFound},
		{"skipped", s.Skipped},
		{"failed", s.Failed},
	})
	tw.AppendFooter(table.Row{"bytes copied", humanize.Bytes(uint64(max(s.BytesCopied, 0)))})
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})

	var b strings.Builder
	b.WriteString(tw.Render())
	fmt.Fprintf(&b, "\nrun %s: %d serials in %s", s.RunID, s.Serials, s.Elapsed.Round(10*time.Millisecond))
	if s.Cancelled {
		b.WriteString(" (cancelled)")
	}
	return b.String()
}
