package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/forPelevin/hookcut/internal/observe"
	"github.com/forPelevin/hookcut/internal/pipeline"
	"github.com/forPelevin/hookcut/internal/types"
)

// reportLine is the JSON shape printed per input when stdout is not a
// terminal.
type reportLine struct {
	Input        string            `json:"input"`
	RunID        string            `json:"run_id"`
	OutDir       string            `json:"out_dir"`
	Path         string            `json:"path"`
	Degradations []string          `json:"degradations,omitempty"`
	Highlights   []types.Highlight `json:"highlights"`
}

func printReports(w io.Writer, reps []pipeline.Report) error {
	if isTerminal(w) {
		for _, r := range reps {
			if _, err := fmt.Fprintln(w, renderReport(r)); err != nil {
				return err
			}
		}
		return nil
	}
	enc := json.NewEncoder(w)
	for _, r := range reps {
		hs := r.Highlights
		if hs == nil {
			hs = []types.Highlight{}
		}
		if err := enc.Encode(reportLine{
			Input:        r.Input,
			RunID:        r.RunID,
			OutDir:       r.OutDir,
			Path:         r.Manifest.Path,
			Degradations: r.Manifest.Degradations,
			Highlights:   hs,
		}); err != nil {
			return err
		}
	}
	return nil
}

func renderReport(r pipeline.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(fmt.Sprintf("%s (%s)", r.Input, r.Manifest.Path))
	tw.AppendHeader(table.Row{"#", "Start", "End", "Duration"})
	for i, h := range r.Highlights {
		tw.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%.2f", h.Start),
			fmt.Sprintf("%.2f", h.End),
			fmt.Sprintf("%.2f", h.Duration()),
		})
	}
	for _, d := range r.Manifest.Degradations {
		tw.AppendRow(table.Row{"!", "degraded", d, ""})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}

func renderStats(sum observe.Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Stage", "Count", "Total (s)"})
	for _, st := range sum.Stages {
		tw.AppendRow(table.Row{st.Stage, st.Count, fmt.Sprintf("%.3f", st.Sum)})
	}
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"highlights", sum.Highlights, ""})
	tw.AppendRow(table.Row{"fallbacks", sum.Fallbacks, ""})
	reasons := make([]string, 0, len(sum.Degradations))
	for r := range sum.Degradations {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		tw.AppendRow(table.Row{"degraded: " + r, sum.Degradations[r], ""})
	}
	return tw.Render()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
