package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/turtacn/themedash/internal/application/starburst"
	"github.com/turtacn/themedash/internal/infrastructure/dataset"
	"github.com/turtacn/themedash/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// list
// ─────────────────────────────────────────────────────────────────────────────

// ChartList is the result of the list command.
type ChartList []ChartListItem

// ChartListItem describes one configured chart.
type ChartListItem struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	Location string `json:"location"`
}

func (l ChartList) TableHeaders() []string { return []string{"NAME", "KIND", "TITLE", "SOURCE"} }

func (l ChartList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, c := range l {
		rows = append(rows, []string{c.Name, c.Kind, c.Title, c.Location})
	}
	return rows
}

func (l ChartList) String() string {
	var sb strings.Builder
	for _, c := range l {
		fmt.Fprintf(&sb, "%s (%s): %s\n", c.Name, c.Kind, c.Title)
	}
	return sb.String()
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			var out ChartList
			for _, p := range cliCtx.App.Service.Panels() {
				out = append(out, ChartListItem{
					Name:     p.Name,
					Kind:     p.Kind,
					Title:    p.Title,
					Location: redactLocation(p.Source),
				})
			}
			return PrintResult(cmd, out)
		},
	}
}

func redactLocation(src dataset.Source) string {
	if scheme, err := src.Scheme(); err == nil && scheme == dataset.SchemePostgres {
		return "postgres (query)"
	}
	return src.Location
}

// ─────────────────────────────────────────────────────────────────────────────
// counts
// ─────────────────────────────────────────────────────────────────────────────

// CountsResult lists theme counts of a starburst chart in canonical order.
type CountsResult struct {
	Chart  string       `json:"chart"`
	Total  int          `json:"total"`
	Counts []CountsLine `json:"counts"`
}

// CountsLine is one theme count.
type CountsLine struct {
	Theme  string `json:"theme"`
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

func newCountsResult(name string, c *starburst.Chart) CountsResult {
	res := CountsResult{Chart: name, Total: c.Counts.Total()}
	for _, s := range c.Series {
		for i, th := range s.Themes {
			res.Counts = append(res.Counts, CountsLine{Theme: string(th), Domain: string(s.Domain), Count: s.Counts[i]})
		}
	}
	return res
}

// sortByCount reorders the lines by count descending, then theme name.
func (r *CountsResult) sortByCount(counts starburst.ThemeCounts) {
	byTheme := make(map[string]CountsLine, len(r.Counts))
	for _, l := range r.Counts {
		byTheme[l.Theme] = l
	}
	sorted := make([]CountsLine, 0, len(r.Counts))
	for _, th := range counts.Sorted() {
		if l, ok := byTheme[string(th)]; ok {
			sorted = append(sorted, l)
		}
	}
	r.Counts = sorted
}

func (r CountsResult) TableHeaders() []string { return []string{"THEME", "DOMAIN", "COUNT"} }

func (r CountsResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Counts)+1)
	for _, c := range r.Counts {
		rows = append(rows, []string{c.Theme, c.Domain, humanize.Comma(int64(c.Count))})
	}
	return append(rows, []string{"TOTAL", "", humanize.Comma(int64(r.Total))})
}

func (r CountsResult) String() string {
	var sb strings.Builder
	for _, c := range r.Counts {
		fmt.Fprintf(&sb, "%s (%s): %s\n", c.Theme, c.Domain, humanize.Comma(int64(c.Count)))
	}
	fmt.Fprintf(&sb, "total: %s\n", humanize.Comma(int64(r.Total)))
	return sb.String()
}

// xlsxRows converts the result for spreadsheet export.
func (r CountsResult) xlsxRows() [][]interface{} {
	rows := make([][]interface{}, 0, len(r.Counts))
	for _, c := range r.Counts {
		rows = append(rows, []interface{}{c.Theme, c.Domain, c.Count})
	}
	return rows
}

func newCountsCmd() *cobra.Command {
	var (
		xlsxPath string
		byCount  bool
	)

	cmd := &cobra.Command{
		Use:   "counts <chart>",
		Short: "Show theme counts of a starburst chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			c, err := cliCtx.App.Service.Starburst(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			res := newCountsResult(args[0], c)
			if byCount {
				res.sortByCount(c.Counts)
			}

			if xlsxPath != "" {
				var buf bytes.Buffer
				if err := dataset.WriteXLSX(&buf, "Counts", []string{"Theme", "Domain", "Count"}, res.xlsxRows()); err != nil {
					return err
				}
				if err := os.WriteFile(xlsxPath, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", xlsxPath, err)
				}
				cliCtx.Logger.Info("counts exported", logging.String("path", xlsxPath))
			}
			return PrintResult(cmd, res)
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also export the counts to this .xlsx file")
	cmd.Flags().BoolVar(&byCount, "by-count", false, "order themes by count instead of by domain")
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// figure
// ─────────────────────────────────────────────────────────────────────────────

func newFigureCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "figure <chart>",
		Short: "Print the plotly figure JSON of a chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			fig, err := cliCtx.App.Service.Figure(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if outPath == "" {
				return printJSON(cmd, fig)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			saved := cmd.OutOrStdout()
			cmd.SetOut(f)
			err = printJSON(cmd, fig)
			cmd.SetOut(saved)
			if err != nil {
				return err
			}
			PrintSuccess(cmd, "wrote "+outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "write the figure to this file instead of stdout")
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// render
// ─────────────────────────────────────────────────────────────────────────────

func newRenderCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "render <chart>",
		Short: "Render a chart to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = args[0] + ".png"
			}

			var buf bytes.Buffer
			if err := cliCtx.App.Service.RenderPNG(cmd.Context(), args[0], &buf); err != nil {
				return err
			}
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			PrintSuccess(cmd, fmt.Sprintf("wrote %s (%s)", outPath, humanize.Bytes(uint64(buf.Len()))))
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default: <chart>.png)")
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// version
// ─────────────────────────────────────────────────────────────────────────────

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "themedash %s\n  commit: %s\n  built:  %s\n", Version, GitCommit, BuildDate)
		},
	}
}
