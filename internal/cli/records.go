package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/noah-isme/timetable-workspace/internal/models"
	"github.com/noah-isme/timetable-workspace/internal/service"
	"github.com/noah-isme/timetable-workspace/pkg/format"
)

const maxCellWidth = 40

func (a *app) listCommand() *cobra.Command {
	var (
		search string
		sortBy string
		desc   bool
	)
	cmd := &cobra.Command{
		Use:   "list <dataset>",
		Short: "List the records of a dataset",
		Args:  datasetArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.workspace(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ws.Search(search)
			if sortBy != "" {
				if err := ws.Sort(sortBy); err != nil {
					return err
				}
				if desc {
					_ = ws.Sort(sortBy)
				}
			}
			renderTable(cmd.OutOrStdout(), ws.View())
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive filter across every field")
	cmd.Flags().StringVar(&sortBy, "sort", "", "column key to sort by")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

func (a *app) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <dataset>",
		Short: "Show completeness and column health of a dataset",
		Args:  datasetArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _ := models.ParseDatasetType(args[0])
			stats, err := service.NewAnalyticsService(a.client(), nil).ForDataset(cmd.Context(), ds)
			if err != nil {
				return err
			}
			renderStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func (a *app) countsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show the record count of every dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := service.NewAnalyticsService(a.client(), nil).Counts(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "DATASET\tRECORDS")
			for _, ds := range models.DatasetTypes {
				fmt.Fprintf(w, "%s\t%s\n", ds, format.Count(counts[ds], "record", ""))
			}
			return w.Flush()
		},
	}
}

func renderTable(out io.Writer, view service.WorkspaceView) {
	header := color.New(color.FgCyan, color.Bold)
	if view.NoRecords {
		color.New(color.FgYellow).Fprintf(out, "No %s found.\n", strings.ToLower(view.Name))
		return
	}
	if view.FilteredEmpty {
		color.New(color.FgYellow).Fprintf(out, "No %s match %q.\n", strings.ToLower(view.Name), view.Search)
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	labels := make([]string, 0, len(view.Columns))
	section := -1
	for i, col := range view.Columns {
		labels = append(labels, header.Sprint(col.Label))
		if col.Key == "section" {
			section = i
		}
	}
	fmt.Fprintln(w, strings.Join(labels, "\t"))
	for _, row := range view.Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			if i < len(view.Columns) && view.Columns[i].Key == "email" {
				cells[i] = format.EmailPreview(cell, maxCellWidth)
			} else {
				cells[i] = format.Truncate(cell, maxCellWidth)
			}
		}
		if row.SectionNeedsAttention && section >= 0 && section < len(cells) {
			cells[section] = color.RedString(cells[section])
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	_ = w.Flush()
	fmt.Fprintf(out, "%d of %d %s\n", view.VisibleRecords, view.TotalRecords, strings.ToLower(view.Name))
}

func renderStats(out io.Writer, stats *models.Stats) {
	if stats == nil {
		color.New(color.FgYellow).Fprintln(out, "No data available for visualization")
		return
	}
	title := color.New(color.FgGreen, color.Bold)
	title.Fprintf(out, "%s statistics\n", stats.Dataset)
	for _, metric := range stats.KeyMetrics {
		fmt.Fprintf(out, "  %s: %s\n", metric.Label, color.CyanString(metric.Value))
	}
	fmt.Fprintf(out, "  Completeness: %.1f%% (%d of %d cells blank)\n", stats.Completeness, stats.BlankCells, stats.TotalCells)

	columns := append([]models.ColumnStats(nil), stats.Columns...)
	sort.SliceStable(columns, func(i, j int) bool { return columns[i].FillRate < columns[j].FillRate })

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tUNIQUE\tNULLS\tFILL\tSTATUS")
	for _, col := range columns {
		status := color.GreenString("healthy")
		if !col.Healthy {
			status = color.RedString("needs attention")
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.1f%%\t%s\n", col.Key, col.UniqueValues, col.NullCount, col.FillRate, status)
	}
	_ = w.Flush()
}
