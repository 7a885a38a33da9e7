package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/noah-isme/timetable-workspace/internal/models"
)

func (a *app) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <dataset> <file.csv>",
		Short: "Check a CSV file against the backend without storing it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := models.ParseDatasetType(args[0])
			if err != nil {
				return err
			}
			content, err := readCSV(args[1])
			if err != nil {
				return err
			}
			report, err := a.client().Validate(cmd.Context(), ds, filepath.Base(args[1]), content)
			if err != nil {
				return err
			}
			renderReport(cmd.OutOrStdout(), report)
			if !report.Valid {
				return fmt.Errorf("%s is not a valid %s file", filepath.Base(args[1]), ds)
			}
			return nil
		},
	}
}

func (a *app) uploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <dataset> <file.csv>",
		Short: "Validate a CSV file and replace the dataset with it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readCSV(args[1])
			if err != nil {
				return err
			}
			ws, err := a.workspace(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			report, err := ws.Upload(cmd.Context(), filepath.Base(args[1]), content)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !report.Valid {
				renderReport(out, report)
				return fmt.Errorf("upload rejected")
			}
			view := ws.View()
			if view.Message != nil {
				color.New(color.FgGreen).Fprintln(out, view.Message.Text)
			}
			fmt.Fprintf(out, "%s now holds %d records\n", view.Name, view.TotalRecords)
			return nil
		},
	}
}

func (a *app) downloadCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download <dataset>",
		Short: "Save the stored CSV of a dataset",
		Args:  datasetArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, _ := models.ParseDatasetType(args[0])
			content, err := a.client().Download(cmd.Context(), ds)
			if err != nil {
				return err
			}
			if output == "-" {
				_, err := cmd.OutOrStdout().Write(content)
				return err
			}
			if output == "" {
				output = string(ds) + ".csv"
			}
			if err := os.WriteFile(output, content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", output, len(content))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file, - for stdout (default <dataset>.csv)")
	return cmd
}

func (a *app) previewCommand() *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "preview <dataset>",
		Short: "Show the first rows of the stored CSV",
		Args:  datasetArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !models.ValidPreviewRows(rows) {
				return fmt.Errorf("rows must be one of %v", models.PreviewRowOptions)
			}
			ds, _ := models.ParseDatasetType(args[0])
			preview, err := a.client().Preview(cmd.Context(), ds, rows)
			if err != nil {
				return err
			}
			renderPreview(cmd.OutOrStdout(), preview)
			return nil
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", models.DefaultPreviewRows, fmt.Sprintf("rows to fetch, one of %v", models.PreviewRowOptions))
	return cmd
}

func readCSV(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}
	return content, nil
}

func renderReport(out io.Writer, report *models.ValidationReport) {
	if report.Valid {
		color.New(color.FgGreen, color.Bold).Fprintln(out, "File is valid")
	} else {
		color.New(color.FgRed, color.Bold).Fprintln(out, "File is invalid")
	}
	if report.RowCount > 0 {
		fmt.Fprintf(out, "  rows: %d, columns: %d\n", report.RowCount, report.ColumnCount)
	}
	for _, msg := range report.Errors {
		fmt.Fprintf(out, "  %s %s\n", color.RedString("error:"), msg)
	}
	for _, msg := range report.Warnings {
		fmt.Fprintf(out, "  %s %s\n", color.YellowString("warning:"), msg)
	}
}

func renderPreview(out io.Writer, preview *models.Preview) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(preview.Headers, "\t"))
	for _, row := range preview.Data {
		cells := make([]string, len(row))
		for i, v := range row {
			if v != nil {
				cells[i] = fmt.Sprint(v)
			}
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	_ = w.Flush()
	fmt.Fprintf(out, "Showing %d of %d rows\n", len(preview.Data), preview.TotalRows)
}
