// Package cli implements workspacectl, a terminal client for the timetable
// datasets that drives the same workspace services as the HTTP console.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/noah-isme/timetable-workspace/internal/models"
	"github.com/noah-isme/timetable-workspace/internal/service"
	"github.com/noah-isme/timetable-workspace/pkg/config"
	"github.com/noah-isme/timetable-workspace/pkg/timetableapi"
)

// Version is reported by `workspacectl --version`.
var Version = "0.1.0"

type app struct {
	upstream string
	timeout  time.Duration
	noColor  bool
}

// NewRootCommand assembles the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:     "workspacectl",
		Short:   "Inspect and maintain the timetable datasets from a terminal",
		Version: Version,
		Long: `
workspacectl talks to the timetable backend directly and exposes the dataset
workspace operations: listing and searching records, statistics, CSV
validation and upload, downloads, raw previews and the batch year mapping.

Datasets: batches, faculty, rooms, courses`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.resolve,
	}

	root.PersistentFlags().StringVar(&a.upstream, "upstream", "", "timetable backend base URL (default from UPSTREAM_BASE_URL)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "upstream request timeout (default from UPSTREAM_TIMEOUT)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.listCommand(),
		a.statsCommand(),
		a.countsCommand(),
		a.validateCommand(),
		a.uploadCommand(),
		a.downloadCommand(),
		a.previewCommand(),
		a.mappingCommand(),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

func (a *app) resolve(cmd *cobra.Command, _ []string) error {
	if a.noColor {
		color.NoColor = true
	}
	if a.upstream != "" && a.timeout > 0 {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.upstream == "" {
		a.upstream = cfg.Upstream.BaseURL
	}
	if a.timeout <= 0 {
		a.timeout = cfg.Upstream.Timeout
	}
	return nil
}

func (a *app) client() *timetableapi.Client {
	return timetableapi.New(timetableapi.Config{
		BaseURL:    a.upstream,
		Timeout:    a.timeout,
		HTTPClient: &http.Client{Timeout: a.timeout},
	})
}

// workspace opens a workspace on dataset and loads its records.
func (a *app) workspace(ctx context.Context, dataset string) (*service.Workspace, error) {
	ds, err := models.ParseDatasetType(dataset)
	if err != nil {
		return nil, err
	}
	ws := service.NewWorkspace(a.client(), nil, service.WorkspaceOptions{Dataset: ds})
	if err := ws.LoadData(ctx); err != nil {
		return nil, err
	}
	return ws, nil
}

func datasetArg(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%s requires a dataset (batches, faculty, rooms, courses)", cmd.Name())
	}
	_, err := models.ParseDatasetType(args[0])
	return err
}
