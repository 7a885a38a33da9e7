package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/noah-isme/timetable-workspace/internal/service"
)

func (a *app) mappingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Manage the batch year mapping",
	}
	cmd.AddCommand(a.mappingListCommand(), a.mappingAddCommand(), a.mappingRemoveCommand())
	return cmd
}

func (a *app) mappings() *service.MappingService {
	return service.NewMappingService(a.client(), nil, nil)
}

func (a *app) mappingListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List year identifiers with their level and affected batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overview, err := a.mappings().Overview(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(overview.Entries) == 0 {
				color.New(color.FgYellow).Fprintln(out, "No year mappings defined.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "IDENTIFIER\tLEVEL\tBATCHES")
			for _, entry := range overview.Entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", color.CyanString(entry.YearIdentifier), entry.LevelName, strings.Join(entry.AffectedBatches, ", "))
			}
			return w.Flush()
		},
	}
}

func (a *app) mappingAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <identifier> <level>",
		Short: "Map a year identifier to level 1-4",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("level must be a number between 1 and 4")
			}
			msg, err := a.mappings().Add(cmd.Context(), args[0], level)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func (a *app) mappingRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <identifier>",
		Aliases: []string{"rm"},
		Short:   "Remove a year identifier",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.mappings().Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}
