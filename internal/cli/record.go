package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewRecordCommand creates the record command, which fetches a record
// by id and prints its JSON body.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "record <app> <recordId>",
		Short:         "Fetch a record by id and print it",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			client, err := newClient(rootOpts)
			if err != nil {
				return commandExit(formatter, err)
			}
			rec, err := client.GetRecord(cmd.Context(), args[0], args[1])
			if err != nil {
				return resolutionExit(formatter, err)
			}
			if rootOpts.Format == "json" {
				return formatter.Success(rec)
			}
			body, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return commandExit(formatter, WrapExitError(ExitCommandError, "encoding record", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return nil
		},
	}
}
