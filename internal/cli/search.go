package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// searchHit is one matching record in the search command output.
type searchHit struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type searchOutput struct {
	App        string      `json:"app"`
	SearchText string      `json:"searchText"`
	TotalCount int         `json:"totalCount"`
	Hits       []searchHit `json:"hits"`
}

func (o searchOutput) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d matching record(s)\n", o.TotalCount)
	for _, h := range o.Hits {
		if h.Name != "" {
			fmt.Fprintf(&b, "  %s  %s\n", h.ID, h.Name)
		} else {
			fmt.Fprintf(&b, "  %s\n", h.ID)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// hitName picks a display name from the fields the various apps use.
var hitNameFields = []string{"name", "fullName", "customerName", "subject", "firstName"}

// NewSearchCommand creates the search command, the CLI front for the
// keyword search endpoint.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "search <app> <text>",
		Short:         "Search an app's records by text",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			client, err := newClient(rootOpts)
			if err != nil {
				return commandExit(formatter, err)
			}
			result, err := client.SearchByText(cmd.Context(), args[0], args[1], nil)
			if err != nil {
				return resolutionExit(formatter, err)
			}
			out := searchOutput{
				App:        args[0],
				SearchText: args[1],
				TotalCount: result.TotalCount,
			}
			for _, rec := range result.Records {
				hit := searchHit{ID: rec.ID()}
				for _, f := range hitNameFields {
					if v := rec.StringField(f); v != "" {
						hit.Name = v
						break
					}
				}
				out.Hits = append(out.Hits, hit)
			}
			return formatter.Success(out)
		},
	}
}
