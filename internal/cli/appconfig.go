package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// attributeSummary is one layout attribute in the config listing.
type attributeSummary struct {
	Label       string `json:"label"`
	Type        string `json:"type"`
	Tag         string `json:"tag"`
	AttributeID string `json:"attributeId,omitempty"`
	FieldName   string `json:"fieldName,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// sectionSummary is one layout section in the config listing.
type sectionSummary struct {
	ID         string             `json:"id"`
	Label      string             `json:"label"`
	Attributes []attributeSummary `json:"attributes"`
}

type configOutput struct {
	App      string           `json:"app"`
	Sections []sectionSummary `json:"sections"`
}

func (o configOutput) String() string {
	var b strings.Builder
	for _, s := range o.Sections {
		fmt.Fprintf(&b, "%s (section %s)\n", s.Label, s.ID)
		for _, a := range s.Attributes {
			state := ""
			if !a.Enabled {
				state = " [disabled]"
			}
			fmt.Fprintf(&b, "  %-32s %s/%s%s\n", a.Label, a.Type, a.Tag, state)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewAppConfigCommand creates the config command, which fetches an
// app's configuration document and lists its sections and attributes.
func NewAppConfigCommand(rootOpts *RootOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:           "config <app>",
		Short:         "Fetch an app's configuration and list its layout",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			client, err := newClient(rootOpts)
			if err != nil {
				return commandExit(formatter, err)
			}
			doc, err := client.GetConfig(cmd.Context(), args[0])
			if err != nil {
				return resolutionExit(formatter, err)
			}
			if raw {
				body, err := doc.MarshalJSON()
				if err != nil {
					return commandExit(formatter, WrapExitError(ExitCommandError, "encoding config", err))
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(body))
				return nil
			}
			out := configOutput{App: args[0]}
			for _, s := range doc.Sections {
				sec := sectionSummary{ID: string(s.ID), Label: s.Label.Text}
				for _, a := range s.Attributes {
					sec.Attributes = append(sec.Attributes, attributeSummary{
						Label:       a.Label.Text,
						Type:        a.Type,
						Tag:         a.Tag(),
						AttributeID: string(a.AttributeID),
						FieldName:   a.FieldName(),
						Enabled:     a.Enabled(),
					})
				}
				out.Sections = append(out.Sections, sec)
			}
			return formatter.Success(out)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the full configuration document as JSON")

	return cmd
}
