package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// valuePair is one attributeId/attributeValue entry of a multi-value
// field in the value command output.
type valuePair struct {
	AttributeID    string `json:"attributeId,omitempty"`
	AttributeValue string `json:"attributeValue"`
}

type valueOutput struct {
	App      string      `json:"app"`
	RecordID string      `json:"recordId"`
	Label    string      `json:"label"`
	Present  bool        `json:"present"`
	Text     string      `json:"text,omitempty"`
	Values   []valuePair `json:"values,omitempty"`
}

func (o valueOutput) String() string {
	if !o.Present {
		return fmt.Sprintf("%s: (not set)", o.Label)
	}
	if len(o.Values) > 0 {
		parts := make([]string, 0, len(o.Values))
		for _, v := range o.Values {
			parts = append(parts, v.AttributeValue)
		}
		return fmt.Sprintf("%s: %s", o.Label, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s: %s", o.Label, o.Text)
}

// NewValueCommand creates the value command, which fetches a record
// and extracts one labeled field from it. A two-argument label form
// scopes the field to a section or address block.
func NewValueCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "value <app> <recordId> <label> [label2]",
		Short:         "Read one labeled field value from a record",
		Args:          cobra.RangeArgs(3, 4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			client, err := newClient(rootOpts)
			if err != nil {
				return commandExit(formatter, err)
			}
			labels := args[2:]
			rec, err := client.GetRecord(cmd.Context(), args[0], args[1])
			if err != nil {
				return resolutionExit(formatter, err)
			}
			details, err := client.GetValue(cmd.Context(), args[0], rec, labels...)
			if err != nil {
				return resolutionExit(formatter, err)
			}
			out := valueOutput{
				App:      args[0],
				RecordID: args[1],
				Label:    strings.Join(labels, " / "),
				Present:  details.Present,
				Text:     details.Value.Text,
			}
			for _, p := range details.Value.Values {
				out.Values = append(out.Values, valuePair{
					AttributeID:    p.AttributeID,
					AttributeValue: p.AttributeValue,
				})
			}
			return formatter.Success(out)
		},
	}
}
