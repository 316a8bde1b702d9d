package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	apptivo "github.com/toddminertech/apptivo-go"
)

// resolveOutput is the serializable result of the resolve command.
type resolveOutput struct {
	Input           string `json:"input"`
	URLSegment      string `json:"urlSegment"`
	DataEnvelopeKey string `json:"dataEnvelopeKey"`
	IDParamName     string `json:"idParamName"`
	NumericAppID    int    `json:"numericAppId"`
	AliasName       string `json:"aliasName,omitempty"`
}

func (o resolveOutput) String() string {
	return fmt.Sprintf("%s -> app %d (url=%s, envelope=%s, idParam=%s)",
		o.Input, o.NumericAppID, o.URLSegment, o.DataEnvelopeKey, o.IDParamName)
}

// NewResolveCommand creates the resolve command. Resolution is pure,
// so no credentials are needed.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "resolve <app>",
		Short:         "Resolve an app name, alias, or compound id to its descriptor",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			desc, err := apptivo.ResolveApp(args[0])
			if err != nil {
				return resolutionExit(formatter, err)
			}
			return formatter.Success(resolveOutput{
				Input:           args[0],
				URLSegment:      desc.URLSegment,
				DataEnvelopeKey: desc.DataEnvelopeKey,
				IDParamName:     desc.IDParamName,
				NumericAppID:    desc.NumericAppID,
				AliasName:       desc.AliasName,
			})
		},
	}
}
