// Package cli implements the apptivo command-line tool: thin cobra
// commands over the client library for inspecting app schemas and
// records from a terminal.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	apptivo "github.com/toddminertech/apptivo-go"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the apptivo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "apptivo",
		Short: "Apptivo CRM client",
		Long:  "Resolve labeled fields against Apptivo app schemas and read, search, and inspect records.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "apptivo.yaml", "path to the CLI config file")

	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewAppConfigCommand(opts))
	cmd.AddCommand(NewValueCommand(opts))
	cmd.AddCommand(NewRecordCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newFormatter builds the per-command output formatter.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// newClient loads CLI configuration and builds an API client. Commands
// that touch the network all come through here.
func newClient(opts *RootOptions) (*apptivo.Client, error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "missing credentials (set APPTIVO_API_KEY and APPTIVO_ACCESS_KEY or use a config file)", err)
	}
	clientOpts := []apptivo.Option{}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, apptivo.WithBaseURL(cfg.BaseURL))
	}
	if cfg.CachePath != "" {
		store, err := apptivo.OpenConfigStore(cfg.CachePath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "opening config cache", err)
		}
		clientOpts = append(clientOpts, apptivo.WithConfigStore(store))
	}
	client, err := apptivo.NewClient(cfg.APIKey, cfg.AccessKey, cfg.UserEmail, clientOpts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "building client", err)
	}
	return client, nil
}

// commandExit prints a command-level error (bad config, encoding
// failure) in the configured format before returning it. cobra's own
// error printing is silenced, so every path reports through here or
// resolutionExit.
func commandExit(f *OutputFormatter, err error) error {
	_ = f.Error("COMMAND_ERROR", err.Error())
	return err
}

// resolutionExit converts an API/resolution error into an ExitError
// after printing it in the configured format.
func resolutionExit(f *OutputFormatter, err error) error {
	code := string(apptivo.CodeOf(err))
	if code == "" {
		code = "API_ERROR"
	}
	_ = f.Error(code, err.Error())
	return WrapExitError(ExitFailure, code, err)
}
