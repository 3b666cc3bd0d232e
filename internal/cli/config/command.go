package config

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	configdomain "github.com/dquimper/rscribd/config"
	"github.com/dquimper/rscribd/internal/cli/common"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "config",
		Short: "Manage client settings",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Help()
		},
	}

	command.AddCommand(newShowCommand(deps, globalFlags))
	command.AddCommand(newPathCommand(deps, globalFlags))
	command.AddCommand(newSetupCommand(deps, globalFlags))
	return command
}

type settingsView struct {
	Path          string `json:"path" yaml:"path"`
	APIKey        string `json:"api_key" yaml:"api_key"`
	APISecret     string `json:"api_secret" yaml:"api_secret"`
	BaseURL       string `json:"base_url" yaml:"base_url"`
	Timeout       string `json:"timeout" yaml:"timeout"`
	RateLimit     float64 `json:"rate_limit" yaml:"rate_limit"`
	Session       string `json:"session" yaml:"session"`
	DefaultOutput string `json:"default_output,omitempty" yaml:"default_output,omitempty"`
}

func newShowCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved settings",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			settings, path, err := common.ResolveSettingsWithPath(deps, globalFlags)
			if err != nil {
				return err
			}

			view := settingsView{
				Path:          path,
				APIKey:        settings.API.Key,
				APISecret:     maskSecret(settings.API.Secret),
				BaseURL:       configdomain.ResolveBaseURL(settings),
				Timeout:       settings.API.Timeout,
				RateLimit:     configdomain.ResolveRateLimit(settings),
				Session:       sessionSummary(settings),
				DefaultOutput: settings.DefaultOutput,
			}
			if view.Timeout == "" {
				view.Timeout = configdomain.DefaultTimeout
			}

			format := common.ResolveOutputFormat(globalFlags, settings)
			return common.WriteOutput(command, format, view, func(w io.Writer, value settingsView) error {
				_, err := fmt.Fprintf(w,
					"settings file: %s\napi key:       %s\napi secret:    %s\nbase url:      %s\ntimeout:       %s\nrate limit:    %g req/s\nsession:       %s\n",
					value.Path, orUnset(value.APIKey), orUnset(value.APISecret),
					value.BaseURL, value.Timeout, value.RateLimit, value.Session,
				)
				return err
			})
		},
	}
}

func newPathCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			_, path, err := common.ResolveSettingsWithPath(deps, globalFlags)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(command.OutOrStdout(), path)
			return err
		},
	}
}

func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:2] + "****" + secret[len(secret)-2:]
}

func sessionSummary(settings configdomain.Settings) string {
	if settings.Session == nil || settings.Session.Key == "" {
		return "none"
	}
	if settings.Session.Username != "" {
		return "active (" + settings.Session.Username + ")"
	}
	return "active"
}

func orUnset(value string) string {
	if value == "" {
		return "(unset)"
	}
	return value
}
