package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	configdomain "github.com/dquimper/rscribd/config"
	"github.com/dquimper/rscribd/internal/cli/common"
)

func newSetupCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var keyFlag string
	var secretFlag string
	var baseURLFlag string
	var timeoutFlag string

	command := &cobra.Command{
		Use:   "setup",
		Short: "Create or update the settings file",
		Example: strings.Join([]string{
			"  rscribd config setup",
			"  rscribd config setup --key KEY --secret SECRET",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			save, err := common.RequireSettingsSaver(deps)
			if err != nil {
				return err
			}

			settings, path, err := common.ResolveSettingsWithPath(deps, globalFlags)
			if err != nil {
				return err
			}

			if keyFlag == "" && secretFlag == "" {
				if err := runSetupForm(command, &settings); err != nil {
					return err
				}
			} else {
				applySetupFlags(&settings, keyFlag, secretFlag, baseURLFlag, timeoutFlag)
			}

			if err := configdomain.Validate(settings); err != nil {
				return err
			}
			if err := save(path, settings); err != nil {
				return err
			}

			_, err = fmt.Fprintf(command.OutOrStdout(), "settings written to %s\n", path)
			return err
		},
	}

	command.Flags().StringVar(&keyFlag, "key", "", "api key")
	command.Flags().StringVar(&secretFlag, "secret", "", "api secret")
	command.Flags().StringVar(&baseURLFlag, "base-url", "", "api endpoint override")
	command.Flags().StringVar(&timeoutFlag, "timeout", "", "http timeout, for example 30s")
	return command
}

func runSetupForm(command *cobra.Command, settings *configdomain.Settings) error {
	if !common.IsInteractiveTerminal(command) {
		return common.ValidationError("interactive terminal is required; pass --key and --secret instead", nil)
	}

	key := settings.API.Key
	secret := settings.API.Secret
	baseURL := settings.API.BaseURL
	timeout := settings.API.Timeout

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("API key").
			Description("issued with your account on the platform settings page").
			Value(&key).
			Validate(huh.ValidateNotEmpty()),
		huh.NewInput().
			Title("API secret").
			EchoMode(huh.EchoModePassword).
			Value(&secret).
			Validate(huh.ValidateNotEmpty()),
		huh.NewInput().
			Title("API endpoint").
			Placeholder(configdomain.DefaultBaseURL).
			Value(&baseURL),
		huh.NewInput().
			Title("HTTP timeout").
			Placeholder(configdomain.DefaultTimeout).
			Value(&timeout).
			Validate(validateOptionalDuration),
	)).
		WithInput(command.InOrStdin()).
		WithOutput(command.OutOrStdout()).
		WithShowHelp(false)

	err := form.Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return common.ValidationError("setup interrupted", nil)
	}
	if err != nil {
		return err
	}

	applySetupFlags(settings, key, secret, baseURL, timeout)
	return nil
}

func applySetupFlags(settings *configdomain.Settings, key string, secret string, baseURL string, timeout string) {
	if value := strings.TrimSpace(key); value != "" {
		settings.API.Key = value
	}
	if value := strings.TrimSpace(secret); value != "" {
		settings.API.Secret = value
	}
	if value := strings.TrimSpace(baseURL); value != "" {
		settings.API.BaseURL = value
	}
	if value := strings.TrimSpace(timeout); value != "" {
		settings.API.Timeout = value
	}
}

func validateOptionalDuration(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	if _, err := time.ParseDuration(trimmed); err != nil {
		return fmt.Errorf("not a valid duration")
	}
	return nil
}
