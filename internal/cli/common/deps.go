package common

import (
	"log/slog"
	"os"

	"github.com/dquimper/rscribd/api"
	"github.com/dquimper/rscribd/config"
	"github.com/dquimper/rscribd/scribd"
)

// CommandDependencies carries the collaborators leaf commands need. Tests
// substitute the function fields to run commands against fake remotes.
type CommandDependencies struct {
	LoadSettings func(path string) (config.Settings, string, error)
	SaveSettings func(path string, settings config.Settings) error
	NewClient    func(settings config.Settings, opts ...api.Option) (*api.Client, error)
}

func DefaultDependencies() CommandDependencies {
	return CommandDependencies{
		LoadSettings: config.LoadAt,
		SaveSettings: config.Save,
		NewClient:    api.New,
	}
}

func RequireSettingsLoader(deps CommandDependencies) (func(string) (config.Settings, string, error), error) {
	if deps.LoadSettings == nil {
		return nil, ValidationError("settings loader is not configured", nil)
	}
	return deps.LoadSettings, nil
}

func RequireSettingsSaver(deps CommandDependencies) (func(string, config.Settings) error, error) {
	if deps.SaveSettings == nil {
		return nil, ValidationError("settings saver is not configured", nil)
	}
	return deps.SaveSettings, nil
}

// ResolveSettings loads the settings file the global flags select, applying
// environment overrides.
func ResolveSettings(deps CommandDependencies, globalFlags *GlobalFlags) (config.Settings, error) {
	settings, _, err := ResolveSettingsWithPath(deps, globalFlags)
	return settings, err
}

// ResolveSettingsWithPath also reports the file location the settings were
// read from, for commands that write them back.
func ResolveSettingsWithPath(deps CommandDependencies, globalFlags *GlobalFlags) (config.Settings, string, error) {
	load, err := RequireSettingsLoader(deps)
	if err != nil {
		return config.Settings{}, "", err
	}

	requested := ""
	if globalFlags != nil {
		requested = globalFlags.ConfigPath
	}
	return load(requested)
}

// ResolveClient builds an API client from the resolved settings. With the
// debug flag set, the client logs each call to stderr.
func ResolveClient(deps CommandDependencies, globalFlags *GlobalFlags) (*api.Client, config.Settings, error) {
	settings, err := ResolveSettings(deps, globalFlags)
	if err != nil {
		return nil, config.Settings{}, err
	}

	build := deps.NewClient
	if build == nil {
		return nil, config.Settings{}, ValidationError("api client factory is not configured", nil)
	}

	opts := []api.Option{}
	if globalFlags != nil && globalFlags.Debug {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, api.WithLogger(logger))
	}

	client, err := build(settings, opts...)
	if err != nil {
		return nil, config.Settings{}, err
	}
	return client, settings, nil
}

// ResolveSessionUser rebuilds the stored session, when one exists.
func ResolveSessionUser(client *api.Client, settings config.Settings) (*scribd.User, error) {
	if settings.Session == nil || settings.Session.Key == "" {
		return nil, AuthError("no stored session; run `rscribd user login` first", nil)
	}
	return scribd.NewSessionUser(client, settings.Session.Key, settings.Session.Username, settings.Session.UserID), nil
}
