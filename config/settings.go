package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/dquimper/rscribd/faults"
)

var settingsEnvSetters = map[string]func(*Settings, string) error{
	"RSCRIBD_API_KEY":        setAPIKey,
	"RSCRIBD_API_SECRET":     setAPISecret,
	"RSCRIBD_BASE_URL":       setBaseURL,
	"RSCRIBD_TIMEOUT":        setTimeout,
	"RSCRIBD_RATE_LIMIT":     setRateLimit,
	"RSCRIBD_SESSION_KEY":    setSessionKey,
	"RSCRIBD_DEFAULT_OUTPUT": setDefaultOutput,
}

// ResolvePath returns the settings file location: the RSCRIBD_CONFIG
// environment variable when set, otherwise the default under the home
// directory.
func ResolvePath() (string, error) {
	if fromEnv := strings.TrimSpace(os.Getenv(SettingsFileEnvVar)); fromEnv != "" {
		return expandHome(fromEnv)
	}
	return expandHome(DefaultSettingsPath)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", faults.NewTypedError(faults.InternalError, "failed to resolve home directory", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// Load reads the settings file. A missing file yields zero settings, so env
// overrides alone can configure the client.
func Load(path string) (Settings, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Settings{}, false, nil
	}
	if err != nil {
		return Settings{}, false, faults.NewTypedError(faults.InternalError, "failed to read settings file", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, false, faults.NewTypedError(faults.ValidationError, "settings file is not valid YAML", err)
	}
	return settings, true, nil
}

// LoadWithEnv loads the settings file (if any) and applies RSCRIBD_*
// environment overrides on top.
func LoadWithEnv() (Settings, string, error) {
	return LoadAt("")
}

// LoadAt is LoadWithEnv reading from an explicit file location. An empty
// location falls back to ResolvePath.
func LoadAt(path string) (Settings, string, error) {
	var err error
	if strings.TrimSpace(path) == "" {
		path, err = ResolvePath()
	} else {
		path, err = expandHome(path)
	}
	if err != nil {
		return Settings{}, "", err
	}

	settings, _, err := Load(path)
	if err != nil {
		return Settings{}, path, err
	}

	if err := applyEnvOverrides(&settings); err != nil {
		return Settings{}, path, err
	}
	return settings, path, nil
}

func applyEnvOverrides(settings *Settings) error {
	for name, setter := range settingsEnvSetters {
		value, present := os.LookupEnv(name)
		if !present {
			continue
		}
		if err := setter(settings, value); err != nil {
			return faults.NewTypedError(
				faults.ValidationError,
				fmt.Sprintf("failed to apply override %s", name),
				err,
			)
		}
	}
	return nil
}

// Save writes the settings file, creating its directory with owner-only
// permissions since the file carries credentials.
func Save(path string, settings Settings) error {
	if strings.TrimSpace(path) == "" {
		return faults.NewTypedError(faults.ValidationError, "settings path is required", nil)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return faults.NewTypedError(faults.InternalError, "failed to create settings directory", err)
	}

	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(settings); err != nil {
		_ = encoder.Close()
		return faults.NewTypedError(faults.InternalError, "failed to encode settings", err)
	}
	if err := encoder.Close(); err != nil {
		return faults.NewTypedError(faults.InternalError, "failed to encode settings", err)
	}

	if err := os.WriteFile(path, buffer.Bytes(), 0o600); err != nil {
		return faults.NewTypedError(faults.InternalError, "failed to write settings file", err)
	}
	return nil
}

// Validate checks the settings needed before any remote call can be made.
func Validate(settings Settings) error {
	if strings.TrimSpace(settings.API.Key) == "" {
		return faults.NewTypedError(faults.ValidationError, "api.key is required; run `rscribd config setup` or set RSCRIBD_API_KEY", nil)
	}
	if _, err := ResolveTimeout(settings); err != nil {
		return err
	}
	if settings.API.RateLimit < 0 {
		return faults.NewTypedError(faults.ValidationError, "api.rate-limit must not be negative", nil)
	}
	if output := strings.TrimSpace(settings.DefaultOutput); output != "" {
		switch output {
		case OutputFormatYAML, OutputFormatJSON, OutputFormatText:
		default:
			return faults.NewTypedError(faults.ValidationError, "default-output must be yaml, json, or text", nil)
		}
	}
	return nil
}

// ResolveBaseURL returns the configured endpoint or the public default.
func ResolveBaseURL(settings Settings) string {
	if baseURL := strings.TrimSpace(settings.API.BaseURL); baseURL != "" {
		return baseURL
	}
	return DefaultBaseURL
}

// ResolveTimeout parses the configured HTTP timeout, defaulting when unset.
func ResolveTimeout(settings Settings) (time.Duration, error) {
	raw := strings.TrimSpace(settings.API.Timeout)
	if raw == "" {
		raw = DefaultTimeout
	}

	timeout, err := time.ParseDuration(raw)
	if err != nil {
		return 0, faults.NewTypedError(faults.ValidationError, "api.timeout is not a valid duration", err)
	}
	if timeout <= 0 {
		return 0, faults.NewTypedError(faults.ValidationError, "api.timeout must be positive", nil)
	}
	return timeout, nil
}

// ResolveRateLimit returns the client-side request rate in requests per
// second, defaulting when unset.
func ResolveRateLimit(settings Settings) float64 {
	if settings.API.RateLimit > 0 {
		return settings.API.RateLimit
	}
	return DefaultRateLimit
}

func setAPIKey(settings *Settings, value string) error {
	settings.API.Key = value
	return nil
}

func setAPISecret(settings *Settings, value string) error {
	settings.API.Secret = value
	return nil
}

func setBaseURL(settings *Settings, value string) error {
	settings.API.BaseURL = value
	return nil
}

func setTimeout(settings *Settings, value string) error {
	if _, err := time.ParseDuration(strings.TrimSpace(value)); err != nil {
		return err
	}
	settings.API.Timeout = strings.TrimSpace(value)
	return nil
}

func setRateLimit(settings *Settings, value string) error {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return err
	}
	settings.API.RateLimit = parsed
	return nil
}

func setSessionKey(settings *Settings, value string) error {
	if settings.Session == nil {
		settings.Session = &Session{}
	}
	settings.Session.Key = value
	return nil
}

func setDefaultOutput(settings *Settings, value string) error {
	settings.DefaultOutput = value
	return nil
}
