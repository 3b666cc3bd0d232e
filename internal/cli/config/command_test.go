package config

import (
	"strings"
	"testing"

	configdomain "github.com/dquimper/rscribd/config"
	"github.com/dquimper/rscribd/internal/cli/common"
)

func TestMaskSecret(t *testing.T) {
	t.Parallel()

	if got := maskSecret(""); got != "" {
		t.Fatalf("empty secret must stay empty, got %q", got)
	}
	if got := maskSecret("abc"); got != "****" {
		t.Fatalf("short secrets must be fully masked, got %q", got)
	}
	masked := maskSecret("supersecretvalue")
	if strings.Contains(masked, "persecretval") {
		t.Fatalf("middle of the secret leaked: %q", masked)
	}
	if !strings.HasPrefix(masked, "su") || !strings.HasSuffix(masked, "ue") {
		t.Fatalf("expected edge characters kept, got %q", masked)
	}
}

func TestSessionSummary(t *testing.T) {
	t.Parallel()

	if got := sessionSummary(configdomain.Settings{}); got != "none" {
		t.Fatalf("expected none, got %q", got)
	}
	settings := configdomain.Settings{Session: &configdomain.Session{Key: "k", Username: "alex"}}
	if got := sessionSummary(settings); got != "active (alex)" {
		t.Fatalf("expected active with username, got %q", got)
	}
}

func TestShowCommandPrintsResolvedSettings(t *testing.T) {
	t.Parallel()

	deps := common.CommandDependencies{
		LoadSettings: func(string) (configdomain.Settings, string, error) {
			return configdomain.Settings{
				API: configdomain.API{Key: "api-key", Secret: "api-secret"},
			}, "/home/alex/.rscribd/config.yaml", nil
		},
	}

	var globalFlags common.GlobalFlags
	command := NewCommand(deps, &globalFlags)
	out := &strings.Builder{}
	command.SetOut(out)
	command.SetErr(out)
	command.SetArgs([]string{"show"})

	if err := command.Execute(); err != nil {
		t.Fatalf("config show: %v", err)
	}

	rendered := out.String()
	if !strings.Contains(rendered, "api-key") {
		t.Fatalf("expected the api key in output, got %q", rendered)
	}
	if strings.Contains(rendered, "api-secret") {
		t.Fatalf("the api secret must be masked, got %q", rendered)
	}
	if !strings.Contains(rendered, configdomain.DefaultBaseURL) {
		t.Fatalf("expected the default endpoint, got %q", rendered)
	}
}

func TestSetupCommandWritesFlaggedValues(t *testing.T) {
	t.Parallel()

	var savedPath string
	var saved configdomain.Settings
	deps := common.CommandDependencies{
		LoadSettings: func(string) (configdomain.Settings, string, error) {
			return configdomain.Settings{}, "/home/alex/.rscribd/config.yaml", nil
		},
		SaveSettings: func(path string, settings configdomain.Settings) error {
			savedPath = path
			saved = settings
			return nil
		},
	}

	var globalFlags common.GlobalFlags
	command := NewCommand(deps, &globalFlags)
	command.SetOut(&strings.Builder{})
	command.SetErr(&strings.Builder{})
	command.SetArgs([]string{"setup", "--key", "new-key", "--secret", "new-secret", "--timeout", "10s"})

	if err := command.Execute(); err != nil {
		t.Fatalf("config setup: %v", err)
	}
	if savedPath != "/home/alex/.rscribd/config.yaml" {
		t.Fatalf("expected save at the resolved path, got %q", savedPath)
	}
	if saved.API.Key != "new-key" || saved.API.Secret != "new-secret" || saved.API.Timeout != "10s" {
		t.Fatalf("unexpected saved settings: %+v", saved)
	}
}
