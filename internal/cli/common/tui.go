package common

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func PromptInput(command *cobra.Command, prompt string, required bool) (string, error) {
	if !IsInteractiveTerminal(command) {
		return "", ValidationError("interactive terminal is required", nil)
	}

	value := ""
	field := huh.NewInput().
		Title(normalizePrompt(prompt)).
		Value(&value)
	if required {
		field.Validate(huh.ValidateNotEmpty())
	}

	if err := runInteractiveField(command, field); err != nil {
		return "", err
	}

	value = strings.TrimSpace(value)
	if required && value == "" {
		return "", ValidationError("value is required", nil)
	}
	return value, nil
}

func PromptConfirm(command *cobra.Command, prompt string, defaultYes bool) (bool, error) {
	if !IsInteractiveTerminal(command) {
		return false, ValidationError("interactive terminal is required", nil)
	}

	value := defaultYes
	field := huh.NewConfirm().
		Title(normalizePrompt(prompt)).
		Value(&value)

	if err := runInteractiveField(command, field); err != nil {
		return false, err
	}
	return value, nil
}

// PromptPassword reads a secret without echoing it. It needs the process
// stdin to be a real terminal.
func PromptPassword(command *cobra.Command, prompt string) (string, error) {
	in, _, ok := fileFromReader(command.InOrStdin())
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return "", ValidationError("interactive terminal is required to read a password", nil)
	}

	if _, err := command.OutOrStdout().Write([]byte(normalizePrompt(prompt) + ": ")); err != nil {
		return "", err
	}
	secret, err := term.ReadPassword(int(in.Fd()))
	if _, writeErr := command.OutOrStdout().Write([]byte("\n")); writeErr != nil && err == nil {
		err = writeErr
	}
	if err != nil {
		return "", ValidationError("failed to read password", err)
	}
	return string(secret), nil
}

func runInteractiveField(command *cobra.Command, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(command.InOrStdin()).
		WithOutput(command.OutOrStdout()).
		WithShowHelp(false)

	err := form.Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ValidationError("interactive prompt interrupted", nil)
	}
	return err
}

func normalizePrompt(prompt string) string {
	title := strings.TrimSpace(prompt)
	title = strings.TrimSuffix(title, ":")
	if title == "" {
		return "Input"
	}
	return title
}
