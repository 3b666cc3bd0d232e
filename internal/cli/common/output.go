package common

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/dquimper/rscribd/config"
)

const (
	OutputAuto = "auto"
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

func ValidateOutputFormat(format string) error {
	switch format {
	case OutputAuto, OutputText, OutputJSON, OutputYAML:
		return nil
	default:
		return ValidationError("invalid output format: use auto, text, json, or yaml", nil)
	}
}

// ResolveOutputFormat maps the auto format to the settings default, falling
// back to text.
func ResolveOutputFormat(globalFlags *GlobalFlags, settings config.Settings) string {
	if globalFlags != nil && globalFlags.Output != "" && globalFlags.Output != OutputAuto {
		return globalFlags.Output
	}
	switch strings.TrimSpace(settings.DefaultOutput) {
	case config.OutputFormatJSON:
		return OutputJSON
	case config.OutputFormatYAML:
		return OutputYAML
	default:
		return OutputText
	}
}

func RegisterOutputFlagCompletion(command *cobra.Command) {
	_ = command.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{OutputAuto, OutputText, OutputJSON, OutputYAML}, cobra.ShellCompDirectiveNoFileComp
	})
}

func WriteOutput[T any](command *cobra.Command, format string, value T, renderText func(io.Writer, T) error) error {
	if isNilOutputValue(value) {
		return nil
	}

	switch format {
	case OutputAuto, OutputText:
		if renderText != nil {
			return renderText(command.OutOrStdout(), value)
		}
		_, err := fmt.Fprintln(command.OutOrStdout(), value)
		return err
	case OutputJSON:
		encoded, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(command.OutOrStdout(), string(encoded))
		return err
	case OutputYAML:
		encoded, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(command.OutOrStdout(), string(encoded))
		return err
	default:
		return ValidationError("invalid output format: use auto, text, json, or yaml", nil)
	}
}

// WriteFilteredOutput applies an optional jq expression before printing.
// Filtered values always render as JSON since the expression reshapes them.
func WriteFilteredOutput[T any](command *cobra.Command, format string, jqExpression string, value T, renderText func(io.Writer, T) error) error {
	if strings.TrimSpace(jqExpression) == "" {
		return WriteOutput(command, format, value, renderText)
	}

	filtered, err := ApplyJQ(command.Context(), jqExpression, value)
	if err != nil {
		return err
	}
	if format == OutputAuto || format == OutputText {
		format = OutputJSON
	}
	return WriteOutput(command, format, filtered, nil)
}

func isNilOutputValue(value any) bool {
	if value == nil {
		return true
	}
	reflected := reflect.ValueOf(value)
	switch reflected.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return reflected.IsNil()
	default:
		return false
	}
}
