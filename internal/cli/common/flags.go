package common

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type GlobalFlags struct {
	ConfigPath string
	Debug      bool
	Output     string
}

func BindGlobalFlags(command *cobra.Command, flags *GlobalFlags) {
	command.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "settings file path (default ~/.rscribd/config.yaml)")
	command.PersistentFlags().BoolVarP(&flags.Debug, "debug", "d", false, "log every api call to stderr")
	command.PersistentFlags().StringVarP(&flags.Output, "output", "o", OutputAuto, "output format: auto|text|json|yaml")
	command.PersistentFlags().SetNormalizeFunc(normalizeFlagName)
	RegisterOutputFlagCompletion(command)
}

// normalizeFlagName accepts underscore spellings of multi-word flags.
func normalizeFlagName(flagSet *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func BindJQFlag(command *cobra.Command, expression *string) {
	command.Flags().StringVar(expression, "jq", "", "jq expression applied to the result before printing")
}

func BindListFlags(command *cobra.Command, limit *int, offset *int) {
	command.Flags().IntVar(limit, "limit", 0, "maximum number of results")
	command.Flags().IntVar(offset, "offset", 0, "number of results to skip")
}
