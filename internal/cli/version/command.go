package version

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dquimper/rscribd/internal/cli/common"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

type info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
}

func NewCommand(globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value := info{Version: Version, Commit: Commit, BuildDate: BuildDate}
			format := common.OutputText
			if globalFlags != nil && globalFlags.Output != "" {
				format = globalFlags.Output
			}
			return common.WriteOutput(cmd, format, value, func(w io.Writer, item info) error {
				_, err := fmt.Fprintf(w, "%s (%s) %s\n", item.Version, item.Commit, item.BuildDate)
				return err
			})
		},
	}
}
