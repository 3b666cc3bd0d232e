package cli

import (
	"context"

	"github.com/spf13/cobra"

	categorycmd "github.com/dquimper/rscribd/internal/cli/category"
	"github.com/dquimper/rscribd/internal/cli/common"
	configcmd "github.com/dquimper/rscribd/internal/cli/config"
	documentcmd "github.com/dquimper/rscribd/internal/cli/document"
	usercmd "github.com/dquimper/rscribd/internal/cli/user"
	"github.com/dquimper/rscribd/internal/cli/version"
)

func NewRootCommand(deps common.CommandDependencies) *cobra.Command {
	var globalFlags common.GlobalFlags

	root := &cobra.Command{
		Use:   "rscribd",
		Short: "Upload, search, and manage remote documents",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, _ []string) error {
			if err := common.ValidateOutputFormat(globalFlags.Output); err != nil {
				return err
			}
			if command.Context() == nil {
				command.SetContext(context.Background())
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	common.BindGlobalFlags(root, &globalFlags)

	root.AddCommand(configcmd.NewCommand(deps, &globalFlags))
	root.AddCommand(documentcmd.NewCommand(deps, &globalFlags))
	root.AddCommand(usercmd.NewCommand(deps, &globalFlags))
	root.AddCommand(categorycmd.NewCommand(deps, &globalFlags))
	root.AddCommand(version.NewCommand(&globalFlags))
	return root
}
