package document

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dquimper/rscribd/internal/cli/common"
	"github.com/dquimper/rscribd/scribd"
)

func newGetCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var jqFlag string

	command := &cobra.Command{
		Use:   "get <doc-id>",
		Short: "Show a document's settings",
		Example: strings.Join([]string{
			"  rscribd document get 12345",
			"  rscribd document get 12345 --jq .access",
		}, "\n"),
		Args: cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			id, err := parseDocumentID(args[0])
			if err != nil {
				return err
			}

			client, user, settings, err := sessionClient(deps, globalFlags)
			if err != nil {
				return err
			}

			document, err := scribd.OpenDocument(command.Context(), client, user, id)
			if err != nil {
				return err
			}

			format := common.ResolveOutputFormat(globalFlags, settings)
			return common.WriteFilteredOutput(command, format, jqFlag, documentView(document), renderDocumentText)
		},
	}

	common.BindJQFlag(command, &jqFlag)
	return command
}

func newSetCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "set <doc-id> <name=value>...",
		Short: "Update a document's settings",
		Example: strings.Join([]string{
			"  rscribd document set 12345 title='Final Report'",
			"  rscribd document set 12345 access=private show_ads=false",
		}, "\n"),
		Args: cobra.MinimumNArgs(2),
		RunE: func(command *cobra.Command, args []string) error {
			id, err := parseDocumentID(args[0])
			if err != nil {
				return err
			}

			assignments, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}

			client, user, settings, err := sessionClient(deps, globalFlags)
			if err != nil {
				return err
			}

			document, err := scribd.OpenDocument(command.Context(), client, user, id)
			if err != nil {
				return err
			}
			if err := document.WriteAttributes(assignments); err != nil {
				return err
			}
			if err := document.Save(command.Context()); err != nil {
				return err
			}

			format := common.ResolveOutputFormat(globalFlags, settings)
			return common.WriteOutput(command, format, documentView(document), renderDocumentText)
		},
	}

	return command
}
