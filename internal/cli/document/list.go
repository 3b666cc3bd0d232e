package document

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dquimper/rscribd/internal/cli/common"
	"github.com/dquimper/rscribd/scribd"
)

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var limitFlag int
	var offsetFlag int
	var jqFlag string

	command := &cobra.Command{
		Use:   "list",
		Short: "List your documents",
		Example: strings.Join([]string{
			"  rscribd document list",
			"  rscribd document list --limit 20 --offset 40",
			"  rscribd document list -o json --jq '.[].doc_id'",
		}, "\n"),
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			_, user, settings, err := sessionClient(deps, globalFlags)
			if err != nil {
				return err
			}

			documents, err := user.Documents(command.Context(), scribd.ListOptions{
				Limit:  limitFlag,
				Offset: offsetFlag,
			})
			if err != nil {
				return err
			}

			format := common.ResolveOutputFormat(globalFlags, settings)
			return common.WriteFilteredOutput(command, format, jqFlag, documentViews(documents), renderDocumentListText)
		},
	}

	common.BindListFlags(command, &limitFlag, &offsetFlag)
	common.BindJQFlag(command, &jqFlag)
	return command
}

func newSearchCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var limitFlag int
	var offsetFlag int
	var scopeFlag string
	var mineFlag bool
	var jqFlag string

	command := &cobra.Command{
		Use:   "search <query>",
		Short: "Search documents",
		Example: strings.Join([]string{
			"  rscribd document search 'quarterly results'",
			"  rscribd document search --mine contracts",
			"  rscribd document search golang --limit 5 --jq '.documents[].title'",
		}, "\n"),
		Args: cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			scope := scopeFlag
			if mineFlag {
				scope = scribd.SearchScopeUser
			}
			switch scope {
			case "", scribd.SearchScopeAll, scribd.SearchScopeUser:
			default:
				return common.ValidationError("scope must be all or user", nil)
			}

			opts := scribd.SearchOptions{
				Limit:  limitFlag,
				Offset: offsetFlag,
				Scope:  scope,
			}

			if scope == scribd.SearchScopeUser {
				_, user, settings, err := sessionClient(deps, globalFlags)
				if err != nil {
					return err
				}
				result, err := user.FindDocuments(command.Context(), args[0], opts)
				if err != nil {
					return err
				}
				return writeSearchResult(command, globalFlags, settings, jqFlag, result)
			}

			client, settings, err := common.ResolveClient(deps, globalFlags)
			if err != nil {
				return err
			}
			result, err := scribd.FindDocuments(command.Context(), client, args[0], opts)
			if err != nil {
				return err
			}
			return writeSearchResult(command, globalFlags, settings, jqFlag, result)
		},
	}

	common.BindListFlags(command, &limitFlag, &offsetFlag)
	common.BindJQFlag(command, &jqFlag)
	command.Flags().StringVar(&scopeFlag, "scope", scribd.SearchScopeAll, "search scope: all|user")
	command.Flags().BoolVar(&mineFlag, "mine", false, "shorthand for --scope user")
	return command
}
