package document

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dquimper/rscribd/api"
	"github.com/dquimper/rscribd/config"
	"github.com/dquimper/rscribd/internal/cli/common"
	"github.com/dquimper/rscribd/scribd"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:     "document",
		Aliases: []string{"doc"},
		Short:   "Work with remote documents",
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Help()
		},
	}

	command.AddCommand(newUploadCommand(deps, globalFlags))
	command.AddCommand(newListCommand(deps, globalFlags))
	command.AddCommand(newSearchCommand(deps, globalFlags))
	command.AddCommand(newGetCommand(deps, globalFlags))
	command.AddCommand(newSetCommand(deps, globalFlags))
	command.AddCommand(newStatusCommand(deps, globalFlags))
	command.AddCommand(newDownloadURLCommand(deps, globalFlags))
	command.AddCommand(newDeleteCommand(deps, globalFlags))
	return command
}

// sessionClient resolves the client together with the stored session user.
func sessionClient(deps common.CommandDependencies, globalFlags *common.GlobalFlags) (*api.Client, *scribd.User, config.Settings, error) {
	client, settings, err := common.ResolveClient(deps, globalFlags)
	if err != nil {
		return nil, nil, config.Settings{}, err
	}
	user, err := common.ResolveSessionUser(client, settings)
	if err != nil {
		return nil, nil, config.Settings{}, err
	}
	return client, user, settings, nil
}

func parseDocumentID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ValidationError("document id must be a positive integer", err)
	}
	return id, nil
}

func documentView(document *scribd.Document) map[string]any {
	view := make(map[string]any)
	for name, value := range document.Attributes() {
		if value == nil {
			continue
		}
		view[name] = value
	}
	return view
}

func documentViews(documents []*scribd.Document) []map[string]any {
	views := make([]map[string]any, 0, len(documents))
	for _, document := range documents {
		views = append(views, documentView(document))
	}
	return views
}

func renderDocumentText(w io.Writer, view map[string]any) error {
	names := make([]string, 0, len(view))
	for name := range view {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s: %v\n", name, view[name]); err != nil {
			return err
		}
	}
	return nil
}

func renderDocumentListText(w io.Writer, views []map[string]any) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(w, "no documents")
		return err
	}
	for _, view := range views {
		if _, err := fmt.Fprintf(w, "%v\t%v\n", view["doc_id"], view["title"]); err != nil {
			return err
		}
	}
	return nil
}
