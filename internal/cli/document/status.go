package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dquimper/rscribd/internal/cli/common"
	"github.com/dquimper/rscribd/scribd"
)

func newStatusCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "status <doc-id>",
		Short: "Show a document's conversion status",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			id, err := parseDocumentID(args[0])
			if err != nil {
				return err
			}

			client, user, settings, err := sessionClient(deps, globalFlags)
			if err != nil {
				return err
			}

			document := scribd.NewDocument(client, nil)
			document.SetOwner(user)
			document.Set("doc_id", id)
			document.MarkCreated(true)

			status, err := document.ConversionStatus(command.Context())
			if err != nil {
				return err
			}

			view := map[string]any{"doc_id": id, "conversion_status": status}
			format := common.ResolveOutputFormat(globalFlags, settings)
			return common.WriteOutput(command, format, view, func(w io.Writer, value map[string]any) error {
				_, err := fmt.Fprintln(w, value["conversion_status"])
				return err
			})
		},
	}

	return command
}

func newDownloadURLCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var formatFlag string

	command := &cobra.Command{
		Use:   "download-url <doc-id>",
		Short: "Resolve a document download link",
		Example: strings.Join([]string{
			"  rscribd document download-url 12345",
			"  rscribd document download-url 12345 --format pdf",
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

			document := scribd.NewDocument(client, nil)
			document.SetOwner(user)
			document.Set("doc_id", id)
			document.MarkCreated(true)

			link, err := document.DownloadURL(command.Context(), formatFlag)
			if err != nil {
				return err
			}

			view := map[string]any{"doc_id": id, "download_url": link}
			format := common.ResolveOutputFormat(globalFlags, settings)
			return common.WriteOutput(command, format, view, func(w io.Writer, value map[string]any) error {
				_, err := fmt.Fprintln(w, value["download_url"])
				return err
			})
		},
	}

	command.Flags().StringVar(&formatFlag, "format", "original", "file format: original|pdf|txt")
	return command
}

func newDeleteCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var forceFlag bool

	command := &cobra.Command{
		Use:   "delete <doc-id>...",
		Short: "Delete documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseDocumentID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			client, user, _, err := sessionClient(deps, globalFlags)
			if err != nil {
				return err
			}

			if !forceFlag {
				confirmed, err := common.PromptConfirm(command, fmt.Sprintf("Delete %d document(s)?", len(ids)), false)
				if err != nil {
					return err
				}
				if !confirmed {
					return common.ValidationError("delete aborted", nil)
				}
			}

			for _, id := range ids {
				document := scribd.NewDocument(client, nil)
				document.SetOwner(user)
				document.Set("doc_id", id)
				document.MarkCreated(true)

				if err := document.Destroy(command.Context()); err != nil {
					return fmt.Errorf("delete %d: %w", id, err)
				}
				if _, err := fmt.Fprintf(command.OutOrStdout(), "deleted %d\n", id); err != nil {
					return err
				}
			}
			return nil
		},
	}

	command.Flags().BoolVarP(&forceFlag, "force", "f", false, "skip the confirmation prompt")
	return command
}
