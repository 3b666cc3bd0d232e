package document

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dquimper/rscribd/internal/cli/common"
	"github.com/dquimper/rscribd/resource"
)

const defaultUploadConcurrency = 4

func newUploadCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var accessFlag string
	var docTypeFlag string
	var titleFlag string
	var descriptionFlag string
	var paidFlag bool
	var concurrencyFlag int

	command := &cobra.Command{
		Use:   "upload <file-or-url>...",
		Short: "Upload one or more documents",
		Example: strings.Join([]string{
			"  rscribd document upload report.pdf",
			"  rscribd document upload --access private --title 'Q3 Report' report.pdf",
			"  rscribd document upload https://example.com/paper.pdf",
			"  rscribd document upload chapters/*.doc",
		}, "\n"),
		Args: cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			if titleFlag != "" && len(args) > 1 {
				return common.ValidationError("--title applies to a single upload", nil)
			}

			_, user, settings, err := sessionClient(deps, globalFlags)
			if err != nil {
				return err
			}

			group, groupCtx := errgroup.WithContext(command.Context())
			group.SetLimit(uploadConcurrency(concurrencyFlag, len(args)))

			var mu sync.Mutex
			views := make([]map[string]any, 0, len(args))

			for _, location := range args {
				group.Go(func() error {
					attributes := map[string]resource.Value{"file": location}
					if accessFlag != "" {
						attributes["access"] = accessFlag
					}
					if docTypeFlag != "" {
						attributes["doc_type"] = docTypeFlag
					}
					if titleFlag != "" {
						attributes["title"] = titleFlag
					}
					if descriptionFlag != "" {
						attributes["description"] = descriptionFlag
					}
					if paidFlag {
						attributes["paid_content"] = true
					}

					uploaded, err := user.Upload(groupCtx, attributes)
					if err != nil {
						return fmt.Errorf("upload %s: %w", location, err)
					}

					mu.Lock()
					views = append(views, documentView(uploaded))
					mu.Unlock()
					return nil
				})
			}
			if err := group.Wait(); err != nil {
				return err
			}

			format := common.ResolveOutputFormat(globalFlags, settings)
			if len(views) == 1 {
				return common.WriteOutput(command, format, views[0], renderDocumentText)
			}
			return common.WriteOutput(command, format, views, renderDocumentListText)
		},
	}

	command.Flags().StringVar(&accessFlag, "access", "", "document access: public|private")
	command.Flags().StringVar(&docTypeFlag, "doc-type", "", "source format hint, for example pdf or txt")
	command.Flags().StringVar(&titleFlag, "title", "", "document title (single upload only)")
	command.Flags().StringVar(&descriptionFlag, "description", "", "document description")
	command.Flags().BoolVar(&paidFlag, "paid", false, "mark as paid content")
	command.Flags().IntVar(&concurrencyFlag, "concurrency", defaultUploadConcurrency, "parallel uploads")
	return command
}

func uploadConcurrency(requested int, uploads int) int {
	limit := requested
	if limit <= 0 {
		limit = defaultUploadConcurrency
	}
	if uploads < limit {
		limit = uploads
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}
