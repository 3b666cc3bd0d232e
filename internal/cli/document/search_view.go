package document

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dquimper/rscribd/config"
	"github.com/dquimper/rscribd/internal/cli/common"
	"github.com/dquimper/rscribd/scribd"
)

type searchView struct {
	TotalAvailable int64            `json:"total_available" yaml:"total_available"`
	TotalReturned  int64            `json:"total_returned" yaml:"total_returned"`
	FirstPosition  int64            `json:"first_position" yaml:"first_position"`
	Documents      []map[string]any `json:"documents" yaml:"documents"`
}

func writeSearchResult(
	command *cobra.Command,
	globalFlags *common.GlobalFlags,
	settings config.Settings,
	jqExpression string,
	result *scribd.SearchResult,
) error {
	view := searchView{
		TotalAvailable: result.TotalAvailable,
		TotalReturned:  result.TotalReturned,
		FirstPosition:  result.FirstPosition,
		Documents:      documentViews(result.Documents),
	}

	format := common.ResolveOutputFormat(globalFlags, settings)
	return common.WriteFilteredOutput(command, format, jqExpression, view, func(w io.Writer, value searchView) error {
		if _, err := fmt.Fprintf(w, "%d of %d results\n", value.TotalReturned, value.TotalAvailable); err != nil {
			return err
		}
		return renderDocumentListText(w, value.Documents)
	})
}
