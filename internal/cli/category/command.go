package category

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dquimper/rscribd/internal/cli/common"
	"github.com/dquimper/rscribd/scribd"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "category",
		Short: "Browse the document taxonomy",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Help()
		},
	}

	command.AddCommand(newListCommand(deps, globalFlags))
	return command
}

type categoryView struct {
	ID            int64          `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Subcategories []categoryView `json:"subcategories,omitempty" yaml:"subcategories,omitempty"`
}

func newListCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var withSubcategoriesFlag bool
	var parentFlag int64
	var jqFlag string

	command := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			client, settings, err := common.ResolveClient(deps, globalFlags)
			if err != nil {
				return err
			}

			var categories []*scribd.Category
			if parentFlag > 0 {
				categories, err = scribd.CategoryByID(client, parentFlag).Children(command.Context())
			} else {
				categories, err = scribd.Categories(command.Context(), client, withSubcategoriesFlag)
			}
			if err != nil {
				return err
			}

			views, err := categoryViews(command, categories, withSubcategoriesFlag)
			if err != nil {
				return err
			}

			format := common.ResolveOutputFormat(globalFlags, settings)
			return common.WriteFilteredOutput(command, format, jqFlag, views, renderCategoryTree)
		},
	}

	command.Flags().BoolVar(&withSubcategoriesFlag, "subcategories", false, "include subcategories")
	command.Flags().Int64Var(&parentFlag, "parent", 0, "list the subcategories of a category id")
	common.BindJQFlag(command, &jqFlag)
	return command
}

func categoryViews(command *cobra.Command, categories []*scribd.Category, withChildren bool) ([]categoryView, error) {
	views := make([]categoryView, 0, len(categories))
	for _, category := range categories {
		id, _ := category.ID()
		view := categoryView{ID: id, Name: category.Name()}
		if withChildren {
			children, err := category.Children(command.Context())
			if err != nil {
				return nil, err
			}
			view.Subcategories, err = categoryViews(command, children, withChildren)
			if err != nil {
				return nil, err
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func renderCategoryTree(w io.Writer, views []categoryView) error {
	return renderCategoryLevel(w, views, "")
}

func renderCategoryLevel(w io.Writer, views []categoryView, indent string) error {
	for _, view := range views {
		if _, err := fmt.Fprintf(w, "%s%d\t%s\n", indent, view.ID, view.Name); err != nil {
			return err
		}
		if err := renderCategoryLevel(w, view.Subcategories, indent+"  "); err != nil {
			return err
		}
	}
	return nil
}
