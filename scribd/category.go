package scribd

import (
	"context"
	"strconv"

	"github.com/beevik/etree"

	"github.com/dquimper/rscribd/api"
	"github.com/dquimper/rscribd/faults"
	"github.com/dquimper/rscribd/resource"
)

const categoryKind = "category"

// Category is one node of the remote browse taxonomy.
type Category struct {
	*resource.Resource

	client   *api.Client
	children []*Category
}

func newCategory(client *api.Client) *Category {
	return &Category{
		Resource: resource.NewOfKind(categoryKind, nil),
		client:   client,
	}
}

// Categories lists the top level taxonomy. With subcategories included, each
// returned category already carries its children.
func Categories(ctx context.Context, client *api.Client, withSubcategories bool) ([]*Category, error) {
	if client == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "listing categories requires an api client", nil)
	}

	params := api.Params{}
	if withSubcategories {
		params["with_subcategories"] = "true"
	}

	rsp, err := client.Call(ctx, "docs.getCategories", params)
	if err != nil {
		return nil, err
	}

	resultSet := rsp.SelectElement("result_set")
	if resultSet == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "response is missing the result_set element", nil)
	}
	return categoriesFromResults(client, resultSet), nil
}

func categoriesFromResults(client *api.Client, parent *etree.Element) []*Category {
	results := parent.SelectElements("result")
	categories := make([]*Category, 0, len(results))
	for _, element := range results {
		category := newCategory(client)
		attributes := element.ChildElements()
		flat := make([]*etree.Element, 0, len(attributes))
		for _, attribute := range attributes {
			if attribute.Tag == "subcategories" {
				category.children = categoriesFromResults(client, attribute)
				continue
			}
			flat = append(flat, attribute)
		}
		category.LoadAttributes(flat)
		category.MarkCreated(true)
		category.MarkSaved(true)
		categories = append(categories, category)
	}
	return categories
}

// CategoryByID builds a handle for a known category identifier without
// fetching it; Children and Browse pull remote data on demand.
func CategoryByID(client *api.Client, id int64) *Category {
	category := newCategory(client)
	category.Set("id", id)
	category.MarkCreated(true)
	return category
}

func (c *Category) ID() (int64, bool) {
	return identifierValue(c.Get("id"))
}

func (c *Category) Name() string {
	name, _ := c.Get("name").(string)
	return name
}

// Children returns subcategories already fetched with this category, or
// fetches them through docs.getCategories on demand.
func (c *Category) Children(ctx context.Context) ([]*Category, error) {
	if c.children != nil {
		return c.children, nil
	}
	if c.client == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "category is not bound to an api client", nil)
	}
	id, ok := c.ID()
	if !ok {
		return nil, faults.NewTypedError(faults.ValidationError, "category has no identifier to expand", nil)
	}

	rsp, err := c.client.Call(ctx, "docs.getCategories", api.Params{
		"category_id": strconv.FormatInt(id, 10),
	})
	if err != nil {
		return nil, err
	}

	resultSet := rsp.SelectElement("result_set")
	if resultSet == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "response is missing the result_set element", nil)
	}
	c.children = categoriesFromResults(c.client, resultSet)
	return c.children, nil
}

// Browse lists documents filed under this category.
func (c *Category) Browse(ctx context.Context, opts ListOptions) ([]*Document, error) {
	if c.client == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "category is not bound to an api client", nil)
	}
	id, ok := c.ID()
	if !ok {
		return nil, faults.NewTypedError(faults.ValidationError, "category has no identifier to browse", nil)
	}

	params := api.Params{"category_id": strconv.FormatInt(id, 10)}
	if opts.Limit > 0 {
		params["limit"] = strconv.Itoa(opts.Limit)
	}
	if opts.Offset > 0 {
		params["offset"] = strconv.Itoa(opts.Offset)
	}

	rsp, err := c.client.Call(ctx, "docs.browse", params)
	if err != nil {
		return nil, err
	}

	resultSet := rsp.SelectElement("result_set")
	if resultSet == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "response is missing the result_set element", nil)
	}
	return documentsFromResults(c.client, nil, resultSet), nil
}
