package scribd

import (
	"context"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/dquimper/rscribd/api"
	"github.com/dquimper/rscribd/faults"
	"github.com/dquimper/rscribd/resource"
	"github.com/dquimper/rscribd/xmlutil"
)

const (
	SearchScopeAll  = "all"
	SearchScopeUser = "user"
)

type SearchOptions struct {
	Limit  int
	Offset int
	Scope  string
}

// SearchResult is one page of docs.search matches plus the result-set
// counters the remote reports.
type SearchResult struct {
	TotalAvailable int64
	TotalReturned  int64
	FirstPosition  int64
	Documents      []*Document
}

// FindDocuments searches the public index, or the session owner's documents
// when the options select the user scope.
func FindDocuments(ctx context.Context, client *api.Client, query string, opts SearchOptions) (*SearchResult, error) {
	return findDocuments(ctx, client, nil, query, opts)
}

func findDocuments(ctx context.Context, client *api.Client, owner *User, query string, opts SearchOptions) (*SearchResult, error) {
	if client == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "search requires an api client", nil)
	}
	if strings.TrimSpace(query) == "" {
		return nil, faults.NewTypedError(faults.ValidationError, "search query is required", nil)
	}

	params := api.Params{"query": strings.TrimSpace(query)}
	if scope := strings.TrimSpace(opts.Scope); scope != "" {
		params["scope"] = scope
	}
	if opts.Limit > 0 {
		params["num_results"] = strconv.Itoa(opts.Limit)
	}
	if opts.Offset > 0 {
		params["num_start"] = strconv.Itoa(opts.Offset)
	}
	if owner != nil {
		params = mergeParams(params, owner.sessionParams())
	}

	rsp, err := client.Call(ctx, "docs.search", params)
	if err != nil {
		return nil, err
	}

	resultSet := rsp.SelectElement("result_set")
	if resultSet == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "response is missing the result_set element", nil)
	}

	result := &SearchResult{
		TotalAvailable: resultSetCounter(resultSet, "totalResultsAvailable"),
		TotalReturned:  resultSetCounter(resultSet, "totalResultsReturned"),
		FirstPosition:  resultSetCounter(resultSet, "firstResultPosition"),
	}
	result.Documents = documentsFromResults(client, owner, resultSet)
	return result, nil
}

func resultSetCounter(resultSet *etree.Element, name string) int64 {
	parsed, err := strconv.ParseInt(xmlutil.AttrValue(resultSet, name), 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// documentsFromResults loads one Document per result element. Loaded
// documents exist remotely, so they start created and saved.
func documentsFromResults(client *api.Client, owner *User, parent *etree.Element) []*Document {
	results := parent.SelectElements("result")
	documents := make([]*Document, 0, len(results))
	for _, element := range results {
		document := NewDocument(client, nil)
		document.SetOwner(owner)
		document.LoadAttributes(element.ChildElements())
		document.MarkCreated(true)
		document.MarkSaved(true)
		documents = append(documents, document)
	}
	return documents
}

// documentFromID builds a handle for a known remote identifier without
// fetching it; LoadSettings pulls the attributes when needed.
func documentFromID(client *api.Client, owner *User, id int64) *Document {
	document := NewDocument(client, map[string]resource.Value{"doc_id": id})
	document.SetOwner(owner)
	document.MarkCreated(true)
	return document
}

// OpenDocument fetches an existing remote document by identifier.
func OpenDocument(ctx context.Context, client *api.Client, owner *User, id int64) (*Document, error) {
	document := documentFromID(client, owner, id)
	if err := document.LoadSettings(ctx); err != nil {
		return nil, err
	}
	return document, nil
}
