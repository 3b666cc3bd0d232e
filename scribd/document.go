package scribd

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/dquimper/rscribd/api"
	"github.com/dquimper/rscribd/faults"
	"github.com/dquimper/rscribd/resource"
	"github.com/dquimper/rscribd/xmlutil"
)

const documentKind = "document"

// Attribute names the remote service owns; they are never sent back as
// settings.
var serverOwnedDocumentAttributes = []string{
	attrFile,
	"doc_id",
	"access_key",
	"secret_password",
	"conversion_status",
	"thumbnail_url",
}

const attrFile = "file"

// Conversion states reported by docs.getConversionStatus.
const (
	ConversionProcessing  = "PROCESSING"
	ConversionDisplayable = "DISPLAYABLE"
	ConversionDone        = "DONE"
	ConversionError       = "ERROR"
)

// Document is a remote document. The local "file" attribute (a filesystem
// path or an http/https/ftp URL) drives the initial upload and is consumed by
// the first successful Save.
type Document struct {
	*resource.Resource
	client *api.Client
	owner  *User
}

var _ resource.Remote = (*Document)(nil)

func NewDocument(client *api.Client, initial map[string]resource.Value) *Document {
	return &Document{
		Resource: resource.NewOfKind(documentKind, initial),
		client:   client,
	}
}

// CreateDocument constructs and saves in one step. The returned instance is
// never nil; callers confirm semantic success through Created and Saved.
func CreateDocument(ctx context.Context, client *api.Client, initial map[string]resource.Value) (*Document, error) {
	document := NewDocument(client, initial)
	err := resource.Create(ctx, document)
	return document, err
}

func (d *Document) SetOwner(owner *User) {
	if d == nil {
		return
	}
	d.owner = owner
}

func (d *Document) Owner() *User {
	if d == nil {
		return nil
	}
	return d.owner
}

// ID returns the remote document identifier, when known.
func (d *Document) ID() (int64, bool) {
	return identifierValue(d.Get("doc_id"))
}

func (d *Document) AccessKey() string {
	key, _ := d.Get("access_key").(string)
	return key
}

// Save creates or updates the remote document. A new document uploads its
// file attribute first (docs.upload or docs.uploadFromUrl), reloads the
// attribute store from the response, then pushes the remaining local
// attributes through docs.changeSettings. The local store is only mutated on
// success.
func (d *Document) Save(ctx context.Context) error {
	if err := d.checkClient(); err != nil {
		return err
	}

	attributes := d.Attributes()
	fileValue, hasFile := attributes[attrFile]
	if hasFile && fileValue == nil {
		hasFile = false
	}

	if !d.Created() {
		if !hasFile {
			return faults.NewTypedError(faults.ValidationError, "the file attribute is required to create a document", nil)
		}
		if err := d.upload(ctx, fileValue, attributes); err != nil {
			return err
		}
	}

	settings := attributeParams(attributes, serverOwnedDocumentAttributes...)
	if len(settings) == 0 {
		d.MarkSaved(true)
		return nil
	}

	id, ok := d.ID()
	if !ok {
		return faults.NewTypedError(faults.InternalError, "document has no doc_id after creation", nil)
	}

	params := mergeParams(settings, api.Params{"doc_ids": formatAttributeValue(id)})
	if _, err := d.client.Call(ctx, "docs.changeSettings", d.withSession(params)); err != nil {
		return err
	}

	if err := d.WriteAttributes(settingsAttributes(attributes)); err != nil {
		return err
	}
	d.MarkSaved(true)
	return nil
}

func (d *Document) upload(ctx context.Context, fileValue resource.Value, attributes map[string]resource.Value) error {
	uploadParams := attributeParams(map[string]resource.Value{
		"doc_type":     attributes["doc_type"],
		"access":       attributes["access"],
		"rev_id":       attributes["rev_id"],
		"paid_content": attributes["paid_content"],
	})

	location := formatAttributeValue(fileValue)
	var rsp *etree.Element
	var err error
	if isRemoteLocation(location) {
		rsp, err = d.client.Call(ctx, "docs.uploadFromUrl", d.withSession(mergeParams(uploadParams, api.Params{"url": location})))
	} else {
		rsp, err = d.uploadLocalFile(ctx, location, uploadParams)
	}
	if err != nil {
		return err
	}

	d.LoadAttributes(rsp.ChildElements())
	d.MarkCreated(true)
	return nil
}

func (d *Document) uploadLocalFile(ctx context.Context, location string, params api.Params) (*etree.Element, error) {
	file, err := os.Open(location)
	if err != nil {
		return nil, faults.NewTypedError(faults.ValidationError, "file attribute does not name a readable file", err)
	}
	defer file.Close()

	return d.client.CallFile(ctx, "docs.upload", d.withSession(params), filepath.Base(location), file)
}

// Destroy deletes the remote document.
func (d *Document) Destroy(ctx context.Context) error {
	if err := d.checkClient(); err != nil {
		return err
	}

	id, ok := d.ID()
	if !ok {
		return faults.NewTypedError(faults.ValidationError, "document has no doc_id to destroy", nil)
	}

	if _, err := d.client.Call(ctx, "docs.delete", d.withSession(api.Params{"doc_id": formatAttributeValue(id)})); err != nil {
		return err
	}

	d.MarkCreated(false)
	d.MarkSaved(false)
	return nil
}

// LoadSettings refreshes the local attribute store from docs.getSettings.
// Locally written attributes the remote does not know are dropped.
func (d *Document) LoadSettings(ctx context.Context) error {
	if err := d.checkClient(); err != nil {
		return err
	}

	id, ok := d.ID()
	if !ok {
		return faults.NewTypedError(faults.ValidationError, "document has no doc_id to load settings for", nil)
	}

	rsp, err := d.client.Call(ctx, "docs.getSettings", d.withSession(api.Params{"doc_id": formatAttributeValue(id)}))
	if err != nil {
		return err
	}

	d.LoadAttributes(rsp.ChildElements())
	d.MarkCreated(true)
	d.MarkSaved(true)
	return nil
}

// ConversionStatus reports the remote processing state of the document.
func (d *Document) ConversionStatus(ctx context.Context) (string, error) {
	if err := d.checkClient(); err != nil {
		return "", err
	}

	id, ok := d.ID()
	if !ok {
		return "", faults.NewTypedError(faults.ValidationError, "document has no doc_id to query", nil)
	}

	rsp, err := d.client.Call(ctx, "docs.getConversionStatus", d.withSession(api.Params{"doc_id": formatAttributeValue(id)}))
	if err != nil {
		return "", err
	}

	status, ok := xmlutil.ChildContent(rsp, "conversion_status")
	if !ok {
		return "", faults.NewTypedError(faults.ValidationError, "response is missing the conversion_status element", nil)
	}
	return strings.TrimSpace(status), nil
}

// DownloadURL resolves a download link for the given format (pdf, txt, or
// original).
func (d *Document) DownloadURL(ctx context.Context, format string) (string, error) {
	if err := d.checkClient(); err != nil {
		return "", err
	}

	id, ok := d.ID()
	if !ok {
		return "", faults.NewTypedError(faults.ValidationError, "document has no doc_id to download", nil)
	}

	resolvedFormat := strings.TrimSpace(format)
	if resolvedFormat == "" {
		resolvedFormat = "original"
	}

	rsp, err := d.client.Call(ctx, "docs.getDownloadUrl", d.withSession(api.Params{
		"doc_id":   formatAttributeValue(id),
		"doc_type": resolvedFormat,
	}))
	if err != nil {
		return "", err
	}

	link, ok := xmlutil.ChildContent(rsp, "download_link")
	if !ok {
		return "", faults.NewTypedError(faults.ValidationError, "response is missing the download_link element", nil)
	}
	return strings.TrimSpace(link), nil
}

func (d *Document) withSession(params api.Params) api.Params {
	if d.owner == nil {
		return params
	}
	return mergeParams(params, d.owner.sessionParams())
}

func (d *Document) checkClient() error {
	if d == nil || d.client == nil {
		return faults.NewTypedError(faults.ValidationError, "document has no api client", nil)
	}
	return nil
}

func settingsAttributes(attributes map[string]resource.Value) map[string]resource.Value {
	excluded := make(map[string]struct{}, len(serverOwnedDocumentAttributes))
	for _, name := range serverOwnedDocumentAttributes {
		excluded[name] = struct{}{}
	}

	settings := make(map[string]resource.Value, len(attributes))
	for name, value := range attributes {
		if value == nil {
			continue
		}
		if _, skip := excluded[name]; skip {
			continue
		}
		settings[name] = value
	}
	return settings
}

func isRemoteLocation(location string) bool {
	lowered := strings.ToLower(location)
	return strings.HasPrefix(lowered, "http://") ||
		strings.HasPrefix(lowered, "https://") ||
		strings.HasPrefix(lowered, "ftp://")
}
