package scribd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/dquimper/rscribd/api"
	"github.com/dquimper/rscribd/config"
	"github.com/dquimper/rscribd/faults"
	"github.com/dquimper/rscribd/resource"
)

type recordedCall struct {
	method string
	form   url.Values
}

type fakeRemote struct {
	t         *testing.T
	calls     []recordedCall
	responses map[string]string
}

func newFakeRemote(t *testing.T) *fakeRemote {
	t.Helper()
	return &fakeRemote{t: t, responses: make(map[string]string)}
}

func (f *fakeRemote) respond(method string, inner string) {
	f.responses[method] = inner
}

func (f *fakeRemote) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil && err != http.ErrNotMultipart {
			f.t.Errorf("parse request form: %v", err)
		}
		form := r.Form
		if form == nil {
			form = url.Values{}
		}

		method := form.Get("method")
		f.calls = append(f.calls, recordedCall{method: method, form: form})

		inner, ok := f.responses[method]
		if !ok {
			w.Write([]byte(`<rsp stat="fail"><error code="601" message="unexpected method"/></rsp>`))
			return
		}
		w.Write([]byte(`<rsp stat="ok">` + inner + `</rsp>`))
	}
}

func (f *fakeRemote) callTo(method string) (recordedCall, bool) {
	for _, call := range f.calls {
		if call.method == method {
			return call, true
		}
	}
	return recordedCall{}, false
}

func newTestClient(t *testing.T, remote *fakeRemote) *api.Client {
	t.Helper()

	server := httptest.NewServer(remote.handler())
	t.Cleanup(server.Close)

	client, err := api.New(config.Settings{API: config.API{
		Key:     "test-key",
		Secret:  "test-secret",
		BaseURL: server.URL,
	}})
	if err != nil {
		t.Fatalf("build api client: %v", err)
	}
	return client
}

func TestDocumentSaveUploadsLocalFileThenPushesSettings(t *testing.T) {
	t.Parallel()

	filePath := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(filePath, []byte("document body"), 0o600); err != nil {
		t.Fatalf("write fixture file: %v", err)
	}

	remote := newFakeRemote(t)
	remote.respond("docs.upload", `<doc_id>12345</doc_id><access_key>key-abc</access_key><secret_password>pw</secret_password>`)
	remote.respond("docs.changeSettings", ``)

	document := NewDocument(newTestClient(t, remote), map[string]resource.Value{
		"file":   filePath,
		"title":  "Quarterly Report",
		"access": "private",
	})

	if err := document.Save(context.Background()); err != nil {
		t.Fatalf("save document: %v", err)
	}

	if !document.Created() || !document.Saved() {
		t.Fatalf("expected created and saved after save, got created=%v saved=%v", document.Created(), document.Saved())
	}
	if id, ok := document.ID(); !ok || id != 12345 {
		t.Fatalf("expected doc_id 12345, got %v (ok=%v)", id, ok)
	}
	if got := document.AccessKey(); got != "key-abc" {
		t.Fatalf("expected access key from upload response, got %q", got)
	}
	if got := document.Get("title"); got != "Quarterly Report" {
		t.Fatalf("expected title to survive the settings merge, got %v", got)
	}

	upload, ok := remote.callTo("docs.upload")
	if !ok {
		t.Fatal("expected a docs.upload call")
	}
	if upload.form.Get("access") != "private" {
		t.Fatalf("expected access forwarded to upload, got %q", upload.form.Get("access"))
	}
	if upload.form.Get("file") != "" {
		t.Fatalf("file must travel as multipart content, not a form field, got %q", upload.form.Get("file"))
	}

	settings, ok := remote.callTo("docs.changeSettings")
	if !ok {
		t.Fatal("expected a docs.changeSettings call")
	}
	if settings.form.Get("doc_ids") != "12345" {
		t.Fatalf("expected doc_ids 12345 in settings call, got %q", settings.form.Get("doc_ids"))
	}
	if settings.form.Get("title") != "Quarterly Report" {
		t.Fatalf("expected title in settings call, got %q", settings.form.Get("title"))
	}
	if settings.form.Get("file") != "" {
		t.Fatalf("file attribute must not reach changeSettings, got %q", settings.form.Get("file"))
	}
}

func TestDocumentSaveUploadsFromURL(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(t)
	remote.respond("docs.uploadFromUrl", `<doc_id>77</doc_id><access_key>key-url</access_key>`)
	remote.respond("docs.changeSettings", ``)

	document := NewDocument(newTestClient(t, remote), map[string]resource.Value{
		"file":  "https://example.com/paper.pdf",
		"title": "Paper",
	})

	if err := document.Save(context.Background()); err != nil {
		t.Fatalf("save document: %v", err)
	}

	upload, ok := remote.callTo("docs.uploadFromUrl")
	if !ok {
		t.Fatal("expected a docs.uploadFromUrl call")
	}
	if upload.form.Get("url") != "https://example.com/paper.pdf" {
		t.Fatalf("expected the location as url parameter, got %q", upload.form.Get("url"))
	}
}

func TestDocumentSaveWithoutFileFails(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(t)
	document := NewDocument(newTestClient(t, remote), map[string]resource.Value{"title": "No File"})

	err := document.Save(context.Background())
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if document.Created() || document.Saved() {
		t.Fatal("failed save must not flip the lifecycle flags")
	}
}

func TestCreateDocumentReturnsInstanceOnFailure(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(t)
	document, err := CreateDocument(context.Background(), newTestClient(t, remote), map[string]resource.Value{
		"title": "Missing File",
	})
	if err == nil {
		t.Fatal("expected create to fail without a file attribute")
	}
	if document == nil {
		t.Fatal("create must return the instance alongside the error")
	}
	if got := document.Get("title"); got != "Missing File" {
		t.Fatalf("expected initial attributes on the returned instance, got %v", got)
	}
}

func TestDocumentDestroyClearsFlags(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(t)
	remote.respond("docs.delete", ``)

	document := NewDocument(newTestClient(t, remote), map[string]resource.Value{"doc_id": int64(99)})
	document.MarkCreated(true)
	document.MarkSaved(true)

	if err := document.Destroy(context.Background()); err != nil {
		t.Fatalf("destroy document: %v", err)
	}
	if document.Created() || document.Saved() {
		t.Fatal("destroy must clear the lifecycle flags")
	}

	call, ok := remote.callTo("docs.delete")
	if !ok {
		t.Fatal("expected a docs.delete call")
	}
	if call.form.Get("doc_id") != "99" {
		t.Fatalf("expected doc_id 99, got %q", call.form.Get("doc_id"))
	}
}

func TestDocumentConversionStatusAndDownloadURL(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(t)
	remote.respond("docs.getConversionStatus", `<conversion_status>DONE</conversion_status>`)
	remote.respond("docs.getDownloadUrl", `<download_link><![CDATA[https://files.example.com/99.pdf]]></download_link>`)

	document := NewDocument(newTestClient(t, remote), map[string]resource.Value{"doc_id": int64(99)})

	status, err := document.ConversionStatus(context.Background())
	if err != nil {
		t.Fatalf("conversion status: %v", err)
	}
	if status != ConversionDone {
		t.Fatalf("expected %q, got %q", ConversionDone, status)
	}

	link, err := document.DownloadURL(context.Background(), "pdf")
	if err != nil {
		t.Fatalf("download url: %v", err)
	}
	if link != "https://files.example.com/99.pdf" {
		t.Fatalf("expected the CDATA link, got %q", link)
	}

	call, ok := remote.callTo("docs.getDownloadUrl")
	if !ok {
		t.Fatal("expected a docs.getDownloadUrl call")
	}
	if call.form.Get("doc_type") != "pdf" {
		t.Fatalf("expected requested format forwarded, got %q", call.form.Get("doc_type"))
	}
}

func TestDocumentLoadSettingsReplacesStore(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(t)
	remote.respond("docs.getSettings", `<doc_id>99</doc_id><title><![CDATA[Remote Title]]></title><page_count type="integer">12</page_count>`)

	document := NewDocument(newTestClient(t, remote), map[string]resource.Value{
		"doc_id":     int64(99),
		"local_only": "stale",
	})

	if err := document.LoadSettings(context.Background()); err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if got := document.Get("local_only"); got != nil {
		t.Fatalf("load must replace the whole store, still found %v", got)
	}
	if got := document.Get("title"); got != "Remote Title" {
		t.Fatalf("expected CDATA title, got %v", got)
	}
	if got := document.Get("page_count"); got != int64(12) {
		t.Fatalf("expected typed page_count, got %v (%T)", got, got)
	}
}

func TestLoginBuildsSessionUser(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(t)
	remote.respond("user.login", `<session_key>sess-123</session_key><user_id type="integer">42</user_id><name><![CDATA[Alex]]></name>`)

	user, err := Login(context.Background(), newTestClient(t, remote), "alex", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if user.SessionKey() != "sess-123" {
		t.Fatalf("expected session key from response, got %q", user.SessionKey())
	}
	if id, ok := user.ID(); !ok || id != 42 {
		t.Fatalf("expected user_id 42, got %v (ok=%v)", id, ok)
	}
	if user.Username() != "alex" {
		t.Fatalf("expected the login name retained, got %q", user.Username())
	}
	if !user.Created() || !user.Saved() {
		t.Fatal("a logged in user is created and saved")
	}

	call, ok := remote.callTo("user.login")
	if !ok {
		t.Fatal("expected a user.login call")
	}
	if call.form.Get("username") != "alex" || call.form.Get("password") != "hunter2" {
		t.Fatalf("expected credentials forwarded, got username=%q", call.form.Get("username"))
	}
}

func TestLoginFailureMapsToAuthError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<rsp stat="fail"><error code="614" message="bad credentials"/></rsp>`))
	}))
	t.Cleanup(server.Close)

	client, err := api.New(config.Settings{API: config.API{
		Key:     "test-key",
		Secret:  "test-secret",
		BaseURL: server.URL,
	}})
	if err != nil {
		t.Fatalf("build api client: %v", err)
	}

	_, err = Login(context.Background(), client, "alex", "wrong")
	if !faults.IsCategory(err, faults.AuthError) {
		t.Fatalf("expected an auth error for code 614, got %v", err)
	}
}

func TestUserDocumentsRequiresSessionAndCarriesKey(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(t)
	remote.respond("docs.getList", `<resultset>`+
		`<result><doc_id type="integer">1</doc_id><title><![CDATA[First]]></title></result>`+
		`<result><doc_id type="integer">2</doc_id><title><![CDATA[Second]]></title></result>`+
		`</resultset>`)

	client := newTestClient(t, remote)

	anonymous := NewUser(client, nil)
	if _, err := anonymous.Documents(context.Background(), ListOptions{}); !faults.IsCategory(err, faults.AuthError) {
		t.Fatalf("expected an auth error without a session, got %v", err)
	}

	user := NewSessionUser(client, "sess-123", "alex", 42)
	documents, err := user.Documents(context.Background(), ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(documents))
	}
	if id, ok := documents[0].ID(); !ok || id != 1 {
		t.Fatalf("expected first doc_id 1, got %v", id)
	}
	if !documents[0].Created() || !documents[0].Saved() {
		t.Fatal("listed documents exist remotely and must be created and saved")
	}
	if documents[0].Owner() != user {
		t.Fatal("listed documents must be owned by the listing user")
	}

	call, ok := remote.callTo("docs.getList")
	if !ok {
		t.Fatal("expected a docs.getList call")
	}
	if call.form.Get("session_key") != "sess-123" {
		t.Fatalf("expected the session key on the call, got %q", call.form.Get("session_key"))
	}
	if call.form.Get("limit") != "10" {
		t.Fatalf("expected the limit forwarded, got %q", call.form.Get("limit"))
	}
}

func TestUserSaveAfterSignupIsRejected(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(t)
	user := NewSessionUser(newTestClient(t, remote), "sess-123", "alex", 42)

	err := user.Save(context.Background())
	if !faults.IsCategory(err, faults.NotImplementedError) {
		t.Fatalf("expected a not-implemented error, got %v", err)
	}
}

func TestFindDocumentsDecodesResultSet(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(t)
	remote.respond("docs.search", `<result_set totalResultsAvailable="250" totalResultsReturned="2" firstResultPosition="1">`+
		`<result><doc_id type="integer">10</doc_id><title><![CDATA[Alpha]]></title></result>`+
		`<result><doc_id type="integer">11</doc_id><title><![CDATA[Beta]]></title></result>`+
		`</result_set>`)

	result, err := FindDocuments(context.Background(), newTestClient(t, remote), "golang", SearchOptions{Limit: 2, Scope: SearchScopeAll})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if result.TotalAvailable != 250 || result.TotalReturned != 2 || result.FirstPosition != 1 {
		t.Fatalf("unexpected counters: %+v", result)
	}
	if len(result.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(result.Documents))
	}
	if got := result.Documents[1].Get("title"); got != "Beta" {
		t.Fatalf("expected second title Beta, got %v", got)
	}

	call, ok := remote.callTo("docs.search")
	if !ok {
		t.Fatal("expected a docs.search call")
	}
	if call.form.Get("query") != "golang" {
		t.Fatalf("expected the query forwarded, got %q", call.form.Get("query"))
	}
	if call.form.Get("num_results") != "2" {
		t.Fatalf("expected the limit as num_results, got %q", call.form.Get("num_results"))
	}
}

func TestFindDocumentsRejectsBlankQuery(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(t)
	_, err := FindDocuments(context.Background(), newTestClient(t, remote), "   ", SearchOptions{})
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestCategoriesParseNestedSubcategories(t *testing.T) {
	t.Parallel()

	remote := newFakeRemote(t)
	remote.respond("docs.getCategories", `<result_set>`+
		`<result><id type="integer">1</id><name><![CDATA[Business]]></name>`+
		`<subcategories>`+
		`<result><id type="integer">7</id><name><![CDATA[Finance]]></name></result>`+
		`</subcategories>`+
		`</result>`+
		`</result_set>`)

	categories, err := Categories(context.Background(), newTestClient(t, remote), true)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(categories))
	}
	if categories[0].Name() != "Business" {
		t.Fatalf("expected Business, got %q", categories[0].Name())
	}

	children, err := categories[0].Children(context.Background())
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	if len(children) != 1 || children[0].Name() != "Finance" {
		t.Fatalf("expected nested Finance subcategory, got %+v", children)
	}
	if _, ok := remote.callTo("docs.getCategories"); !ok {
		t.Fatal("expected a docs.getCategories call")
	}
}

func TestFormatAttributeValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value resource.Value
		want  string
	}{
		{name: "string", value: "plain", want: "plain"},
		{name: "symbol", value: resource.Symbol("private"), want: "private"},
		{name: "bool true", value: true, want: "1"},
		{name: "bool false", value: false, want: "0"},
		{name: "int64", value: int64(42), want: "42"},
		{name: "float", value: 2.5, want: "2.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := formatAttributeValue(tc.value); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDocumentIDAcceptsUntaggedIdentifier(t *testing.T) {
	t.Parallel()

	document := NewDocument(nil, nil)

	document.Set("doc_id", "12345")
	if id, ok := document.ID(); !ok || id != 12345 {
		t.Fatalf("digit string identifiers must parse, got %d ok=%v", id, ok)
	}

	document.Set("doc_id", int64(7))
	if id, ok := document.ID(); !ok || id != 7 {
		t.Fatalf("typed identifiers must pass through, got %d ok=%v", id, ok)
	}

	document.Set("doc_id", "not-a-number")
	if _, ok := document.ID(); ok {
		t.Fatal("non-numeric identifiers must not parse")
	}

	document.Set("doc_id", nil)
	if _, ok := document.ID(); ok {
		t.Fatal("absent identifiers must report not known")
	}
}
