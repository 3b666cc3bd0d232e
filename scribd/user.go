package scribd

import (
	"context"
	"strings"

	"github.com/dquimper/rscribd/api"
	"github.com/dquimper/rscribd/faults"
	"github.com/dquimper/rscribd/resource"
	"github.com/dquimper/rscribd/xmlutil"
)

const userKind = "user"

const (
	attrSessionKey = "session_key"
	attrUserID     = "user_id"
	attrUsername   = "username"
	attrPassword   = "password"
	attrEmail      = "email"
)

// User is an account on the remote service. A user obtained through Login or
// Signup carries a session key, and documents routed through it act on that
// account's behalf.
type User struct {
	*resource.Resource

	client *api.Client
}

var _ resource.Remote = (*User)(nil)

func NewUser(client *api.Client, attributes map[string]resource.Value) *User {
	return &User{
		Resource: resource.NewOfKind(userKind, attributes),
		client:   client,
	}
}

// NewSessionUser rebuilds a user handle from a previously stored session.
func NewSessionUser(client *api.Client, sessionKey string, username string, userID int64) *User {
	user := NewUser(client, map[string]resource.Value{
		attrSessionKey: sessionKey,
		attrUsername:   username,
		attrUserID:     userID,
	})
	user.MarkCreated(true)
	user.MarkSaved(true)
	return user
}

// Login authenticates against user.login and returns a user holding the
// resulting session key.
func Login(ctx context.Context, client *api.Client, username string, password string) (*User, error) {
	if client == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "login requires an api client", nil)
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, faults.NewTypedError(faults.ValidationError, "login requires a username and a password", nil)
	}

	rsp, err := client.Call(ctx, "user.login", api.Params{
		attrUsername: username,
		attrPassword: password,
	})
	if err != nil {
		return nil, err
	}

	user := NewUser(client, nil)
	user.LoadAttributes(rsp.ChildElements())
	user.Set(attrUsername, username)
	user.MarkCreated(true)
	user.MarkSaved(true)
	return user, nil
}

// Signup registers a new account through user.signup and returns the logged
// in user.
func Signup(ctx context.Context, client *api.Client, username string, password string, email string) (*User, error) {
	user := NewUser(client, map[string]resource.Value{
		attrUsername: username,
		attrPassword: password,
		attrEmail:    email,
	})
	if err := user.Save(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

// Save registers the user remotely. Accounts cannot be updated through the
// remote interface once they exist.
func (u *User) Save(ctx context.Context) error {
	if err := u.checkClient(); err != nil {
		return err
	}
	if u.Created() {
		return faults.NewTypedError(faults.NotImplementedError, "user attributes cannot be updated after signup", nil)
	}

	username, _ := u.Get(attrUsername).(string)
	password, _ := u.Get(attrPassword).(string)
	if strings.TrimSpace(username) == "" || password == "" {
		return faults.NewTypedError(faults.ValidationError, "signup requires a username and a password", nil)
	}

	params := attributeParams(u.Attributes())
	rsp, err := u.client.Call(ctx, "user.signup", params)
	if err != nil {
		return err
	}

	u.LoadAttributes(rsp.ChildElements())
	u.Set(attrUsername, username)
	u.MarkCreated(true)
	u.MarkSaved(true)
	return nil
}

// Destroy is not supported by the remote interface.
func (u *User) Destroy(ctx context.Context) error {
	return faults.NewTypedError(faults.NotImplementedError, "user accounts cannot be destroyed remotely", nil)
}

func (u *User) SessionKey() string {
	key, _ := u.Get(attrSessionKey).(string)
	return key
}

func (u *User) ID() (int64, bool) {
	return identifierValue(u.Get(attrUserID))
}

func (u *User) Username() string {
	name, _ := u.Get(attrUsername).(string)
	return name
}

// sessionParams returns the parameters that scope a call to this user's
// session. Users without a session key contribute nothing.
func (u *User) sessionParams() api.Params {
	key := u.SessionKey()
	if key == "" {
		return nil
	}
	return api.Params{attrSessionKey: key}
}

type ListOptions struct {
	Limit  int
	Offset int
}

// Documents lists the documents owned by this user through docs.getList.
func (u *User) Documents(ctx context.Context, opts ListOptions) ([]*Document, error) {
	if err := u.checkSession(); err != nil {
		return nil, err
	}

	params := u.sessionParams()
	if opts.Limit > 0 {
		params["limit"] = formatAttributeValue(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		params["offset"] = formatAttributeValue(int64(opts.Offset))
	}

	rsp, err := u.client.Call(ctx, "docs.getList", params)
	if err != nil {
		return nil, err
	}

	resultSet := rsp.SelectElement("resultset")
	if resultSet == nil {
		return nil, faults.NewTypedError(faults.ValidationError, "response is missing the resultset element", nil)
	}
	return documentsFromResults(u.client, u, resultSet), nil
}

// FindDocuments searches within this user's documents.
func (u *User) FindDocuments(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	if err := u.checkSession(); err != nil {
		return nil, err
	}
	if opts.Scope == "" {
		opts.Scope = SearchScopeUser
	}
	return findDocuments(ctx, u.client, u, query, opts)
}

// Upload creates and saves a document owned by this user. The attributes
// must include the file location.
func (u *User) Upload(ctx context.Context, attributes map[string]resource.Value) (*Document, error) {
	if err := u.checkSession(); err != nil {
		return nil, err
	}

	document := NewDocument(u.client, attributes)
	document.SetOwner(u)
	if err := document.Save(ctx); err != nil {
		return document, err
	}
	return document, nil
}

// AutoSigninURL returns a single-use URL that signs the user in and then
// redirects to the given path.
func (u *User) AutoSigninURL(ctx context.Context, next string) (string, error) {
	if err := u.checkSession(); err != nil {
		return "", err
	}

	params := u.sessionParams()
	if next != "" {
		params["next_url"] = next
	}

	rsp, err := u.client.Call(ctx, "user.getAutoSigninUrl", params)
	if err != nil {
		return "", err
	}

	urlElement := rsp.SelectElement("url")
	if urlElement == nil {
		return "", faults.NewTypedError(faults.ValidationError, "response is missing the url element", nil)
	}
	value, _ := xmlutil.Content(urlElement)
	value = strings.TrimSpace(value)
	if value == "" {
		return "", faults.NewTypedError(faults.ValidationError, "response carries an empty signin url", nil)
	}
	return value, nil
}

func (u *User) checkClient() error {
	if u.client == nil {
		return faults.NewTypedError(faults.ValidationError, "user is not bound to an api client", nil)
	}
	return nil
}

func (u *User) checkSession() error {
	if err := u.checkClient(); err != nil {
		return err
	}
	if u.SessionKey() == "" {
		return faults.NewTypedError(faults.AuthError, "user has no active session", nil)
	}
	return nil
}
