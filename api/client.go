package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dquimper/rscribd/config"
)

const (
	methodParamName    = "method"
	apiKeyParamName    = "api_key"
	signatureParamName = "api_sig"
	fileParamName      = "file"

	maxResponseBytes = 1 << 20
	defaultBurst     = 5
)

// Client issues signed calls against the platform API. It is safe for
// concurrent use; all fields are immutable after construction.
type Client struct {
	key        string
	secret     string
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient == nil {
			return
		}
		c.httpClient = httpClient
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger == nil {
			return
		}
		c.logger = logger
	}
}

func New(settings config.Settings, opts ...Option) (*Client, error) {
	if err := config.Validate(settings); err != nil {
		return nil, err
	}

	baseURL, err := parseBaseURL(config.ResolveBaseURL(settings))
	if err != nil {
		return nil, err
	}

	timeout, err := config.ResolveTimeout(settings)
	if err != nil {
		return nil, err
	}

	client := &Client{
		key:        strings.TrimSpace(settings.API.Key),
		secret:     strings.TrimSpace(settings.API.Secret),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.New(slog.DiscardHandler),
		limiter:    rate.NewLimiter(rate.Limit(config.ResolveRateLimit(settings)), defaultBurst),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(client)
	}
	return client, nil
}

// Call issues one form-encoded method call and returns the ok rsp element.
func (c *Client) Call(ctx context.Context, method string, params Params) (*etree.Element, error) {
	signed, err := c.signedParams(method, params)
	if err != nil {
		return nil, err
	}

	body, contentType := encodeFormBody(signed)
	return c.roundTrip(ctx, method, body, contentType)
}

// CallFile issues one multipart method call carrying an uploaded file. The
// file content is excluded from the request signature.
func (c *Client) CallFile(ctx context.Context, method string, params Params, filename string, file io.Reader) (*etree.Element, error) {
	if file == nil {
		return nil, validationError("upload content is required", nil)
	}

	signed, err := c.signedParams(method, params)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeMultipartBody(signed, filename, file)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, method, body, contentType)
}

func (c *Client) signedParams(method string, params Params) (Params, error) {
	resolvedMethod := strings.TrimSpace(method)
	if resolvedMethod == "" {
		return nil, validationError("method name is required", nil)
	}

	signed := params.clone()
	signed[methodParamName] = resolvedMethod
	signed[apiKeyParamName] = c.key
	if c.secret != "" {
		signed[signatureParamName] = signParams(c.secret, signed)
	}
	return signed, nil
}

func (c *Client) roundTrip(ctx context.Context, method string, body io.Reader, contentType string) (*etree.Element, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, transportError("request throttle interrupted", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.String(), body)
	if err != nil {
		return nil, internalError("failed to create remote request", err)
	}
	request.Header.Set("Content-Type", contentType)

	requestID := uuid.NewString()
	started := time.Now()

	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logCall(ctx, method, requestID, started, "transport-error")
		return nil, transportError("remote request failed", err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		c.logCall(ctx, method, requestID, started, "transport-error")
		return nil, transportError("failed to read remote response body", err)
	}

	if response.StatusCode >= http.StatusBadRequest {
		c.logCall(ctx, method, requestID, started, response.Status)
		return nil, classifyStatusError(response.StatusCode, responseBody)
	}

	rsp, err := decodeResponse(responseBody)
	if err != nil {
		c.logCall(ctx, method, requestID, started, "fail")
		return nil, err
	}

	c.logCall(ctx, method, requestID, started, "ok")
	return rsp, nil
}

func (c *Client) logCall(ctx context.Context, method string, requestID string, started time.Time, stat string) {
	c.logger.DebugContext(ctx, "api call",
		slog.String("method", method),
		slog.String("request_id", requestID),
		slog.Duration("duration", time.Since(started)),
		slog.String("stat", stat),
	)
}

func parseBaseURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, validationError("api.base-url is invalid", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, validationError("api.base-url must use http or https", nil)
	}
	if parsed.Host == "" {
		return nil, validationError("api.base-url host is required", nil)
	}
	return parsed, nil
}
