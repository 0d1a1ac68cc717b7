// Package helpscout provides a read-only client for the Help Scout Docs API.
package helpscout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

// DefaultBaseURL is the Help Scout Docs API root.
const DefaultBaseURL = "https://docsapi.helpscout.net/v1"

const (
	defaultTimeout   = 30 * time.Second
	maxPageSize      = 100
	maxErrorBodySize = 4 << 10
	userAgent        = "helpscout-mcp"
)

// Endpoint labels reported to the Recorder.
const (
	EndpointSearch      = "search"
	EndpointArticle     = "article"
	EndpointCollections = "collections"
	EndpointArticles    = "collection_articles"
)

// Recorder observes completed upstream requests. Code is zero when the
// request failed before a response arrived.
type Recorder interface {
	RecordUpstream(endpoint string, code int, d time.Duration)
}

// Client is an HTTP client for the Help Scout Docs API. It holds no mutable
// state and is safe for concurrent use.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	log      logr.Logger
	recorder Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request diagnostics.
func WithLogger(log logr.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithRecorder sets the observer notified after every upstream request.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// New returns a new client. If httpClient is nil, a default with a 30s
// timeout is used. baseURL must use https.
func New(baseURL, apiKey string, httpClient *http.Client, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("help scout api key missing")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: https is required", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		apiKey:  apiKey,
		http:    httpClient,
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SearchArticles searches published, public articles. Items keep the order
// returned by the API; any item reporting a status other than published is
// dropped.
func (c *Client) SearchArticles(ctx context.Context, p SearchParams) (*Page[ArticleSummary], error) {
	q := url.Values{}
	q.Set("query", p.Query)
	q.Set("status", StatusPublished)
	q.Set("visibility", "public")
	setPaging(q, p.Page, p.PageSize)
	if p.CollectionID != "" {
		q.Set("collectionId", p.CollectionID)
	}

	var env articlesEnvelope
	if err := c.get(ctx, EndpointSearch, q, &env, "search", "articles"); err != nil {
		return nil, err
	}
	page := env.Articles
	page.Items = publishedOnly(page.Items)
	return &page, nil
}

// GetArticle fetches one article with its full body.
func (c *Client) GetArticle(ctx context.Context, id string) (*Article, error) {
	var env articleEnvelope
	if err := c.get(ctx, EndpointArticle, nil, &env, "articles", id); err != nil {
		return nil, err
	}
	if env.Article == nil || env.Article.ID == "" {
		return nil, &Error{Kind: KindNotFound, StatusCode: http.StatusOK, Message: fmt.Sprintf("article %s not found", id)}
	}
	return env.Article, nil
}

// ListCollections lists public collections in ascending order.
func (c *Client) ListCollections(ctx context.Context, p ListParams) (*Page[Collection], error) {
	q := url.Values{}
	q.Set("visibility", "public")
	q.Set("order", "asc")
	setPaging(q, p.Page, p.PageSize)

	var env collectionsEnvelope
	if err := c.get(ctx, EndpointCollections, q, &env, "collections"); err != nil {
		return nil, err
	}
	return &env.Collections, nil
}

// ListArticles lists the published articles of one collection, sorted by name.
func (c *Client) ListArticles(ctx context.Context, collectionID string, p ListParams) (*Page[ArticleSummary], error) {
	q := url.Values{}
	q.Set("status", StatusPublished)
	q.Set("sort", "name")
	q.Set("order", "asc")
	setPaging(q, p.Page, p.PageSize)

	var env articlesEnvelope
	if err := c.get(ctx, EndpointArticles, q, &env, "collections", collectionID, "articles"); err != nil {
		return nil, err
	}
	return &env.Articles, nil
}

// get issues an authenticated GET for the escaped path segments and decodes
// the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any, segments ...string) error {
	reqURL := c.buildURL(q, segments...)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &Error{Kind: KindTransportFailure, Message: "build request", Err: err}
	}
	req.SetBasicAuth(c.apiKey, "X")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(endpoint, 0, start)
		return transportError(ctx, err)
	}
	defer resp.Body.Close()
	c.observe(endpoint, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, errorDetail(resp.Body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return transportError(ctx, err)
		}
		return &Error{Kind: KindDecodeFailure, StatusCode: resp.StatusCode, Message: "malformed JSON response", Err: err}
	}
	return nil
}

func (c *Client) buildURL(q url.Values, segments ...string) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	if len(q) > 0 {
		b.WriteByte('?')
		b.WriteString(q.Encode())
	}
	return b.String()
}

func (c *Client) observe(endpoint string, code int, start time.Time) {
	elapsed := time.Since(start)
	c.log.V(1).Info("help scout request", "endpoint", endpoint, "status", code, "duration", elapsed)
	if c.recorder != nil {
		c.recorder.RecordUpstream(endpoint, code, elapsed)
	}
}

func transportError(ctx context.Context, err error) *Error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &Error{Kind: KindTransportFailure, Message: "request abandoned: " + ctxErr.Error(), Err: err}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return &Error{Kind: KindTransportFailure, Message: "request timed out", Err: err}
		}
		return &Error{Kind: KindTransportFailure, Message: urlErr.Err.Error(), Err: err}
	}
	return &Error{Kind: KindTransportFailure, Message: err.Error(), Err: err}
}

// errorDetail extracts a human-readable message from an error body.
func errorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil {
		return firstNonEmpty(payload.Message, payload.Error)
	}
	return ""
}

func setPaging(q url.Values, page, pageSize int) {
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(min(pageSize, maxPageSize)))
	}
}

func publishedOnly(items []ArticleSummary) []ArticleSummary {
	out := make([]ArticleSummary, 0, len(items))
	for _, it := range items {
		if it.Status != "" && it.Status != StatusPublished {
			continue
		}
		out = append(out, it)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
