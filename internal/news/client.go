package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://newsdata.io/api/1/"

// Endpoints served by the API.
const (
	EndpointNews    = "news"
	EndpointCrypto  = "crypto"
	EndpointArchive = "archive"
)

// ErrMissingAPIKey is returned by NewClient for an empty key.
var ErrMissingAPIKey = errors.New("a valid API key is required")

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithBaseURL points the client at another server, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		c.baseURL = u
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func validEndpoint(endpoint string) bool {
	switch endpoint {
	case EndpointNews, EndpointCrypto, EndpointArchive:
		return true
	}
	return false
}

// Fetch requests one page. page is the nextPage cursor of a previous
// response, or "" for the first page.
func (c *Client) Fetch(ctx context.Context, endpoint string, params *Params, page string) (*Response, error) {
	if !validEndpoint(endpoint) {
		return nil, fmt.Errorf("invalid endpoint %q (options: news, crypto, archive)", endpoint)
	}
	if params == nil {
		params = NewParams()
	}

	endpointURL := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL+"?"+params.Encode(page), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-ACCESS-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s: %w", endpointURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("request to %s failed. status code: %d response: %s",
			endpointURL, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// FetchPages follows the nextPage cursor until the API stops returning one
// or maxPages pages were read. maxPages <= 0 means no limit.
func (c *Client) FetchPages(ctx context.Context, endpoint string, params *Params, maxPages int) ([]Article, error) {
	var articles []Article
	page := ""
	for n := 1; ; n++ {
		resp, err := c.Fetch(ctx, endpoint, params, page)
		if err != nil {
			return articles, fmt.Errorf("page %d: %w", n, err)
		}
		articles = append(articles, resp.Results...)
		log.Printf("Fetched page %d from %s (%d articles)", n, endpoint, len(resp.Results))

		if resp.NextPage == "" || resp.NextPage == page || (maxPages > 0 && n >= maxPages) {
			return articles, nil
		}
		page = resp.NextPage
	}
}
