package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultSearchPath = "rest/api/3/search/jql"
	DefaultPickerPath = "rest/api/3/issue/picker"
	DefaultTimeout    = 10 * time.Second
)

// Client handles communication with the Jira REST API.
type Client struct {
	BaseURL    *url.URL     // Site URL, e.g. https://example.atlassian.net/
	Client     *http.Client // Underlying HTTP client
	SearchPath string       // JQL search endpoint, relative to BaseURL
	PickerPath string       // Issue picker endpoint, relative to BaseURL
	auth       AuthFunc
}

// NewClient returns a Jira client with the given base URL and authentication function.
func NewClient(baseURL *url.URL, auth AuthFunc, skipVerify bool, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:    withTrailingSlash(baseURL),
		Client:     newHTTPClient(skipVerify, timeout),
		SearchPath: DefaultSearchPath,
		PickerPath: DefaultPickerPath,
		auth:       auth,
	}
}

// SearchByJQL performs a JQL search request against the Jira API.
func (c *Client) SearchByJQL(ctx context.Context, req SearchRequest) (SearchResult, error) {
	if strings.TrimSpace(req.JQL) == "" {
		return SearchResult{}, fmt.Errorf("missing JQL query")
	}

	body, err := c.doRequest(ctx, http.MethodPost, c.SearchPath, nil, req)
	if err != nil {
		return SearchResult{}, err
	}

	var res SearchResult
	if err := json.Unmarshal(body, &res); err != nil {
		return SearchResult{}, fmt.Errorf("decode search response: %w", err)
	}
	return res, nil
}

// PickIssues queries the issue picker (autocomplete) API.
// currentJQL scopes the suggestions and is omitted when empty.
func (c *Client) PickIssues(ctx context.Context, query, currentJQL string) (PickerResult, error) {
	params := url.Values{}
	params.Set("query", query)
	if currentJQL != "" {
		params.Set("currentJQL", currentJQL)
	}

	body, err := c.doRequest(ctx, http.MethodGet, c.PickerPath, params, nil)
	if err != nil {
		return PickerResult{}, err
	}

	var res PickerResult
	if err := json.Unmarshal(body, &res); err != nil {
		return PickerResult{}, fmt.Errorf("decode picker response: %w", err)
	}
	return res, nil
}

// doRequest performs an authenticated HTTP request and returns the response body.
// Transport failures are returned as *UnreachableError, 4xx/5xx answers as *APIError.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	relURL, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse path: %w", err)
	}
	if len(query) > 0 {
		relURL.RawQuery = query.Encode()
	}
	fullURL := c.BaseURL.ResolveReference(relURL).String()

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.auth != nil {
		c.auth(req)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, &UnreachableError{Err: err}
	}
	defer resp.Body.Close() // nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnreachableError{Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Reason:     reasonPhrase(resp.Status, resp.StatusCode),
			Body:       respBody,
		}
	}
	return respBody, nil
}

// withTrailingSlash returns a copy of u whose path ends in "/", so relative
// endpoints resolve below it instead of replacing its last segment.
func withTrailingSlash(u *url.URL) *url.URL {
	if u == nil {
		return &url.URL{}
	}
	cp := *u
	if !strings.HasSuffix(cp.Path, "/") {
		cp.Path += "/"
	}
	return &cp
}
