// Package obsidian is a client for the Obsidian Local REST API. It exposes
// one method per remote operation and normalizes every failure, whether an
// HTTP error status or a transport fault, into *APIError.
package obsidian

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	contentTypeMarkdown  = "text/markdown"
	contentTypeJSONLogic = "application/vnd.olrapi.jsonlogic+json"
	contentTypeDQL       = "application/vnd.olrapi.dataview.dql+txt"

	connectTimeout = 3 * time.Second
	requestTimeout = 6 * time.Second
)

// Options configure a Client. The zero value of each field falls back to the
// defaults of a local Obsidian Local REST API install.
type Options struct {
	APIKey    string
	Protocol  string
	Host      string
	Port      int
	VerifySSL bool
}

// Client wraps one Obsidian Local REST API endpoint and its credential.
// The endpoint settings can be swapped at runtime via Update.
type Client struct {
	mu         sync.RWMutex
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func normalizeOptions(opts Options) Options {
	if opts.Protocol == "" {
		opts.Protocol = "https"
	}
	if opts.Host == "" {
		opts.Host = "127.0.0.1"
	}
	if opts.Port == 0 {
		opts.Port = 27124
	}
	return opts
}

func newHTTPClient(verifySSL bool) *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !verifySSL,
		},
	}
	return &http.Client{
		Transport: transport,
		Timeout:   requestTimeout,
	}
}

// NewClient creates a client for the endpoint described by opts.
func NewClient(opts Options) *Client {
	opts = normalizeOptions(opts)
	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    fmt.Sprintf("%s://%s:%d", opts.Protocol, opts.Host, opts.Port),
		httpClient: newHTTPClient(opts.VerifySSL),
	}
}

// Update swaps the endpoint settings and credential, so a reloaded
// configuration (a rotated API key in particular) applies to every
// subsequent request. Requests already in flight finish with the settings
// they started with.
func (c *Client) Update(opts Options) {
	opts = normalizeOptions(opts)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = opts.APIKey
	c.baseURL = fmt.Sprintf("%s://%s:%d", opts.Protocol, opts.Host, opts.Port)
	c.httpClient = newHTTPClient(opts.VerifySSL)
}

// BaseURL returns the base URL the client currently points at.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// ListFilesInVault lists all files and directories in the vault root.
func (c *Client) ListFilesInVault(ctx context.Context) ([]string, error) {
	var listing fileListing
	if err := c.getJSON(ctx, "/vault/", nil, &listing); err != nil {
		return nil, err
	}
	return listing.Files, nil
}

// ListFilesInDir lists files in a directory relative to the vault root.
// Empty directories are omitted by the remote service; that behavior is
// passed through untouched.
func (c *Client) ListFilesInDir(ctx context.Context, dirpath string) ([]string, error) {
	var listing fileListing
	if err := c.getJSON(ctx, "/vault/"+escapePath(dirpath)+"/", nil, &listing); err != nil {
		return nil, err
	}
	return listing.Files, nil
}

// GetFileContents returns the raw text content of one file.
func (c *Client) GetFileContents(ctx context.Context, filepath string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/vault/"+escapePath(filepath), nil, nil, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newTransportError(err)
	}
	return string(body), nil
}

// GetBatchFileContents reads every path independently and concatenates the
// sections in input order, each prefixed with a path header. A failed read
// becomes an inline error note for that path rather than aborting the batch.
func (c *Client) GetBatchFileContents(ctx context.Context, filepaths []string) (string, error) {
	var b strings.Builder
	for _, filepath := range filepaths {
		content, err := c.GetFileContents(ctx, filepath)
		if err != nil {
			fmt.Fprintf(&b, "# %s\n\nError reading file: %v\n\n---\n\n", filepath, err)
			continue
		}
		fmt.Fprintf(&b, "# %s\n\n%s\n\n---\n\n", filepath, content)
	}
	return b.String(), nil
}

// SimpleSearchMatch is one match inside a document, with surrounding context.
type SimpleSearchMatch struct {
	Context string        `json:"context"`
	Match   MatchPosition `json:"match"`
}

// MatchPosition is the character span of a match within its context.
type MatchPosition struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SimpleSearchResult is one matching document from a simple text search.
type SimpleSearchResult struct {
	Filename string              `json:"filename"`
	Score    float64             `json:"score"`
	Matches  []SimpleSearchMatch `json:"matches"`
}

// Search performs a simple text search across the vault.
func (c *Client) Search(ctx context.Context, query string, contextLength int) ([]SimpleSearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("contextLength", strconv.Itoa(contextLength))

	var results []SimpleSearchResult
	if err := c.postJSON(ctx, "/search/simple/", params, nil, "", &results); err != nil {
		return nil, err
	}
	return results, nil
}

// SearchJSON performs a complex search with a JsonLogic query. The query
// structure is passed through to the service untouched; its operator set
// (including glob and regexp) is defined remotely.
func (c *Client) SearchJSON(ctx context.Context, query map[string]any) (any, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, newTransportError(err)
	}

	var results any
	if err := c.postJSON(ctx, "/search/", nil, body, contentTypeJSONLogic, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// AppendContent appends content to a new or existing file.
func (c *Client) AppendContent(ctx context.Context, filepath, content string) error {
	resp, err := c.do(ctx, http.MethodPost, "/vault/"+escapePath(filepath), nil, []byte(content), contentTypeMarkdown)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// PatchContent inserts content relative to a heading, block reference, or
// frontmatter field inside an existing note.
func (c *Client) PatchContent(ctx context.Context, filepath, operation, targetType, target, content string) error {
	headers := map[string]string{
		"Operation":   operation,
		"Target-Type": targetType,
		"Target":      escapePath(target),
	}

	resp, err := c.doWithHeaders(ctx, http.MethodPatch, "/vault/"+escapePath(filepath), nil, []byte(content), contentTypeMarkdown, headers)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// GetPeriodicNote returns the current periodic note for the given period.
func (c *Client) GetPeriodicNote(ctx context.Context, period string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/periodic/"+period+"/", nil, nil, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newTransportError(err)
	}
	return string(body), nil
}

// GetRecentPeriodicNotes returns the most recent periodic notes for the
// given period type.
func (c *Client) GetRecentPeriodicNotes(ctx context.Context, period string, limit int, includeContent bool) (any, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("includeContent", strconv.FormatBool(includeContent))

	var results any
	if err := c.getJSON(ctx, "/periodic/"+period+"/recent", params, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetRecentChanges returns the most recently modified files in the vault,
// capped at limit rows and filtered to the last days days.
func (c *Client) GetRecentChanges(ctx context.Context, limit, days int) (any, error) {
	query := buildRecentChangesQuery(limit, days)

	var results any
	if err := c.postJSON(ctx, "/search/", nil, []byte(query), contentTypeDQL, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// buildRecentChangesQuery produces the Dataview DQL request for recent
// modifications. The date filter references date(today), which the remote
// service evaluates, so the generated text is wall-clock independent.
func buildRecentChangesQuery(limit, days int) string {
	lines := []string{
		"TABLE file.mtime",
		fmt.Sprintf("WHERE file.mtime >= date(today) - dur(%d days)", days),
		"SORT file.mtime DESC",
		fmt.Sprintf("LIMIT %d", limit),
	}
	return strings.Join(lines, "\n")
}

type fileListing struct {
	Files []string `json:"files"`
}

// escapePath percent-encodes a vault path or patch target per segment,
// leaving the path separators intact.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body []byte, contentType string) (*http.Response, error) {
	return c.doWithHeaders(ctx, method, path, params, body, contentType, nil)
}

func (c *Client) doWithHeaders(ctx context.Context, method, path string, params url.Values, body []byte, contentType string, headers map[string]string) (*http.Response, error) {
	c.mu.RLock()
	apiKey := c.apiKey
	baseURL := c.baseURL
	httpClient := c.httpClient
	c.mu.RUnlock()

	target := baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, newTransportError(err)
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, newTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, decodeAPIError(resp)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, params, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newTransportError(err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, params url.Values, body []byte, contentType string, out any) error {
	resp, err := c.do(ctx, http.MethodPost, path, params, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newTransportError(err)
	}
	return nil
}

// decodeAPIError builds an APIError from an error status response, using the
// service's errorCode/message fields when the body carries them.
func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Code: -1, Message: "<unknown>"}

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var payload struct {
		ErrorCode *int    `json:"errorCode"`
		Message   *string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	if payload.ErrorCode != nil {
		apiErr.Code = *payload.ErrorCode
	}
	if payload.Message != nil {
		apiErr.Message = *payload.Message
	}
	return apiErr
}
