package wasapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Common errors.
var (
	ErrAuthRejected = errors.New("wasapi: authentication rejected")
	ErrBadManifest  = errors.New("wasapi: response is not a valid manifest")
)

// Credentials holds basic-auth credentials for the webdata endpoints.
// A nil Credentials (or empty User) sends unauthenticated requests.
type Credentials struct {
	User     string
	Password string
}

// Options configures the HTTP session.
type Options struct {
	// Timeout for individual requests, including the response body.
	// Zero means no overall deadline; download sessions use zero so that
	// streaming a large file is never cut off mid-body.
	// Default for manifest sessions: 30s.
	Timeout time.Duration

	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 100
	MaxIdleConnsPerHost int
}

// DefaultOptions returns options suited to manifest requests.
func DefaultOptions() Options {
	return Options{
		Timeout:             30 * time.Second,
		MaxIdleConnsPerHost: 100,
	}
}

// Page is one fetched manifest page. It is immutable once decoded and
// discarded after its records have been consumed.
type Page struct {
	Files []FileRecord `json:"files"`

	// Next locates the following page; empty on the last page.
	Next string `json:"next"`

	// Count is the server-reported total file count, when present.
	Count *int64 `json:"count"`
}

// FileRecord describes one downloadable file. Locations are mirrors tried
// in order. Checksums are carried as metadata only; nothing in this client
// verifies them.
type FileRecord struct {
	Filename  string            `json:"filename"`
	Locations []string          `json:"locations"`
	Checksums map[string]string `json:"checksums"`
	Size      int64             `json:"size"`
}

// Client is an authenticated session against a WASAPI endpoint. Construct
// one per worker so credentials are attached once and reused across all of
// that worker's requests.
type Client struct {
	client *http.Client
	creds  *Credentials
	log    *logrus.Logger
}

// NewClient creates a client. logger may not be nil.
func NewClient(opts Options, creds *Credentials, logger *logrus.Logger) *Client {
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 100
	}

	transport := &http.Transport{
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		creds: creds,
		log:   logger,
	}
}

// Get performs an authenticated GET and returns the raw response. The
// caller owns the body and interprets the status code; download workers use
// this to stream file bodies and fail over across mirrors themselves.
func (c *Client) Get(ctx context.Context, uri string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.creds != nil && c.creds.User != "" {
		req.SetBasicAuth(c.creds.User, c.creds.Password)
	}

	return c.client.Do(req)
}

// FetchPage fetches and decodes one manifest page. An auth rejection, a
// connection failure, or an undecodable body is returned as an error; all
// of them are fatal for the run.
func (c *Client) FetchPage(ctx context.Context, uri string) (*Page, error) {
	c.log.Debugf("requesting %s", uri)

	resp, err := c.Get(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("could not connect at %s: %w", uri, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: verify user/password for %s: %d %s",
			ErrAuthRejected, uri, resp.StatusCode, http.StatusText(resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("unexpected status from %s: %d %s",
			uri, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: non-JSON response from %s: %v", ErrBadManifest, uri, err)
	}

	return &page, nil
}

// Walk fetches every manifest page starting at uri, following the Next
// chain, and calls fn once per file record. Each call re-walks from uri;
// the walk stops at the first error, either from a fetch or from fn.
func (c *Client) Walk(ctx context.Context, uri string, fn func(FileRecord) error) error {
	for uri != "" {
		page, err := c.FetchPage(ctx, uri)
		if err != nil {
			return err
		}
		for _, f := range page.Files {
			if err := fn(f); err != nil {
				return err
			}
		}
		uri = page.Next
	}
	return nil
}

// CountFiles returns the total number of downloadable files. It trusts the
// first page's count field when present; otherwise it walks the whole
// chain and counts records. It never touches the work queue.
func (c *Client) CountFiles(ctx context.Context, uri string) (int64, error) {
	page, err := c.FetchPage(ctx, uri)
	if err != nil {
		return 0, err
	}
	if page.Count != nil {
		return *page.Count, nil
	}

	count := int64(len(page.Files))
	next := page.Next
	for next != "" {
		page, err = c.FetchPage(ctx, next)
		if err != nil {
			return 0, err
		}
		count += int64(len(page.Files))
		next = page.Next
	}
	return count, nil
}

// TotalSize walks the full pagination chain summing per-file sizes. The
// returned count is the last page's count field when present, otherwise
// the number of records actually enumerated. The server-reported count is
// a display convenience, not a semantic total. Read-only; no queue side
// effects.
func (c *Client) TotalSize(ctx context.Context, uri string) (count, total int64, err error) {
	var enumerated int64
	var lastCount *int64

	for uri != "" {
		page, err := c.FetchPage(ctx, uri)
		if err != nil {
			return 0, 0, err
		}
		for _, f := range page.Files {
			total += f.Size
		}
		enumerated += int64(len(page.Files))
		lastCount = page.Count
		uri = page.Next
	}

	if lastCount != nil {
		return *lastCount, total, nil
	}
	return enumerated, total, nil
}
