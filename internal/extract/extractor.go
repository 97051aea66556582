package extract

import (
	"context"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/cleared-dev/bankcap/internal/etlerr"
	"github.com/cleared-dev/bankcap/internal/model"
)

const userAgent = "bankcap/1.0 (+https://github.com/cleared-dev/bankcap)"

// NewHTTPClient creates the client used to download the source page.
// Requests are never retried; a zero timeout means no timeout.
func NewHTTPClient(timeout time.Duration) *resty.Client {
	client := resty.New().
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetHeader("User-Agent", userAgent)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return client
}

// Fetch downloads url and returns the response body.
func Fetch(ctx context.Context, client *resty.Client, url string) (string, error) {
	resp, err := client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", etlerr.NewFetchError("fetch "+url, err)
	}
	if !resp.IsSuccess() {
		return "", etlerr.NewStatusError("fetch "+url, resp.StatusCode())
	}
	return resp.String(), nil
}

// Extractor downloads the source page and parses its bank table.
type Extractor struct {
	client *resty.Client
	url    string
	opts   Options
}

// New creates an Extractor for url.
func New(client *resty.Client, url string, opts Options) *Extractor {
	return &Extractor{client: client, url: url, opts: opts}
}

// URL returns the source location.
func (e *Extractor) URL() string { return e.url }

// Extract fetches the page and returns its rows in document order.
func (e *Extractor) Extract(ctx context.Context) (*model.Table, error) {
	body, err := Fetch(ctx, e.client, e.url)
	if err != nil {
		return nil, err
	}
	return ParseTable(strings.NewReader(body), e.opts)
}

// Close releases the underlying HTTP client.
func (e *Extractor) Close() error {
	return e.client.Close()
}
