// Package htmlpdf converts print-ready HTML to PDF through a Gotenberg
// Chromium service.
package htmlpdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const convertPath = "/forms/chromium/convert/html"

// ErrConverterUnavailable is returned when no converter is configured or it
// cannot be reached.
var ErrConverterUnavailable = errors.New("html to pdf converter unavailable")

// Paper is the sheet size in inches.
type Paper struct {
	Width  float64
	Height float64
}

// A4 paper.
var A4 = Paper{Width: 8.27, Height: 11.7}

// PaperFromPoints converts a page size in PDF points.
func PaperFromPoints(width, height float64) Paper {
	return Paper{Width: width / 72, Height: height / 72}
}

// Client talks to Gotenberg.
type Client struct {
	httpClient *resty.Client
	enabled    bool
}

// NewClient builds a client for the service at baseURL. An empty baseURL
// yields a client whose Convert always fails with ErrConverterUnavailable.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout)

	return &Client{httpClient: restyClient, enabled: baseURL != ""}
}

// Enabled reports whether a service URL was configured.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// Convert renders html to PDF. Page margins come from the document's @page
// rule, so the service margins are zeroed and CSS page size is preferred.
func (c *Client) Convert(ctx context.Context, html []byte, paper Paper) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrConverterUnavailable
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFileReader("files", "index.html", bytes.NewReader(html)).
		SetFormData(map[string]string{
			"paperWidth":        formatInches(paper.Width),
			"paperHeight":       formatInches(paper.Height),
			"marginTop":         "0",
			"marginBottom":      "0",
			"marginLeft":        "0",
			"marginRight":       "0",
			"printBackground":   "true",
			"preferCssPageSize": "true",
		}).
		Post(convertPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrConverterUnavailable, err)
	}

	switch {
	case resp.StatusCode() >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status %d", ErrConverterUnavailable, resp.StatusCode())
	case resp.StatusCode() >= http.StatusBadRequest:
		return nil, fmt.Errorf("html to pdf conversion rejected: status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	body := resp.Body()
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		return nil, fmt.Errorf("html to pdf conversion returned %d bytes that are not a PDF", len(body))
	}
	return body, nil
}

func formatInches(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
