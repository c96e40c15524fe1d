// Package fetch retrieves raw cup tree documents from the SofaScore API.
// The API refuses plain HTTP clients, so pages are loaded in headless
// Chrome and the JSON is read back out of the rendered document.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

// Client loads API endpoints through a headless browser.
type Client struct {
	baseURL string
	timeout time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, timeout: timeout}
}

// GetJSON navigates to baseURL+endpoint and decodes the JSON body into
// out. The browser renders the response inside a <pre> element; fall back
// to the whole body text when it is absent.
func (c *Client) GetJSON(ctx context.Context, endpoint string, out any) error {
	url := c.baseURL + endpoint

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var body string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`(document.querySelector('pre') || document.body).innerText`, &body),
	)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}

	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("failed to parse JSON from %s: %w", url, err)
	}
	return nil
}
