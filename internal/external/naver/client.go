// Package naver implements the price and fundamental data providers
// against Naver Finance: the daily chart endpoint for OHLCV bars and
// the annual financials page for ratio histories.
package naver

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client handles all communication with Naver Finance.
type Client struct {
	httpClient   *httputil.Client
	log          *logger.Logger
	baseURL      string
	chartBaseURL string
}

// NewClient creates a Naver Finance client with rate limiting per config
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		httpClient: httputil.New(log,
			httputil.WithRateLimit(cfg.Naver.RequestsPerSecond),
			httputil.WithUserAgent(userAgent),
		),
		log:          log,
		baseURL:      cfg.Naver.BaseURL,
		chartBaseURL: cfg.Naver.ChartBaseURL,
	}
}

// fetchPage fetches a finance.naver.com page
func (c *Client) fetchPage(ctx context.Context, path string, params url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	body, err := c.httpClient.Get(ctx, fullURL, map[string]string{
		"Referer": c.baseURL + "/",
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	return body, nil
}
