// Package hostaway reads reservations, listings and reviews from the
// property-management platform.
package hostaway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/avrm/opsdash/internal/config"
	"github.com/avrm/opsdash/internal/core"
	"github.com/avrm/opsdash/internal/upstream"
)

const serviceName = "Hostaway"

// pageLimit is the number of rows requested per page.
const pageLimit = 500

type Client struct {
	http *resty.Client
}

var (
	_ upstream.ReservationReader = (*Client)(nil)
	_ upstream.PropertyLister    = (*Client)(nil)
	_ upstream.ReviewReader      = (*Client)(nil)
)

// New builds a client. A missing API key or account id is a configuration
// error.
func New(cfg config.HostawayConfig, timeout time.Duration) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &core.ConfigError{Service: serviceName, Err: err}
	}

	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetHeader("X-Hostaway-Account", cfg.AccountID).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{http: http}, nil
}

// envelope is the wrapper every list endpoint returns.
type envelope[T any] struct {
	Status string `json:"status"`
	Result []T    `json:"result"`
	Count  int    `json:"count"`
}

// Reservations returns reservations arriving on or after since.
func (c *Client) Reservations(ctx context.Context, since time.Time) ([]core.Reservation, error) {
	return fetchAll[core.Reservation](ctx, c, "/reservations", map[string]string{
		"arrivalStartDate": since.Format("2006-01-02"),
	})
}

// Properties returns every listing on the account.
func (c *Client) Properties(ctx context.Context) ([]core.HostawayListing, error) {
	return fetchAll[core.HostawayListing](ctx, c, "/listings", nil)
}

// Reviews returns guest reviews.
func (c *Client) Reviews(ctx context.Context) ([]core.Review, error) {
	return fetchAll[core.Review](ctx, c, "/reviews", map[string]string{"type": "guest-to-host"})
}

// fetchAll follows limit/offset paging until a short page arrives or the
// reported count, when present, is reached.
func fetchAll[T any](ctx context.Context, c *Client, path string, params map[string]string) ([]T, error) {
	var all []T
	for offset := 0; ; offset += pageLimit {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetQueryParam("limit", strconv.Itoa(pageLimit)).
			SetQueryParam("offset", strconv.Itoa(offset)).
			Get(path)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", path, err)
		}
		if resp.IsError() {
			return nil, &core.UpstreamError{
				Service:    serviceName,
				StatusCode: resp.StatusCode(),
				Status:     resp.Status(),
				Body:       resp.String(),
			}
		}

		var page envelope[T]
		if err := json.Unmarshal(resp.Body(), &page); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		all = append(all, page.Result...)

		if len(page.Result) < pageLimit || (page.Count > 0 && len(all) >= page.Count) {
			break
		}
	}

	slog.DebugContext(ctx, "Hostaway rows fetched", "path", path, "records", len(all))
	return all, nil
}
