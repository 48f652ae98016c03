// Package ghl reads the marketing CRM.
package ghl

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/avrm/opsdash/internal/config"
	"github.com/avrm/opsdash/internal/core"
	"github.com/avrm/opsdash/internal/upstream"
)

const (
	serviceName = "GoHighLevel"
	apiVersion  = "2021-07-28"
)

type Client struct {
	http       *resty.Client
	locationID string
}

var _ upstream.ContactReader = (*Client)(nil)

// New builds a client. A missing API key or location id is a configuration
// error.
func New(cfg config.GHLConfig, timeout time.Duration) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &core.ConfigError{Service: serviceName, Err: err}
	}

	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetHeader("Version", apiVersion).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{http: http, locationID: cfg.LocationID}, nil
}

type contactsResponse struct {
	Contacts []core.Contact `json:"contacts"`
}

// Contacts returns up to limit contacts for the configured location.
func (c *Client) Contacts(ctx context.Context, limit int) ([]core.Contact, error) {
	if limit <= 0 {
		limit = 100
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("locationId", c.locationID).
		SetQueryParam("limit", strconv.Itoa(limit)).
		Get("/contacts/")
	if err != nil {
		return nil, fmt.Errorf("fetch contacts: %w", err)
	}
	if resp.IsError() {
		return nil, &core.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       resp.String(),
		}
	}

	var out contactsResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	if out.Contacts == nil {
		return []core.Contact{}, nil
	}
	return out.Contacts, nil
}
