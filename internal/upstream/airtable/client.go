// Package airtable reads the lead-enrichment CRM base.
package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/avrm/opsdash/internal/config"
	"github.com/avrm/opsdash/internal/core"
	"github.com/avrm/opsdash/internal/upstream"
)

const serviceName = "Airtable"

// pageSize is the largest page the API serves.
const pageSize = 100

type Client struct {
	http   *resty.Client
	baseID string
}

var (
	_ upstream.ListingReader = (*Client)(nil)
	_ upstream.OwnerReader   = (*Client)(nil)
)

// New builds a client. A missing API key or base id is a configuration error.
func New(cfg config.AirtableConfig, timeout time.Duration) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &core.ConfigError{Service: serviceName, Err: err}
	}

	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{http: http, baseID: cfg.BaseID}, nil
}

type record struct {
	ID          string                     `json:"id"`
	CreatedTime string                     `json:"createdTime"`
	Fields      map[string]json.RawMessage `json:"fields"`
}

type listResponse struct {
	Records []record `json:"records"`
	Offset  string   `json:"offset"`
}

// Listings reads the listings table.
func (c *Client) Listings(ctx context.Context, q upstream.Query) ([]core.Listing, error) {
	records, err := c.list(ctx, core.TableListings, q)
	if err != nil {
		return nil, err
	}
	listings := make([]core.Listing, 0, len(records))
	for _, r := range records {
		listings = append(listings, toListing(r))
	}
	return listings, nil
}

// Owners reads the owners table.
func (c *Client) Owners(ctx context.Context, q upstream.Query) ([]core.Owner, error) {
	records, err := c.list(ctx, core.TableOwners, q)
	if err != nil {
		return nil, err
	}
	owners := make([]core.Owner, 0, len(records))
	for _, r := range records {
		owners = append(owners, toOwner(r))
	}
	return owners, nil
}

// list pages through a table until MaxRecords or the last page.
func (c *Client) list(ctx context.Context, table string, q upstream.Query) ([]record, error) {
	params := queryParams(q)

	var records []record
	offset := ""
	for {
		if offset != "" {
			params.Set("offset", offset)
		}

		resp, err := c.http.R().
			SetContext(ctx).
			SetPathParams(map[string]string{"base": c.baseID, "table": table}).
			SetQueryParamsFromValues(params).
			Get("/{base}/{table}")
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", table, err)
		}
		if resp.IsError() {
			return nil, &core.UpstreamError{
				Service:    serviceName,
				StatusCode: resp.StatusCode(),
				Status:     resp.Status(),
				Body:       resp.String(),
			}
		}

		var page listResponse
		if err := json.Unmarshal(resp.Body(), &page); err != nil {
			return nil, fmt.Errorf("decode %s: %w", table, err)
		}
		records = append(records, page.Records...)

		if page.Offset == "" || (q.MaxRecords > 0 && len(records) >= q.MaxRecords) {
			break
		}
		offset = page.Offset
	}

	if q.MaxRecords > 0 && len(records) > q.MaxRecords {
		records = records[:q.MaxRecords]
	}

	slog.DebugContext(ctx, "Airtable records fetched", "table", table, "records", len(records))
	return records, nil
}

func queryParams(q upstream.Query) url.Values {
	params := url.Values{}
	if q.MaxRecords > 0 {
		params.Set("maxRecords", strconv.Itoa(q.MaxRecords))
		params.Set("pageSize", strconv.Itoa(min(q.MaxRecords, pageSize)))
	}
	switch {
	case q.Formula != "":
		params.Set("filterByFormula", q.Formula)
	case len(q.RecordIDs) > 0:
		params.Set("filterByFormula", RecordIDFormula(q.RecordIDs))
	}
	for i, s := range q.Sort {
		params.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
		dir := s.Direction
		if dir == "" {
			dir = "asc"
		}
		params.Set(fmt.Sprintf("sort[%d][direction]", i), dir)
	}
	for _, f := range q.Fields {
		params.Add("fields[]", f)
	}
	return params
}

// RecordIDFormula builds a filterByFormula matching any of ids.
func RecordIDFormula(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	clauses := make([]string, len(ids))
	for i, id := range ids {
		clauses[i] = fmt.Sprintf("RECORD_ID()='%s'", strings.ReplaceAll(id, "'", "\\'"))
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return "OR(" + strings.Join(clauses, ",") + ")"
}
