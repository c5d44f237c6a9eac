// internal/goldapi/client.go
package goldapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"albion-gold-bot/internal/types"
)

const (
	requestTimeout = 15 * time.Second

	// Date format the Albion Data API expects in query parameters.
	apiDateLayout = "2006-01-02"
)

// Client talks to the Albion Data gold price endpoint. One GET per call, no
// retries: the history resolver retries by shifting the window, never by
// repeating the same request.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the configured gold endpoint.
func NewClient(apiURL string) *Client {
	c := resty.New()
	c.SetBaseURL(apiURL)
	c.SetTimeout(requestTimeout)
	c.SetHeader("Accept", "application/json")

	return &Client{http: c}
}

// Latest fetches the single most recent gold price.
func (c *Client) Latest(ctx context.Context) (types.PriceRecord, error) {
	raw, err := c.get(ctx, map[string]string{"count": "1"})
	if err != nil {
		return types.PriceRecord{}, err
	}

	records := ParseRecords(raw)
	if len(records) == 0 {
		return types.PriceRecord{}, fmt.Errorf("%w: format data tidak valid", types.ErrDataUnavailable)
	}
	return records[len(records)-1], nil
}

// Range fetches every record in the closed window [start, end]. The result
// may be empty and may arrive in any order; callers run it through
// ParseRecords.
func (c *Client) Range(ctx context.Context, start, end time.Time) ([]types.RawGoldRecord, error) {
	return c.get(ctx, map[string]string{
		"date":     start.Format(apiDateLayout),
		"end_date": end.Format(apiDateLayout),
	})
}

func (c *Client) get(ctx context.Context, params map[string]string) ([]types.RawGoldRecord, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrNetwork, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: HTTP %d", types.ErrNetwork, resp.StatusCode())
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, types.ErrDataUnavailable
	}

	var raw []types.RawGoldRecord
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: bukan array JSON", types.ErrDataUnavailable)
	}
	return raw, nil
}
