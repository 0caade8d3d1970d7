package data

import (
	"fmt"
	"strings"
	"time"

	"auction-pricer/internal/model"

	"github.com/go-resty/resty/v2"
)

const (
	// metalsFetchTimeout bounds each attempt against the pricing API.
	metalsFetchTimeout = 5 * time.Second
	// metalsFetchRetries is the number of retries after the first attempt;
	// a window is fetched at most 3 times before falling back.
	metalsFetchRetries = 2
)

// MetalsAPIError is an API-reported failure (non-2xx status or a success:false
// payload). Always recoverable: callers substitute fallback prices.
type MetalsAPIError struct {
	StatusCode int
	Code       int
	Info       string
}

func (e *MetalsAPIError) Error() string {
	if e.Info != "" {
		return fmt.Sprintf("metals API error %d: %s", e.Code, e.Info)
	}
	return fmt.Sprintf("metals API returned status %d", e.StatusCode)
}

// TimeframeResponse is the pricing API's timeseries payload: one rate row
// per date, keyed by commodity symbol.
type TimeframeResponse struct {
	Success bool                          `json:"success"`
	Error   *timeframeError               `json:"error,omitempty"`
	Base    string                        `json:"base"`
	Rates   map[string]map[string]float64 `json:"rates"`
}

type timeframeError struct {
	Code int    `json:"code"`
	Info string `json:"info"`
}

// PointsFor extracts the dated prices for one symbol, unordered. Dates the
// API returns in an unexpected format are dropped.
func (r *TimeframeResponse) PointsFor(symbol string) []model.PricePoint {
	var points []model.PricePoint
	for date, rates := range r.Rates {
		price, ok := rates[symbol]
		if !ok {
			continue
		}
		d, err := time.Parse(DateLayout, date)
		if err != nil {
			continue
		}
		points = append(points, model.PricePoint{Date: d, Price: price})
	}
	return points
}

// MetalsClient fetches commodity spot prices from the external pricing
// API, keyed by base currency and commodity symbols.
type MetalsClient struct {
	BaseURL string
	APIKey  string
	Base    string
	Symbols []string

	http *resty.Client
}

// NewMetalsClient builds a client with the fetch timeout and bounded
// retries applied. Retries repeat the identical request on network errors
// and 5xx responses.
func NewMetalsClient(baseURL, apiKey, baseCurrency string, symbols ...string) *MetalsClient {
	client := resty.New().
		SetTimeout(metalsFetchTimeout).
		SetRetryCount(metalsFetchRetries).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	return &MetalsClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Base:    baseCurrency,
		Symbols: symbols,
		http:    client,
	}
}

// FetchTimeframe requests prices for [start, end]. A transport failure
// after exhausted retries, an error status, or a success:false payload all
// surface as errors for the caller's fallback policy.
func (c *MetalsClient) FetchTimeframe(start, end time.Time) (*TimeframeResponse, error) {
	resp, err := c.http.R().
		SetQueryParams(map[string]string{
			"access_key": c.APIKey,
			"base":       c.Base,
			"symbols":    strings.Join(c.Symbols, ","),
			"start_date": start.Format(DateLayout),
			"end_date":   end.Format(DateLayout),
		}).
		SetResult(&TimeframeResponse{}).
		Get(c.BaseURL + "/timeseries")
	if err != nil {
		return nil, fmt.Errorf("fetching metal prices: %w", err)
	}
	if resp.IsError() {
		return nil, &MetalsAPIError{StatusCode: resp.StatusCode()}
	}
	result, ok := resp.Result().(*TimeframeResponse)
	if !ok || result == nil {
		return nil, fmt.Errorf("unexpected metals API response shape")
	}
	if !result.Success {
		apiErr := &MetalsAPIError{StatusCode: resp.StatusCode()}
		if result.Error != nil {
			apiErr.Code = result.Error.Code
			apiErr.Info = result.Error.Info
		}
		return nil, apiErr
	}
	return result, nil
}
