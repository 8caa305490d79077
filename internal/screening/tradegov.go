package screening

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"freightgate/pkg/config"
	"freightgate/pkg/errors"
	"freightgate/pkg/logger"
)

// TradeGovGateway queries the Trade.gov consolidated screening list API.
// Registration is free and the list is refreshed roughly daily, which is why
// the screening cache TTL defaults to 24 hours.
type TradeGovGateway struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
	logger     logger.Logger
}

// NewTradeGovGateway constructs a gateway from configuration.
func NewTradeGovGateway(cfg config.TradeGovConfig, log logger.Logger) *TradeGovGateway {
	return &TradeGovGateway{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		logger:     log,
	}
}

type cslResponse struct {
	Total   int          `json:"total"`
	Results []RawListHit `json:"results"`
}

// Query searches the consolidated list by name, optionally narrowed by
// country and address. Transient failures (network errors, 5xx) are retried
// with exponential backoff up to maxRetries before giving up.
func (g *TradeGovGateway) Query(ctx context.Context, name, country, address string) ([]RawListHit, error) {
	if g.apiKey == "" {
		return nil, errors.ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("api_key", g.apiKey)
	params.Set("name", name)
	if country != "" {
		params.Set("countries", country)
	}
	if address != "" {
		params.Set("addresses", address)
	}
	requestURL := g.baseURL + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 250 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), "screening list query cancelled")
			}
		}

		hits, retryable, err := g.doQuery(ctx, requestURL)
		if err == nil {
			return hits, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		g.logger.Warn("Screening list query failed, retrying", map[string]interface{}{
			"attempt": attempt + 1,
			"error":   err.Error(),
		})
	}

	return nil, errors.Wrap(lastErr, errors.ErrGatewayUnavailable.Error())
}

func (g *TradeGovGateway) doQuery(ctx context.Context, requestURL string) (hits []RawListHit, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("consolidated screening list returned status %d", resp.StatusCode)
		return nil, resp.StatusCode >= 500, err
	}

	var payload cslResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, false, errors.Wrap(err, errors.ErrMalformedResponse.Error())
	}

	return payload.Results, false, nil
}
