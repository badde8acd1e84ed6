package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v7/finance/quote"

// Client fetches last-traded prices from the Yahoo Finance quote API
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new quote client. An empty baseURL selects the
// public Yahoo endpoint.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "quotes").Logger(),
	}
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol             string   `json:"symbol"`
			RegularMarketPrice *float64 `json:"regularMarketPrice"`
			CurrentPrice       *float64 `json:"currentPrice"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"quoteResponse"`
}

// FetchPrices fetches quotes for the given symbols in one batch call.
// Symbols the API does not know are simply absent from the result map.
func (c *Client) FetchPrices(ctx context.Context, symbols []string) (map[string]float64, error) {
	if len(symbols) == 0 {
		return map[string]float64{}, nil
	}

	params := url.Values{}
	params.Add("symbols", strings.Join(symbols, ","))
	params.Add("fields", "symbol,regularMarketPrice,currentPrice")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; wealthlens/1.0)")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("quote API returned %d: %s", resp.StatusCode, string(body))
	}

	var decoded quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}

	prices := make(map[string]float64, len(decoded.QuoteResponse.Result))
	for _, r := range decoded.QuoteResponse.Result {
		price := 0.0
		if r.CurrentPrice != nil && *r.CurrentPrice > 0 {
			price = *r.CurrentPrice
		} else if r.RegularMarketPrice != nil && *r.RegularMarketPrice > 0 {
			price = *r.RegularMarketPrice
		}
		if price > 0 {
			prices[strings.ToUpper(r.Symbol)] = price
		}
	}

	c.log.Debug().Int("requested", len(symbols)).Int("quoted", len(prices)).Msg("Fetched quotes")

	return prices, nil
}

// FetchPrice fetches one symbol with retry and exponential backoff
func (c *Client) FetchPrice(ctx context.Context, symbol string, maxRetries int) (float64, error) {
	if maxRetries == 0 {
		maxRetries = 3
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		prices, err := c.FetchPrices(ctx, []string{symbol})
		if err == nil {
			if price, ok := prices[strings.ToUpper(symbol)]; ok {
				return price, nil
			}
			err = fmt.Errorf("no quote for %s", symbol)
		}

		lastErr = err
		if attempt < maxRetries-1 {
			wait := time.Duration(1<<uint(attempt)) * time.Second
			c.log.Warn().Err(err).Str("symbol", symbol).
				Int("attempt", attempt+1).Dur("wait", wait).Msg("Quote failed, retrying")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}
	}

	return 0, fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}
