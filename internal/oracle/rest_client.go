package oracle

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"crypto-dca-bot-go/internal/config"
	"crypto-dca-bot-go/internal/models"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RestClient fetches spot prices from a CoinGecko-compatible price feed.
// It implements the PriceOracle interface.
type RestClient struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure RestClient implements the interface
var _ PriceOracle = (*RestClient)(nil)

// feedIDs maps asset tags to the feed's coin identifiers.
var feedIDs = map[models.Asset]string{
	models.AssetBTC: "bitcoin",
	models.AssetETH: "ethereum",
	models.AssetICP: "internet-computer",
}

// NewRestClient creates a new price feed client.
func NewRestClient(cfg *config.Oracle, logger *zap.Logger) *RestClient {
	client := resty.New().SetBaseURL(cfg.BaseURL)

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &RestClient{
		client:  client,
		logger:  logger,
		limiter: limiter,
	}
}

// FetchPrice returns the current USD price for an asset.
func (c *RestClient) FetchPrice(ctx context.Context, asset models.Asset) (Quote, error) {
	feedID, ok := feedIDs[asset]
	if !ok {
		return Quote{}, fmt.Errorf("no price feed id for asset %s", asset)
	}

	// Response shape: {"bitcoin": {"usd": 97123.45}}
	var result map[string]map[string]float64

	req := c.client.R().
		SetQueryParam("ids", feedID).
		SetQueryParam("vs_currencies", "usd").
		SetResult(&result).
		SetHeader("Content-Type", "application/json")

	if _, err := c.doRequest(ctx, "GET", "/simple/price", req); err != nil {
		return Quote{}, fmt.Errorf("failed to fetch price for %s: %w", asset, err)
	}

	price, ok := result[feedID]["usd"]
	if !ok || price <= 0 {
		return Quote{}, fmt.Errorf("price feed returned no usd quote for %s", asset)
	}

	return Quote{Asset: asset, PriceUSD: price, Timestamp: time.Now().Unix()}, nil
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *RestClient) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.SetContext(ctx).Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}

		// Analyze error and decide whether to retry
		shouldRetry := false
		var retryAfter time.Duration

		if resp != nil && resp.StatusCode() != 0 {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				retryAfterHeader := resp.Header().Get("Retry-After")
				if seconds, err := strconv.Atoi(retryAfterHeader); err == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 { // Server errors
				shouldRetry = true
			}
		} else { // Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		// If we should retry, calculate wait time
		if retryAfter == 0 {
			// Exponential backoff: 1s, 2s, 4s
			retryAfter = time.Duration(math.Pow(2, float64(i))) * time.Second
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}
