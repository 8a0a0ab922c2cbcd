package engine

import (
	"context"
	"fmt"

	"crypto-dca-bot-go/internal/models"
	"crypto-dca-bot-go/internal/oracle"
	"go.uber.org/zap"
)

// fetchPriceWithFallback asks the oracle for a live price and falls back to
// the static default table when the fetch fails. Failure is surfaced only
// when no fallback exists for the asset.
func fetchPriceWithFallback(ctx context.Context, po oracle.PriceOracle, asset models.Asset, logger *zap.Logger) (float64, error) {
	quote, err := po.FetchPrice(ctx, asset)
	if err == nil {
		return quote.PriceUSD, nil
	}

	fallback, ok := oracle.DefaultPrice(asset)
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}

	logger.Warn("Price fetch failed, using fallback price",
		zap.String("asset", string(asset)),
		zap.Float64("fallback_price", fallback),
		zap.Error(err),
	)
	return fallback, nil
}
