package oracle

import (
	"context"

	"crypto-dca-bot-go/internal/models"
)

// Quote is one observed USD price for an asset.
type Quote struct {
	Asset     models.Asset `json:"asset"`
	PriceUSD  float64      `json:"price_usd"`
	Timestamp int64        `json:"timestamp"`
}

// PriceOracle provides the current USD price per unit of an asset.
type PriceOracle interface {
	FetchPrice(ctx context.Context, asset models.Asset) (Quote, error)
}

// defaultPrices is the static fallback table used when the live feed is
// unreachable. Every supported asset must have an entry.
var defaultPrices = map[models.Asset]float64{
	models.AssetBTC: 97000,
	models.AssetETH: 3500,
	models.AssetICP: 12,
}

// DefaultPrice returns the static fallback USD price for an asset.
func DefaultPrice(asset models.Asset) (float64, bool) {
	price, ok := defaultPrices[asset]
	return price, ok
}
