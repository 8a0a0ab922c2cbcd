package engine

import (
	"context"
	"math"
	"time"

	"crypto-dca-bot-go/internal/models"
	"crypto-dca-bot-go/internal/oracle"
	"go.uber.org/zap"
)

// Action is the sizing engine's verdict for a purchase slot.
type Action string

const (
	ActionBuyNow  Action = "buy_now"
	ActionBuyMore Action = "buy_more"
	ActionBuyLess Action = "buy_less"
	// ActionWait is part of the decision vocabulary but is never produced
	// by the current table: any trend above the buy-less threshold matches
	// buy-less first. The coordinator still honors it if it ever appears.
	ActionWait Action = "wait"
)

// Sizing thresholds against the trend value (live vs. window average).
const (
	buyMoreTrendThreshold = -0.05
	buyLessTrendThreshold = 0.08
)

// Recommendation is a trend-adjusted purchase size for one slot.
type Recommendation struct {
	Action        Action  `json:"action"`
	Confidence    float64 `json:"confidence"`
	Multiplier    float64 `json:"multiplier"`
	Reason        string  `json:"reason"`
	Price         float64 `json:"price"`          // live price observed for this recommendation
	Trend         float64 `json:"trend"`          // (price - sma) / sma
	AdjustedCents int64   `json:"adjusted_cents"` // round(base * multiplier)
}

// SizingEngine maintains the price window and computes trend-adjusted
// purchase amounts.
type SizingEngine struct {
	oracle  oracle.PriceOracle
	history *PriceHistory
	logger  *zap.Logger
}

// NewSizingEngine creates a SizingEngine.
func NewSizingEngine(po oracle.PriceOracle, history *PriceHistory, logger *zap.Logger) *SizingEngine {
	return &SizingEngine{oracle: po, history: history, logger: logger}
}

// Recommend fetches a fresh price for the asset, records it into the
// window and sizes the purchase against the window average.
func (s *SizingEngine) Recommend(ctx context.Context, asset models.Asset, baseCents int64) (Recommendation, error) {
	price, err := fetchPriceWithFallback(ctx, s.oracle, asset, s.logger)
	if err != nil {
		return Recommendation{}, err
	}

	if err := s.history.Record(asset, price, time.Now().Unix()); err != nil {
		return Recommendation{}, err
	}

	samples, err := s.history.Samples(asset)
	if err != nil {
		return Recommendation{}, err
	}

	sma := mean(samples)
	trend := 0.0
	if len(samples) >= 2 && sma != 0 {
		trend = (price - sma) / sma
	}

	rec := Recommendation{Price: price, Trend: trend}
	switch {
	case len(samples) < minSamplesForTrend:
		rec.Action = ActionBuyNow
		rec.Confidence = 0.6
		rec.Multiplier = 1.0
		rec.Reason = "insufficient history"
	case trend < buyMoreTrendThreshold:
		rec.Action = ActionBuyMore
		rec.Confidence = 0.85
		rec.Multiplier = 1.25
		rec.Reason = "price below average"
	case trend > buyLessTrendThreshold:
		rec.Action = ActionBuyLess
		rec.Confidence = 0.75
		rec.Multiplier = 0.75
		rec.Reason = "price above average"
	default:
		rec.Action = ActionBuyNow
		rec.Confidence = 0.8
		rec.Multiplier = 1.0
		rec.Reason = "price near average"
	}
	rec.AdjustedCents = int64(math.Round(float64(baseCents) * rec.Multiplier))

	s.logger.Debug("Sizing recommendation",
		zap.String("asset", string(asset)),
		zap.String("action", string(rec.Action)),
		zap.Float64("trend", trend),
		zap.Int64("base_cents", baseCents),
		zap.Int64("adjusted_cents", rec.AdjustedCents),
	)
	return rec, nil
}
