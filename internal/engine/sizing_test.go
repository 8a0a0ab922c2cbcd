package engine

import (
	"context"
	"errors"
	"testing"

	"crypto-dca-bot-go/internal/models"
	"crypto-dca-bot-go/internal/oracle"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupSizing(t *testing.T) (*SizingEngine, *PriceHistory, *MockOracle) {
	db := setupTestDB(t)
	history := NewPriceHistory(db)
	mockOracle := new(MockOracle)
	return NewSizingEngine(mockOracle, history, zap.NewNop()), history, mockOracle
}

// seedHistory pre-loads the asset window with fixed prices.
func seedHistory(t *testing.T, history *PriceHistory, asset models.Asset, prices ...float64) {
	for i, p := range prices {
		assert.NoError(t, history.Record(asset, p, int64(1700000000+i)))
	}
}

func TestRecommendInsufficientHistory(t *testing.T) {
	sizing, history, mockOracle := setupSizing(t)
	seedHistory(t, history, models.AssetBTC, 100)
	mockOracle.On("FetchPrice", models.AssetBTC).Return(quote(models.AssetBTC, 100), nil)

	rec, err := sizing.Recommend(context.Background(), models.AssetBTC, 5000)

	assert.NoError(t, err)
	assert.Equal(t, ActionBuyNow, rec.Action)
	assert.Equal(t, 0.6, rec.Confidence)
	assert.Equal(t, 1.0, rec.Multiplier)
	assert.Equal(t, "insufficient history", rec.Reason)
	assert.Equal(t, int64(5000), rec.AdjustedCents)
}

func TestRecommendBuyMoreOnDowntrend(t *testing.T) {
	sizing, history, mockOracle := setupSizing(t)
	// Window becomes [110 110 110 90], sma 105, trend ~ -0.143.
	seedHistory(t, history, models.AssetBTC, 110, 110, 110)
	mockOracle.On("FetchPrice", models.AssetBTC).Return(quote(models.AssetBTC, 90), nil)

	rec, err := sizing.Recommend(context.Background(), models.AssetBTC, 5000)

	assert.NoError(t, err)
	assert.Equal(t, ActionBuyMore, rec.Action)
	assert.Equal(t, 0.85, rec.Confidence)
	assert.Equal(t, 1.25, rec.Multiplier)
	assert.Equal(t, int64(6250), rec.AdjustedCents)
	assert.Less(t, rec.Trend, buyMoreTrendThreshold)
}

func TestRecommendBuyLessOnUptrend(t *testing.T) {
	sizing, history, mockOracle := setupSizing(t)
	// Window becomes [100 100 100 120], sma 105, trend ~ +0.143.
	// A strong uptrend classifies as buy-less, never wait.
	seedHistory(t, history, models.AssetBTC, 100, 100, 100)
	mockOracle.On("FetchPrice", models.AssetBTC).Return(quote(models.AssetBTC, 120), nil)

	rec, err := sizing.Recommend(context.Background(), models.AssetBTC, 5000)

	assert.NoError(t, err)
	assert.Equal(t, ActionBuyLess, rec.Action)
	assert.NotEqual(t, ActionWait, rec.Action)
	assert.Equal(t, 0.75, rec.Confidence)
	assert.Equal(t, 0.75, rec.Multiplier)
	assert.Equal(t, int64(3750), rec.AdjustedCents)
	assert.Greater(t, rec.Trend, buyLessTrendThreshold)
}

func TestRecommendBuyNowOnFlatTrend(t *testing.T) {
	sizing, history, mockOracle := setupSizing(t)
	seedHistory(t, history, models.AssetBTC, 100, 100, 100)
	mockOracle.On("FetchPrice", models.AssetBTC).Return(quote(models.AssetBTC, 100), nil)

	rec, err := sizing.Recommend(context.Background(), models.AssetBTC, 5000)

	assert.NoError(t, err)
	assert.Equal(t, ActionBuyNow, rec.Action)
	assert.Equal(t, 0.8, rec.Confidence)
	assert.Equal(t, 1.0, rec.Multiplier)
	assert.Equal(t, int64(5000), rec.AdjustedCents)
	assert.InDelta(t, 0, rec.Trend, 1e-9)
}

func TestRecommendRecordsSample(t *testing.T) {
	sizing, history, mockOracle := setupSizing(t)
	mockOracle.On("FetchPrice", models.AssetETH).Return(quote(models.AssetETH, 3500), nil)

	_, err := sizing.Recommend(context.Background(), models.AssetETH, 1000)
	assert.NoError(t, err)

	samples, err := history.Samples(models.AssetETH)
	assert.NoError(t, err)
	assert.Len(t, samples, 1)
	assert.Equal(t, 3500.0, samples[0].Price)
}

func TestRecommendFallsBackWhenOracleFails(t *testing.T) {
	sizing, _, mockOracle := setupSizing(t)
	mockOracle.On("FetchPrice", models.AssetBTC).Return(oracle.Quote{}, errors.New("feed down"))

	rec, err := sizing.Recommend(context.Background(), models.AssetBTC, 5000)

	assert.NoError(t, err)
	fallback, ok := oracle.DefaultPrice(models.AssetBTC)
	assert.True(t, ok)
	assert.Equal(t, fallback, rec.Price)
	assert.Equal(t, ActionBuyNow, rec.Action)
}
