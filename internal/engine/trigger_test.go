package engine

import (
	"testing"

	"crypto-dca-bot-go/internal/models"
	"github.com/stretchr/testify/assert"
)

func samplesAt(prices ...float64) []models.PriceSample {
	samples := make([]models.PriceSample, 0, len(prices))
	for i, p := range prices {
		samples = append(samples, models.PriceSample{Asset: models.AssetBTC, Price: p, Timestamp: int64(1700000000 + i)})
	}
	return samples
}

func TestEvaluateTriggerNone(t *testing.T) {
	assert.True(t, EvaluateTrigger(models.NoCondition(), 100, nil))
	assert.True(t, EvaluateTrigger(models.TriggerCondition{}, 100, nil))
}

func TestEvaluateTriggerPriceBelow(t *testing.T) {
	cond := models.TriggerCondition{Type: models.ConditionPriceBelow, Value: 100}
	assert.True(t, EvaluateTrigger(cond, 99, nil))
	assert.False(t, EvaluateTrigger(cond, 100, nil)) // strict comparison
	assert.False(t, EvaluateTrigger(cond, 101, nil))
}

func TestEvaluateTriggerPriceAbove(t *testing.T) {
	cond := models.TriggerCondition{Type: models.ConditionPriceAbove, Value: 100}
	assert.True(t, EvaluateTrigger(cond, 101, nil))
	assert.False(t, EvaluateTrigger(cond, 100, nil))
	assert.False(t, EvaluateTrigger(cond, 99, nil))
}

func TestEvaluateTriggerInsufficientSamples(t *testing.T) {
	// Fewer than 3 samples: relative conditions pass regardless of threshold.
	drop := models.TriggerCondition{Type: models.ConditionPriceDropPercent, Value: 99}
	below := models.TriggerCondition{Type: models.ConditionPriceBelowAverage, Value: 99}

	assert.True(t, EvaluateTrigger(drop, 1000000, nil))
	assert.True(t, EvaluateTrigger(drop, 1000000, samplesAt(100, 100)))
	assert.True(t, EvaluateTrigger(below, 1000000, samplesAt(100, 100)))
}

func TestEvaluateTriggerPriceDropPercent(t *testing.T) {
	cond := models.TriggerCondition{Type: models.ConditionPriceDropPercent, Value: 10}
	history := samplesAt(100, 100, 100) // sma = 100

	assert.True(t, EvaluateTrigger(cond, 90, history))  // exactly 10% drop
	assert.True(t, EvaluateTrigger(cond, 85, history))  // deeper drop
	assert.False(t, EvaluateTrigger(cond, 91, history)) // 9% drop, not enough
	assert.False(t, EvaluateTrigger(cond, 110, history))
}

func TestEvaluateTriggerPriceBelowAverage(t *testing.T) {
	cond := models.TriggerCondition{Type: models.ConditionPriceBelowAverage, Value: 5}
	history := samplesAt(100, 100, 100) // sma = 100, threshold price = 95

	assert.True(t, EvaluateTrigger(cond, 94, history))
	assert.False(t, EvaluateTrigger(cond, 95, history))
	assert.False(t, EvaluateTrigger(cond, 96, history))
}
