package engine

import "crypto-dca-bot-go/internal/models"

// minSamplesForTrend is the smallest window that trend-relative decisions
// are allowed to draw conclusions from. Below it, relative conditions
// pass and sizing stays neutral.
const minSamplesForTrend = 3

// EvaluateTrigger decides whether a strategy's optional price condition
// currently holds given the live price and the asset's sample window.
func EvaluateTrigger(cond models.TriggerCondition, livePrice float64, samples []models.PriceSample) bool {
	switch cond.Type {
	case "", models.ConditionNone:
		return true
	case models.ConditionPriceBelow:
		return livePrice < cond.Value
	case models.ConditionPriceAbove:
		return livePrice > cond.Value
	case models.ConditionPriceDropPercent:
		if len(samples) < minSamplesForTrend {
			return true // insufficient data, proceed
		}
		sma := mean(samples)
		if sma == 0 {
			return true
		}
		drop := (sma - livePrice) / sma * 100
		return drop >= cond.Value
	case models.ConditionPriceBelowAverage:
		if len(samples) < minSamplesForTrend {
			return true
		}
		sma := mean(samples)
		return livePrice < sma*(1-cond.Value/100)
	}
	// Unknown condition types never block execution; creation validates
	// them so this is unreachable through the public API.
	return true
}
