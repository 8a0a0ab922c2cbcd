package models

import "gorm.io/gorm"

// MinAmountCents is the smallest per-execution budget a strategy may carry.
const MinAmountCents int64 = 100

// Strategy is a recurring budget-based purchase plan for a single asset.
// Owner is immutable after creation; NextExecutionAt only ever moves forward.
type Strategy struct {
	gorm.Model
	Owner           string        `gorm:"index;not null" json:"owner"`
	Asset           Asset         `gorm:"not null" json:"asset"`
	AmountCents     int64         `gorm:"not null" json:"amount_cents"`
	IntervalSeconds int64         `gorm:"not null" json:"interval_seconds"`
	ConditionType   ConditionType `gorm:"default:none" json:"condition_type"`
	ConditionValue  float64       `json:"condition_value"`
	NextExecutionAt int64         `gorm:"index" json:"next_execution_at"`
	Active          bool          `gorm:"default:true" json:"active"`
	ExecutionCount  int64         `gorm:"default:0" json:"execution_count"`
}

// Condition reassembles the strategy's trigger gate from its stored columns.
func (s *Strategy) Condition() TriggerCondition {
	if s.ConditionType == "" {
		return NoCondition()
	}
	return TriggerCondition{Type: s.ConditionType, Value: s.ConditionValue}
}
