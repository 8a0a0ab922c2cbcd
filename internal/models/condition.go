package models

import "fmt"

// ConditionType enumerates the supported price-based trigger gates.
type ConditionType string

const (
	ConditionNone              ConditionType = "none"
	ConditionPriceBelow        ConditionType = "price_below"
	ConditionPriceAbove        ConditionType = "price_above"
	ConditionPriceDropPercent  ConditionType = "price_drop_percent"
	ConditionPriceBelowAverage ConditionType = "price_below_average"
)

// TriggerCondition is an optional gate evaluated before a due strategy
// is allowed to execute. Value is a price for the absolute conditions and
// a percentage for the relative ones; it is ignored for ConditionNone.
type TriggerCondition struct {
	Type  ConditionType `json:"type"`
	Value float64       `json:"value,omitempty"`
}

// NoCondition returns the always-true trigger.
func NoCondition() TriggerCondition {
	return TriggerCondition{Type: ConditionNone}
}

// Validate checks the condition type is known.
func (c TriggerCondition) Validate() error {
	switch c.Type {
	case ConditionNone, ConditionPriceBelow, ConditionPriceAbove,
		ConditionPriceDropPercent, ConditionPriceBelowAverage:
		return nil
	case "":
		return nil // treated as ConditionNone
	}
	return fmt.Errorf("unknown trigger condition type %q", c.Type)
}
